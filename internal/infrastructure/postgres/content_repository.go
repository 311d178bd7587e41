package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/practo-cms-api/internal/domain"
	"github.com/jhoicas/practo-cms-api/internal/domain/entity"
	"github.com/jhoicas/practo-cms-api/internal/domain/repository"
	"github.com/jhoicas/practo-cms-api/internal/domain/workflow"
)

var _ repository.ContentRepository = (*ContentRepo)(nil)

const contentColumns = `id, type, title, stage, created_by, created_at, updated_at`

// ContentRepo implementación sobre PostgreSQL (usable con pool o tx).
type ContentRepo struct {
	q Querier
}

// NewContentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContentRepository(q Querier) *ContentRepo {
	return &ContentRepo{q: q}
}

// Create persiste un contenido nuevo.
func (r *ContentRepo) Create(ctx context.Context, item *entity.ContentItem) error {
	query := `
		INSERT INTO content_items (` + contentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		item.ID, string(item.Type), item.Title, string(item.Stage), item.CreatedBy, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	return nil
}

// GetByID obtiene un contenido. (nil, nil) si no existe.
func (r *ContentRepo) GetByID(ctx context.Context, id string) (*entity.ContentItem, error) {
	it, err := scanContent(r.q.QueryRow(ctx, `SELECT `+contentColumns+` FROM content_items WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get content by id: %w", err)
	}
	return it, nil
}

// List lista contenidos con filtros opcionales de tipo y etapa.
func (r *ContentRepo) List(ctx context.Context, f repository.ContentFilter) ([]*entity.ContentItem, error) {
	var (
		where []string
		args  []any
	)
	if f.Type != "" {
		args = append(args, string(f.Type))
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.Stage != "" {
		args = append(args, string(f.Stage))
		where = append(where, fmt.Sprintf("stage = $%d", len(args)))
	}
	query := `SELECT ` + contentColumns + ` FROM content_items`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(` ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()
	var list []*entity.ContentItem
	for rows.Next() {
		it, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// UpdateStage UPDATE condicional sobre la etapa esperada: dos aprobaciones concurrentes
// no pueden avanzar la misma etapa dos veces.
func (r *ContentRepo) UpdateStage(ctx context.Context, id string, expected, next workflow.Stage) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE content_items SET stage = $3, updated_at = now() WHERE id = $1 AND stage = $2`,
		id, string(expected), string(next))
	if err != nil {
		return fmt.Errorf("update content stage: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM content_items WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check content %s: %w", id, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrStageConflict
}

func scanContent(row pgx.Row) (*entity.ContentItem, error) {
	var it entity.ContentItem
	var typ, stage string
	if err := row.Scan(&it.ID, &typ, &it.Title, &stage, &it.CreatedBy, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Type = workflow.ContentType(typ)
	it.Stage = workflow.Stage(stage)
	return &it, nil
}
