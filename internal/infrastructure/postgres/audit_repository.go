package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/practo-cms-api/internal/domain/entity"
	"github.com/jhoicas/practo-cms-api/internal/domain/repository"
	"github.com/jhoicas/practo-cms-api/internal/domain/workflow"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo registros de override de SUPER_ADMIN.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create inserta un registro de auditoría.
func (r *AuditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, actor_id, action, content_id, content_type, from_stage, to_stage, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)`
	_, err := r.q.Exec(ctx, query,
		log.ID, log.ActorID, log.Action, log.ContentID, string(log.ContentType),
		string(log.FromStage), string(log.ToStage), log.Reason, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List registros más recientes primero; contentID vacío = todos.
func (r *AuditRepo) List(ctx context.Context, contentID string, limit, offset int) ([]*entity.AuditLog, error) {
	query := `
		SELECT id, actor_id, action, content_id, content_type, from_stage, to_stage, COALESCE(reason, ''), created_at
		FROM audit_logs
		WHERE ($1 = '' OR content_id::text = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, contentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLog
	for rows.Next() {
		l, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func scanAudit(row pgx.Row) (*entity.AuditLog, error) {
	var l entity.AuditLog
	var ct, from, to string
	if err := row.Scan(&l.ID, &l.ActorID, &l.Action, &l.ContentID, &ct, &from, &to, &l.Reason, &l.CreatedAt); err != nil {
		return nil, err
	}
	l.ContentType = workflow.ContentType(ct)
	l.FromStage = workflow.Stage(from)
	l.ToStage = workflow.Stage(to)
	return &l, nil
}
