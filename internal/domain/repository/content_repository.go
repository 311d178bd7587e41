package repository

import (
	"context"

	"github.com/jhoicas/practo-cms-api/internal/domain/entity"
	"github.com/jhoicas/practo-cms-api/internal/domain/workflow"
)

// ContentFilter filtros opcionales para listar contenido.
type ContentFilter struct {
	Type   workflow.ContentType
	Stage  workflow.Stage
	Limit  int
	Offset int
}

// ContentRepository puerto de persistencia para la etapa de cada contenido.
type ContentRepository interface {
	Create(ctx context.Context, item *entity.ContentItem) error
	GetByID(ctx context.Context, id string) (*entity.ContentItem, error)
	List(ctx context.Context, f ContentFilter) ([]*entity.ContentItem, error)
	// UpdateStage mueve la etapa solo si sigue siendo expected (UPDATE condicional).
	// Devuelve domain.ErrStageConflict si otra petición la cambió antes.
	UpdateStage(ctx context.Context, id string, expected, next workflow.Stage) error
}

// AuditRepository puerto para los registros de override.
type AuditRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	List(ctx context.Context, contentID string, limit, offset int) ([]*entity.AuditLog, error)
}
