package content

import (
	"context"

	"github.com/jhoicas/practo-cms-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Los overrides mueven la etapa y escriben auditoría de forma atómica.
type TxRunner interface {
	RunOverride(ctx context.Context, fn func(
		contentRepo repository.ContentRepository,
		auditRepo repository.AuditRepository,
	) error) error
}
