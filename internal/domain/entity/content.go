package entity

import (
	"time"

	"github.com/jhoicas/practo-cms-api/internal/domain/workflow"
)

// ContentItem registro mínimo de un guion o video dentro del workflow.
// El archivo en sí no se guarda aquí; solo la etapa y sus metadatos.
type ContentItem struct {
	ID        string
	Type      workflow.ContentType
	Title     string
	Stage     workflow.Stage
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Acciones registradas en audit_logs.
const (
	AuditActionForceMove = "FORCE_MOVE_WORKFLOW"
	AuditActionUnlock    = "UNLOCK_CONTENT"
)

// AuditLog registro de un override de SUPER_ADMIN.
type AuditLog struct {
	ID          string
	ActorID     string
	Action      string
	ContentID   string
	ContentType workflow.ContentType
	FromStage   workflow.Stage
	ToStage     workflow.Stage
	Reason      string
	CreatedAt   time.Time
}
