package dto

import "time"

// CreateContentRequest registra un guion o video en DRAFT.
type CreateContentRequest struct {
	Type  string `json:"type" validate:"required,oneof=script video"`
	Title string `json:"title" validate:"required,min=1,max=255"`
}

// AdvanceRequest pide mover el contenido a la siguiente etapa.
type AdvanceRequest struct {
	ToStage string `json:"to_stage" validate:"required"`
}

// OverrideRequest override de SUPER_ADMIN (force-move / unlock).
type OverrideRequest struct {
	ContentID string `json:"content_id" validate:"required,uuid"`
	ToStage   string `json:"to_stage" validate:"required"`
	Reason    string `json:"reason" validate:"omitempty,max=500"`
}

// ContentResponse salida de un contenido.
type ContentResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Stage     string    `json:"stage"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContentListResponse lista paginada de contenidos.
type ContentListResponse struct {
	Items []ContentResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// WorkflowStatusResponse estado del contenido dentro de su workflow.
type WorkflowStatusResponse struct {
	ContentID          string   `json:"content_id"`
	Type               string   `json:"type"`
	Stage              string   `json:"stage"`
	CanAdvance         bool     `json:"can_advance"`
	NextStage          string   `json:"next_stage,omitempty"`
	Reason             string   `json:"reason,omitempty"`
	CanEdit            bool     `json:"can_edit"`
	RequiredPermission string   `json:"required_permission,omitempty"`
	Reviewers          []string `json:"reviewers,omitempty"`
	Stages             []string `json:"stages"`
}

// TransitionResponse resultado de un movimiento de etapa.
type TransitionResponse struct {
	ContentID string `json:"content_id"`
	FromStage string `json:"from_stage"`
	ToStage   string `json:"to_stage"`
}

// AuditLogResponse registro de override.
type AuditLogResponse struct {
	ID          string    `json:"id"`
	ActorID     string    `json:"actor_id"`
	Action      string    `json:"action"`
	ContentID   string    `json:"content_id"`
	ContentType string    `json:"content_type"`
	FromStage   string    `json:"from_stage"`
	ToStage     string    `json:"to_stage"`
	Reason      string    `json:"reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuditLogListResponse lista paginada de auditoría.
type AuditLogListResponse struct {
	Items []AuditLogResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// RolePermissionsResponse tabla rol → permisos.
type RolePermissionsResponse struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}
