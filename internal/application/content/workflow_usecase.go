package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/practo-cms-api/internal/application/dto"
	"github.com/jhoicas/practo-cms-api/internal/domain"
	"github.com/jhoicas/practo-cms-api/internal/domain/entity"
	"github.com/jhoicas/practo-cms-api/internal/domain/rbac"
	"github.com/jhoicas/practo-cms-api/internal/domain/repository"
	"github.com/jhoicas/practo-cms-api/internal/domain/workflow"
	"github.com/jhoicas/practo-cms-api/pkg/logger"
)

// WorkflowUseCase conecta la máquina de estados con la persistencia de contenido.
// Cada movimiento: cargar etapa → autorizar → validar → UPDATE condicional sobre la etapa esperada.
type WorkflowUseCase struct {
	contentRepo repository.ContentRepository
	auditRepo   repository.AuditRepository
	tx          TxRunner
	log         *logger.Logger
	now         func() time.Time
}

// NewWorkflowUseCase construye el caso de uso.
func NewWorkflowUseCase(
	contentRepo repository.ContentRepository,
	auditRepo repository.AuditRepository,
	tx TxRunner,
	log *logger.Logger,
) *WorkflowUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &WorkflowUseCase{
		contentRepo: contentRepo,
		auditRepo:   auditRepo,
		tx:          tx,
		log:         log.Component("workflow"),
		now:         time.Now,
	}
}

// Create registra un guion o video en DRAFT. Requiere upload_script / upload_video.
func (uc *WorkflowUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateContentRequest) (*dto.ContentResponse, error) {
	ct, err := workflow.ParseContentType(in.Type)
	if err != nil {
		return nil, err
	}
	gate, err := workflow.TransitionGate(ct, workflow.InitialStage)
	if err != nil {
		return nil, err
	}
	if err := rbac.RequirePermission(actor.Role, gate.Permission); err != nil {
		return nil, err
	}
	now := uc.now()
	item := &entity.ContentItem{
		ID:        uuid.New().String(),
		Type:      ct,
		Title:     strings.TrimSpace(in.Title),
		Stage:     workflow.InitialStage,
		CreatedBy: actor.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.contentRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toContentResponse(item), nil
}

// Get obtiene un contenido por ID.
func (uc *WorkflowUseCase) Get(ctx context.Context, id string) (*dto.ContentResponse, error) {
	item, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toContentResponse(item), nil
}

// List lista contenidos filtrando opcionalmente por tipo y etapa.
func (uc *WorkflowUseCase) List(ctx context.Context, typ, stage string, page dto.PageRequest) (*dto.ContentListResponse, error) {
	page.DefaultPage()
	f := repository.ContentFilter{Limit: page.Limit, Offset: page.Offset}
	if typ != "" {
		ct, err := workflow.ParseContentType(typ)
		if err != nil {
			return nil, err
		}
		f.Type = ct
		if stage != "" {
			st, err := workflow.ParseStage(ct, stage)
			if err != nil {
				return nil, err
			}
			f.Stage = st
		}
	} else if stage != "" {
		f.Stage = workflow.Stage(strings.ToUpper(strings.TrimSpace(stage)))
	}
	items, err := uc.contentRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.ContentListResponse{
		Items: make([]dto.ContentResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, it := range items {
		out.Items = append(out.Items, *toContentResponse(it))
	}
	return out, nil
}

// Status describe dónde está el contenido y qué hace falta para avanzar.
func (uc *WorkflowUseCase) Status(ctx context.Context, id string) (*dto.WorkflowStatusResponse, error) {
	item, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	chk, err := workflow.CanAdvance(item.Type, item.Stage)
	if err != nil {
		return nil, err
	}
	stages, _ := workflow.Stages(item.Type)
	out := &dto.WorkflowStatusResponse{
		ContentID:  item.ID,
		Type:       string(item.Type),
		Stage:      string(item.Stage),
		CanAdvance: chk.Allowed,
		NextStage:  string(chk.NextStage),
		Reason:     chk.Reason,
		CanEdit:    workflow.CanEdit(item.Stage),
		Stages:     make([]string, len(stages)),
	}
	for i, s := range stages {
		out.Stages[i] = string(s)
	}
	if chk.Allowed {
		gate, err := workflow.TransitionGate(item.Type, item.Stage)
		if err != nil {
			return nil, err
		}
		out.RequiredPermission = string(gate.Permission)
		for _, r := range gate.Reviewers {
			out.Reviewers = append(out.Reviewers, string(r))
		}
	}
	return out, nil
}

// Advance mueve el contenido exactamente un paso hacia adelante.
func (uc *WorkflowUseCase) Advance(ctx context.Context, actor entity.Actor, id string, in dto.AdvanceRequest) (*dto.TransitionResponse, error) {
	item, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	gate, err := workflow.TransitionGate(item.Type, item.Stage)
	if err != nil {
		return nil, err
	}
	if err := gate.Authorize(actor.Role); err != nil {
		return nil, err
	}
	to := workflow.Stage(strings.ToUpper(strings.TrimSpace(in.ToStage)))
	if err := workflow.CheckTransition(item.Type, item.Stage, to); err != nil {
		return nil, err
	}
	return uc.move(ctx, actor, item, to)
}

// Publish publica un video en LOCKED. Requiere publish_content.
func (uc *WorkflowUseCase) Publish(ctx context.Context, actor entity.Actor, id string) (*dto.TransitionResponse, error) {
	item, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rbac.RequirePermission(actor.Role, rbac.PermPublishContent); err != nil {
		return nil, err
	}
	ok, err := workflow.CanPublish(item.Type, item.Stage)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &workflow.TransitionError{
			ContentType: item.Type,
			From:        item.Stage,
			To:          workflow.StagePublished,
			Reason:      fmt.Sprintf("solo se publica desde %s; el video está en %s", workflow.StageLocked, item.Stage),
		}
	}
	return uc.move(ctx, actor, item, workflow.StagePublished)
}

func (uc *WorkflowUseCase) move(ctx context.Context, actor entity.Actor, item *entity.ContentItem, to workflow.Stage) (*dto.TransitionResponse, error) {
	if err := uc.contentRepo.UpdateStage(ctx, item.ID, item.Stage, to); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("actor_id", actor.UserID).
		Str("role", string(actor.Role)).
		Str("content_id", item.ID).
		Str("content_type", string(item.Type)).
		Str("from", string(item.Stage)).
		Str("to", string(to)).
		Msg("etapa de workflow avanzada")
	return &dto.TransitionResponse{ContentID: item.ID, FromStage: string(item.Stage), ToStage: string(to)}, nil
}

// ForceMove override de SUPER_ADMIN: mueve contenido editable a cualquier etapa del tipo.
func (uc *WorkflowUseCase) ForceMove(ctx context.Context, actor entity.Actor, in dto.OverrideRequest) (*dto.TransitionResponse, error) {
	return uc.override(ctx, actor, workflow.OverrideForceMove, in)
}

// Unlock override de SUPER_ADMIN: saca contenido LOCKED/PUBLISHED hacia una etapa editable.
func (uc *WorkflowUseCase) Unlock(ctx context.Context, actor entity.Actor, in dto.OverrideRequest) (*dto.TransitionResponse, error) {
	return uc.override(ctx, actor, workflow.OverrideUnlock, in)
}

func (uc *WorkflowUseCase) override(ctx context.Context, actor entity.Actor, kind workflow.OverrideKind, in dto.OverrideRequest) (*dto.TransitionResponse, error) {
	if err := workflow.AuthorizeOverride(actor.Role, kind); err != nil {
		return nil, err
	}
	item, err := uc.load(ctx, in.ContentID)
	if err != nil {
		return nil, err
	}
	to, err := workflow.ParseStage(item.Type, in.ToStage)
	if err != nil {
		return nil, err
	}
	if err := workflow.ValidateOverride(kind, item.Type, item.Stage, to); err != nil {
		return nil, err
	}

	action := entity.AuditActionForceMove
	if kind == workflow.OverrideUnlock {
		action = entity.AuditActionUnlock
	}
	record := &entity.AuditLog{
		ID:          uuid.New().String(),
		ActorID:     actor.UserID,
		Action:      action,
		ContentID:   item.ID,
		ContentType: item.Type,
		FromStage:   item.Stage,
		ToStage:     to,
		Reason:      strings.TrimSpace(in.Reason),
		CreatedAt:   uc.now(),
	}
	err = uc.tx.RunOverride(ctx, func(contentRepo repository.ContentRepository, auditRepo repository.AuditRepository) error {
		if err := contentRepo.UpdateStage(ctx, item.ID, item.Stage, to); err != nil {
			return err
		}
		return auditRepo.Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("audit_id", record.ID).
		Str("action", action).
		Str("actor_id", actor.UserID).
		Str("content_id", item.ID).
		Str("content_type", string(item.Type)).
		Str("from", string(item.Stage)).
		Str("to", string(to)).
		Time("at", record.CreatedAt).
		Msg("override de workflow")
	return &dto.TransitionResponse{ContentID: item.ID, FromStage: string(item.Stage), ToStage: string(to)}, nil
}

// AuditLogs lista overrides; contentID vacío = todos. Requiere view_logs.
func (uc *WorkflowUseCase) AuditLogs(ctx context.Context, actor entity.Actor, contentID string, page dto.PageRequest) (*dto.AuditLogListResponse, error) {
	if err := rbac.RequirePermission(actor.Role, rbac.PermViewLogs); err != nil {
		return nil, err
	}
	page.DefaultPage()
	logs, err := uc.auditRepo.List(ctx, contentID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.AuditLogListResponse{
		Items: make([]dto.AuditLogResponse, 0, len(logs)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, l := range logs {
		out.Items = append(out.Items, dto.AuditLogResponse{
			ID:          l.ID,
			ActorID:     l.ActorID,
			Action:      l.Action,
			ContentID:   l.ContentID,
			ContentType: string(l.ContentType),
			FromStage:   string(l.FromStage),
			ToStage:     string(l.ToStage),
			Reason:      l.Reason,
			CreatedAt:   l.CreatedAt,
		})
	}
	return out, nil
}

func (uc *WorkflowUseCase) load(ctx context.Context, id string) (*entity.ContentItem, error) {
	item, err := uc.contentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func toContentResponse(it *entity.ContentItem) *dto.ContentResponse {
	return &dto.ContentResponse{
		ID:        it.ID,
		Type:      string(it.Type),
		Title:     it.Title,
		Stage:     string(it.Stage),
		CreatedBy: it.CreatedBy,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}
