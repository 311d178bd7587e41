package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/practo-cms-api/internal/application/dto"
	"github.com/jhoicas/practo-cms-api/internal/domain"
	"github.com/jhoicas/practo-cms-api/internal/domain/entity"
	"github.com/jhoicas/practo-cms-api/internal/domain/rbac"
	"github.com/jhoicas/practo-cms-api/internal/domain/repository"
	"github.com/jhoicas/practo-cms-api/internal/domain/workflow"
	"github.com/jhoicas/practo-cms-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Mocks
// ──────────────────────────────────────────────────────────────────────────────

type mockContentRepo struct{ mock.Mock }

func (m *mockContentRepo) Create(ctx context.Context, it *entity.ContentItem) error {
	return m.Called(ctx, it).Error(0)
}

func (m *mockContentRepo) GetByID(ctx context.Context, id string) (*entity.ContentItem, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(*entity.ContentItem)
	return it, args.Error(1)
}

func (m *mockContentRepo) List(ctx context.Context, f repository.ContentFilter) ([]*entity.ContentItem, error) {
	args := m.Called(ctx, f)
	its, _ := args.Get(0).([]*entity.ContentItem)
	return its, args.Error(1)
}

func (m *mockContentRepo) UpdateStage(ctx context.Context, id string, expected, next workflow.Stage) error {
	return m.Called(ctx, id, expected, next).Error(0)
}

type mockAuditRepo struct{ mock.Mock }

func (m *mockAuditRepo) Create(ctx context.Context, l *entity.AuditLog) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockAuditRepo) List(ctx context.Context, contentID string, limit, offset int) ([]*entity.AuditLog, error) {
	args := m.Called(ctx, contentID, limit, offset)
	ls, _ := args.Get(0).([]*entity.AuditLog)
	return ls, args.Error(1)
}

// passThroughTx ejecuta fn con los mismos repos; cuenta las transacciones abiertas.
type passThroughTx struct {
	content repository.ContentRepository
	audit   repository.AuditRepository
	runs    int
}

func (t *passThroughTx) RunOverride(_ context.Context, fn func(repository.ContentRepository, repository.AuditRepository) error) error {
	t.runs++
	return fn(t.content, t.audit)
}

func newUseCase() (*WorkflowUseCase, *mockContentRepo, *mockAuditRepo, *passThroughTx) {
	c, a := &mockContentRepo{}, &mockAuditRepo{}
	tx := &passThroughTx{content: c, audit: a}
	return NewWorkflowUseCase(c, a, tx, logger.Nop()), c, a, tx
}

func actor(role rbac.Role) entity.Actor {
	return entity.Actor{UserID: "user-" + string(role), Role: role}
}

func item(ct workflow.ContentType, stage workflow.Stage) *entity.ContentItem {
	return &entity.ContentItem{ID: "c-1", Type: ct, Title: "Asma", Stage: stage}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestWorkflow_Create_EmpiezaEnDraft(t *testing.T) {
	uc, repo, _, _ := newUseCase()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(it *entity.ContentItem) bool {
		return it.Stage == workflow.StageDraft && it.Type == workflow.ContentVideo && it.CreatedBy == "user-AGENCY_POC"
	})).Return(nil)

	out, err := uc.Create(context.Background(), actor(rbac.RoleAgencyPOC), dto.CreateContentRequest{Type: "Video", Title: " Diabetes "})

	require.NoError(t, err)
	assert.Equal(t, "DRAFT", out.Stage)
	assert.Equal(t, "Diabetes", out.Title)
	repo.AssertExpectations(t)
}

func TestWorkflow_Create_SinPermisoDeCarga(t *testing.T) {
	uc, repo, _, _ := newUseCase()

	_, err := uc.Create(context.Background(), actor(rbac.RoleMedicalReviewer), dto.CreateContentRequest{Type: "script", Title: "x"})

	var fe *rbac.ForbiddenError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, rbac.PermUploadScript, fe.Permission)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWorkflow_Create_TipoInvalido(t *testing.T) {
	uc, _, _, _ := newUseCase()
	_, err := uc.Create(context.Background(), actor(rbac.RoleAgencyPOC), dto.CreateContentRequest{Type: "podcast", Title: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidContentType)
}

// ──────────────────────────────────────────────────────────────────────────────
// Advance
// ──────────────────────────────────────────────────────────────────────────────

func TestWorkflow_Advance_PasoSiguiente(t *testing.T) {
	uc, repo, _, _ := newUseCase()
	repo.On("GetByID", mock.Anything, "c-1").Return(item(workflow.ContentScript, workflow.StageMedical), nil)
	repo.On("UpdateStage", mock.Anything, "c-1", workflow.StageMedical, workflow.StageBrand).Return(nil)

	out, err := uc.Advance(context.Background(), actor(rbac.RoleMedicalReviewer), "c-1", dto.AdvanceRequest{ToStage: "brand"})

	require.NoError(t, err)
	assert.Equal(t, "MEDICAL", out.FromStage)
	assert.Equal(t, "BRAND", out.ToStage)
	repo.AssertExpectations(t)
}

func TestWorkflow_Advance_SaltoRechazado(t *testing.T) {
	uc, repo, _, _ := newUseCase()
	repo.On("GetByID", mock.Anything, "c-1").Return(item(workflow.ContentScript, workflow.StageMedical), nil)

	_, err := uc.Advance(context.Background(), actor(rbac.RoleMedicalReviewer), "c-1", dto.AdvanceRequest{ToStage: "LOCKED"})

	var te *workflow.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, workflow.StageBrand, te.Expected)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	repo.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkflow_Advance_RevisorDeOtraEtapa(t *testing.T) {
	uc, repo, _, _ := newUseCase()
	repo.On("GetByID", mock.Anything, "c-1").Return(item(workflow.ContentVideo, workflow.StageBrand), nil)

	_, err := uc.Advance(context.Background(), actor(rbac.RoleDoctorCreator), "c-1", dto.AdvanceRequest{ToStage: "MEDICAL"})

	var re *workflow.ReviewerError
	require.True(t, errors.As(err, &re))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestWorkflow_Advance_ConflictoConcurrente(t *testing.T) {
	uc, repo, _, _ := newUseCase()
	repo.On("GetByID", mock.Anything, "c-1").Return(item(workflow.ContentScript, workflow.StageDoctor), nil)
	repo.On("UpdateStage", mock.Anything, "c-1", workflow.StageDoctor, workflow.StageLocked).Return(domain.ErrStageConflict)

	_, err := uc.Advance(context.Background(), actor(rbac.RoleContentApprover), "c-1", dto.AdvanceRequest{ToStage: "LOCKED"})

	assert.ErrorIs(t, err, domain.ErrStageConflict)
}

func TestWorkflow_Advance_EtapaFinal(t *testing.T) {
	uc, repo, _, _ := newUseCase()
	repo.On("GetByID", mock.Anything, "c-1").Return(item(workflow.ContentVideo, workflow.StagePublished), nil)

	_, err := uc.Advance(context.Background(), actor(rbac.RolePublisher), "c-1", dto.AdvanceRequest{ToStage: "LOCKED"})

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestWorkflow_Advance_NoExiste(t *testing.T) {
	uc, repo, _, _ := newUseCase()
	repo.On("GetByID", mock.Anything, "c-404").Return(nil, nil)

	_, err := uc.Advance(context.Background(), actor(rbac.RoleMedicalReviewer), "c-404", dto.AdvanceRequest{ToStage: "BRAND"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Publish
// ──────────────────────────────────────────────────────────────────────────────

func TestWorkflow_Publish(t *testing.T) {
	uc, repo, _, _ := newUseCase()
	repo.On("GetByID", mock.Anything, "c-1").Return(item(workflow.ContentVideo, workflow.StageLocked), nil)
	repo.On("UpdateStage", mock.Anything, "c-1", workflow.StageLocked, workflow.StagePublished).Return(nil)

	out, err := uc.Publish(context.Background(), actor(rbac.RolePublisher), "c-1")

	require.NoError(t, err)
	assert.Equal(t, "PUBLISHED", out.ToStage)
}

func TestWorkflow_Publish_GuionNoSePublica(t *testing.T) {
	uc, repo, _, _ := newUseCase()
	repo.On("GetByID", mock.Anything, "c-1").Return(item(workflow.ContentScript, workflow.StageLocked), nil)

	_, err := uc.Publish(context.Background(), actor(rbac.RolePublisher), "c-1")
	assert.ErrorIs(t, err, domain.ErrInvalidContentType)
}

func TestWorkflow_Publish_VideoSinBloquear(t *testing.T) {
	uc, repo, _, _ := newUseCase()
	repo.On("GetByID", mock.Anything, "c-1").Return(item(workflow.ContentVideo, workflow.StageDoctor), nil)

	_, err := uc.Publish(context.Background(), actor(rbac.RolePublisher), "c-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	repo.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkflow_Publish_SinPermiso(t *testing.T) {
	uc, repo, _, _ := newUseCase()
	repo.On("GetByID", mock.Anything, "c-1").Return(item(workflow.ContentVideo, workflow.StageLocked), nil)

	_, err := uc.Publish(context.Background(), actor(rbac.RoleContentApprover), "c-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Overrides
// ──────────────────────────────────────────────────────────────────────────────

func TestWorkflow_ForceMove_AuditaEnLaMismaTransaccion(t *testing.T) {
	uc, repo, audit, tx := newUseCase()
	repo.On("GetByID", mock.Anything, "c-1").Return(item(workflow.ContentScript, workflow.StageBrand), nil)
	repo.On("UpdateStage", mock.Anything, "c-1", workflow.StageBrand, workflow.StageDraft).Return(nil)
	audit.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.AuditLog) bool {
		return l.Action == entity.AuditActionForceMove &&
			l.ActorID == "user-SUPER_ADMIN" &&
			l.FromStage == workflow.StageBrand && l.ToStage == workflow.StageDraft &&
			l.Reason == "revisión de referencias"
	})).Return(nil)

	out, err := uc.ForceMove(context.Background(), actor(rbac.RoleSuperAdmin), dto.OverrideRequest{
		ContentID: "c-1", ToStage: "draft", Reason: " revisión de referencias ",
	})

	require.NoError(t, err)
	assert.Equal(t, "DRAFT", out.ToStage)
	assert.Equal(t, 1, tx.runs)
	repo.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestWorkflow_ForceMove_SoloSuperAdmin(t *testing.T) {
	uc, repo, _, tx := newUseCase()

	_, err := uc.ForceMove(context.Background(), actor(rbac.RoleContentApprover), dto.OverrideRequest{ContentID: "c-1", ToStage: "DRAFT"})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	assert.Zero(t, tx.runs)
}

func TestWorkflow_Unlock_DesdePublicado(t *testing.T) {
	uc, repo, audit, _ := newUseCase()
	repo.On("GetByID", mock.Anything, "c-1").Return(item(workflow.ContentVideo, workflow.StagePublished), nil)
	repo.On("UpdateStage", mock.Anything, "c-1", workflow.StagePublished, workflow.StageMedical).Return(nil)
	audit.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.AuditLog) bool {
		return l.Action == entity.AuditActionUnlock
	})).Return(nil)

	_, err := uc.Unlock(context.Background(), actor(rbac.RoleSuperAdmin), dto.OverrideRequest{ContentID: "c-1", ToStage: "MEDICAL"})

	require.NoError(t, err)
	audit.AssertExpectations(t)
}

func TestWorkflow_Unlock_FallaAuditoriaPropagaError(t *testing.T) {
	uc, repo, audit, _ := newUseCase()
	boom := errors.New("insert audit_logs")
	repo.On("GetByID", mock.Anything, "c-1").Return(item(workflow.ContentScript, workflow.StageLocked), nil)
	repo.On("UpdateStage", mock.Anything, "c-1", workflow.StageLocked, workflow.StageDraft).Return(nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(boom)

	_, err := uc.Unlock(context.Background(), actor(rbac.RoleSuperAdmin), dto.OverrideRequest{ContentID: "c-1", ToStage: "DRAFT"})

	assert.ErrorIs(t, err, boom, "el error del callback hace rollback de la transacción")
}

func TestWorkflow_Unlock_EtapaDeOtroTipo(t *testing.T) {
	uc, repo, _, _ := newUseCase()
	repo.On("GetByID", mock.Anything, "c-1").Return(item(workflow.ContentScript, workflow.StageLocked), nil)

	_, err := uc.Unlock(context.Background(), actor(rbac.RoleSuperAdmin), dto.OverrideRequest{ContentID: "c-1", ToStage: "PUBLISHED"})
	assert.ErrorIs(t, err, domain.ErrInvalidStage)
}

// ──────────────────────────────────────────────────────────────────────────────
// Status y auditoría
// ──────────────────────────────────────────────────────────────────────────────

func TestWorkflow_Status_IncluyeRevisores(t *testing.T) {
	uc, repo, _, _ := newUseCase()
	repo.On("GetByID", mock.Anything, "c-1").Return(item(workflow.ContentVideo, workflow.StageBrand), nil)

	out, err := uc.Status(context.Background(), "c-1")

	require.NoError(t, err)
	assert.True(t, out.CanAdvance)
	assert.Equal(t, "MEDICAL", out.NextStage)
	assert.Equal(t, "approve_video", out.RequiredPermission)
	assert.ElementsMatch(t, []string{"BRAND_REVIEWER", "CONTENT_APPROVER"}, out.Reviewers)
	assert.Equal(t, []string{"DRAFT", "BRAND", "MEDICAL", "DOCTOR", "LOCKED", "PUBLISHED"}, out.Stages)
}

func TestWorkflow_AuditLogs_RequiereViewLogs(t *testing.T) {
	uc, _, audit, _ := newUseCase()

	_, err := uc.AuditLogs(context.Background(), actor(rbac.RoleViewer), "", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	audit.On("List", mock.Anything, "", 20, 0).Return([]*entity.AuditLog{{ID: "a-1", Action: entity.AuditActionUnlock}}, nil)
	out, err := uc.AuditLogs(context.Background(), actor(rbac.RoleSuperAdmin), "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "UNLOCK_CONTENT", out.Items[0].Action)
}
