package workflow

import (
	"fmt"
	"strings"

	"github.com/jhoicas/practo-cms-api/internal/domain"
	"github.com/jhoicas/practo-cms-api/internal/domain/rbac"
)

// RequiredApprovalPermission devuelve approve_script o approve_video.
// El mapeo es grueso: el mismo permiso para cualquier etapa del tipo. Qué rol revisa
// cada etapa lo decide StageReviewers.
func RequiredApprovalPermission(ct ContentType, stage Stage) (rbac.Permission, error) {
	if _, _, err := NextStage(ct, stage); err != nil {
		return "", err
	}
	if ct == ContentScript {
		return rbac.PermApproveScript, nil
	}
	return rbac.PermApproveVideo, nil
}

// IsReviewStage MEDICAL, BRAND y DOCTOR.
func IsReviewStage(stage Stage) bool {
	return stage == StageMedical || stage == StageBrand || stage == StageDoctor
}

// Revisores por etapa. CONTENT_APPROVER puede aprobar cualquier etapa de revisión.
var stageReviewers = map[Stage][]rbac.Role{
	StageMedical: {rbac.RoleMedicalReviewer, rbac.RoleContentApprover},
	StageBrand:   {rbac.RoleBrandReviewer, rbac.RoleContentApprover},
	StageDoctor:  {rbac.RoleDoctorCreator, rbac.RoleContentApprover},
}

// StageReviewers roles que pueden aprobar la etapa de revisión. Nil fuera de etapas de revisión.
func StageReviewers(ct ContentType, stage Stage) ([]rbac.Role, error) {
	if _, _, err := NextStage(ct, stage); err != nil {
		return nil, err
	}
	roles, ok := stageReviewers[stage]
	if !ok {
		return nil, nil
	}
	out := make([]rbac.Role, len(roles))
	copy(out, roles)
	return out, nil
}

// Gate requisitos para sacar el contenido de una etapa hacia la siguiente.
type Gate struct {
	Stage      Stage
	Next       Stage
	Permission rbac.Permission
	// Reviewers vacío = cualquier rol con Permission.
	Reviewers []rbac.Role
}

// TransitionGate resuelve qué se necesita para avanzar desde stage:
//   - DRAFT: upload_script / upload_video (envío a revisión)
//   - MEDICAL, BRAND, DOCTOR: approve_{tipo} + rol revisor de la etapa
//   - LOCKED (video): publish_content
//
// En una etapa terminal devuelve *TransitionError.
func TransitionGate(ct ContentType, stage Stage) (Gate, error) {
	next, ok, err := NextStage(ct, stage)
	if err != nil {
		return Gate{}, err
	}
	if !ok {
		return Gate{}, &TransitionError{ContentType: ct, From: stage, Reason: ReasonFinalStage}
	}
	g := Gate{Stage: stage, Next: next}
	switch {
	case stage == StageDraft:
		g.Permission = rbac.PermUploadScript
		if ct == ContentVideo {
			g.Permission = rbac.PermUploadVideo
		}
	case IsReviewStage(stage):
		g.Permission, _ = RequiredApprovalPermission(ct, stage)
		g.Reviewers, _ = StageReviewers(ct, stage)
	case stage == StageLocked && ct == ContentVideo:
		g.Permission = rbac.PermPublishContent
	default:
		return Gate{}, fmt.Errorf("%w: sin regla de avance para %s/%s", domain.ErrInvalidStage, ct, stage)
	}
	return g, nil
}

// Authorize verifica permiso y, en etapas de revisión, que el rol sea revisor de la etapa.
func (g Gate) Authorize(role rbac.Role) error {
	if err := rbac.RequirePermission(role, g.Permission); err != nil {
		return err
	}
	if len(g.Reviewers) == 0 {
		return nil
	}
	for _, r := range g.Reviewers {
		if r == role {
			return nil
		}
	}
	return &ReviewerError{Role: role, Stage: g.Stage, Allowed: g.Reviewers}
}

// ReviewerError el rol tiene el permiso de aprobación pero no revisa esta etapa.
type ReviewerError struct {
	Role    rbac.Role
	Stage   Stage
	Allowed []rbac.Role
}

func (e *ReviewerError) Error() string {
	names := make([]string, len(e.Allowed))
	for i, r := range e.Allowed {
		names[i] = string(r)
	}
	return fmt.Sprintf("acceso denegado: la etapa %s la aprueban %s, no %s",
		e.Stage, strings.Join(names, ", "), e.Role)
}

// Unwrap permite errors.Is(err, domain.ErrForbidden).
func (e *ReviewerError) Unwrap() error { return domain.ErrForbidden }
