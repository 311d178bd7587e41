package workflow

import (
	"fmt"

	"github.com/jhoicas/practo-cms-api/internal/domain"
	"github.com/jhoicas/practo-cms-api/internal/domain/rbac"
)

// OverrideKind acción de excepción de SUPER_ADMIN que salta ValidateTransition.
type OverrideKind string

const (
	OverrideForceMove OverrideKind = "force_move"
	OverrideUnlock    OverrideKind = "unlock"
)

// Permission permiso exigido por cada tipo de override.
func (k OverrideKind) Permission() (rbac.Permission, error) {
	switch k {
	case OverrideForceMove:
		return rbac.PermForceMoveWorkflow, nil
	case OverrideUnlock:
		return rbac.PermUnlockContent, nil
	}
	return "", fmt.Errorf("%w: override desconocido %q", domain.ErrInvalidInput, string(k))
}

// AuthorizeOverride exige rol SUPER_ADMIN y además el permiso del override.
func AuthorizeOverride(role rbac.Role, kind OverrideKind) error {
	perm, err := kind.Permission()
	if err != nil {
		return err
	}
	if err := rbac.RequirePermission(role, perm); err != nil {
		return err
	}
	if role != rbac.RoleSuperAdmin {
		return fmt.Errorf("%w: %s reservado a %s", domain.ErrForbidden, kind, rbac.RoleSuperAdmin)
	}
	return nil
}

// ValidateOverride reglas de destino del override:
//   - force_move: contenido editable, cualquier otra etapa del tipo (saltos y retrocesos incluidos)
//   - unlock: contenido congelado (LOCKED/PUBLISHED) hacia una etapa editable
func ValidateOverride(kind OverrideKind, ct ContentType, from, to Stage) error {
	if _, _, err := NextStage(ct, from); err != nil {
		return err
	}
	if _, _, err := NextStage(ct, to); err != nil {
		return err
	}
	if from == to {
		return &TransitionError{ContentType: ct, From: from, To: to,
			Reason: fmt.Sprintf("el contenido ya está en %s", to)}
	}
	switch kind {
	case OverrideForceMove:
		if !CanEdit(from) {
			return &TransitionError{ContentType: ct, From: from, To: to,
				Reason: fmt.Sprintf("el contenido está congelado en %s: use unlock", from)}
		}
	case OverrideUnlock:
		if CanEdit(from) {
			return &TransitionError{ContentType: ct, From: from, To: to,
				Reason: fmt.Sprintf("el contenido no está bloqueado (etapa %s)", from)}
		}
		if !CanEdit(to) {
			return &TransitionError{ContentType: ct, From: from, To: to,
				Reason: fmt.Sprintf("unlock debe llevar a una etapa editable, no a %s", to)}
		}
	default:
		_, err := kind.Permission()
		return err
	}
	return nil
}
