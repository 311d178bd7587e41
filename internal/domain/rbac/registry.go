package rbac

import (
	"fmt"
	"strings"

	"github.com/jhoicas/practo-cms-api/internal/domain"
)

// Tabla plana rol → permisos, tal como la define el documento de gobierno del producto.
// No hay herencia: SUPER_ADMIN no puede aprobar contenido.
// Se construye una sola vez al iniciar el proceso y no se modifica en runtime.
var roleGrants = map[Role][]Permission{
	RoleSuperAdmin: {
		PermCreateUser,
		PermEditUser,
		PermDeactivateUser,
		PermAssignRole,
		PermViewLogs,
		PermViewAnalytics,
		PermForceMoveWorkflow,
		PermUnlockContent,
	},
	RoleMedicalReviewer: {
		PermAssignTopic,
		PermReviewScript,
		PermCommentScript,
		PermApproveScript,
		PermRejectScript,
		PermReviewVideo,
		PermCommentVideo,
		PermApproveVideo,
		PermRejectVideo,
		PermViewScriptVersions,
		PermViewDoctorProfiles,
	},
	RoleBrandReviewer: {
		PermReviewScript,
		PermCommentScript,
		PermApproveScript,
		PermRejectScript,
		PermReviewVideo,
		PermCommentVideo,
		PermApproveVideo,
		PermRejectVideo,
	},
	RoleDoctorCreator: {
		PermUploadPointers,
		PermApproveScript,
		PermRequestScriptChanges,
		PermApproveVideo,
		PermRequestVideoChanges,
		PermViewOwnContent,
	},
	RoleAgencyPOC: {
		PermViewAssignedTopics,
		PermViewDoctorNotes,
		PermUploadScript,
		PermUploadScriptRevision,
		PermUploadVideo,
	},
	RoleContentApprover: {
		PermApproveScript,
		PermRejectScript,
		PermApproveVideo,
		PermRejectVideo,
		PermViewApprovalChain,
	},
	RoleViewer: {
		PermViewContent,
		PermComment,
	},
	RolePublisher: {
		PermPublishContent,
		PermEditMetadata,
	},
}

// rolePermissions índice de pertenencia derivado de roleGrants.
var rolePermissions = func() map[Role]map[Permission]struct{} {
	idx := make(map[Role]map[Permission]struct{}, len(roleGrants))
	for role, perms := range roleGrants {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		idx[role] = set
	}
	return idx
}()

// PermissionsFor devuelve una copia de los permisos del rol.
// Un rol fuera del enum es un error de programación/configuración: ErrInvalidRole.
func PermissionsFor(role Role) ([]Permission, error) {
	perms, ok := roleGrants[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, string(role))
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out, nil
}

// HasPermission true si perm pertenece al conjunto del rol. Roles desconocidos no tienen permisos.
func HasPermission(role Role, perm Permission) bool {
	_, ok := rolePermissions[role][perm]
	return ok
}

// RequirePermission es la compuerta usada en cada acción privilegiada.
// Devuelve *ForbiddenError con el rol y su conjunto completo para que el llamador
// pueda responder con un motivo informativo.
func RequirePermission(role Role, perm Permission) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidRole, string(role))
	}
	if HasPermission(role, perm) {
		return nil
	}
	granted, _ := PermissionsFor(role)
	return &ForbiddenError{Role: role, Permission: perm, Granted: granted}
}

// ForbiddenError motivo de denegación: el rol no tiene el permiso requerido.
type ForbiddenError struct {
	Role       Role
	Permission Permission
	Granted    []Permission
}

func (e *ForbiddenError) Error() string {
	names := make([]string, len(e.Granted))
	for i, p := range e.Granted {
		names[i] = string(p)
	}
	return fmt.Sprintf("acceso denegado: el rol %s no tiene el permiso %s (permisos: %s)",
		e.Role, e.Permission, strings.Join(names, ", "))
}

// Unwrap permite errors.Is(err, domain.ErrForbidden).
func (e *ForbiddenError) Unwrap() error { return domain.ErrForbidden }
