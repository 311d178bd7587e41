package rbac

import (
	"fmt"
	"strings"

	"github.com/jhoicas/practo-cms-api/internal/domain"
)

// Role categoría fija de usuario. Un usuario tiene exactamente un rol.
type Role string

const (
	RoleSuperAdmin      Role = "SUPER_ADMIN"
	RoleMedicalReviewer Role = "MEDICAL_REVIEWER"
	RoleBrandReviewer   Role = "BRAND_REVIEWER"
	RoleDoctorCreator   Role = "DOCTOR_CREATOR"
	RoleAgencyPOC       Role = "AGENCY_POC"
	RoleContentApprover Role = "CONTENT_APPROVER"
	RoleViewer          Role = "VIEWER"
	RolePublisher       Role = "PUBLISHER"
)

var allRoles = []Role{
	RoleSuperAdmin,
	RoleMedicalReviewer,
	RoleBrandReviewer,
	RoleDoctorCreator,
	RoleAgencyPOC,
	RoleContentApprover,
	RoleViewer,
	RolePublisher,
}

// Roles devuelve los roles declarados en orden estable.
func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// Valid informa si r pertenece al conjunto cerrado de roles.
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

func (r Role) String() string { return string(r) }

// ParseRole convierte el texto recibido (JWT, body, DB) en un Role declarado.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidRole, s)
	}
	return r, nil
}
