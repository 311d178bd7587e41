package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/practo-cms-api/internal/application/dto"
	"github.com/jhoicas/practo-cms-api/internal/domain/rbac"
)

// forbiddenDetails contexto que acompaña a un 403 por permiso.
type forbiddenDetails struct {
	Role     string   `json:"role"`
	Required string   `json:"required_permission"`
	Granted  []string `json:"granted_permissions"`
}

// RequirePermission devuelve un middleware Fiber que consulta el registro RBAC con el rol del
// token. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 MISSING_ROLE → el token no trae un rol conocido.
//   - 403 FORBIDDEN    → el rol no concede el permiso; details lista lo que sí concede.
func RequirePermission(perm rbac.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if !role.Valid() {
			return missingRole(c)
		}
		if rbac.HasPermission(role, perm) {
			return c.Next()
		}
		granted, _ := rbac.PermissionsFor(role)
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "el rol " + role.String() + " no tiene el permiso " + perm.String(),
			Details: forbiddenDetails{
				Role:     role.String(),
				Required: perm.String(),
				Granted:  permissionStrings(granted),
			},
		})
	}
}

// RequireAnyPermission deja pasar si el rol concede al menos uno de perms.
// Mismos códigos que RequirePermission; required_permission lista las alternativas.
func RequireAnyPermission(perms ...rbac.Permission) fiber.Handler {
	required := strings.Join(permissionStrings(perms), "|")
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if !role.Valid() {
			return missingRole(c)
		}
		for _, p := range perms {
			if rbac.HasPermission(role, p) {
				return c.Next()
			}
		}
		granted, _ := rbac.PermissionsFor(role)
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "el rol " + role.String() + " no tiene ninguno de los permisos " + required,
			Details: forbiddenDetails{
				Role:     role.String(),
				Required: required,
				Granted:  permissionStrings(granted),
			},
		})
	}
}

func permissionStrings(perms []rbac.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = p.String()
	}
	return out
}
