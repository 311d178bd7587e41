package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/practo-cms-api/internal/application/dto"
	"github.com/jhoicas/practo-cms-api/internal/domain/rbac"
)

// PermissionHandler expone el registro RBAC de solo lectura.
type PermissionHandler struct{}

// NewPermissionHandler construye el handler.
func NewPermissionHandler() *PermissionHandler { return &PermissionHandler{} }

// Mine godoc
// @Summary      Permisos del rol autenticado
// @Tags         permissions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RolePermissionsResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/permissions [get]
func (h *PermissionHandler) Mine(c *fiber.Ctx) error {
	role := GetRole(c)
	perms, err := rbac.PermissionsFor(role)
	if err != nil {
		return missingRole(c)
	}
	return c.JSON(dto.RolePermissionsResponse{Role: role.String(), Permissions: permissionStrings(perms)})
}

// Roles godoc
// @Summary      Tabla completa rol → permisos
// @Tags         permissions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.RolePermissionsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/permissions/roles [get]
func (h *PermissionHandler) Roles(c *fiber.Ctx) error {
	roles := rbac.Roles()
	out := make([]dto.RolePermissionsResponse, 0, len(roles))
	for _, r := range roles {
		perms, _ := rbac.PermissionsFor(r)
		out = append(out, dto.RolePermissionsResponse{Role: r.String(), Permissions: permissionStrings(perms)})
	}
	return c.JSON(out)
}
