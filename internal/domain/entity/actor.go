package entity

import "github.com/jhoicas/practo-cms-api/internal/domain/rbac"

// Actor identidad autenticada de la petición en curso. Se pasa explícitamente a cada
// caso de uso; no existe caché global de rol ni permisos.
type Actor struct {
	UserID string
	Email  string
	Role   rbac.Role
}
