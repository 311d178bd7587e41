package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
// specialty y city solo se aceptan (y son obligatorios) para DOCTOR_CREATOR.
type CreateUserRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required,oneof=SUPER_ADMIN MEDICAL_REVIEWER BRAND_REVIEWER DOCTOR_CREATOR AGENCY_POC CONTENT_APPROVER VIEWER PUBLISHER"`
	Specialty string `json:"specialty" validate:"omitempty,max=120"`
	City      string `json:"city" validate:"omitempty,max=120"`
}

// ToggleStatusRequest alterna ACTIVE ↔ INACTIVE.
type ToggleStatusRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// UpdateStatusRequest fija un estado explícito.
type UpdateStatusRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE SUSPENDED"`
}

// UpdateRoleRequest cambia el rol de un usuario.
type UpdateRoleRequest struct {
	UserID  string `json:"user_id" validate:"required,uuid"`
	NewRole string `json:"new_role" validate:"required"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Specialty   *string    `json:"specialty"`
	City        *string    `json:"city"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// MeResponse usuario actual con los permisos de su rol, para que el cliente decida qué mostrar
// sin guardar permisos en estado global.
type MeResponse struct {
	User        UserResponse `json:"user"`
	Permissions []string     `json:"permissions"`
}

// LoginRequest entrada para login con email y password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginRequest ID token emitido por Google Identity Services.
type GoogleLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

// LoginResponse token JWT más datos del usuario.
type LoginResponse struct {
	Token       string   `json:"token"`
	Role        string   `json:"role"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
}

// ChangePasswordRequest cambio de password verificando el actual.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// SetPasswordRequest fija password (primer ingreso vía Google).
type SetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}
