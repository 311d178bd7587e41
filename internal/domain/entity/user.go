package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/practo-cms-api/internal/domain"
	"github.com/jhoicas/practo-cms-api/internal/domain/rbac"
)

// Estados válidos para User.
const (
	StatusActive    = "ACTIVE"
	StatusInactive  = "INACTIVE"
	StatusSuspended = "SUSPENDED"
)

// ValidStatus informa si s es un estado de usuario conocido.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive || s == StatusSuspended
}

// User representa un usuario del CMS.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         rbac.Role
	Status       string  // ACTIVE, INACTIVE, SUSPENDED
	Specialty    *string // solo DOCTOR_CREATOR
	City         *string // solo DOCTOR_CREATOR
	GoogleID     *string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName nombre para mostrar.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsActive solo los usuarios ACTIVE pueden iniciar sesión.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// FieldPolicyError violación de la regla specialty/city ⇔ DOCTOR_CREATOR.
type FieldPolicyError struct {
	Role    rbac.Role
	Fields  []string
	Missing bool // true: faltan campos; false: sobran
}

func (e *FieldPolicyError) Error() string {
	if e.Missing {
		return fmt.Sprintf("%s es obligatorio para el rol %s", strings.Join(e.Fields, " y "), e.Role)
	}
	return fmt.Sprintf("%s solo se permite para el rol %s", strings.Join(e.Fields, " y "), rbac.RoleDoctorCreator)
}

// Unwrap permite errors.Is(err, domain.ErrConflictingFieldPolicy).
func (e *FieldPolicyError) Unwrap() error { return domain.ErrConflictingFieldPolicy }

// ValidateDoctorFields specialty y city son obligatorios si y solo si el rol es DOCTOR_CREATOR.
// Se aplica al crear el usuario; un cambio de rol posterior no la re-valida.
func ValidateDoctorFields(role rbac.Role, specialty, city string) error {
	specialty, city = strings.TrimSpace(specialty), strings.TrimSpace(city)
	if role == rbac.RoleDoctorCreator {
		var missing []string
		if specialty == "" {
			missing = append(missing, "specialty")
		}
		if city == "" {
			missing = append(missing, "city")
		}
		if len(missing) > 0 {
			return &FieldPolicyError{Role: role, Fields: missing, Missing: true}
		}
		return nil
	}
	var extra []string
	if specialty != "" {
		extra = append(extra, "specialty")
	}
	if city != "" {
		extra = append(extra, "city")
	}
	if len(extra) > 0 {
		return &FieldPolicyError{Role: role, Fields: extra}
	}
	return nil
}
