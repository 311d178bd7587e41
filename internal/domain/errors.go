package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrAccountInactive    = errors.New("cuenta inactiva o suspendida")
	ErrTooManyAttempts    = errors.New("demasiados intentos de inicio de sesión")
)

// Errores de RBAC y workflow. InvalidRole/InvalidStage/InvalidContentType indican un valor
// fuera de un enum cerrado: son errores del llamador, no se intentan recuperar.
var (
	ErrInvalidRole            = errors.New("rol inválido")
	ErrInvalidStage           = errors.New("etapa de workflow inválida")
	ErrInvalidContentType     = errors.New("tipo de contenido inválido")
	ErrInvalidTransition      = errors.New("transición de etapa inválida")
	ErrStageConflict          = errors.New("la etapa del contenido cambió durante la operación")
	ErrConflictingFieldPolicy = errors.New("specialty y city solo aplican (y son obligatorios) para DOCTOR_CREATOR")
)
