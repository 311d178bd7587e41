package ports

import (
	"context"
	"time"
)

// ExternalIdentity datos verificados que devuelve el proveedor de identidad.
type ExternalIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Picture       string
}

// IdentityVerifier define el puerto de salida para verificar ID tokens de un proveedor
// externo (Google). La aplicación no conoce OIDC ni las llaves del proveedor.
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, rawToken string) (*ExternalIdentity, error)
}

// LoginLimiter cuenta intentos de login por clave (email normalizado).
type LoginLimiter interface {
	// Reserve consume un intento de forma atómica antes de verificar el password.
	// allowed=false cuando la clave superó el máximo; retryIn es lo que falta para liberarse.
	Reserve(ctx context.Context, key string) (allowed bool, retryIn time.Duration, err error)
	// Reset libera la clave tras un login exitoso.
	Reset(ctx context.Context, key string) error
}
