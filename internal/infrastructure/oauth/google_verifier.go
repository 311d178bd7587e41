package oauth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/jhoicas/practo-cms-api/internal/application/ports"
)

var _ ports.IdentityVerifier = (*GoogleVerifier)(nil)

// GoogleVerifier verifica ID tokens de Google Identity Services vía OIDC (firma, iss, aud, exp).
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewGoogleVerifier descubre el proveedor (llaves JWKS con caché) en issuer.
func NewGoogleVerifier(ctx context.Context, issuer, clientID string) (*GoogleVerifier, error) {
	if clientID == "" {
		return nil, fmt.Errorf("oauth: client id vacío")
	}
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oauth: descubrir proveedor %s: %w", issuer, err)
	}
	return &GoogleVerifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

// NewGoogleVerifierWithKeySet construye el verificador con un KeySet dado, sin descubrimiento.
func NewGoogleVerifierWithKeySet(issuer, clientID string, keySet oidc.KeySet) *GoogleVerifier {
	return &GoogleVerifier{verifier: oidc.NewVerifier(issuer, keySet, &oidc.Config{ClientID: clientID})}
}

type googleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Picture       string `json:"picture"`
}

// VerifyIDToken valida el token y extrae sub, email y email_verified.
func (g *GoogleVerifier) VerifyIDToken(ctx context.Context, rawToken string) (*ports.ExternalIdentity, error) {
	tok, err := g.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("oauth: verificar id token: %w", err)
	}
	var c googleClaims
	if err := tok.Claims(&c); err != nil {
		return nil, fmt.Errorf("oauth: leer claims: %w", err)
	}
	return &ports.ExternalIdentity{
		Subject:       tok.Subject,
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
		Picture:       c.Picture,
	}, nil
}
