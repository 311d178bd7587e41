package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/practo-cms-api/internal/application/dto"
	"github.com/jhoicas/practo-cms-api/internal/application/ports"
	"github.com/jhoicas/practo-cms-api/internal/domain"
	"github.com/jhoicas/practo-cms-api/internal/domain/entity"
	"github.com/jhoicas/practo-cms-api/internal/domain/rbac"
	"github.com/jhoicas/practo-cms-api/internal/domain/repository"
	"github.com/jhoicas/practo-cms-api/pkg/jwt"
	"github.com/jhoicas/practo-cms-api/pkg/logger"
)

// ErrGoogleLoginDisabled no hay GOOGLE_CLIENT_ID configurado.
var ErrGoogleLoginDisabled = errors.New("login con Google no está habilitado")

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login local, login con Google y passwords.
type AuthUseCase struct {
	userRepo repository.UserRepository
	verifier ports.IdentityVerifier // nil: login con Google deshabilitado
	limiter  ports.LoginLimiter     // nil: sin límite de intentos
	jwtCfg   JWTConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. verifier y limiter son opcionales.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	verifier ports.IdentityVerifier,
	limiter ports.LoginLimiter,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		userRepo: userRepo,
		verifier: verifier,
		limiter:  limiter,
		jwtCfg:   jwtCfg,
		log:      log.Component("auth"),
		now:      time.Now,
	}
}

// Login verifica email/password, genera JWT y retorna token + datos del usuario.
// Cada intento se reserva en el limitador antes de comparar el password; al superar el
// máximo de la ventana devuelve ErrTooManyAttempts.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	key := strings.ToLower(strings.TrimSpace(in.Email))
	if uc.limiter != nil {
		allowed, retryIn, err := uc.limiter.Reserve(ctx, key)
		if err != nil {
			uc.log.Warn().Err(err).Msg("límite de intentos no disponible, se continúa sin él")
		} else if !allowed {
			return nil, fmt.Errorf("%w: reintente en %s", domain.ErrTooManyAttempts, retryIn.Round(time.Second))
		}
	}

	user, err := uc.userRepo.GetByEmail(ctx, key)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Misma latencia exista o no la cuenta.
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(in.Password))
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, domain.ErrAccountInactive
	}
	if uc.limiter != nil {
		if err := uc.limiter.Reset(ctx, key); err != nil {
			uc.log.Warn().Err(err).Str("email", key).Msg("reset de intentos de login")
		}
	}
	if err := uc.userRepo.RecordLogin(ctx, user.ID, uc.now(), ""); err != nil {
		return nil, err
	}
	return uc.issue(user)
}

// GoogleLogin verifica el ID token de Google. El usuario debe haber sido creado antes por
// un administrador; en el primer ingreso se vincula su google_id.
func (uc *AuthUseCase) GoogleLogin(ctx context.Context, in dto.GoogleLoginRequest) (*dto.LoginResponse, error) {
	if uc.verifier == nil {
		return nil, ErrGoogleLoginDisabled
	}
	ident, err := uc.verifier.VerifyIDToken(ctx, in.Token)
	if err != nil {
		uc.log.Debug().Err(err).Msg("ID token de Google rechazado")
		return nil, domain.ErrUnauthorized
	}
	if ident.Email == "" || !ident.EmailVerified {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(ident.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsActive() {
		return nil, domain.ErrAccountInactive
	}
	googleID := ""
	switch {
	case user.GoogleID == nil || *user.GoogleID == "":
		googleID = ident.Subject
	case *user.GoogleID != ident.Subject:
		uc.log.Warn().Str("user_id", user.ID).Msg("google_id no coincide con el vinculado")
		return nil, domain.ErrUnauthorized
	}
	if err := uc.userRepo.RecordLogin(ctx, user.ID, uc.now(), googleID); err != nil {
		return nil, err
	}
	return uc.issue(user)
}

// ChangePassword cambia el password verificando el actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.OldPassword)); err != nil {
		return fmt.Errorf("%w: el password actual es incorrecto", domain.ErrInvalidInput)
	}
	return uc.storePassword(ctx, user.ID, in.NewPassword)
}

// SetPassword fija un password sin pedir el anterior (usuarios que entraron con Google).
func (uc *AuthUseCase) SetPassword(ctx context.Context, userID string, in dto.SetPasswordRequest) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	return uc.storePassword(ctx, user.ID, in.NewPassword)
}

func (uc *AuthUseCase) storePassword(ctx context.Context, userID, plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(ctx, userID, string(hash))
}

var (
	dummyHashOnce  sync.Once
	dummyHashValue []byte
)

// dummyHash hash bcrypt de referencia para comparar cuando el email no existe.
func dummyHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHashValue, _ = bcrypt.GenerateFromPassword([]byte("practo-cms-placeholder"), bcrypt.DefaultCost)
	})
	return dummyHashValue
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.LoginResponse, error) {
	perms, err := rbac.PermissionsFor(user.Role)
	if err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = string(p)
	}
	return &dto.LoginResponse{
		Token:       token,
		Role:        string(user.Role),
		Name:        user.FullName(),
		Email:       user.Email,
		Permissions: names,
	}, nil
}
