package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/practo-cms-api/internal/application/dto"
	"github.com/jhoicas/practo-cms-api/internal/application/ports"
	"github.com/jhoicas/practo-cms-api/internal/domain"
	"github.com/jhoicas/practo-cms-api/internal/domain/entity"
	"github.com/jhoicas/practo-cms-api/internal/domain/rbac"
	"github.com/jhoicas/practo-cms-api/pkg/jwt"
	"github.com/jhoicas/practo-cms-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Mocks
// ──────────────────────────────────────────────────────────────────────────────

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	args := m.Called(ctx, limit, offset)
	us, _ := args.Get(0).([]*entity.User)
	return us, args.Error(1)
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *mockUserRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id string, role rbac.Role) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *mockUserRepo) RecordLogin(ctx context.Context, id string, at time.Time, googleID string) error {
	return m.Called(ctx, id, at, googleID).Error(0)
}

type mockLimiter struct{ mock.Mock }

func (m *mockLimiter) Reserve(ctx context.Context, key string) (bool, time.Duration, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}

func (m *mockLimiter) Reset(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) VerifyIDToken(ctx context.Context, raw string) (*ports.ExternalIdentity, error) {
	args := m.Called(ctx, raw)
	id, _ := args.Get(0).(*ports.ExternalIdentity)
	return id, args.Error(1)
}

var testJWT = JWTConfig{Secret: "secreto-de-prueba", ExpMinutes: 60, Issuer: "practo-cms-test"}

func reviewer(t *testing.T, status string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	return &entity.User{
		ID: "u-1", FirstName: "Luis", LastName: "Paz", Email: "luis@practo.test",
		PasswordHash: string(hash), Role: rbac.RoleMedicalReviewer, Status: status,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_ExitoResetaIntentos(t *testing.T) {
	repo, lim := &mockUserRepo{}, &mockLimiter{}
	lim.On("Reserve", mock.Anything, "luis@practo.test").Return(true, time.Duration(0), nil)
	lim.On("Reset", mock.Anything, "luis@practo.test").Return(nil)
	repo.On("GetByEmail", mock.Anything, "luis@practo.test").Return(reviewer(t, entity.StatusActive), nil)
	repo.On("RecordLogin", mock.Anything, "u-1", mock.Anything, "").Return(nil)
	uc := NewAuthUseCase(repo, nil, lim, testJWT, logger.Nop())

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: " Luis@Practo.test", Password: "secreto123"})

	require.NoError(t, err)
	assert.Equal(t, "MEDICAL_REVIEWER", out.Role)
	assert.Equal(t, "Luis Paz", out.Name)
	assert.Contains(t, out.Permissions, "approve_script")
	claims, err := jwt.Parse(testJWT.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "MEDICAL_REVIEWER", claims.Role)
	lim.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestLogin_PasswordIncorrectoConsumeIntento(t *testing.T) {
	repo, lim := &mockUserRepo{}, &mockLimiter{}
	lim.On("Reserve", mock.Anything, "luis@practo.test").Return(true, time.Duration(0), nil).Once()
	repo.On("GetByEmail", mock.Anything, "luis@practo.test").Return(reviewer(t, entity.StatusActive), nil)
	uc := NewAuthUseCase(repo, nil, lim, testJWT, logger.Nop())

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "luis@practo.test", Password: "otro"})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	lim.AssertExpectations(t)
	lim.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "RecordLogin", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_Bloqueado(t *testing.T) {
	repo, lim := &mockUserRepo{}, &mockLimiter{}
	lim.On("Reserve", mock.Anything, "luis@practo.test").Return(false, 90*time.Second, nil)
	uc := NewAuthUseCase(repo, nil, lim, testJWT, logger.Nop())

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "luis@practo.test", Password: "secreto123"})

	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
	repo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestLogin_LimitadorCaidoNoBloquea(t *testing.T) {
	repo, lim := &mockUserRepo{}, &mockLimiter{}
	lim.On("Reserve", mock.Anything, mock.Anything).Return(false, time.Duration(0), errors.New("redis: connection refused"))
	lim.On("Reset", mock.Anything, mock.Anything).Return(errors.New("redis: connection refused"))
	repo.On("GetByEmail", mock.Anything, "luis@practo.test").Return(reviewer(t, entity.StatusActive), nil)
	repo.On("RecordLogin", mock.Anything, "u-1", mock.Anything, "").Return(nil)
	uc := NewAuthUseCase(repo, nil, lim, testJWT, logger.Nop())

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "luis@practo.test", Password: "secreto123"})
	assert.NoError(t, err)
}

func TestLogin_CuentaInactiva(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("GetByEmail", mock.Anything, "luis@practo.test").Return(reviewer(t, entity.StatusSuspended), nil)
	uc := NewAuthUseCase(repo, nil, nil, testJWT, logger.Nop())

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "luis@practo.test", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrAccountInactive)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	repo, lim := &mockUserRepo{}, &mockLimiter{}
	lim.On("Reserve", mock.Anything, "nadie@practo.test").Return(true, time.Duration(0), nil).Once()
	repo.On("GetByEmail", mock.Anything, "nadie@practo.test").Return(nil, nil)
	uc := NewAuthUseCase(repo, nil, lim, testJWT, logger.Nop())

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@practo.test", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	lim.AssertExpectations(t)
}

func TestLogin_UsuarioInexistenteComparaHash(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("GetByEmail", mock.Anything, "nadie@practo.test").Return(nil, nil)
	uc := NewAuthUseCase(repo, nil, nil, testJWT, logger.Nop())
	_ = dummyHash()

	start := time.Now()
	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@practo.test", Password: "x"})
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	cost, err := bcrypt.Cost(dummyHash())
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost, "el hash de referencia usa el mismo costo que los passwords reales")
	assert.Greater(t, elapsed, time.Millisecond, "el email inexistente también paga una comparación bcrypt")
}

// ──────────────────────────────────────────────────────────────────────────────
// Google
// ──────────────────────────────────────────────────────────────────────────────

func TestGoogleLogin_VinculaGoogleIDEnPrimerIngreso(t *testing.T) {
	repo, ver := &mockUserRepo{}, &mockVerifier{}
	ver.On("VerifyIDToken", mock.Anything, "id-token").Return(&ports.ExternalIdentity{
		Subject: "g-123", Email: "Luis@Practo.test", EmailVerified: true,
	}, nil)
	repo.On("GetByEmail", mock.Anything, "luis@practo.test").Return(reviewer(t, entity.StatusActive), nil)
	repo.On("RecordLogin", mock.Anything, "u-1", mock.Anything, "g-123").Return(nil)
	uc := NewAuthUseCase(repo, ver, nil, testJWT, logger.Nop())

	out, err := uc.GoogleLogin(context.Background(), dto.GoogleLoginRequest{Token: "id-token"})

	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	repo.AssertExpectations(t)
}

func TestGoogleLogin_GoogleIDDistintoRechazado(t *testing.T) {
	repo, ver := &mockUserRepo{}, &mockVerifier{}
	ver.On("VerifyIDToken", mock.Anything, "id-token").Return(&ports.ExternalIdentity{
		Subject: "g-otro", Email: "luis@practo.test", EmailVerified: true,
	}, nil)
	linked := reviewer(t, entity.StatusActive)
	gid := "g-123"
	linked.GoogleID = &gid
	repo.On("GetByEmail", mock.Anything, "luis@practo.test").Return(linked, nil)
	uc := NewAuthUseCase(repo, ver, nil, testJWT, logger.Nop())

	_, err := uc.GoogleLogin(context.Background(), dto.GoogleLoginRequest{Token: "id-token"})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	repo.AssertNotCalled(t, "RecordLogin", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGoogleLogin_GoogleIDVinculadoCoincide(t *testing.T) {
	repo, ver := &mockUserRepo{}, &mockVerifier{}
	ver.On("VerifyIDToken", mock.Anything, "id-token").Return(&ports.ExternalIdentity{
		Subject: "g-123", Email: "luis@practo.test", EmailVerified: true,
	}, nil)
	linked := reviewer(t, entity.StatusActive)
	gid := "g-123"
	linked.GoogleID = &gid
	repo.On("GetByEmail", mock.Anything, "luis@practo.test").Return(linked, nil)
	repo.On("RecordLogin", mock.Anything, "u-1", mock.Anything, "").Return(nil)
	uc := NewAuthUseCase(repo, ver, nil, testJWT, logger.Nop())

	out, err := uc.GoogleLogin(context.Background(), dto.GoogleLoginRequest{Token: "id-token"})

	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	repo.AssertExpectations(t)
}

func TestGoogleLogin_EmailNoVerificado(t *testing.T) {
	repo, ver := &mockUserRepo{}, &mockVerifier{}
	ver.On("VerifyIDToken", mock.Anything, "id-token").Return(&ports.ExternalIdentity{
		Subject: "g-123", Email: "luis@practo.test", EmailVerified: false,
	}, nil)
	uc := NewAuthUseCase(repo, ver, nil, testJWT, logger.Nop())

	_, err := uc.GoogleLogin(context.Background(), dto.GoogleLoginRequest{Token: "id-token"})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	repo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestGoogleLogin_Deshabilitado(t *testing.T) {
	uc := NewAuthUseCase(&mockUserRepo{}, nil, nil, testJWT, logger.Nop())

	_, err := uc.GoogleLogin(context.Background(), dto.GoogleLoginRequest{Token: "id-token"})
	assert.ErrorIs(t, err, ErrGoogleLoginDisabled)
}

// ──────────────────────────────────────────────────────────────────────────────
// Passwords
// ──────────────────────────────────────────────────────────────────────────────

func TestChangePassword_ActualIncorrecto(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("GetByID", mock.Anything, "u-1").Return(reviewer(t, entity.StatusActive), nil)
	uc := NewAuthUseCase(repo, nil, nil, testJWT, logger.Nop())

	err := uc.ChangePassword(context.Background(), "u-1", dto.ChangePasswordRequest{OldPassword: "otro", NewPassword: "nuevo-secreto"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangePassword_GuardaHash(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("GetByID", mock.Anything, "u-1").Return(reviewer(t, entity.StatusActive), nil)
	repo.On("UpdatePassword", mock.Anything, "u-1", mock.MatchedBy(func(h string) bool {
		return bcrypt.CompareHashAndPassword([]byte(h), []byte("nuevo-secreto")) == nil
	})).Return(nil)
	uc := NewAuthUseCase(repo, nil, nil, testJWT, logger.Nop())

	err := uc.ChangePassword(context.Background(), "u-1", dto.ChangePasswordRequest{OldPassword: "secreto123", NewPassword: "nuevo-secreto"})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
