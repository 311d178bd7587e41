package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/practo-cms-api/internal/application/dto"
	"github.com/jhoicas/practo-cms-api/internal/domain"
	"github.com/jhoicas/practo-cms-api/internal/domain/entity"
	"github.com/jhoicas/practo-cms-api/internal/domain/rbac"
	"github.com/jhoicas/practo-cms-api/pkg/logger"
)

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

var adminActor = entity.Actor{UserID: "admin-1", Email: "admin@practo.test", Role: rbac.RoleSuperAdmin}

func doctorRequest() dto.CreateUserRequest {
	return dto.CreateUserRequest{
		FirstName: "  ana  ", LastName: "rao", Email: " Ana.Rao@Practo.test ",
		Password: "secreto123", Role: "DOCTOR_CREATOR",
	}
}

func TestUserUseCase_Create_DoctorSinCamposNoPersiste(t *testing.T) {
	repo := &mockUserRepo{}
	uc := NewUserUseCase(repo, logger.Nop())

	_, err := uc.Create(context.Background(), adminActor, doctorRequest())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflictingFieldPolicy))
	var fpe *entity.FieldPolicyError
	require.True(t, errors.As(err, &fpe))
	assert.ElementsMatch(t, []string{"specialty", "city"}, fpe.Fields)
	repo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserUseCase_Create_DoctorConCampos(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("GetByEmail", mock.Anything, "ana.rao@practo.test").Return(nil, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.Role == rbac.RoleDoctorCreator &&
			u.Specialty != nil && *u.Specialty == "Cardiology" &&
			u.City != nil && *u.City == "Pune" &&
			u.PasswordHash != "secreto123" && u.Status == entity.StatusActive
	})).Return(nil)
	uc := NewUserUseCase(repo, logger.Nop())

	in := doctorRequest()
	in.Specialty = "Cardiology"
	in.City = "pune"
	out, err := uc.Create(context.Background(), adminActor, in)

	require.NoError(t, err)
	assert.Equal(t, "Ana", out.FirstName)
	assert.Equal(t, "ana.rao@practo.test", out.Email)
	require.NotNil(t, out.City)
	assert.Equal(t, "Pune", *out.City)
	repo.AssertExpectations(t)
}

func TestUserUseCase_Create_NoDoctorConEspecialidad(t *testing.T) {
	repo := &mockUserRepo{}
	uc := NewUserUseCase(repo, logger.Nop())

	in := doctorRequest()
	in.Role = "BRAND_REVIEWER"
	in.Specialty = "Cardiology"
	_, err := uc.Create(context.Background(), adminActor, in)

	assert.ErrorIs(t, err, domain.ErrConflictingFieldPolicy)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserUseCase_Create_EmailDuplicado(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("GetByEmail", mock.Anything, "luis@practo.test").Return(&entity.User{ID: "u-9"}, nil)
	uc := NewUserUseCase(repo, logger.Nop())

	_, err := uc.Create(context.Background(), adminActor, dto.CreateUserRequest{
		FirstName: "Luis", LastName: "Paz", Email: "luis@practo.test", Password: "secreto123", Role: "VIEWER",
	})

	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserUseCase_Create_RolInvalido(t *testing.T) {
	uc := NewUserUseCase(&mockUserRepo{}, logger.Nop())

	_, err := uc.Create(context.Background(), adminActor, dto.CreateUserRequest{Role: "ROOT"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestUserUseCase_ToggleStatus(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("GetByID", mock.Anything, "u-1").Return(&entity.User{ID: "u-1", Role: rbac.RoleViewer, Status: entity.StatusActive}, nil)
	repo.On("UpdateStatus", mock.Anything, "u-1", entity.StatusInactive).Return(nil)
	uc := NewUserUseCase(repo, logger.Nop())

	out, err := uc.ToggleStatus(context.Background(), adminActor, "u-1")

	require.NoError(t, err)
	assert.Equal(t, entity.StatusInactive, out.Status)
	repo.AssertExpectations(t)
}

func TestUserUseCase_NoSeDesactivaASiMismo(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("GetByID", mock.Anything, adminActor.UserID).Return(&entity.User{ID: adminActor.UserID, Status: entity.StatusActive}, nil)
	uc := NewUserUseCase(repo, logger.Nop())

	_, err := uc.ToggleStatus(context.Background(), adminActor, adminActor.UserID)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserUseCase_UpdateRole(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("GetByID", mock.Anything, "u-2").Return(&entity.User{ID: "u-2", Role: rbac.RoleViewer}, nil)
	repo.On("UpdateRole", mock.Anything, "u-2", rbac.RolePublisher).Return(nil)
	uc := NewUserUseCase(repo, logger.Nop())

	out, err := uc.UpdateRole(context.Background(), adminActor, dto.UpdateRoleRequest{UserID: "u-2", NewRole: " PUBLISHER "})

	require.NoError(t, err)
	assert.Equal(t, "PUBLISHER", out.Role)
	repo.AssertExpectations(t)
}

func TestUserUseCase_UpdateRole_UsuarioInexistente(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("GetByID", mock.Anything, "u-x").Return(nil, nil)
	uc := NewUserUseCase(repo, logger.Nop())

	_, err := uc.UpdateRole(context.Background(), adminActor, dto.UpdateRoleRequest{UserID: "u-x", NewRole: "VIEWER"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserUseCase_Me_IncluyePermisos(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("GetByID", mock.Anything, "u-3").Return(&entity.User{ID: "u-3", Role: rbac.RoleViewer, Status: entity.StatusActive}, nil)
	uc := NewUserUseCase(repo, logger.Nop())

	out, err := uc.Me(context.Background(), entity.Actor{UserID: "u-3", Role: rbac.RoleViewer})

	require.NoError(t, err)
	assert.Equal(t, []string{"view_content", "comment"}, out.Permissions)
}
