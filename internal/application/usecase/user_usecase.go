package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/practo-cms-api/internal/application/dto"
	"github.com/jhoicas/practo-cms-api/internal/domain"
	"github.com/jhoicas/practo-cms-api/internal/domain/entity"
	"github.com/jhoicas/practo-cms-api/internal/domain/rbac"
	"github.com/jhoicas/practo-cms-api/internal/domain/repository"
	"github.com/jhoicas/practo-cms-api/pkg/logger"
)

// UserUseCase aplica reglas de negocio para usuarios. La autorización de cada operación
// la resuelve el middleware RequirePermission antes de llegar aquí.
type UserUseCase struct {
	repo repository.UserRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{repo: repo, log: log.Component("users"), now: time.Now}
}

// Create valida la política specialty/city antes de tocar la DB: si falla no se persiste nada.
func (uc *UserUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	role, err := rbac.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	if err := entity.ValidateDoctorFields(role, in.Specialty, in.City); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		FirstName:    normalizeName(in.FirstName),
		LastName:     normalizeName(in.LastName),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       entity.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if role == rbac.RoleDoctorCreator {
		specialty := strings.TrimSpace(in.Specialty)
		city := normalizeName(in.City)
		user.Specialty = &specialty
		user.City = &city
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("actor_id", actor.UserID).
		Str("user_id", user.ID).
		Str("role", string(role)).
		Msg("usuario creado")
	return entityToUserResponse(user), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return entityToUserResponse(user), nil
}

// Me devuelve el usuario actual y los permisos de su rol.
func (uc *UserUseCase) Me(ctx context.Context, actor entity.Actor) (*dto.MeResponse, error) {
	user, err := uc.repo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	perms, err := rbac.PermissionsFor(user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{User: *entityToUserResponse(user), Permissions: permissionNames(perms)}, nil
}

// List lista usuarios, más recientes primero.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	users, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{
		Items: make([]dto.UserResponse, 0, len(users)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, u := range users {
		out.Items = append(out.Items, *entityToUserResponse(u))
	}
	return out, nil
}

// ToggleStatus alterna ACTIVE ↔ INACTIVE. Un usuario SUSPENDED pasa a ACTIVE.
func (uc *UserUseCase) ToggleStatus(ctx context.Context, actor entity.Actor, userID string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	next := entity.StatusInactive
	if user.Status != entity.StatusActive {
		next = entity.StatusActive
	}
	return uc.setStatus(ctx, actor, user, next)
}

// UpdateStatus fija un estado explícito.
func (uc *UserUseCase) UpdateStatus(ctx context.Context, actor entity.Actor, in dto.UpdateStatusRequest) (*dto.UserResponse, error) {
	if !entity.ValidStatus(in.Status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
	}
	user, err := uc.repo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return uc.setStatus(ctx, actor, user, in.Status)
}

func (uc *UserUseCase) setStatus(ctx context.Context, actor entity.Actor, user *entity.User, status string) (*dto.UserResponse, error) {
	if user.ID == actor.UserID && status != entity.StatusActive {
		return nil, fmt.Errorf("%w: no puede desactivar su propia cuenta", domain.ErrInvalidInput)
	}
	if err := uc.repo.UpdateStatus(ctx, user.ID, status); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("actor_id", actor.UserID).
		Str("user_id", user.ID).
		Str("from", user.Status).
		Str("to", status).
		Msg("estado de usuario actualizado")
	user.Status = status
	user.UpdatedAt = uc.now()
	return entityToUserResponse(user), nil
}

// UpdateRole cambia el rol. La política specialty/city no se re-valida aquí: solo aplica al crear.
func (uc *UserUseCase) UpdateRole(ctx context.Context, actor entity.Actor, in dto.UpdateRoleRequest) (*dto.UserResponse, error) {
	role, err := rbac.ParseRole(in.NewRole)
	if err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := uc.repo.UpdateRole(ctx, user.ID, role); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("actor_id", actor.UserID).
		Str("user_id", user.ID).
		Str("from", string(user.Role)).
		Str("to", string(role)).
		Msg("rol de usuario actualizado")
	user.Role = role
	user.UpdatedAt = uc.now()
	return entityToUserResponse(user), nil
}

// normalizeName "  dr. ana  gómez " → "Dr. Ana Gómez". cases.Caser no es seguro entre goroutines.
func normalizeName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return s
	}
	return cases.Title(language.Und).String(s)
}

func permissionNames(perms []rbac.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Role:        string(u.Role),
		Status:      u.Status,
		Specialty:   u.Specialty,
		City:        u.City,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
