// seed_admin crea (o reactiva) el SUPER_ADMIN inicial. Sin él nadie puede crear usuarios.
//
// Uso: SEED_ADMIN_EMAIL=admin@practo.in SEED_ADMIN_PASSWORD=... go run ./cmd/seed_admin
// Requiere la misma configuración que la API (DATABASE_URL o DB_*, JWT_SECRET).
// Si el email ya existe, fija rol SUPER_ADMIN, estado ACTIVE y el password indicado.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/practo-cms-api/internal/application/dto"
	"github.com/jhoicas/practo-cms-api/internal/application/usecase"
	"github.com/jhoicas/practo-cms-api/internal/domain/entity"
	"github.com/jhoicas/practo-cms-api/internal/domain/rbac"
	"github.com/jhoicas/practo-cms-api/internal/infrastructure/postgres"
	"github.com/jhoicas/practo-cms-api/pkg/config"
	"github.com/jhoicas/practo-cms-api/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed_admin: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	seed := cfg.Seed
	if seed.AdminEmail == "" || len(seed.AdminPassword) < 8 {
		return errors.New("SEED_ADMIN_EMAIL y SEED_ADMIN_PASSWORD (mínimo 8 caracteres) son obligatorios")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_admin"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}

	repo := postgres.NewUserRepository(pool)
	email := strings.ToLower(strings.TrimSpace(seed.AdminEmail))
	existing, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if existing == nil {
		uc := usecase.NewUserUseCase(repo, log)
		out, err := uc.Create(ctx, entity.Actor{UserID: "seed_admin", Role: rbac.RoleSuperAdmin}, dto.CreateUserRequest{
			FirstName: seed.AdminFirstName,
			LastName:  seed.AdminLastName,
			Email:     email,
			Password:  seed.AdminPassword,
			Role:      string(rbac.RoleSuperAdmin),
		})
		if err != nil {
			return fmt.Errorf("crear SUPER_ADMIN: %w", err)
		}
		fmt.Printf("SUPER_ADMIN creado: %s (%s)\n", out.Email, out.ID)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := repo.UpdateRole(ctx, existing.ID, rbac.RoleSuperAdmin); err != nil {
		return err
	}
	if err := repo.UpdateStatus(ctx, existing.ID, entity.StatusActive); err != nil {
		return err
	}
	if err := repo.UpdatePassword(ctx, existing.ID, string(hash)); err != nil {
		return err
	}
	fmt.Printf("SUPER_ADMIN actualizado: %s (%s)\n", existing.Email, existing.ID)
	return nil
}
