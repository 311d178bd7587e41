package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/practo-cms-api/docs"
	"github.com/jhoicas/practo-cms-api/internal/application/auth"
	"github.com/jhoicas/practo-cms-api/internal/application/content"
	"github.com/jhoicas/practo-cms-api/internal/application/ports"
	"github.com/jhoicas/practo-cms-api/internal/application/usecase"
	"github.com/jhoicas/practo-cms-api/internal/infrastructure/oauth"
	"github.com/jhoicas/practo-cms-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/practo-cms-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/practo-cms-api/internal/interfaces/http"
	"github.com/jhoicas/practo-cms-api/pkg/config"
	"github.com/jhoicas/practo-cms-api/pkg/logger"
)

// @title        Practo CMS API
// @version      1.0
// @description  Backend del CMS de contenido médico: RBAC y workflows de guiones y videos.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración de esquema")
	}

	userRepo := postgres.NewUserRepository(pool)
	contentRepo := postgres.NewContentRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Límite de intentos de login: solo con REDIS_ADDR.
	var limiter ports.LoginLimiter
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		limiter = infraredis.NewLoginLimiter(rdb, "", cfg.Login.MaxAttempts, cfg.Login.Window)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: login sin límite de intentos")
	}

	// Login con Google: solo con GOOGLE_CLIENT_ID.
	var verifier ports.IdentityVerifier
	if cfg.Google.ClientID != "" {
		gv, err := oauth.NewGoogleVerifier(ctx, cfg.Google.Issuer, cfg.Google.ClientID)
		if err != nil {
			log.Fatal().Err(err).Msg("proveedor OIDC de Google")
		}
		verifier = gv
	}

	authUC := auth.NewAuthUseCase(userRepo, verifier, limiter, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	userUC := usecase.NewUserUseCase(userRepo, log)
	workflowUC := content.NewWorkflowUseCase(contentRepo, auditRepo, txRunner, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Practo CMS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		UserUC:     userUC,
		WorkflowUC: workflowUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
