package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/practo-cms-api/internal/application/auth"
	"github.com/jhoicas/practo-cms-api/internal/application/content"
	"github.com/jhoicas/practo-cms-api/internal/application/usecase"
	"github.com/jhoicas/practo-cms-api/internal/domain/rbac"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	WorkflowUC *content.WorkflowUseCase
	JWTSecret  string
}

// contentReadPermissions permisos que habilitan leer contenido y su estado de workflow.
// Cada rol del pipeline tiene al menos uno: revisores, creadores, agencia, aprobador,
// viewer, publisher y SUPER_ADMIN (por los overrides).
var contentReadPermissions = []rbac.Permission{
	rbac.PermViewContent,
	rbac.PermViewOwnContent,
	rbac.PermViewAssignedTopics,
	rbac.PermViewApprovalChain,
	rbac.PermReviewScript,
	rbac.PermReviewVideo,
	rbac.PermPublishContent,
	rbac.PermForceMoveWorkflow,
	rbac.PermUnlockContent,
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret)

	// Auth (login público; cambios de password con token)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/oauth/google", authHandler.GoogleLogin)
	authGroup.Post("/change-password", requireAuth, authHandler.ChangePassword)
	authGroup.Post("/set-password", requireAuth, authHandler.SetPassword)

	// Users: administración (permiso por ruta) y overrides de SUPER_ADMIN
	users := api.Group("/users", requireAuth)
	userHandler := NewUserHandler(deps.UserUC, deps.WorkflowUC)
	users.Get("/me", userHandler.Me)
	users.Get("/", RequirePermission(rbac.PermViewAnalytics), userHandler.List)
	users.Post("/create", RequirePermission(rbac.PermCreateUser), userHandler.Create)
	users.Post("/toggle-status", RequirePermission(rbac.PermDeactivateUser), userHandler.ToggleStatus)
	users.Post("/update-status", RequirePermission(rbac.PermDeactivateUser), userHandler.UpdateStatus)
	users.Post("/update-role", RequirePermission(rbac.PermAssignRole), userHandler.UpdateRole)
	users.Post("/force-move-workflow",
		RequireRole(rbac.RoleSuperAdmin), RequirePermission(rbac.PermForceMoveWorkflow),
		userHandler.ForceMoveWorkflow)
	users.Post("/unlock-content",
		RequireRole(rbac.RoleSuperAdmin), RequirePermission(rbac.PermUnlockContent),
		userHandler.UnlockContent)

	// Permissions (lectura del registro RBAC)
	perms := api.Group("/permissions", requireAuth)
	permHandler := NewPermissionHandler()
	perms.Get("/", permHandler.Mine)
	perms.Get("/roles", RequirePermission(rbac.PermViewAnalytics), permHandler.Roles)

	// Content: el permiso depende del tipo y la etapa, lo decide el caso de uso
	contentGroup := api.Group("/content", requireAuth)
	contentHandler := NewContentHandler(deps.WorkflowUC)
	contentGroup.Post("/", contentHandler.Create)
	canRead := RequireAnyPermission(contentReadPermissions...)
	contentGroup.Get("/", canRead, contentHandler.List)
	contentGroup.Get("/:id", canRead, contentHandler.GetByID)
	contentGroup.Get("/:id/workflow", canRead, contentHandler.Workflow)
	contentGroup.Post("/:id/advance", contentHandler.Advance)
	contentGroup.Post("/:id/publish", contentHandler.Publish)

	api.Get("/audit-logs", requireAuth, RequirePermission(rbac.PermViewLogs), contentHandler.AuditLogs)
}
