package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/practo-cms-api/internal/application/auth"
	"github.com/jhoicas/practo-cms-api/internal/application/dto"
	"github.com/jhoicas/practo-cms-api/internal/domain"
	"github.com/jhoicas/practo-cms-api/internal/domain/entity"
	"github.com/jhoicas/practo-cms-api/internal/domain/rbac"
	"github.com/jhoicas/practo-cms-api/internal/domain/workflow"
)

type transitionDetails struct {
	ContentType   string `json:"content_type"`
	FromStage     string `json:"from_stage"`
	ToStage       string `json:"to_stage,omitempty"`
	ExpectedStage string `json:"expected_stage,omitempty"`
}

type reviewerDetails struct {
	Role      string   `json:"role"`
	Stage     string   `json:"stage"`
	Reviewers []string `json:"reviewers"`
}

type fieldPolicyDetails struct {
	Role   string   `json:"role"`
	Fields []string `json:"fields"`
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// respondError traduce errores de dominio a respuestas HTTP.
func respondError(c *fiber.Ctx, err error) error {
	var (
		forbidden  *rbac.ForbiddenError
		reviewer   *workflow.ReviewerError
		transition *workflow.TransitionError
		policy     *entity.FieldPolicyError
	)
	switch {
	case errors.As(err, &forbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN",
			Message: err.Error(),
			Details: forbiddenDetails{
				Role:     forbidden.Role.String(),
				Required: forbidden.Permission.String(),
				Granted:  permissionStrings(forbidden.Granted),
			},
		})
	case errors.As(err, &reviewer):
		allowed := make([]string, len(reviewer.Allowed))
		for i, r := range reviewer.Allowed {
			allowed[i] = r.String()
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN",
			Message: err.Error(),
			Details: reviewerDetails{Role: reviewer.Role.String(), Stage: string(reviewer.Stage), Reviewers: allowed},
		})
	case errors.As(err, &transition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INVALID_TRANSITION",
			Message: transition.Reason,
			Details: transitionDetails{
				ContentType:   string(transition.ContentType),
				FromStage:     string(transition.From),
				ToStage:       string(transition.To),
				ExpectedStage: string(transition.Expected),
			},
		})
	case errors.As(err, &policy):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "CONFLICTING_FIELD_POLICY",
			Message: err.Error(),
			Details: fieldPolicyDetails{Role: policy.Role.String(), Fields: policy.Fields},
		})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrStageConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STAGE_CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: err.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidRole):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ROLE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidStage):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_STAGE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidContentType):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CONTENT_TYPE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrTooManyAttempts):
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "TOO_MANY_ATTEMPTS", Message: err.Error()})
	case errors.Is(err, domain.ErrAccountInactive):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "ACCOUNT_INACTIVE", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, auth.ErrGoogleLoginDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "GOOGLE_LOGIN_DISABLED", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
