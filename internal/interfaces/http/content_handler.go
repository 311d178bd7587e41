package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/practo-cms-api/internal/application/content"
	"github.com/jhoicas/practo-cms-api/internal/application/dto"
)

// ContentHandler guiones y videos dentro de su workflow de revisión.
type ContentHandler struct {
	uc *content.WorkflowUseCase
}

// NewContentHandler construye el handler.
func NewContentHandler(uc *content.WorkflowUseCase) *ContentHandler {
	return &ContentHandler{uc: uc}
}

func contentID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id debe ser un UUID"})
}

// Create godoc
// @Summary      Crear contenido
// @Description  El contenido nace en DRAFT. Requiere upload_script o upload_video según el tipo.
// @Tags         content
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateContentRequest  true  "type y title"
// @Success      201   {object}  dto.ContentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/content [post]
func (h *ContentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateContentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), ActorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar contenidos
// @Tags         content
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "script | video"
// @Param        stage   query  string  false  "Etapa"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.ContentListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/content [get]
func (h *ContentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("type"), c.Query("stage"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener contenido por ID
// @Tags         content
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Content ID"
// @Success      200  {object}  dto.ContentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/content/{id} [get]
func (h *ContentHandler) GetByID(c *fiber.Ctx) error {
	id, ok := contentID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Workflow godoc
// @Summary      Estado de workflow
// @Description  Etapa actual, siguiente etapa, permiso requerido y revisores que pueden aprobar.
// @Tags         content
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Content ID"
// @Success      200  {object}  dto.WorkflowStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/content/{id}/workflow [get]
func (h *ContentHandler) Workflow(c *fiber.Ctx) error {
	id, ok := contentID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.Status(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Advance godoc
// @Summary      Avanzar etapa
// @Description  Solo se permite el paso siguiente de la progresión; to_stage debe coincidir.
// @Tags         content
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "Content ID"
// @Param        body  body  dto.AdvanceRequest  true  "to_stage"
// @Success      200   {object}  dto.TransitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/content/{id}/advance [post]
func (h *ContentHandler) Advance(c *fiber.Ctx) error {
	id, ok := contentID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.AdvanceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Advance(c.UserContext(), ActorFrom(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Publish godoc
// @Summary      Publicar video
// @Description  Solo videos en LOCKED. Requiere publish_content.
// @Tags         content
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Content ID"
// @Success      200  {object}  dto.TransitionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/content/{id}/publish [post]
func (h *ContentHandler) Publish(c *fiber.Ctx) error {
	id, ok := contentID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.Publish(c.UserContext(), ActorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AuditLogs godoc
// @Summary      Auditoría de overrides
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        content_id  query  string  false  "Filtrar por contenido"
// @Param        limit       query  int     false  "Límite"   default(20)
// @Param        offset      query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.AuditLogListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/audit-logs [get]
func (h *ContentHandler) AuditLogs(c *fiber.Ctx) error {
	cid := c.Query("content_id")
	if cid != "" {
		if _, err := uuid.Parse(cid); err != nil {
			return invalidID(c)
		}
	}
	out, err := h.uc.AuditLogs(c.UserContext(), ActorFrom(c), cid, pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
