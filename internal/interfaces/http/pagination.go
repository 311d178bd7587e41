package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/practo-cms-api/internal/application/dto"
)

// pageFromQuery lee limit/offset (defecto 20, máximo 100).
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}
