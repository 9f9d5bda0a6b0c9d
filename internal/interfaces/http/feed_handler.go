package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-calzado/internal/application/catalog"
)

// FeedHandler feed XML público para catálogos externos.
type FeedHandler struct {
	uc *catalog.CatalogUseCase
}

// NewFeedHandler construye el handler.
func NewFeedHandler(uc *catalog.CatalogUseCase) *FeedHandler {
	return &FeedHandler{uc: uc}
}

// Get GET /api/feed.xml
func (h *FeedHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Feed(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(out)
}
