package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-calzado/internal/application/auth"
	"github.com/jhoicas/catalogo-calzado/internal/application/dto"
)

// AuthHandler login del panel de administración.
type AuthHandler struct {
	uc *auth.AdminAuthUseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.AdminAuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Verify godoc
// @Summary      Verificar contraseña de administrador
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyRequest  true  "Contraseña"
// @Success      200   {object}  dto.VerifyResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/admin/verify [post]
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerifyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Verify(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
