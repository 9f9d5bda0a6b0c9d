package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-calzado/internal/application/catalog"
)

// StatsHandler panel de inventario y reporte PDF.
type StatsHandler struct {
	uc *catalog.StatsUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *catalog.StatsUseCase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// GetStats godoc
// @Summary      Estadísticas de inventario
// @Description  Contadores generales, top 5 de menor stock y stock por marca. Requiere sesión de administrador (token o contraseña).
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StatsResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/admin/stats [get]
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetReport godoc
// @Summary      Reporte de inventario en PDF
// @Description  Requiere sesión de administrador (token o contraseña).
// @Tags         admin
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/admin/stats/report.pdf [get]
func (h *StatsHandler) GetReport(c *fiber.Ctx) error {
	pdf, err := h.uc.Report(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	name := fmt.Sprintf("inventario-%s.pdf", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(pdf)
}
