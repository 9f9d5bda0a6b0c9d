package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-calzado/internal/application/catalog"
	"github.com/jhoicas/catalogo-calzado/internal/application/dto"
)

// ProductHandler lectura pública del catálogo y mutaciones del panel.
type ProductHandler struct {
	catalog  *catalog.CatalogUseCase
	mutation *catalog.MutationService
}

// NewProductHandler construye el handler.
func NewProductHandler(catalogUC *catalog.CatalogUseCase, mutation *catalog.MutationService) *ProductHandler {
	return &ProductHandler{catalog: catalogUC, mutation: mutation}
}

// List godoc
// @Summary      Lista canónica de productos con tallas
// @Tags         products
// @Produce      json
// @Success      200  {array}   dto.ProductResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.catalog.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.catalog.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStock godoc
// @Summary      Actualizar stock por lote
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateStockRequest  true  "Lote de cambios"
// @Success      200   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/stock [put]
func (h *ProductHandler) UpdateStock(c *fiber.Ctx) error {
	var in dto.UpdateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.mutation.UpdateStock(c.UserContext(), in.Updates); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MutationResponse{Success: true, Message: "Stock actualizado exitosamente"})
}

// Create godoc
// @Summary      Crear producto con tallas
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Producto y tallas"
// @Success      200   {object}  dto.CreateProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/admin/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := h.mutation.CreateProduct(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CreateProductResponse{
		Success:   true,
		Message:   "Producto creado exitosamente",
		ProductID: id,
	})
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.UpdateProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.mutation.UpdateProduct(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.UpdateProductResponse{Success: true, Message: "Producto actualizado exitosamente", Product: out})
}

// Delete godoc
// @Summary      Eliminar producto y sus tallas
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.DeleteProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	deleted, err := h.mutation.DeleteProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeleteProductResponse{Message: "Producto eliminado exitosamente", DeletedProduct: deleted})
}

// AddSize godoc
// @Summary      Agregar talla a un producto
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.AddSizeRequest  true  "Talla y stock"
// @Success      200   {object}  dto.SizeMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/products/{id}/sizes [post]
func (h *ProductHandler) AddSize(c *fiber.Ctx) error {
	var in dto.AddSizeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.mutation.AddSize(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveSize godoc
// @Summary      Eliminar una talla (nunca la última)
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Param        size       path  string  true  "Talla"
// @Success      200  {object}  dto.SizeMutationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/products/{productId}/sizes/{size} [delete]
func (h *ProductHandler) RemoveSize(c *fiber.Ctx) error {
	size := c.Params("size")
	if unescaped, err := url.PathUnescape(size); err == nil {
		size = unescaped
	}
	out, err := h.mutation.RemoveSize(c.UserContext(), c.Params("productId"), size)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
