package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductInput campos editables de un producto.
type ProductInput struct {
	Title    string          `json:"title"`
	Brand    string          `json:"brand"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url"`
}

// SizeInput talla inicial de un producto nuevo. Stock ausente = 0.
type SizeInput struct {
	Size  FlexString `json:"size"`
	Stock FlexInt    `json:"stock"`
}

// CreateProductRequest body de POST /api/admin/products.
type CreateProductRequest struct {
	Password string        `json:"password,omitempty"`
	Product  *ProductInput `json:"product"`
	Sizes    []SizeInput   `json:"sizes"`
}

// UpdateProductRequest body de PUT /api/admin/products/:id.
type UpdateProductRequest struct {
	Password string        `json:"password,omitempty"`
	Product  *ProductInput `json:"product"`
}

// SizeResponse talla dentro de la lista canónica.
type SizeResponse struct {
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

// ProductResponse producto con sus tallas; unidad de la lista canónica.
// Price viaja con dos decimales fijos ("74.99").
type ProductResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Brand     string         `json:"brand"`
	Price     string         `json:"price"`
	ImageURL  string         `json:"image_url"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Sizes     []SizeResponse `json:"sizes"`
}

// CreateProductResponse salida de la creación.
type CreateProductResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ProductID string `json:"productId"`
}

// UpdateProductResponse salida de la actualización.
type UpdateProductResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Product ProductResponse `json:"product"`
}

// DeletedProduct identifica el producto eliminado.
type DeletedProduct struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// DeleteProductResponse salida de DELETE /api/admin/products/:id.
type DeleteProductResponse struct {
	Message        string         `json:"message"`
	DeletedProduct DeletedProduct `json:"deletedProduct"`
}
