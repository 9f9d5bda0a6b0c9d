package dto

// StockUpdate una entrada del lote de PUT /api/admin/stock.
type StockUpdate struct {
	ProductID FlexString `json:"productId"`
	Size      FlexString `json:"size"`
	Stock     FlexInt    `json:"stock"`
}

// UpdateStockRequest body de PUT /api/admin/stock.
type UpdateStockRequest struct {
	Password string        `json:"password,omitempty"`
	Updates  []StockUpdate `json:"updates"`
}

// AddSizeRequest body de POST /api/admin/products/:id/sizes.
type AddSizeRequest struct {
	Password string     `json:"password,omitempty"`
	Size     FlexString `json:"size"`
	Stock    FlexInt    `json:"stock"`
}

// MutationResponse respuesta genérica de escritura.
type MutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SizeMutationResponse salida de agregar/eliminar talla.
type SizeMutationResponse struct {
	Message      string `json:"message"`
	ProductID    string `json:"productId"`
	ProductTitle string `json:"productTitle"`
	Size         string `json:"size"`
	Stock        *int   `json:"stock,omitempty"`
}
