package entity

import "time"

// LowStockThreshold umbral por defecto para considerar una talla con stock bajo (stock > 0 y < umbral).
const LowStockThreshold = 5

// SizeStock stock de un producto en una talla. (ProductID, Size) es único.
type SizeStock struct {
	ProductID string
	Size      string
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Available indica si la talla se puede comprar.
func (s SizeStock) Available() bool { return s.Stock > 0 }
