package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un modelo de calzado del catálogo.
// Sizes solo viene cargado en las lecturas "con tallas" (lista canónica, detalle).
type Product struct {
	ID        string
	Title     string // único en todo el catálogo
	Brand     string
	Price     decimal.Decimal // NUMERIC(10,2)
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
	Sizes     []SizeStock
}

// TotalStock suma el stock de todas las tallas cargadas.
func (p *Product) TotalStock() int {
	total := 0
	for _, s := range p.Sizes {
		total += s.Stock
	}
	return total
}
