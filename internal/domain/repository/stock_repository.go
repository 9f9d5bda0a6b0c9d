package repository

import (
	"context"

	"github.com/jhoicas/catalogo-calzado/internal/domain/entity"
)

// StockRepository define el puerto para el stock por (producto, talla).
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	ListByProduct(ctx context.Context, productID string) ([]entity.SizeStock, error)
	// Get devuelve (nil, nil) si la talla no existe para el producto.
	Get(ctx context.Context, productID, size string) (*entity.SizeStock, error)
	// Insert falla con domain.ErrDuplicate si la talla ya existe.
	Insert(ctx context.Context, stock *entity.SizeStock) error
	// Upsert crea la talla si no existe o actualiza su stock.
	Upsert(ctx context.Context, stock *entity.SizeStock) error
	Delete(ctx context.Context, productID, size string) (bool, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
}
