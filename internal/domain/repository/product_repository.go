package repository

import (
	"context"

	"github.com/jhoicas/catalogo-calzado/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las lecturas devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetByTitle(ctx context.Context, title string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// Delete borra el producto y, por cascada, sus tallas. Devuelve false si no existía.
	Delete(ctx context.Context, id string) (bool, error)
	// GetWithSizes devuelve el producto con sus tallas ordenadas por etiqueta.
	GetWithSizes(ctx context.Context, id string) (*entity.Product, error)
	// ListWithSizes devuelve la lista canónica: productos (created_at DESC) con tallas ordenadas.
	ListWithSizes(ctx context.Context) ([]*entity.Product, error)
	Count(ctx context.Context) (int, error)
}
