package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-calzado/internal/domain"
	"github.com/jhoicas/catalogo-calzado/internal/domain/entity"
	"github.com/jhoicas/catalogo-calzado/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// ListByProduct tallas de un producto ordenadas por etiqueta.
func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]entity.SizeStock, error) {
	out := make([]entity.SizeStock, 0)
	if !validID(productID) {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT product_id, size, stock, created_at, updated_at
		FROM product_sizes WHERE product_id = $1
		ORDER BY size COLLATE "C"`, productID)
	if err != nil {
		return nil, fmt.Errorf("list sizes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s entity.SizeStock
		if err := rows.Scan(&s.ProductID, &s.Size, &s.Stock, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan size: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get obtiene una talla; (nil, nil) si no existe.
func (r *StockRepo) Get(ctx context.Context, productID, size string) (*entity.SizeStock, error) {
	if !validID(productID) {
		return nil, nil
	}
	var s entity.SizeStock
	err := r.q.QueryRow(ctx, `
		SELECT product_id, size, stock, created_at, updated_at
		FROM product_sizes WHERE product_id = $1 AND size = $2`, productID, size).Scan(
		&s.ProductID, &s.Size, &s.Stock, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get size: %w", err)
	}
	return &s, nil
}

// Insert crea la talla; domain.ErrDuplicate si (producto, talla) ya existe.
func (r *StockRepo) Insert(ctx context.Context, stock *entity.SizeStock) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_sizes (product_id, size, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		stock.ProductID, stock.Size, stock.Stock, stock.CreatedAt, stock.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert size: %w", err)
	}
	return nil
}

// Upsert inserta o actualiza el stock (por producto y talla).
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.SizeStock) error {
	query := `
		INSERT INTO product_sizes (product_id, size, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (product_id, size)
		DO UPDATE SET stock = EXCLUDED.stock, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, stock.ProductID, stock.Size, stock.Stock, stock.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert size: %w", err)
	}
	return nil
}

// Delete elimina una talla. Devuelve false si no existía.
func (r *StockRepo) Delete(ctx context.Context, productID, size string) (bool, error) {
	if !validID(productID) {
		return false, nil
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM product_sizes WHERE product_id = $1 AND size = $2`, productID, size)
	if err != nil {
		return false, fmt.Errorf("delete size: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CountByProduct número de tallas del producto.
func (r *StockRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	if !validID(productID) {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM product_sizes WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sizes: %w", err)
	}
	return n, nil
}
