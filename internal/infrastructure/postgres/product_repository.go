package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-calzado/internal/domain"
	"github.com/jhoicas/catalogo-calzado/internal/domain/entity"
	"github.com/jhoicas/catalogo-calzado/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, title, brand, price, image_url, created_at, updated_at`

// Lista canónica en una sola consulta: una fila por (producto, talla); productos sin tallas traen NULL.
const listWithSizesQuery = `
	SELECT p.id, p.title, p.brand, p.price, p.image_url, p.created_at, p.updated_at,
	       ps.size, ps.stock, ps.created_at, ps.updated_at
	FROM products p
	LEFT JOIN product_sizes ps ON ps.product_id = p.id`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Un título repetido devuelve domain.ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Title, product.Brand, product.Price, product.ImageURL,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID (sin tallas).
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene el producto y bloquea su fila hasta el fin de la transacción.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

// GetByTitle busca por título exacto.
func (r *ProductRepo) GetByTitle(ctx context.Context, title string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE title = $1`, title)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Title, &p.Brand, &p.Price, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update actualiza los campos editables del producto.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET title = $2, brand = $3, price = $4, image_url = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		product.ID, product.Title, product.Brand, product.Price, product.ImageURL, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("producto " + product.ID)
	}
	return nil
}

// Delete borra el producto; las tallas caen por ON DELETE CASCADE.
func (r *ProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetWithSizes devuelve el producto con sus tallas ordenadas por etiqueta.
func (r *ProductRepo) GetWithSizes(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	list, err := r.queryWithSizes(ctx, listWithSizesQuery+` WHERE p.id = $1 ORDER BY ps.size COLLATE "C"`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListWithSizes devuelve la lista canónica: productos (created_at DESC, id) con tallas en orden de bytes.
func (r *ProductRepo) ListWithSizes(ctx context.Context) ([]*entity.Product, error) {
	return r.queryWithSizes(ctx, listWithSizesQuery+` ORDER BY p.created_at DESC, p.id, ps.size COLLATE "C"`)
}

// Count devuelve el número de productos.
func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// queryWithSizes agrupa las filas del JOIN por producto conservando el orden de la consulta.
func (r *ProductRepo) queryWithSizes(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Product, 0)
	var current *entity.Product
	for rows.Next() {
		var p entity.Product
		var (
			size               *string
			stock              *int
			sCreated, sUpdated *time.Time
		)
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Brand, &p.Price, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
			&size, &stock, &sCreated, &sUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if current == nil || current.ID != p.ID {
			p.Sizes = make([]entity.SizeStock, 0)
			current = &p
			out = append(out, current)
		}
		if size != nil {
			s := entity.SizeStock{ProductID: current.ID, Size: *size}
			if stock != nil {
				s.Stock = *stock
			}
			if sCreated != nil {
				s.CreatedAt = *sCreated
			}
			if sUpdated != nil {
				s.UpdatedAt = *sUpdated
			}
			current.Sizes = append(current.Sizes, s)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}
