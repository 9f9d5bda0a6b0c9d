package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/catalogo-calzado/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el panel de inventario.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// General contadores globales en una sola lectura.
// Bajo stock: 0 < stock < threshold. Agotado: stock = 0.
func (r *AnalyticsRepo) General(ctx context.Context, lowStockThreshold int) (repository.GeneralStats, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM products)                                              AS total_products,
	    COALESCE(SUM(stock), 0)                                                      AS total_stock,
	    COUNT(*) FILTER (WHERE stock = 0)                                            AS out_of_stock,
	    COUNT(*) FILTER (WHERE stock > 0 AND stock < $1)                             AS low_stock
	FROM product_sizes`

	var st repository.GeneralStats
	if err := r.q.QueryRow(ctx, query, lowStockThreshold).Scan(
		&st.TotalProducts, &st.TotalStock, &st.OutOfStockSizes, &st.LowStockSizes,
	); err != nil {
		return repository.GeneralStats{}, fmt.Errorf("general stats: %w", err)
	}
	return st, nil
}

// LowestStockProducts productos con menos stock total; empate por título.
func (r *AnalyticsRepo) LowestStockProducts(ctx context.Context, limit int) ([]repository.ProductStockSummary, error) {
	const query = `
	SELECT
	    p.id::TEXT,
	    p.title,
	    p.brand,
	    COALESCE(SUM(ps.stock), 0)  AS total_stock,
	    COUNT(ps.size)              AS total_sizes
	FROM products p
	LEFT JOIN product_sizes ps ON ps.product_id = p.id
	GROUP BY p.id, p.title, p.brand
	ORDER BY total_stock ASC, p.title COLLATE "C" ASC
	LIMIT $1`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("lowest stock products: %w", err)
	}
	defer rows.Close()

	out := make([]repository.ProductStockSummary, 0, limit)
	for rows.Next() {
		var s repository.ProductStockSummary
		if err := rows.Scan(&s.ProductID, &s.Title, &s.Brand, &s.TotalStock, &s.TotalSizes); err != nil {
			return nil, fmt.Errorf("scan lowest stock: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// StockByBrand stock y número de productos por marca, descendente por stock.
func (r *AnalyticsRepo) StockByBrand(ctx context.Context) ([]repository.BrandStock, error) {
	const query = `
	SELECT
	    p.brand,
	    COALESCE(SUM(ps.stock), 0)  AS total_stock,
	    COUNT(DISTINCT p.id)        AS products_count
	FROM products p
	LEFT JOIN product_sizes ps ON ps.product_id = p.id
	GROUP BY p.brand
	ORDER BY total_stock DESC, p.brand COLLATE "C" ASC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stock by brand: %w", err)
	}
	defer rows.Close()

	out := make([]repository.BrandStock, 0)
	for rows.Next() {
		var b repository.BrandStock
		if err := rows.Scan(&b.Brand, &b.TotalStock, &b.ProductsCount); err != nil {
			return nil, fmt.Errorf("scan stock by brand: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
