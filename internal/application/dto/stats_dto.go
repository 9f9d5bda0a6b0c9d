package dto

// GeneralStatsDTO contadores globales del inventario.
type GeneralStatsDTO struct {
	TotalProducts   int64 `json:"totalProducts"`
	TotalStock      int64 `json:"totalStock"`
	OutOfStockSizes int64 `json:"outOfStockSizes"`
	LowStockSizes   int64 `json:"lowStockSizes"`
}

// ProductStockDTO producto del top de menor stock.
type ProductStockDTO struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Brand      string `json:"brand"`
	TotalStock int64  `json:"total_stock"`
	TotalSizes int64  `json:"total_sizes"`
}

// BrandStockDTO stock agregado por marca.
type BrandStockDTO struct {
	Brand         string `json:"brand"`
	TotalStock    int64  `json:"total_stock"`
	ProductsCount int64  `json:"products_count"`
}

// StatsResponse respuesta de GET /api/admin/stats.
type StatsResponse struct {
	General      GeneralStatsDTO   `json:"general"`
	TopProducts  []ProductStockDTO `json:"topProducts"`  // 5 productos con menos stock
	StockByBrand []BrandStockDTO   `json:"stockByBrand"` // descendente por stock
}
