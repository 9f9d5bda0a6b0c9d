package repository

import "context"

// GeneralStats contadores globales del inventario.
type GeneralStats struct {
	TotalProducts   int64
	TotalStock      int64
	OutOfStockSizes int64 // tallas con stock = 0
	LowStockSizes   int64 // tallas con 0 < stock < umbral
}

// ProductStockSummary stock agregado de un producto (todas sus tallas).
type ProductStockSummary struct {
	ProductID  string
	Title      string
	Brand      string
	TotalStock int64
	TotalSizes int64
}

// BrandStock stock agregado por marca.
type BrandStock struct {
	Brand         string
	TotalStock    int64
	ProductsCount int64
}

// AnalyticsRepository consultas de solo lectura para el panel de administración.
type AnalyticsRepository interface {
	General(ctx context.Context, lowStockThreshold int) (GeneralStats, error)
	// LowestStockProducts devuelve los productos con menos stock total (ascendente).
	LowestStockProducts(ctx context.Context, limit int) ([]ProductStockSummary, error)
	// StockByBrand devuelve el stock por marca, descendente.
	StockByBrand(ctx context.Context) ([]BrandStock, error)
}
