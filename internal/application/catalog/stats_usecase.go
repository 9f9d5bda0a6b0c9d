package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/catalogo-calzado/internal/application/dto"
	"github.com/jhoicas/catalogo-calzado/internal/domain"
	"github.com/jhoicas/catalogo-calzado/internal/domain/entity"
	"github.com/jhoicas/catalogo-calzado/internal/domain/repository"
)

const statsTopProducts = 5 // productos con menos stock en el panel

// StatsUseCase estadísticas de inventario del panel de administración.
type StatsUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	productRepo   repository.ProductRepository
	report        ReportGenerator
	lowStock      int
	now           func() time.Time
}

// NewStatsUseCase construye el caso de uso. lowStock <= 0 usa el umbral por defecto.
func NewStatsUseCase(analyticsRepo repository.AnalyticsRepository, productRepo repository.ProductRepository, report ReportGenerator, lowStock int) *StatsUseCase {
	if lowStock <= 0 {
		lowStock = entity.LowStockThreshold
	}
	return &StatsUseCase{
		analyticsRepo: analyticsRepo,
		productRepo:   productRepo,
		report:        report,
		lowStock:      lowStock,
		now:           time.Now,
	}
}

// Summary consulta los tres bloques del panel en paralelo.
func (uc *StatsUseCase) Summary(ctx context.Context) (dto.StatsResponse, error) {
	type generalResult struct {
		stats repository.GeneralStats
		err   error
	}
	type topResult struct {
		rows []repository.ProductStockSummary
		err  error
	}
	type brandResult struct {
		rows []repository.BrandStock
		err  error
	}

	generalCh := make(chan generalResult, 1)
	topCh := make(chan topResult, 1)
	brandCh := make(chan brandResult, 1)

	go func() {
		st, err := uc.analyticsRepo.General(ctx, uc.lowStock)
		generalCh <- generalResult{st, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.LowestStockProducts(ctx, statsTopProducts)
		topCh <- topResult{rows, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.StockByBrand(ctx)
		brandCh <- brandResult{rows, err}
	}()

	general := <-generalCh
	top := <-topCh
	brands := <-brandCh

	for _, err := range []error{general.err, top.err, brands.err} {
		if err != nil {
			return dto.StatsResponse{}, &domain.PersistenceError{Op: "stats", Err: err}
		}
	}

	out := dto.StatsResponse{
		General: dto.GeneralStatsDTO{
			TotalProducts:   general.stats.TotalProducts,
			TotalStock:      general.stats.TotalStock,
			OutOfStockSizes: general.stats.OutOfStockSizes,
			LowStockSizes:   general.stats.LowStockSizes,
		},
		TopProducts:  make([]dto.ProductStockDTO, 0, len(top.rows)),
		StockByBrand: make([]dto.BrandStockDTO, 0, len(brands.rows)),
	}
	for _, r := range top.rows {
		out.TopProducts = append(out.TopProducts, dto.ProductStockDTO{
			ID:         r.ProductID,
			Title:      r.Title,
			Brand:      r.Brand,
			TotalStock: r.TotalStock,
			TotalSizes: r.TotalSizes,
		})
	}
	for _, r := range brands.rows {
		out.StockByBrand = append(out.StockByBrand, dto.BrandStockDTO{
			Brand:         r.Brand,
			TotalStock:    r.TotalStock,
			ProductsCount: r.ProductsCount,
		})
	}
	return out, nil
}

// Report genera el PDF de inventario: resumen + detalle por producto y talla.
func (uc *StatsUseCase) Report(ctx context.Context) ([]byte, error) {
	if uc.report == nil {
		return nil, fmt.Errorf("generador de reportes no configurado")
	}
	stats, err := uc.Summary(ctx)
	if err != nil {
		return nil, err
	}
	list, err := uc.productRepo.ListWithSizes(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "stats_report", Err: err}
	}
	pdf, err := uc.report.GenerateStockReport(ctx, stats, toProductResponses(list), uc.now())
	if err != nil {
		return nil, fmt.Errorf("generar reporte de stock: %w", err)
	}
	return pdf, nil
}

// LowStockThreshold umbral efectivo (stock > 0 y menor que este valor).
func (uc *StatsUseCase) LowStockThreshold() int { return uc.lowStock }
