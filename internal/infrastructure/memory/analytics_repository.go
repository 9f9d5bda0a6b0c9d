package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/catalogo-calzado/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*analyticsRepo)(nil)

type analyticsRepo struct {
	store *Store
}

func (r *analyticsRepo) General(_ context.Context, lowStockThreshold int) (repository.GeneralStats, error) {
	return read(r.store, nil, func(st *state) (repository.GeneralStats, error) {
		out := repository.GeneralStats{TotalProducts: int64(len(st.products))}
		for _, rows := range st.sizes {
			for _, row := range rows {
				out.TotalStock += int64(row.Stock)
				switch {
				case row.Stock == 0:
					out.OutOfStockSizes++
				case row.Stock < lowStockThreshold:
					out.LowStockSizes++
				}
			}
		}
		return out, nil
	})
}

func (r *analyticsRepo) LowestStockProducts(_ context.Context, limit int) ([]repository.ProductStockSummary, error) {
	return read(r.store, nil, func(st *state) ([]repository.ProductStockSummary, error) {
		out := make([]repository.ProductStockSummary, 0, len(st.products))
		for id, p := range st.products {
			s := repository.ProductStockSummary{ProductID: id, Title: p.Title, Brand: p.Brand}
			for _, row := range st.sizes[id] {
				s.TotalStock += int64(row.Stock)
				s.TotalSizes++
			}
			out = append(out, s)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].TotalStock != out[j].TotalStock {
				return out[i].TotalStock < out[j].TotalStock
			}
			return out[i].Title < out[j].Title
		})
		if limit >= 0 && len(out) > limit {
			out = out[:limit]
		}
		return out, nil
	})
}

func (r *analyticsRepo) StockByBrand(_ context.Context) ([]repository.BrandStock, error) {
	return read(r.store, nil, func(st *state) ([]repository.BrandStock, error) {
		byBrand := map[string]*repository.BrandStock{}
		for id, p := range st.products {
			b, ok := byBrand[p.Brand]
			if !ok {
				b = &repository.BrandStock{Brand: p.Brand}
				byBrand[p.Brand] = b
			}
			b.ProductsCount++
			for _, row := range st.sizes[id] {
				b.TotalStock += int64(row.Stock)
			}
		}
		out := make([]repository.BrandStock, 0, len(byBrand))
		for _, b := range byBrand {
			out = append(out, *b)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].TotalStock != out[j].TotalStock {
				return out[i].TotalStock > out[j].TotalStock
			}
			return out[i].Brand < out[j].Brand
		})
		return out, nil
	})
}
