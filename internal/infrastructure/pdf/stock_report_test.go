package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-calzado/internal/application/dto"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "74,99", formatMoney("74.99"))
	assert.Equal(t, "1.250.000,50", formatMoney("1250000.50"))
	assert.Equal(t, "999", formatMoney("999"))
}

func TestSizesSummary(t *testing.T) {
	assert.Equal(t, "-", sizesSummary(nil))
	assert.Equal(t, "38(2) 39(0)", sizesSummary([]dto.SizeResponse{{Size: "38", Stock: 2}, {Size: "39", Stock: 0}}))
}

func TestGenerateStockReport(t *testing.T) {
	g := NewStockReportGenerator("Calzado Boni", "http://localhost:3000", 5)
	stats := dto.StatsResponse{
		General:      dto.GeneralStatsDTO{TotalProducts: 1, TotalStock: 2, OutOfStockSizes: 1, LowStockSizes: 1},
		StockByBrand: []dto.BrandStockDTO{{Brand: "Boni", TotalStock: 2, ProductsCount: 1}},
	}
	products := []dto.ProductResponse{{
		ID: "a", Title: "Zapato Boni urbanos color negro", Brand: "Boni", Price: "74.99",
		Sizes: []dto.SizeResponse{{Size: "38", Stock: 2}, {Size: "39", Stock: 0}},
	}}

	out, err := g.GenerateStockReport(context.Background(), stats, products, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
