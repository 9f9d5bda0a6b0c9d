// Package pdf genera el reporte de inventario en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la tienda  │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Productos | Unidades | Agotadas | Stock bajo        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MARCAS: Marca | Productos | Unidades                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DETALLE: Producto | Marca | Precio | Tallas | Total         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR al catálogo + leyenda                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/catalogo-calzado/internal/application/catalog"
	"github.com/jhoicas/catalogo-calzado/internal/application/dto"
)

var _ catalog.ReportGenerator = (*StockReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// StockReportGenerator implementa catalog.ReportGenerator usando Maroto v2.
type StockReportGenerator struct {
	storeName  string
	catalogURL string
	lowStock   int
}

// NewStockReportGenerator construye el generador. catalogURL vacío omite el QR.
func NewStockReportGenerator(storeName, catalogURL string, lowStock int) *StockReportGenerator {
	return &StockReportGenerator{storeName: storeName, catalogURL: catalogURL, lowStock: lowStock}
}

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *StockReportGenerator) GenerateStockReport(
	_ context.Context,
	stats dto.StatsResponse,
	products []dto.ProductResponse,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de inventario", true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.storeName, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(stats.General, g.lowStock))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("STOCK POR MARCA"))
	m.AddRows(brandHeaderRow())
	m.AddRows(brandRows(stats.StockByBrand)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("DETALLE POR PRODUCTO"))
	m.AddRows(productHeaderRow())
	m.AddRows(productRows(products, g.lowStock)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(g.catalogURL)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(storeName string, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(storeName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Catálogo de calzado", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// summaryRow: cuatro contadores del panel.
func summaryRow(g dto.GeneralStatsDTO, lowStock int) core.Row {
	box := func(label string, value int64) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(strconv.FormatInt(value, 10), props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Center, Color: colorPrimary, Top: 6,
			}),
		)
	}
	return row.New(16).Add(
		box("Productos", g.TotalProducts),
		box("Unidades en stock", g.TotalStock),
		box("Tallas agotadas", g.OutOfStockSizes),
		box(fmt.Sprintf("Tallas con stock < %d", lowStock), g.LowStockSizes),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a,
		Color: colorWhite, Top: 2, Left: 1, Right: 1,
	})).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func brandHeaderRow() core.Row {
	return row.New(7).Add(
		headerCell("Marca", 6, align.Left),
		headerCell("Productos", 3, align.Center),
		headerCell("Unidades", 3, align.Right),
	)
}

func brandRows(brands []dto.BrandStockDTO) []core.Row {
	result := make([]core.Row, 0, len(brands))
	for _, b := range brands {
		result = append(result, row.New(6).Add(
			col.New(6).Add(text.New(b.Brand, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(strconv.FormatInt(b.ProductsCount, 10), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(strconv.FormatInt(b.TotalStock, 10), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func productHeaderRow() core.Row {
	return row.New(7).Add(
		headerCell("Producto", 4, align.Left),
		headerCell("Marca", 2, align.Left),
		headerCell("Precio", 2, align.Right),
		headerCell("Tallas (stock)", 3, align.Left),
		headerCell("Total", 1, align.Right),
	)
}

// productRows: una fila por producto; en rojo si alguna talla está agotada o baja.
func productRows(products []dto.ProductResponse, lowStock int) []core.Row {
	result := make([]core.Row, 0, len(products))
	for _, p := range products {
		total := 0
		alert := false
		for _, s := range p.Sizes {
			total += s.Stock
			if s.Stock < lowStock {
				alert = true
			}
		}
		sizesStyle := props.Text{Size: 7, Top: 1, Left: 1}
		if alert {
			sizesStyle.Color = colorAlert
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(p.Title, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(p.Brand, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New("$"+formatMoney(p.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(sizesSummary(p.Sizes), sizesStyle)),
			col.New(1).Add(text.New(strconv.Itoa(total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func footerRows(catalogURL string) []core.Row {
	legend := "Reporte generado a partir de la lista de productos vigente al momento de la descarga."
	if catalogURL == "" {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New(legend, props.Text{Size: 6.5, Color: colorGray, Top: 2}),
		))}
	}
	return []core.Row{
		row.New(34).Add(
			col.New(3).Add(code.NewQr(catalogURL, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New("Escanea el código QR para abrir el catálogo en línea.", props.Text{
					Size: 8, Top: 6, Left: 3, Color: colorGray,
				}),
				text.New(legend, props.Text{Size: 6.5, Top: 16, Left: 3, Color: colorGray}),
			),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func sizesSummary(sizes []dto.SizeResponse) string {
	if len(sizes) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(sizes))
	for _, s := range sizes {
		parts = append(parts, fmt.Sprintf("%s(%d)", s.Size, s.Stock))
	}
	return strings.Join(parts, " ")
}

// formatMoney inserta puntos de miles en la parte entera y coma decimal.
// Ej: "74.99" → "74,99", "1250000.50" → "1.250.000,50"
func formatMoney(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if hasFrac {
		buf = append(buf, ',')
		buf = append(buf, frac...)
	}
	return string(buf)
}
