// Package csvimport lee catálogos en CSV exportados desde hojas de cálculo.
//
// Columnas (con encabezado, en cualquier orden): title, brand, price, image_url, sizes.
// sizes lista pares talla:stock separados por "|" (ej. "38:2|39:0|40:5").
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/catalogo-calzado/internal/application/dto"
)

// Options codificación y separador del archivo.
type Options struct {
	Encoding  string // utf-8 (defecto), iso-8859-1, windows-1252
	Delimiter rune   // ',' por defecto
}

var requiredColumns = []string{"title", "brand", "price", "image_url", "sizes"}

// Read convierte el CSV en solicitudes de creación. La validación de negocio
// (precio positivo, tallas, títulos únicos) queda para el servicio de mutaciones.
func Read(r io.Reader, opts Options) ([]dto.CreateProductRequest, error) {
	src, err := decoder(r, opts.Encoding)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(src)
	cr.TrimLeadingSpace = true
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csv: encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("csv: falta la columna %q", c)
		}
	}

	var out []dto.CreateProductRequest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: línea %d: %w", line, err)
		}
		get := func(col string) string {
			i := cols[col]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if get("title") == "" {
			continue
		}

		price, err := parsePrice(get("price"))
		if err != nil {
			return nil, fmt.Errorf("csv: línea %d: precio %q: %w", line, get("price"), err)
		}
		sizes, err := parseSizes(get("sizes"))
		if err != nil {
			return nil, fmt.Errorf("csv: línea %d: %w", line, err)
		}
		out = append(out, dto.CreateProductRequest{
			Product: &dto.ProductInput{
				Title:    get("title"),
				Brand:    get("brand"),
				Price:    price,
				ImageURL: get("image_url"),
			},
			Sizes: sizes,
		})
	}
	return out, nil
}

func decoder(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("csv: codificación no soportada %q", encoding)
	}
}

// parsePrice acepta "74.99" y "74,99".
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, " ", "")
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

func parseSizes(s string) ([]dto.SizeInput, error) {
	var out []dto.SizeInput
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		label, stock, found := strings.Cut(part, ":")
		in := dto.SizeInput{Size: dto.FlexString(strings.TrimSpace(label))}
		if found && strings.TrimSpace(stock) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(stock))
			if err != nil {
				return nil, fmt.Errorf("stock de la talla %q: %w", label, err)
			}
			in.Stock = dto.IntOf(n)
		}
		out = append(out, in)
	}
	return out, nil
}
