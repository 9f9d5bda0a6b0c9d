package catalog

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-calzado/internal/application/dto"
	"github.com/jhoicas/catalogo-calzado/internal/domain"
)

// Límites de columna del esquema (VARCHAR y NUMERIC(10,2)).
const (
	maxTitleLen = 255
	maxBrandLen = 100
	maxSizeLen  = 10
)

var maxPrice = decimal.New(1, 8) // NUMERIC(10,2) admite hasta 99999999.99

type productFields struct {
	Title    string
	Brand    string
	Price    decimal.Decimal
	ImageURL string
}

type sizeEntry struct {
	Size  string
	Stock int
}

type stockChange struct {
	ProductID string
	Size      string
	Stock     int
}

func validateProduct(in *dto.ProductInput) (productFields, error) {
	if in == nil {
		return productFields{}, domain.Invalid("product", "datos del producto inválidos")
	}
	f := productFields{
		Title:    strings.TrimSpace(in.Title),
		Brand:    strings.TrimSpace(in.Brand),
		Price:    in.Price,
		ImageURL: strings.TrimSpace(in.ImageURL),
	}
	if f.Title == "" || f.Brand == "" || f.ImageURL == "" {
		return productFields{}, domain.Invalid("product", "faltan campos obligatorios del producto")
	}
	if utf8.RuneCountInString(f.Title) > maxTitleLen {
		return productFields{}, domain.Invalid("title", fmt.Sprintf("máximo %d caracteres", maxTitleLen))
	}
	if utf8.RuneCountInString(f.Brand) > maxBrandLen {
		return productFields{}, domain.Invalid("brand", fmt.Sprintf("máximo %d caracteres", maxBrandLen))
	}
	// Se valida el precio ya redondeado: es el valor que se guarda.
	f.Price = f.Price.Round(2)
	if !f.Price.GreaterThan(decimal.Zero) || f.Price.GreaterThanOrEqual(maxPrice) {
		return productFields{}, domain.Invalid("price", "precio inválido")
	}
	return f, nil
}

func validateSizeLabel(raw dto.FlexString) (string, error) {
	label := raw.Trimmed()
	if label == "" {
		return "", domain.Invalid("size", "la talla es obligatoria")
	}
	if utf8.RuneCountInString(label) > maxSizeLen {
		return "", domain.Invalid("size", fmt.Sprintf("máximo %d caracteres", maxSizeLen))
	}
	return label, nil
}

func validateStock(v dto.FlexInt) (int, error) {
	stock := v.OrZero()
	if stock < 0 {
		return 0, domain.Invalid("stock", "el stock no puede ser negativo")
	}
	if stock > math.MaxInt32 {
		return 0, domain.Invalid("stock", fmt.Sprintf("máximo %d unidades", math.MaxInt32))
	}
	return stock, nil
}

// validateSizes limpia las tallas iniciales: descarta etiquetas vacías y rechaza duplicadas.
func validateSizes(in []dto.SizeInput) ([]sizeEntry, error) {
	if len(in) == 0 {
		return nil, domain.Invalid("sizes", "debe incluir al menos una talla")
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]sizeEntry, 0, len(in))
	for _, s := range in {
		if s.Size.Trimmed() == "" {
			continue
		}
		label, err := validateSizeLabel(s.Size)
		if err != nil {
			return nil, err
		}
		stock, err := validateStock(s.Stock)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[label]; dup {
			return nil, &domain.ValidationError{Field: "sizes", Reason: fmt.Sprintf("la talla %s está repetida", label), Err: domain.ErrDuplicate}
		}
		seen[label] = struct{}{}
		out = append(out, sizeEntry{Size: label, Stock: stock})
	}
	if len(out) == 0 {
		return nil, domain.Invalid("sizes", "debe incluir al menos una talla válida")
	}
	return out, nil
}

// validateStockUpdates valida el lote completo antes de abrir la transacción.
func validateStockUpdates(in []dto.StockUpdate) ([]stockChange, error) {
	if len(in) == 0 {
		return nil, domain.Invalid("updates", "updates debe ser un arreglo no vacío")
	}
	out := make([]stockChange, 0, len(in))
	for i, u := range in {
		pid := u.ProductID.Trimmed()
		if pid == "" {
			return nil, domain.Invalid(fmt.Sprintf("updates[%d].productId", i), "es obligatorio")
		}
		label, err := validateSizeLabel(u.Size)
		if err != nil {
			return nil, domain.Invalid(fmt.Sprintf("updates[%d].size", i), err.(*domain.ValidationError).Reason)
		}
		stock, err := validateStock(u.Stock)
		if err != nil {
			return nil, domain.Invalid(fmt.Sprintf("updates[%d].stock", i), err.(*domain.ValidationError).Reason)
		}
		out = append(out, stockChange{ProductID: pid, Size: label, Stock: stock})
	}
	return out, nil
}

// productIDs devuelve los IDs distintos ordenados: bloquear siempre en el mismo orden evita deadlocks.
func productIDs(changes []stockChange) []string {
	set := make(map[string]struct{}, len(changes))
	for _, c := range changes {
		set[c.ProductID] = struct{}{}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func duplicateTitle(title string) error {
	return &domain.ValidationError{Field: "title", Reason: fmt.Sprintf("ya existe un producto con el título %q", title), Err: domain.ErrDuplicate}
}
