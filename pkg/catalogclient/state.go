package catalogclient

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Listing filtros activos del listado.
type Listing struct {
	Search string
	Brand  string
}

// Visible aplica los filtros a list sin reordenarla.
func (l Listing) Visible(list []Product) []Product {
	search := strings.ToLower(strings.TrimSpace(l.Search))
	out := make([]Product, 0, len(list))
	for _, p := range list {
		if l.Brand != "" && !strings.EqualFold(p.Brand, l.Brand) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Brand), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// DetailMode estado de la vista de detalle.
type DetailMode int

const (
	DetailClosed DetailMode = iota
	DetailOpen
	DetailSizeSelected
)

func (m DetailMode) String() string {
	switch m {
	case DetailOpen:
		return "open"
	case DetailSizeSelected:
		return "size_selected"
	default:
		return "closed"
	}
}

// ErrSizeUnavailable la talla no existe o no tiene stock.
var ErrSizeUnavailable = errors.New("talla no disponible")

// Detail vista de detalle: Closed → Open → SizeSelected → Closed.
type Detail struct {
	Mode    DetailMode
	Product Product
	Size    string
}

// Open abre el detalle de un producto sin talla elegida.
func (d Detail) Open(p Product) Detail {
	return Detail{Mode: DetailOpen, Product: p}
}

// Select elige una talla con stock.
func (d Detail) Select(size string) (Detail, error) {
	if d.Mode == DetailClosed {
		return d, errors.New("detalle cerrado")
	}
	if !d.Product.Purchasable(size) {
		return d, fmt.Errorf("%s: %w", size, ErrSizeUnavailable)
	}
	d.Mode = DetailSizeSelected
	d.Size = size
	return d, nil
}

// Close cierra el detalle.
func (d Detail) Close() Detail { return Detail{} }

// EditKey identifica un campo del formulario de stock.
type EditKey struct {
	ProductID string
	Size      string
}

// AdminForm cambios sin guardar del formulario de stock, por (producto, talla).
type AdminForm struct {
	Edits map[EditKey]int
}

// Set registra un cambio local.
func (f *AdminForm) Set(productID, size string, stock int) {
	if f.Edits == nil {
		f.Edits = make(map[EditKey]int)
	}
	f.Edits[EditKey{ProductID: productID, Size: size}] = stock
}

// FormRow un campo renderizado: valor canónico más el cambio local si existe.
type FormRow struct {
	ProductID string
	Size      string
	Canonical int
	Value     int
	Dirty     bool
}

// Rows renderiza el formulario sobre list, reaplicando los cambios locales.
func (f AdminForm) Rows(list []Product) []FormRow {
	rows := make([]FormRow, 0)
	for _, p := range list {
		for _, s := range p.Sizes {
			row := FormRow{ProductID: p.ID, Size: s.Size, Canonical: s.Stock, Value: s.Stock}
			if v, ok := f.Edits[EditKey{ProductID: p.ID, Size: s.Size}]; ok {
				row.Value = v
				row.Dirty = v != s.Stock
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// ViewState todo el estado local que depende de la lista canónica.
type ViewState struct {
	Listing Listing
	Detail  Detail
	Admin   AdminForm
}

// NoticeKind tipo de aviso al usuario tras una sincronización.
type NoticeKind string

const (
	NoticeSizeUnavailable NoticeKind = "size_unavailable"
	NoticeProductRemoved  NoticeKind = "product_removed"
	NoticeEditDropped     NoticeKind = "edit_dropped"
)

// Notice aviso generado por Reconcile.
type Notice struct {
	Kind      NoticeKind
	ProductID string
	Size      string
	Message   string
}

// Reconcile calcula el nuevo estado local frente a list. Es pura: no modifica old.
func Reconcile(old ViewState, list []Product) (ViewState, []Notice) {
	next := ViewState{Listing: old.Listing}
	var notices []Notice

	switch old.Detail.Mode {
	case DetailOpen, DetailSizeSelected:
		p, ok := findProduct(list, old.Detail.Product.ID)
		if !ok {
			notices = append(notices, Notice{
				Kind:      NoticeProductRemoved,
				ProductID: old.Detail.Product.ID,
				Message:   fmt.Sprintf("El producto %q ya no está disponible", old.Detail.Product.Title),
			})
			break
		}
		next.Detail = Detail{Mode: DetailOpen, Product: p}
		if old.Detail.Mode == DetailSizeSelected {
			if p.Purchasable(old.Detail.Size) {
				next.Detail.Mode = DetailSizeSelected
				next.Detail.Size = old.Detail.Size
			} else {
				notices = append(notices, Notice{
					Kind:      NoticeSizeUnavailable,
					ProductID: p.ID,
					Size:      old.Detail.Size,
					Message:   fmt.Sprintf("La talla %s ya no está disponible", old.Detail.Size),
				})
			}
		}
	}

	if len(old.Admin.Edits) > 0 {
		next.Admin.Edits = make(map[EditKey]int, len(old.Admin.Edits))
		keys := make([]EditKey, 0, len(old.Admin.Edits))
		for k := range old.Admin.Edits {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].ProductID != keys[j].ProductID {
				return keys[i].ProductID < keys[j].ProductID
			}
			return keys[i].Size < keys[j].Size
		})
		for _, k := range keys {
			p, ok := findProduct(list, k.ProductID)
			if ok {
				if _, ok = p.SizeOf(k.Size); ok {
					next.Admin.Edits[k] = old.Admin.Edits[k]
					continue
				}
			}
			notices = append(notices, Notice{
				Kind:      NoticeEditDropped,
				ProductID: k.ProductID,
				Size:      k.Size,
				Message:   fmt.Sprintf("Se descartó el cambio de la talla %s: ya no existe", k.Size),
			})
		}
	}

	return next, notices
}
