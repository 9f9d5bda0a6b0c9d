// Package catalogclient mantiene en el cliente una copia de la lista canónica del catálogo
// y reconcilia con ella el estado local de la interfaz (filtros, vista de detalle, formulario admin).
package catalogclient

// Size stock de una talla tal como la publica el servidor.
type Size struct {
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

// Product producto de la lista canónica.
type Product struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Brand    string `json:"brand"`
	Price    string `json:"price"`
	ImageURL string `json:"image_url"`
	Sizes    []Size `json:"sizes"`
}

// SizeOf devuelve la talla y si existe.
func (p Product) SizeOf(label string) (Size, bool) {
	for _, s := range p.Sizes {
		if s.Size == label {
			return s, true
		}
	}
	return Size{}, false
}

// Purchasable indica si la talla existe y tiene stock.
func (p Product) Purchasable(label string) bool {
	s, ok := p.SizeOf(label)
	return ok && s.Stock > 0
}

// TotalStock suma de todas las tallas.
func (p Product) TotalStock() int {
	n := 0
	for _, s := range p.Sizes {
		n += s.Stock
	}
	return n
}

// Tipos de evento del canal en tiempo real.
const (
	EventHello           = "hello"
	EventStockUpdated    = "stock_updated"
	EventProductsUpdated = "products_updated"
)

// Envelope mensaje recibido por websocket. En hello Products viene vacío.
type Envelope struct {
	Event    string    `json:"event"`
	Seq      uint64    `json:"seq"`
	Products []Product `json:"products"`
}

func findProduct(list []Product, id string) (Product, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
