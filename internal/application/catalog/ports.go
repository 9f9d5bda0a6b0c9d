package catalog

import (
	"context"
	"time"

	"github.com/jhoicas/catalogo-calzado/internal/application/dto"
	"github.com/jhoicas/catalogo-calzado/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil; Rollback en cualquier otro caso. La conexión se libera siempre.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		stockRepo repository.StockRepository,
	) error) error
}

// EventKind etiqueta del mensaje de difusión. Ambos tipos llevan la misma carga.
type EventKind string

const (
	EventStockUpdated    EventKind = "stock_updated"
	EventProductsUpdated EventKind = "products_updated"
)

// Event mensaje publicado tras cada commit: la lista canónica completa, nunca un delta.
// Seq crece de forma estricta entre publicaciones del mismo proceso.
type Event struct {
	Kind     EventKind             `json:"event"`
	Seq      uint64                `json:"seq"`
	Products []dto.ProductResponse `json:"products"`
}

// Broadcaster canal de difusión hacia los clientes conectados.
type Broadcaster interface {
	Broadcast(ev Event)
}

// NopBroadcaster descarta los eventos (seed, herramientas de línea de comandos).
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(Event) {}

// FeedBuilder genera el feed XML de productos para catálogos externos.
type FeedBuilder interface {
	Build(products []dto.ProductResponse) ([]byte, error)
}

// ReportGenerator genera el reporte PDF de inventario.
type ReportGenerator interface {
	GenerateStockReport(ctx context.Context, stats dto.StatsResponse, products []dto.ProductResponse, generatedAt time.Time) ([]byte, error)
}
