// Package storage elige el almacenamiento del inventario según STORE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/catalogo-calzado/internal/application/catalog"
	"github.com/jhoicas/catalogo-calzado/internal/domain/repository"
	"github.com/jhoicas/catalogo-calzado/internal/infrastructure/memory"
	"github.com/jhoicas/catalogo-calzado/internal/infrastructure/postgres"
	"github.com/jhoicas/catalogo-calzado/pkg/config"
	"github.com/jhoicas/catalogo-calzado/pkg/logger"
)

// Backend repositorios fuera de transacción más el ejecutor de transacciones.
type Backend struct {
	Driver    string
	TxRunner  catalog.TxRunner
	Products  repository.ProductRepository
	Analytics repository.AnalyticsRepository
	close     func()
}

// Close libera el pool (no-op en memoria).
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open conecta y, en PostgreSQL, aplica el esquema embebido.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &Backend{
			Driver:    config.DriverMemory,
			TxRunner:  store,
			Products:  store.Products(),
			Analytics: store.Analytics(),
		}, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB, log)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrar esquema: %w", err)
		}
		return &Backend{
			Driver:    config.DriverPostgres,
			TxRunner:  postgres.NewTxRunner(pool),
			Products:  postgres.NewProductRepository(pool),
			Analytics: postgres.NewAnalyticsRepository(pool),
			close:     pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.Store.Driver)
	}
}
