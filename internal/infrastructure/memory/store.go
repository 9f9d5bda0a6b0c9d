// Package memory implementa los puertos de inventario en memoria, con transacciones
// copy-on-write: cada Run trabaja sobre un clon del estado y solo lo publica si fn no falla.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/catalogo-calzado/internal/application/catalog"
	"github.com/jhoicas/catalogo-calzado/internal/domain/entity"
	"github.com/jhoicas/catalogo-calzado/internal/domain/repository"
)

var _ catalog.TxRunner = (*Store)(nil)

type state struct {
	products map[string]entity.Product              // sin Sizes
	sizes    map[string]map[string]entity.SizeStock // product_id -> size -> fila
}

func newState() state {
	return state{
		products: map[string]entity.Product{},
		sizes:    map[string]map[string]entity.SizeStock{},
	}
}

func (s state) clone() state {
	out := state{
		products: make(map[string]entity.Product, len(s.products)),
		sizes:    make(map[string]map[string]entity.SizeStock, len(s.sizes)),
	}
	for k, v := range s.products {
		out.products[k] = v
	}
	for pid, rows := range s.sizes {
		m := make(map[string]entity.SizeStock, len(rows))
		for size, row := range rows {
			m[size] = row
		}
		out.sizes[pid] = m
	}
	return out
}

// productWithSizes copia el producto con sus tallas en orden de bytes.
func (s *state) productWithSizes(id string) *entity.Product {
	p, ok := s.products[id]
	if !ok {
		return nil
	}
	rows := s.sizes[id]
	p.Sizes = make([]entity.SizeStock, 0, len(rows))
	for _, row := range rows {
		p.Sizes = append(p.Sizes, row)
	}
	sort.Slice(p.Sizes, func(i, j int) bool { return p.Sizes[i].Size < p.Sizes[j].Size })
	return &p
}

// canonical lista completa: created_at DESC, id ASC.
func (s *state) canonical() []*entity.Product {
	out := make([]*entity.Product, 0, len(s.products))
	for id := range s.products {
		out = append(out, s.productWithSizes(id))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Store almacén en memoria. Las transacciones se serializan con un único lock de escritura.
type Store struct {
	mu sync.RWMutex
	st state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Products repositorio de productos fuera de transacción (lecturas del catálogo, publicación).
func (s *Store) Products() repository.ProductRepository {
	return &productRepo{store: s}
}

// Stock repositorio de tallas fuera de transacción.
func (s *Store) Stock() repository.StockRepository {
	return &stockRepo{store: s}
}

// Analytics consultas del panel.
func (s *Store) Analytics() repository.AnalyticsRepository {
	return &analyticsRepo{store: s}
}

// Run ejecuta fn sobre un clon del estado; el clon reemplaza al estado solo si fn devuelve nil.
// Un panic dentro de fn deja el estado intacto.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.st.clone()
	if err := fn(&productRepo{tx: &tx}, &stockRepo{tx: &tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// read ejecuta fn sobre el estado de la transacción o, fuera de ella, bajo lock de lectura.
func read[T any](store *Store, tx *state, fn func(*state) (T, error)) (T, error) {
	if tx != nil {
		return fn(tx)
	}
	store.mu.RLock()
	defer store.mu.RUnlock()
	return fn(&store.st)
}

// write igual que read pero con lock exclusivo fuera de transacción.
func write[T any](store *Store, tx *state, fn func(*state) (T, error)) (T, error) {
	if tx != nil {
		return fn(tx)
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	return fn(&store.st)
}
