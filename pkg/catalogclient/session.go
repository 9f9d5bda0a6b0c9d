package catalogclient

import (
	"context"
	"sync"
)

// Lister fuente de la lista canónica (Fetcher en producción).
type Lister interface {
	List(ctx context.Context) ([]Product, error)
}

// ChangeFunc se invoca tras cada reconciliación con el estado nuevo y los avisos.
type ChangeFunc func(state ViewState, list []Product, notices []Notice)

// Session une caché, estado local y reconciliación. Es el único escritor de la caché.
type Session struct {
	cache    *Cache
	source   Lister
	onChange ChangeFunc

	mu    sync.Mutex
	state ViewState
}

// NewSession crea la sesión. onChange puede ser nil; se ejecuta con la sesión bloqueada
// y no debe llamar de vuelta a la sesión.
func NewSession(source Lister, onChange ChangeFunc) *Session {
	if onChange == nil {
		onChange = func(ViewState, []Product, []Notice) {}
	}
	return &Session{cache: NewCache(), source: source, onChange: onChange}
}

// Cache caché de solo lectura para los renderizadores.
func (s *Session) Cache() *Cache { return s.cache }

// State copia del estado local actual.
func (s *Session) State() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update aplica un cambio de interfaz (filtros, abrir detalle, editar) sobre el estado.
func (s *Session) Update(fn func(ViewState) ViewState) ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state
}

// Refresh vuelve a leer la lista completa. Si mientras tanto llegó un evento más nuevo,
// el resultado se descarta.
func (s *Session) Refresh(ctx context.Context) error {
	_, seq := s.cache.Snapshot()
	list, err := s.source.List(ctx)
	if err != nil {
		return err
	}
	s.apply(list, seq)
	return nil
}

// Handle procesa un mensaje del canal. hello fija la secuencia de referencia y relee la lista.
func (s *Session) Handle(ctx context.Context, env Envelope) error {
	switch env.Event {
	case EventHello:
		s.cache.Rebase(env.Seq)
		return s.Refresh(ctx)
	case EventStockUpdated, EventProductsUpdated:
		s.apply(env.Products, env.Seq)
	}
	return nil
}

func (s *Session) apply(list []Product, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cache.Replace(list, seq) {
		return
	}
	current, _ := s.cache.Snapshot()
	next, notices := Reconcile(s.state, current)
	s.state = next
	s.onChange(next, current, notices)
}
