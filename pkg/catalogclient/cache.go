package catalogclient

import "sync"

// Cache única copia local de la lista canónica. Solo Session escribe; el resto lee Snapshot.
// Los slices entregados no se modifican nunca: cada Replace instala uno nuevo.
type Cache struct {
	mu     sync.RWMutex
	list   []Product
	seq    uint64
	loaded bool
}

// NewCache crea una caché vacía.
func NewCache() *Cache {
	return &Cache{list: []Product{}}
}

// Replace instala list si seq no es anterior al último aplicado. Devuelve false si se descartó.
func (c *Cache) Replace(list []Product, seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded && seq < c.seq {
		return false
	}
	if list == nil {
		list = []Product{}
	}
	c.list = list
	c.seq = seq
	c.loaded = true
	return true
}

// Rebase fija la secuencia de referencia sin tocar la lista. Se usa al reconectar,
// porque un servidor reiniciado vuelve a numerar desde cero.
func (c *Cache) Rebase(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = seq
}

// Snapshot lista actual y su secuencia.
func (c *Cache) Snapshot() ([]Product, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.list, c.seq
}

// Loaded indica si ya se recibió al menos una lista.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}
