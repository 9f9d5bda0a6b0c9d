// Package realtime difunde la lista canónica a los navegadores conectados por websocket.
package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jhoicas/catalogo-calzado/internal/application/catalog"
	"github.com/jhoicas/catalogo-calzado/pkg/logger"
)

// EventHello primer mensaje de cada conexión: solo informa la secuencia actual.
const EventHello catalog.EventKind = "hello"

var _ catalog.Broadcaster = (*Hub)(nil)

type outbound struct {
	seq     uint64
	payload []byte
}

// Hub mantiene el conjunto de clientes y les reenvía cada evento en orden de publicación.
// Solo la goroutine de Run toca el mapa de clientes.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound
	done       chan struct{}

	pingPeriod time.Duration
	log        *logger.Logger
	lastSeq    uint64
}

// NewHub crea el hub. pingPeriod <= 0 usa el valor por defecto.
func NewHub(pingPeriod time.Duration, log *logger.Logger) *Hub {
	if pingPeriod <= 0 {
		pingPeriod = defaultPingPeriod
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound, 64),
		done:       make(chan struct{}),
		pingPeriod: pingPeriod,
		log:        log,
	}
}

// Run procesa altas, bajas y difusiones hasta que ctx se cancela; entonces cierra todos los clientes.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				c.close()
				delete(h.clients, c)
			}
			h.log.Info().Msg("hub detenido")
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			// Lleva la secuencia vigente al registrarse; toda difusión posterior es mayor.
			if hello, err := json.Marshal(catalog.Event{Kind: EventHello, Seq: h.lastSeq}); err == nil {
				c.hello <- hello
			}
			h.log.Info().Int("clientes", len(h.clients)).Msg("cliente conectado")
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.close()
				h.log.Info().Int("clientes", len(h.clients)).Msg("cliente desconectado")
			}
		case msg := <-h.broadcast:
			if msg.seq > h.lastSeq {
				h.lastSeq = msg.seq
			}
			for c := range h.clients {
				c.offer(msg.payload)
			}
		}
	}
}

// Broadcast serializa el evento una sola vez y lo encola para todos los clientes.
// Tras detenerse el hub los eventos se descartan.
func (h *Hub) Broadcast(ev catalog.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Str("event", string(ev.Kind)).Msg("serializar evento")
		return
	}
	select {
	case h.broadcast <- outbound{seq: ev.Seq, payload: payload}:
	case <-h.done:
	}
}

// Serve registra la conexión y bloquea hasta que se cierra y su escritor termina:
// el handler de websocket devuelve la conexión al pool al retornar.
func (h *Hub) Serve(conn Conn) {
	c := newClient(h, conn)
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}
	written := make(chan struct{})
	go func() {
		defer close(written)
		c.writePump()
	}()
	c.readPump()
	c.close()
	<-written
}

// Done se cierra cuando Run termina.
func (h *Hub) Done() <-chan struct{} { return h.done }

func (h *Hub) drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
