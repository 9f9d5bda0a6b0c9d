package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-calzado/internal/application/catalog"
	"github.com/jhoicas/catalogo-calzado/internal/application/dto"
	"github.com/jhoicas/catalogo-calzado/pkg/logger"
)

// fakeConn conexión en memoria: ReadMessage bloquea hasta Close y las escrituras de texto se registran.
type fakeConn struct {
	mu      sync.Mutex
	written [][]byte
	closed  chan struct{}
	once    sync.Once
	gate    chan struct{} // si no es nil, cada escritura de texto espera un valor
	sticky  bool          // la escritura retenida por gate no se libera al cerrar
	entered chan struct{} // recibe una señal al quedar retenida una escritura
}

func newFakeConn() *fakeConn { return &fakeConn{closed: make(chan struct{})} }

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.closed
	return 0, nil, errors.New("conexión cerrada")
}

func (f *fakeConn) WriteMessage(mt int, data []byte) error {
	if mt != websocket.TextMessage {
		return nil
	}
	f.mu.Lock()
	gate, sticky, entered := f.gate, f.sticky, f.entered
	f.mu.Unlock()
	if gate != nil {
		if entered != nil {
			select {
			case entered <- struct{}{}:
			default:
			}
		}
		if sticky {
			<-gate
		} else {
			select {
			case <-gate:
			case <-f.closed:
				return errors.New("conexión cerrada")
			}
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, append([]byte(nil), data...))
	return nil
}

func (f *fakeConn) SetReadLimit(int64)                {}
func (f *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error  { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}

func (f *fakeConn) setGate(g chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = g
}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) events(t *testing.T) []catalog.Event {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]catalog.Event, 0, len(f.written))
	for _, raw := range f.written {
		var ev catalog.Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		out = append(out, ev)
	}
	return out
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(time.Hour, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.Done()
	})
	return hub, cancel
}

func event(seq uint64, titles ...string) catalog.Event {
	ps := make([]dto.ProductResponse, 0, len(titles))
	for _, title := range titles {
		ps = append(ps, dto.ProductResponse{ID: title, Title: title})
	}
	return catalog.Event{Kind: catalog.EventStockUpdated, Seq: seq, Products: ps}
}

func TestHub_DeliversHelloThenEvents(t *testing.T) {
	hub, _ := startHub(t)
	conn := newFakeConn()
	go hub.Serve(conn)

	require.Eventually(t, func() bool { return len(conn.events(t)) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, EventHello, conn.events(t)[0].Kind)

	hub.Broadcast(event(1, "A"))
	require.Eventually(t, func() bool { return len(conn.events(t)) == 2 }, time.Second, 5*time.Millisecond)
	got := conn.events(t)[1]
	assert.Equal(t, uint64(1), got.Seq)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "A", got.Products[0].Title)
}

func TestHub_SlowClientSeesOnlyNewerStates(t *testing.T) {
	hub, _ := startHub(t)
	conn := newFakeConn()
	go hub.Serve(conn)
	require.Eventually(t, func() bool { return len(conn.events(t)) == 1 }, time.Second, 5*time.Millisecond)

	// Con las escrituras bloqueadas llegan varios eventos: el buzón se queda con el último.
	gate := make(chan struct{})
	conn.setGate(gate)
	for seq := uint64(1); seq <= 5; seq++ {
		hub.Broadcast(event(seq, "A"))
	}
	time.Sleep(50 * time.Millisecond)
	for i := 0; i < 2; i++ {
		select {
		case gate <- struct{}{}:
		case <-time.After(200 * time.Millisecond):
		}
	}

	evs := conn.events(t)
	require.GreaterOrEqual(t, len(evs), 2)
	var last uint64
	for _, ev := range evs[1:] {
		assert.Greater(t, ev.Seq, last)
		last = ev.Seq
	}
	assert.Equal(t, uint64(5), last)
}

func TestHub_DisconnectRemovesClient(t *testing.T) {
	hub, _ := startHub(t)
	a, b := newFakeConn(), newFakeConn()
	go hub.Serve(a)
	go hub.Serve(b)
	require.Eventually(t, func() bool { return len(a.events(t)) == 1 && len(b.events(t)) == 1 }, time.Second, 5*time.Millisecond)

	_ = a.Close()
	time.Sleep(20 * time.Millisecond)
	hub.Broadcast(event(1, "A"))

	require.Eventually(t, func() bool { return len(b.events(t)) == 2 }, time.Second, 5*time.Millisecond)
	assert.Len(t, a.events(t), 1)
}

func TestHub_HelloCarriesLastSeq(t *testing.T) {
	hub, _ := startHub(t)
	hub.Broadcast(event(7, "A"))
	require.Eventually(t, func() bool { return len(hub.broadcast) == 0 }, time.Second, time.Millisecond)

	conn := newFakeConn()
	go hub.Serve(conn)
	require.Eventually(t, func() bool { return len(conn.events(t)) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, uint64(7), conn.events(t)[0].Seq)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub(time.Hour, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	conn := newFakeConn()
	served := make(chan struct{})
	go func() {
		hub.Serve(conn)
		close(served)
	}()
	require.Eventually(t, func() bool { return len(conn.events(t)) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-served:
	case <-time.After(time.Second):
		t.Fatal("Serve no terminó al detener el hub")
	}
	// Difundir tras detenerse no bloquea.
	hub.Broadcast(event(1, "A"))
}

// Una difusión que llega antes de que arranque el escritor no reemplaza al hello.
func TestHub_HelloNotReplacedByEarlyBroadcast(t *testing.T) {
	hub, _ := startHub(t)
	observer := newFakeConn()
	go hub.Serve(observer)
	require.Eventually(t, func() bool { return len(observer.events(t)) == 1 }, time.Second, 5*time.Millisecond)

	conn := newFakeConn()
	c := newClient(hub, conn)
	hub.register <- c
	hub.Broadcast(event(1, "A"))
	require.Eventually(t, func() bool { return len(observer.events(t)) == 2 }, time.Second, 5*time.Millisecond)
	// Run solo acepta otro registro cuando terminó de repartir la difusión.
	hub.register <- newClient(hub, newFakeConn())

	go c.writePump()
	require.Eventually(t, func() bool { return len(conn.events(t)) == 2 }, time.Second, 5*time.Millisecond)
	evs := conn.events(t)
	assert.Equal(t, EventHello, evs[0].Kind)
	assert.Equal(t, uint64(0), evs[0].Seq)
	assert.Equal(t, catalog.EventStockUpdated, evs[1].Kind)
	assert.Equal(t, uint64(1), evs[1].Seq)
}

func TestHub_ServeWaitsForWriter(t *testing.T) {
	hub, _ := startHub(t)
	conn := newFakeConn()
	gate := make(chan struct{})
	conn.mu.Lock()
	conn.gate, conn.sticky, conn.entered = gate, true, make(chan struct{}, 1)
	conn.mu.Unlock()

	served := make(chan struct{})
	go func() {
		hub.Serve(conn)
		close(served)
	}()
	select {
	case <-conn.entered:
	case <-time.After(time.Second):
		t.Fatal("el escritor no empezó a escribir el hello")
	}

	_ = conn.Close()
	assert.Never(t, func() bool {
		select {
		case <-served:
			return true
		default:
			return false
		}
	}, 100*time.Millisecond, 10*time.Millisecond)

	close(gate)
	select {
	case <-served:
	case <-time.After(time.Second):
		t.Fatal("Serve no terminó tras liberar la escritura")
	}
}
