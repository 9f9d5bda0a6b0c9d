package catalogclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-calzado/pkg/logger"
)

func TestWebsocketURL(t *testing.T) {
	cases := map[string]string{
		"http://localhost:3000":      "ws://localhost:3000/ws",
		"https://tienda.example/":    "wss://tienda.example/ws",
		"https://tienda.example/app": "wss://tienda.example/app/ws",
	}
	for in, want := range cases {
		got, err := WebsocketURL(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := WebsocketURL("ftp://x")
	assert.Error(t, err)
}

func TestNextWait(t *testing.T) {
	assert.Equal(t, 2*time.Second, nextWait(time.Second, 5*time.Second))
	assert.Equal(t, 5*time.Second, nextWait(4*time.Second, 5*time.Second))
}

func TestSubscriber_DeliversEnvelopes(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"hello","seq":2,"products":null}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`no es json`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"stock_updated","seq":3,"products":[{"id":"a","sizes":[{"size":"38","stock":0}]}]}`))
		// Mantener abierta hasta que el cliente cierre.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	sub, err := NewSubscriber(srv.URL, logger.Nop())
	require.NoError(t, err)

	var mu sync.Mutex
	var got []Envelope
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sub.Run(ctx, func(_ context.Context, env Envelope) {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, env)
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run no terminó al cancelar")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, EventHello, got[0].Event)
	assert.Equal(t, uint64(3), got[1].Seq)
	assert.Equal(t, 0, got[1].Products[0].Sizes[0].Stock)
}
