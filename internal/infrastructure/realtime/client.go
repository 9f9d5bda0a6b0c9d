package realtime

import (
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

const (
	// Tiempo máximo para escribir un mensaje al cliente.
	writeWait = 10 * time.Second

	defaultPingPeriod = 30 * time.Second

	// Los clientes solo envían pongs y cierres.
	maxMessageSize = 512
)

// Conn subconjunto de *websocket.Conn que usa el hub.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client una conexión de navegador. El buzón guarda solo el mensaje más reciente:
// un cliente lento se salta estados intermedios pero nunca recibe uno viejo después de uno nuevo.
// El hello va por su propio canal y se escribe antes que cualquier difusión.
type Client struct {
	hub     *Hub
	conn    Conn
	hello   chan []byte
	mailbox chan []byte
	quit    chan struct{}
	once    sync.Once
}

func newClient(h *Hub, conn Conn) *Client {
	return &Client{
		hub:     h,
		conn:    conn,
		hello:   make(chan []byte, 1),
		mailbox: make(chan []byte, 1),
		quit:    make(chan struct{}),
	}
}

// offer deja msg en el buzón, reemplazando el pendiente. Solo la goroutine del hub llama a offer.
func (c *Client) offer(msg []byte) {
	for {
		select {
		case c.mailbox <- msg:
			return
		default:
		}
		select {
		case <-c.mailbox:
		default:
		}
	}
}

func (c *Client) close() {
	c.once.Do(func() { close(c.quit) })
}

// readPump descarta lo que envíe el cliente y detecta la desconexión.
func (c *Client) readPump() {
	defer func() {
		c.hub.drop(c)
		_ = c.conn.Close()
	}()
	pongWait := c.hub.pingPeriod * 10 / 9
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug().Err(err).Msg("lectura websocket")
			}
			return
		}
	}
}

// writePump escribe el hello, luego entrega el buzón y envía pings periódicos.
func (c *Client) writePump() {
	defer func() { _ = c.conn.Close() }()
	select {
	case <-c.quit:
		return
	case msg := <-c.hello:
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.hub.drop(c)
			return
		}
	}

	ticker := time.NewTicker(c.hub.pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.quit:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-c.mailbox:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.hub.drop(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.drop(c)
				return
			}
		}
	}
}
