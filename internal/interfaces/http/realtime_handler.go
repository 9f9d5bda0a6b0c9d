package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-calzado/internal/infrastructure/realtime"
)

// upgradeOnly rechaza con 426 las peticiones que no son upgrade de websocket.
func upgradeOnly(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// realtimeHandler entrega la conexión al hub; Serve bloquea hasta que el cliente se desconecta.
func realtimeHandler(hub *realtime.Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		hub.Serve(conn)
	})
}
