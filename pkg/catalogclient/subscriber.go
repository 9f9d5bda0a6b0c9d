package catalogclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fasthttp/websocket"

	"github.com/jhoicas/catalogo-calzado/pkg/logger"
)

// EnvelopeHandler recibe cada mensaje del canal en tiempo real.
type EnvelopeHandler func(ctx context.Context, env Envelope)

// Subscriber mantiene la conexión websocket y reconecta con espera creciente.
type Subscriber struct {
	url     string
	dialer  *websocket.Dialer
	log     *logger.Logger
	minWait time.Duration
	maxWait time.Duration
}

// NewSubscriber deriva la URL ws(s)://.../ws a partir de la URL base HTTP del catálogo.
func NewSubscriber(baseURL string, log *logger.Logger) (*Subscriber, error) {
	wsURL, err := WebsocketURL(baseURL)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Subscriber{
		url:     wsURL,
		dialer:  websocket.DefaultDialer,
		log:     log,
		minWait: 500 * time.Millisecond,
		maxWait: 30 * time.Second,
	}, nil
}

// WebsocketURL http→ws, https→wss, ruta /ws.
func WebsocketURL(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("catalogo: URL inválida: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("catalogo: esquema no soportado %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String(), nil
}

// Run conecta y entrega mensajes hasta que ctx se cancela. Cada desconexión reintenta
// con espera que se duplica hasta maxWait; una conexión exitosa reinicia la espera.
func (s *Subscriber) Run(ctx context.Context, handle EnvelopeHandler) error {
	wait := s.minWait
	for {
		connected, err := s.session(ctx, handle)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			wait = s.minWait
		}
		s.log.Warn().Err(err).Dur("retry_in", wait).Msg("canal en tiempo real desconectado")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait = nextWait(wait, s.maxWait)
	}
}

func nextWait(cur, max time.Duration) time.Duration {
	cur *= 2
	if cur > max {
		return max
	}
	return cur
}

func (s *Subscriber) session(ctx context.Context, handle EnvelopeHandler) (bool, error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return false, fmt.Errorf("dial %s: %w", s.url, err)
	}
	defer conn.Close()
	s.log.Info().Str("url", s.url).Msg("canal en tiempo real conectado")

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return true, errors.New("cerrado por el servidor")
			}
			return true, err
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			s.log.Warn().Err(err).Msg("mensaje ignorado")
			continue
		}
		handle(ctx, env)
	}
}
