package catalogclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// FetcherConfig reintentos de las lecturas. Las mutaciones nunca se reintentan.
type FetcherConfig struct {
	BaseURL      string
	Timeout      time.Duration
	RetryCount   int
	RetryWait    time.Duration
	RetryMaxWait time.Duration
}

// APIError respuesta de error del servidor ({"code","message"}).
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalogo: %d %s: %s", e.Status, e.Code, e.Message)
}

// Fetcher cliente HTTP del catálogo.
type Fetcher struct {
	read  *resty.Client
	write *resty.Client
}

// NewFetcher crea los clientes de lectura (con backoff exponencial) y escritura (sin reintentos).
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryCount < 0 {
		cfg.RetryCount = 0
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 500 * time.Millisecond
	}
	if cfg.RetryMaxWait <= 0 {
		cfg.RetryMaxWait = 8 * time.Second
	}
	base := strings.TrimRight(cfg.BaseURL, "/")

	read := resty.New().
		SetBaseURL(base).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	write := resty.New().
		SetBaseURL(base).
		SetTimeout(cfg.Timeout)

	return &Fetcher{read: read, write: write}
}

// List descarga la lista canónica.
func (f *Fetcher) List(ctx context.Context) ([]Product, error) {
	var out []Product
	resp, err := f.read.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&APIError{}).
		Get("/api/products")
	if err != nil {
		return nil, fmt.Errorf("catalogo: listar productos: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	if out == nil {
		out = []Product{}
	}
	return out, nil
}

// Verify intercambia la contraseña de administrador por un token.
func (f *Fetcher) Verify(ctx context.Context, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	resp, err := f.write.R().
		SetContext(ctx).
		SetBody(map[string]string{"password": password}).
		SetResult(&out).
		SetError(&APIError{}).
		Post("/api/admin/verify")
	if err != nil {
		return "", fmt.Errorf("catalogo: verificar: %w", err)
	}
	if resp.IsError() {
		return "", apiError(resp)
	}
	return out.Token, nil
}

// StockChange una entrada del lote de stock.
type StockChange struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Stock     int    `json:"stock"`
}

// UpdateStock envía el lote con el token de administrador. No se reintenta: ante un error
// el resultado es desconocido y el llamador debe volver a leer la lista.
func (f *Fetcher) UpdateStock(ctx context.Context, token string, changes []StockChange) error {
	resp, err := f.write.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(map[string]any{"updates": changes}).
		SetError(&APIError{}).
		Put("/api/admin/stock")
	if err != nil {
		return fmt.Errorf("catalogo: actualizar stock: %w", err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

func apiError(resp *resty.Response) error {
	e, ok := resp.Error().(*APIError)
	if !ok || e == nil {
		e = &APIError{Message: resp.String()}
	}
	e.Status = resp.StatusCode()
	return e
}
