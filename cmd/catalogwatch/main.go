// catalogwatch sigue el catálogo en tiempo real desde la terminal.
//
// Uso: go run ./cmd/catalogwatch [productId] [talla]
// Con productId abre la vista de detalle (y selecciona la talla) para ver cómo la
// reconciliación la actualiza o la cierra. CATALOG_URL apunta a la API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jhoicas/catalogo-calzado/pkg/catalogclient"
	"github.com/jhoicas/catalogo-calzado/pkg/config"
	"github.com/jhoicas/catalogo-calzado/pkg/logger"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := catalogclient.NewFetcher(catalogclient.FetcherConfig{
		BaseURL:    cfg.Catalog.URL,
		RetryCount: 4,
		RetryWait:  500 * time.Millisecond,
	})
	session := catalogclient.NewSession(fetcher, render)

	if err := session.Refresh(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "No se pudo cargar el catálogo: %v\n", err)
		os.Exit(1)
	}
	if len(os.Args) > 1 {
		openDetail(session, os.Args[1:])
	}

	sub, err := catalogclient.NewSubscriber(cfg.Catalog.URL, log.Component("ws"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Canal en tiempo real: %v\n", err)
		os.Exit(1)
	}
	_ = sub.Run(ctx, func(ctx context.Context, env catalogclient.Envelope) {
		if err := session.Handle(ctx, env); err != nil {
			log.Warn().Err(err).Str("event", env.Event).Msg("no se pudo sincronizar")
		}
	})
}

func openDetail(s *catalogclient.Session, args []string) {
	list, _ := s.Cache().Snapshot()
	var target *catalogclient.Product
	for i := range list {
		if list[i].ID == args[0] {
			target = &list[i]
			break
		}
	}
	if target == nil {
		fmt.Fprintf(os.Stderr, "Producto %s no encontrado\n", args[0])
		return
	}
	state := s.Update(func(v catalogclient.ViewState) catalogclient.ViewState {
		v.Detail = v.Detail.Open(*target)
		if len(args) > 1 {
			if d, err := v.Detail.Select(args[1]); err == nil {
				v.Detail = d
			} else {
				fmt.Fprintf(os.Stderr, "%v\n", err)
			}
		}
		return v
	})
	printDetail(state.Detail)
}

func render(state catalogclient.ViewState, list []catalogclient.Product, notices []catalogclient.Notice) {
	fmt.Printf("\n== %s  (%d productos)\n", time.Now().Format("15:04:05"), len(list))
	for _, p := range state.Listing.Visible(list) {
		sizes := make([]string, 0, len(p.Sizes))
		for _, sz := range p.Sizes {
			sizes = append(sizes, fmt.Sprintf("%s:%d", sz.Size, sz.Stock))
		}
		fmt.Printf("  %-40s %-10s %8s  [%s]\n", p.Title, p.Brand, p.Price, strings.Join(sizes, " "))
	}
	printDetail(state.Detail)
	for _, n := range notices {
		fmt.Printf("  ! %s\n", n.Message)
	}
}

func printDetail(d catalogclient.Detail) {
	switch d.Mode {
	case catalogclient.DetailOpen:
		fmt.Printf("  > detalle: %s (sin talla)\n", d.Product.Title)
	case catalogclient.DetailSizeSelected:
		fmt.Printf("  > detalle: %s talla %s\n", d.Product.Title, d.Size)
	}
}
