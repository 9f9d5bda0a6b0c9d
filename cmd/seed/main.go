// seed carga productos en el inventario usando las mismas validaciones que el panel.
//
// Uso: go run ./cmd/seed [productos.csv] [utf-8|iso-8859-1|windows-1252] [separador]
// Sin archivo carga los tres productos de demostración. Los títulos existentes se omiten.
// Usa la misma configuración que la API (DATABASE_URL, DB_*, STORE_DRIVER).
package main

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/jhoicas/catalogo-calzado/internal/application/catalog"
	"github.com/jhoicas/catalogo-calzado/internal/application/dto"
	"github.com/jhoicas/catalogo-calzado/internal/infrastructure/csvimport"
	"github.com/jhoicas/catalogo-calzado/internal/infrastructure/storage"
	"github.com/jhoicas/catalogo-calzado/pkg/config"
	"github.com/jhoicas/catalogo-calzado/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	products, source, err := loadProducts(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer productos: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg, log.Component("store"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Almacenamiento: %v\n", err)
		os.Exit(1)
	}
	defer backend.Close()

	svc := catalog.NewMutationService(backend.TxRunner, backend.Products, nil, log.Component("catalog"))
	created, err := catalog.NewSeeder(svc, backend.Products).Import(ctx, products)
	if err != nil {
		log.Error().Err(err).Int("creados", created).Msg("importación interrumpida")
		backend.Close()
		os.Exit(1)
	}
	log.Info().
		Str("origen", source).
		Int("leidos", len(products)).
		Int("creados", created).
		Int("omitidos", len(products)-created).
		Msg("carga completada")
}

func loadProducts(args []string) ([]dto.CreateProductRequest, string, error) {
	if len(args) == 0 {
		return catalog.DemoCatalog(), "demo", nil
	}
	opts := csvimport.Options{}
	if len(args) > 1 {
		opts.Encoding = args[1]
	}
	if len(args) > 2 {
		r, _ := utf8.DecodeRuneInString(args[2])
		opts.Delimiter = r
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	products, err := csvimport.Read(f, opts)
	return products, args[0], err
}
