package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-calzado/internal/application/dto"
	"github.com/jhoicas/catalogo-calzado/internal/domain"
	"github.com/jhoicas/catalogo-calzado/internal/domain/repository"
)

// DemoCatalog productos de demostración para una base vacía.
func DemoCatalog() []dto.CreateProductRequest {
	price := decimal.RequireFromString("74.99")
	sizes := func(pairs ...any) []dto.SizeInput {
		out := make([]dto.SizeInput, 0, len(pairs)/2)
		for i := 0; i+1 < len(pairs); i += 2 {
			out = append(out, dto.SizeInput{Size: dto.FlexString(pairs[i].(string)), Stock: dto.IntOf(pairs[i+1].(int))})
		}
		return out
	}
	return []dto.CreateProductRequest{
		{
			Product: &dto.ProductInput{Title: "Zapato Boni urbanos color negro", Brand: "Boni", Price: price, ImageURL: "/imagenes/imagen1.jpeg"},
			Sizes:   sizes("38", 2, "39", 0, "40", 5, "41", 1, "42", 0),
		},
		{
			Product: &dto.ProductInput{Title: "Zapato Boni urbanos color café", Brand: "Boni", Price: price, ImageURL: "/imagenes/imagen2.jpeg"},
			Sizes:   sizes("36", 3, "37", 0, "38", 4, "39", 2, "40", 0),
		},
		{
			Product: &dto.ProductInput{Title: "Zapato Boni urbanos color azul", Brand: "Boni", Price: price, ImageURL: "/imagenes/imagen3.jpeg"},
			Sizes:   sizes("39", 0, "40", 0, "41", 0),
		},
	}
}

// Seeder carga productos a través del MutationService, con la misma validación que el panel.
type Seeder struct {
	svc         *MutationService
	productRepo repository.ProductRepository
}

// NewSeeder construye el seeder.
func NewSeeder(svc *MutationService, productRepo repository.ProductRepository) *Seeder {
	return &Seeder{svc: svc, productRepo: productRepo}
}

// SeedIfEmpty inserta DemoCatalog solo si no hay productos. Devuelve cuántos creó.
func (s *Seeder) SeedIfEmpty(ctx context.Context) (int, error) {
	n, err := s.productRepo.Count(ctx)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "seed", Err: err}
	}
	if n > 0 {
		return 0, nil
	}
	return s.Import(ctx, DemoCatalog())
}

// Import crea cada producto; los títulos ya existentes se omiten sin error.
func (s *Seeder) Import(ctx context.Context, products []dto.CreateProductRequest) (int, error) {
	created := 0
	for i, req := range products {
		if _, err := s.svc.CreateProduct(ctx, req); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				continue
			}
			return created, fmt.Errorf("producto %d: %w", i+1, err)
		}
		created++
	}
	return created, nil
}
