package catalog

import (
	"context"
	"fmt"

	"github.com/jhoicas/catalogo-calzado/internal/application/dto"
	"github.com/jhoicas/catalogo-calzado/internal/domain"
	"github.com/jhoicas/catalogo-calzado/internal/domain/repository"
)

// CatalogUseCase lecturas públicas del catálogo (vitrina, detalle, feed).
type CatalogUseCase struct {
	productRepo repository.ProductRepository
	feed        FeedBuilder
}

// NewCatalogUseCase construye el caso de uso. feed puede ser nil si no se expone el feed XML.
func NewCatalogUseCase(productRepo repository.ProductRepository, feed FeedBuilder) *CatalogUseCase {
	return &CatalogUseCase{productRepo: productRepo, feed: feed}
}

// List devuelve la lista canónica completa.
func (uc *CatalogUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.productRepo.ListWithSizes(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list_products", Err: err}
	}
	return toProductResponses(list), nil
}

// GetByID devuelve un producto con sus tallas o ErrNotFound.
func (uc *CatalogUseCase) GetByID(ctx context.Context, id string) (dto.ProductResponse, error) {
	p, err := uc.productRepo.GetWithSizes(ctx, id)
	if err != nil {
		return dto.ProductResponse{}, &domain.PersistenceError{Op: "get_product", Err: err}
	}
	if p == nil {
		return dto.ProductResponse{}, domain.NotFound("producto " + id)
	}
	return toProductResponse(p), nil
}

// Feed genera el feed XML con la lista canónica actual.
func (uc *CatalogUseCase) Feed(ctx context.Context) ([]byte, error) {
	if uc.feed == nil {
		return nil, fmt.Errorf("feed no configurado")
	}
	list, err := uc.List(ctx)
	if err != nil {
		return nil, err
	}
	return uc.feed.Build(list)
}
