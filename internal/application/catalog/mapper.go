package catalog

import (
	"github.com/jhoicas/catalogo-calzado/internal/application/dto"
	"github.com/jhoicas/catalogo-calzado/internal/domain/entity"
)

func toProductResponse(p *entity.Product) dto.ProductResponse {
	sizes := make([]dto.SizeResponse, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		sizes = append(sizes, dto.SizeResponse{Size: s.Size, Stock: s.Stock})
	}
	return dto.ProductResponse{
		ID:        p.ID,
		Title:     p.Title,
		Brand:     p.Brand,
		Price:     p.Price.StringFixed(2),
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Sizes:     sizes,
	}
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out
}
