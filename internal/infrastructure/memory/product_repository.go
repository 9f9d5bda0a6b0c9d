package memory

import (
	"context"

	"github.com/jhoicas/catalogo-calzado/internal/domain"
	"github.com/jhoicas/catalogo-calzado/internal/domain/entity"
	"github.com/jhoicas/catalogo-calzado/internal/domain/repository"
)

var _ repository.ProductRepository = (*productRepo)(nil)

type productRepo struct {
	store *Store
	tx    *state
}

func (r *productRepo) Create(_ context.Context, product *entity.Product) error {
	_, err := write(r.store, r.tx, func(st *state) (struct{}, error) {
		if _, ok := st.products[product.ID]; ok {
			return struct{}{}, domain.ErrDuplicate
		}
		for _, p := range st.products {
			if p.Title == product.Title {
				return struct{}{}, domain.ErrDuplicate
			}
		}
		p := *product
		p.Sizes = nil
		st.products[p.ID] = p
		return struct{}{}, nil
	})
	return err
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return read(r.store, r.tx, func(st *state) (*entity.Product, error) {
		p, ok := st.products[id]
		if !ok {
			return nil, nil
		}
		return &p, nil
	})
}

// GetByIDForUpdate equivale a GetByID: el lock global de Run ya serializa las transacciones.
func (r *productRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) GetByTitle(_ context.Context, title string) (*entity.Product, error) {
	return read(r.store, r.tx, func(st *state) (*entity.Product, error) {
		for _, p := range st.products {
			if p.Title == title {
				return &p, nil
			}
		}
		return nil, nil
	})
}

func (r *productRepo) Update(_ context.Context, product *entity.Product) error {
	_, err := write(r.store, r.tx, func(st *state) (struct{}, error) {
		if _, ok := st.products[product.ID]; !ok {
			return struct{}{}, domain.NotFound("producto " + product.ID)
		}
		for _, p := range st.products {
			if p.Title == product.Title && p.ID != product.ID {
				return struct{}{}, domain.ErrDuplicate
			}
		}
		p := *product
		p.Sizes = nil
		st.products[p.ID] = p
		return struct{}{}, nil
	})
	return err
}

func (r *productRepo) Delete(_ context.Context, id string) (bool, error) {
	return write(r.store, r.tx, func(st *state) (bool, error) {
		if _, ok := st.products[id]; !ok {
			return false, nil
		}
		delete(st.products, id)
		delete(st.sizes, id)
		return true, nil
	})
}

func (r *productRepo) GetWithSizes(_ context.Context, id string) (*entity.Product, error) {
	return read(r.store, r.tx, func(st *state) (*entity.Product, error) {
		return st.productWithSizes(id), nil
	})
}

func (r *productRepo) ListWithSizes(_ context.Context) ([]*entity.Product, error) {
	return read(r.store, r.tx, func(st *state) ([]*entity.Product, error) {
		return st.canonical(), nil
	})
}

func (r *productRepo) Count(_ context.Context) (int, error) {
	return read(r.store, r.tx, func(st *state) (int, error) {
		return len(st.products), nil
	})
}
