package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/catalogo-calzado/internal/domain"
	"github.com/jhoicas/catalogo-calzado/internal/domain/entity"
	"github.com/jhoicas/catalogo-calzado/internal/domain/repository"
)

var _ repository.StockRepository = (*stockRepo)(nil)

type stockRepo struct {
	store *Store
	tx    *state
}

func (r *stockRepo) ListByProduct(_ context.Context, productID string) ([]entity.SizeStock, error) {
	return read(r.store, r.tx, func(st *state) ([]entity.SizeStock, error) {
		rows := st.sizes[productID]
		out := make([]entity.SizeStock, 0, len(rows))
		for _, row := range rows {
			out = append(out, row)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Size < out[j].Size })
		return out, nil
	})
}

func (r *stockRepo) Get(_ context.Context, productID, size string) (*entity.SizeStock, error) {
	return read(r.store, r.tx, func(st *state) (*entity.SizeStock, error) {
		row, ok := st.sizes[productID][size]
		if !ok {
			return nil, nil
		}
		return &row, nil
	})
}

func (r *stockRepo) Insert(_ context.Context, stock *entity.SizeStock) error {
	_, err := write(r.store, r.tx, func(st *state) (struct{}, error) {
		if err := checkRow(st, stock); err != nil {
			return struct{}{}, err
		}
		if _, ok := st.sizes[stock.ProductID][stock.Size]; ok {
			return struct{}{}, domain.ErrDuplicate
		}
		putRow(st, *stock)
		return struct{}{}, nil
	})
	return err
}

func (r *stockRepo) Upsert(_ context.Context, stock *entity.SizeStock) error {
	_, err := write(r.store, r.tx, func(st *state) (struct{}, error) {
		if err := checkRow(st, stock); err != nil {
			return struct{}{}, err
		}
		row := *stock
		if prev, ok := st.sizes[stock.ProductID][stock.Size]; ok {
			row.CreatedAt = prev.CreatedAt
		}
		putRow(st, row)
		return struct{}{}, nil
	})
	return err
}

func (r *stockRepo) Delete(_ context.Context, productID, size string) (bool, error) {
	return write(r.store, r.tx, func(st *state) (bool, error) {
		rows := st.sizes[productID]
		if _, ok := rows[size]; !ok {
			return false, nil
		}
		delete(rows, size)
		return true, nil
	})
}

func (r *stockRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	return read(r.store, r.tx, func(st *state) (int, error) {
		return len(st.sizes[productID]), nil
	})
}

// checkRow replica las restricciones del esquema: FK al producto y CHECK (stock >= 0).
func checkRow(st *state, row *entity.SizeStock) error {
	if _, ok := st.products[row.ProductID]; !ok {
		return domain.NotFound("producto " + row.ProductID)
	}
	if row.Stock < 0 {
		return domain.Invalid("stock", "el stock no puede ser negativo")
	}
	return nil
}

func putRow(st *state, row entity.SizeStock) {
	rows, ok := st.sizes[row.ProductID]
	if !ok {
		rows = map[string]entity.SizeStock{}
		st.sizes[row.ProductID] = rows
	}
	rows[row.Size] = row
}
