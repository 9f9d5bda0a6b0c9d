package catalog_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-calzado/internal/application/catalog"
	"github.com/jhoicas/catalogo-calzado/internal/application/dto"
	"github.com/jhoicas/catalogo-calzado/internal/domain"
	"github.com/jhoicas/catalogo-calzado/internal/domain/repository"
	"github.com/jhoicas/catalogo-calzado/internal/infrastructure/memory"
	"github.com/jhoicas/catalogo-calzado/pkg/logger"
)

// recorder guarda los eventos difundidos.
type recorder struct {
	mu     sync.Mutex
	events []catalog.Event
}

func (r *recorder) Broadcast(ev catalog.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) all() []catalog.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]catalog.Event(nil), r.events...)
}

func (r *recorder) last(t *testing.T) catalog.Event {
	t.Helper()
	evs := r.all()
	require.NotEmpty(t, evs)
	return evs[len(evs)-1]
}

type fixture struct {
	store *memory.Store
	svc   *catalog.MutationService
	rec   *recorder
}

func newFixture() *fixture {
	store := memory.NewStore()
	rec := &recorder{}
	return &fixture{
		store: store,
		svc:   catalog.NewMutationService(store, store.Products(), rec, logger.Nop()),
		rec:   rec,
	}
}

func productReq(title string, sizes ...dto.SizeInput) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Product: &dto.ProductInput{Title: title, Brand: "Boni", Price: decimal.RequireFromString("74.99"), ImageURL: "/imagenes/x.jpeg"},
		Sizes:   sizes,
	}
}

func size(label string, stock int) dto.SizeInput {
	return dto.SizeInput{Size: dto.FlexString(label), Stock: dto.IntOf(stock)}
}

func (f *fixture) create(t *testing.T, title string, sizes ...dto.SizeInput) string {
	t.Helper()
	id, err := f.svc.CreateProduct(context.Background(), productReq(title, sizes...))
	require.NoError(t, err)
	return id
}

func (f *fixture) stockOf(t *testing.T, id, label string) (int, bool) {
	t.Helper()
	row, err := f.store.Stock().Get(context.Background(), id, label)
	require.NoError(t, err)
	if row == nil {
		return 0, false
	}
	return row.Stock, true
}

func upd(id, label string, stock int) dto.StockUpdate {
	return dto.StockUpdate{ProductID: dto.FlexString(id), Size: dto.FlexString(label), Stock: dto.IntOf(stock)}
}

func TestCreateProduct_PublishesCanonicalList(t *testing.T) {
	f := newFixture()
	id := f.create(t, "Zapato negro", size("40", 5), size("38", 2), size("  ", 9))

	ev := f.rec.last(t)
	assert.Equal(t, catalog.EventProductsUpdated, ev.Kind)
	require.Len(t, ev.Products, 1)
	p := ev.Products[0]
	assert.Equal(t, id, p.ID)
	assert.Equal(t, "74.99", p.Price)
	assert.Equal(t, []dto.SizeResponse{{Size: "38", Stock: 2}, {Size: "40", Stock: 5}}, p.Sizes)
}

func TestCreateProduct_Validation(t *testing.T) {
	f := newFixture()
	cases := map[string]dto.CreateProductRequest{
		"sin producto":       {Sizes: []dto.SizeInput{size("38", 1)}},
		"sin tallas":         productReq("A"),
		"solo tallas vacías": productReq("A", size(" ", 1)),
		"stock negativo":     productReq("A", size("38", -1)),
		"talla repetida":     productReq("A", size("38", 1), size(" 38 ", 2)),
		"título vacío":       productReq("   ", size("38", 1)),
		"talla muy larga":    productReq("A", size("12345678901", 1)),
		"stock sobre int32":  productReq("A", size("38", math.MaxInt32+1)),
	}
	noPrice := productReq("A", size("38", 1))
	noPrice.Product.Price = decimal.Zero
	cases["precio cero"] = noPrice
	roundsToZero := productReq("A", size("38", 1))
	roundsToZero.Product.Price = decimal.RequireFromString("0.004")
	cases["precio que redondea a cero"] = roundsToZero

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.CreateProduct(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, f.rec.all())
}

func TestCreateProduct_DefaultStockZero(t *testing.T) {
	f := newFixture()
	id := f.create(t, "Sandalia", dto.SizeInput{Size: "37"})
	stock, ok := f.stockOf(t, id, "37")
	require.True(t, ok)
	assert.Zero(t, stock)
}

func TestCreateProduct_DuplicateTitle(t *testing.T) {
	f := newFixture()
	f.create(t, "Zapato negro", size("38", 1))

	_, err := f.svc.CreateProduct(context.Background(), productReq("Zapato negro", size("39", 1)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, f.rec.all(), 1)
}

func TestCreateProduct_ConcurrentSameTitle(t *testing.T) {
	f := newFixture()
	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.CreateProduct(context.Background(), productReq("Bota única", size("40", 1)))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	}
	assert.Equal(t, 1, ok)
	n2, err := f.store.Products().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n2)
}

func TestUpdateStock_BatchReflectedOthersUntouched(t *testing.T) {
	f := newFixture()
	a := f.create(t, "A", size("38", 2), size("39", 0))
	b := f.create(t, "B", size("40", 7))

	err := f.svc.UpdateStock(context.Background(), []dto.StockUpdate{upd(a, "38", 0), upd(a, "41", 3)})
	require.NoError(t, err)

	s, _ := f.stockOf(t, a, "38")
	assert.Equal(t, 0, s)
	s, ok := f.stockOf(t, a, "41")
	assert.True(t, ok)
	assert.Equal(t, 3, s)
	s, _ = f.stockOf(t, a, "39")
	assert.Equal(t, 0, s)
	s, _ = f.stockOf(t, b, "40")
	assert.Equal(t, 7, s)

	assert.Equal(t, catalog.EventStockUpdated, f.rec.last(t).Kind)
}

func TestUpdateStock_InvalidEntryNoPartialCommit(t *testing.T) {
	f := newFixture()
	a := f.create(t, "A", size("38", 2))
	before := len(f.rec.all())

	err := f.svc.UpdateStock(context.Background(), []dto.StockUpdate{upd(a, "38", 9), upd(a, "39", -1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	err = f.svc.UpdateStock(context.Background(), []dto.StockUpdate{upd(a, "38", math.MaxInt32+1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	s, _ := f.stockOf(t, a, "38")
	assert.Equal(t, 2, s)
	assert.Len(t, f.rec.all(), before)
}

func TestCreateProduct_PriceStoredRounded(t *testing.T) {
	f := newFixture()
	req := productReq("A", size("38", 1))
	req.Product.Price = decimal.RequireFromString("0.005")
	id, err := f.svc.CreateProduct(context.Background(), req)
	require.NoError(t, err)

	p, err := f.store.Products().GetWithSizes(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "0.01", p.Price.StringFixed(2))
}

func TestUpdateStock_UnknownProductRollsBack(t *testing.T) {
	f := newFixture()
	a := f.create(t, "A", size("38", 2))

	err := f.svc.UpdateStock(context.Background(), []dto.StockUpdate{upd(a, "38", 9), upd("no-existe", "38", 1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	s, _ := f.stockOf(t, a, "38")
	assert.Equal(t, 2, s)
}

func TestUpdateStock_EmptyBatch(t *testing.T) {
	f := newFixture()
	err := f.svc.UpdateStock(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateStock_Idempotent(t *testing.T) {
	f := newFixture()
	a := f.create(t, "A", size("38", 2))
	batch := []dto.StockUpdate{upd(a, "38", 4), upd(a, "39", 1)}

	require.NoError(t, f.svc.UpdateStock(context.Background(), batch))
	first, err := f.store.Products().ListWithSizes(context.Background())
	require.NoError(t, err)
	require.NoError(t, f.svc.UpdateStock(context.Background(), batch))
	second, err := f.store.Products().ListWithSizes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first[0].Sizes[0].Stock, second[0].Sizes[0].Stock)
	assert.Equal(t, len(first[0].Sizes), len(second[0].Sizes))
}

func TestUpdateProduct(t *testing.T) {
	f := newFixture()
	a := f.create(t, "A", size("38", 2))
	f.create(t, "B", size("38", 2))

	in := dto.UpdateProductRequest{Product: &dto.ProductInput{Title: " A2 ", Brand: "Nike", Price: decimal.RequireFromString("99.5"), ImageURL: "/img.png"}}
	out, err := f.svc.UpdateProduct(context.Background(), a, in)
	require.NoError(t, err)
	assert.Equal(t, "A2", out.Title)
	assert.Equal(t, "99.50", out.Price)
	require.Len(t, out.Sizes, 1)

	in.Product.Title = "B"
	_, err = f.svc.UpdateProduct(context.Background(), a, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.svc.UpdateProduct(context.Background(), "no-existe", dto.UpdateProductRequest{Product: &dto.ProductInput{Title: "X", Brand: "Y", Price: decimal.NewFromInt(1), ImageURL: "z"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteProduct_Cascade(t *testing.T) {
	f := newFixture()
	a := f.create(t, "A", size("38", 2), size("39", 1))

	deleted, err := f.svc.DeleteProduct(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, dto.DeletedProduct{ID: a, Title: "A"}, deleted)

	n, err := f.store.Stock().CountByProduct(context.Background(), a)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, f.rec.last(t).Products)

	_, err = f.svc.DeleteProduct(context.Background(), a)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddSize(t *testing.T) {
	f := newFixture()
	a := f.create(t, "A", size("38", 2))

	out, err := f.svc.AddSize(context.Background(), a, dto.AddSizeRequest{Size: " 39 ", Stock: dto.IntOf(4)})
	require.NoError(t, err)
	assert.Equal(t, "39", out.Size)
	require.NotNil(t, out.Stock)
	assert.Equal(t, 4, *out.Stock)
	assert.Equal(t, "A", out.ProductTitle)

	_, err = f.svc.AddSize(context.Background(), a, dto.AddSizeRequest{Size: "39", Stock: dto.IntOf(1)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.svc.AddSize(context.Background(), a, dto.AddSizeRequest{Size: "40", Stock: dto.IntOf(-2)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.AddSize(context.Background(), "no-existe", dto.AddSizeRequest{Size: "40"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveSize_LastSizeProtected(t *testing.T) {
	f := newFixture()
	a := f.create(t, "A", size("38", 2), size("39", 1))

	_, err := f.svc.RemoveSize(context.Background(), a, "38")
	require.NoError(t, err)

	_, err = f.svc.RemoveSize(context.Background(), a, "39")
	assert.ErrorIs(t, err, domain.ErrLastSize)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, ok := f.stockOf(t, a, "39")
	assert.True(t, ok)

	_, err = f.svc.RemoveSize(context.Background(), a, "45")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveSize_ConcurrentKeepsOne(t *testing.T) {
	f := newFixture()
	a := f.create(t, "A", size("38", 2), size("39", 1))

	var wg sync.WaitGroup
	for _, label := range []string{"38", "39"} {
		wg.Add(1)
		go func(label string) {
			defer wg.Done()
			_, _ = f.svc.RemoveSize(context.Background(), a, label)
		}(label)
	}
	wg.Wait()

	n, err := f.store.Stock().CountByProduct(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPublish_SequenceIncreases(t *testing.T) {
	f := newFixture()
	a := f.create(t, "A", size("38", 2))
	require.NoError(t, f.svc.UpdateStock(context.Background(), []dto.StockUpdate{upd(a, "38", 1)}))
	_, err := f.svc.AddSize(context.Background(), a, dto.AddSizeRequest{Size: "40"})
	require.NoError(t, err)

	evs := f.rec.all()
	require.Len(t, evs, 3)
	for i := 1; i < len(evs); i++ {
		assert.Greater(t, evs[i].Seq, evs[i-1].Seq)
	}
}

type mockTxRunner struct {
	mock.Mock
}

func (m *mockTxRunner) Run(ctx context.Context, fn func(repository.ProductRepository, repository.StockRepository) error) error {
	return m.Called(ctx, fn).Error(0)
}

func TestMutation_StoreFailureIsPersistenceError(t *testing.T) {
	store := memory.NewStore()
	tx := new(mockTxRunner)
	tx.On("Run", mock.Anything, mock.Anything).Return(errors.New("connection reset"))
	rec := &recorder{}
	svc := catalog.NewMutationService(tx, store.Products(), rec, logger.Nop())

	_, err := svc.CreateProduct(context.Background(), productReq("A", size("38", 1)))
	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "create_product", perr.Op)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Empty(t, rec.all())
	tx.AssertExpectations(t)
}
