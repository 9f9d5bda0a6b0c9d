package catalogclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productA(s38, s40 int) Product {
	return Product{ID: "a", Title: "Zapato A", Brand: "Boni", Price: "74.99", Sizes: []Size{{"38", s38}, {"40", s40}}}
}

func TestReconcile_SelectedSizeDropsToZero(t *testing.T) {
	old := ViewState{}
	old.Detail = old.Detail.Open(productA(2, 5))
	var err error
	old.Detail, err = old.Detail.Select("38")
	require.NoError(t, err)

	next, notices := Reconcile(old, []Product{productA(0, 5)})

	assert.Equal(t, DetailOpen, next.Detail.Mode)
	assert.Empty(t, next.Detail.Size)
	assert.Equal(t, 0, next.Detail.Product.Sizes[0].Stock)
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeSizeUnavailable, notices[0].Kind)
	assert.Equal(t, "38", notices[0].Size)

	// El estado previo no cambia.
	assert.Equal(t, DetailSizeSelected, old.Detail.Mode)
}

func TestReconcile_SelectedSizeRemoved(t *testing.T) {
	old := ViewState{Detail: Detail{Mode: DetailSizeSelected, Product: productA(2, 5), Size: "40"}}
	p := productA(2, 5)
	p.Sizes = p.Sizes[:1]

	next, notices := Reconcile(old, []Product{p})
	assert.Equal(t, DetailOpen, next.Detail.Mode)
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeSizeUnavailable, notices[0].Kind)
}

func TestReconcile_SelectionKeptAndRefreshed(t *testing.T) {
	old := ViewState{Detail: Detail{Mode: DetailSizeSelected, Product: productA(2, 5), Size: "40"}}
	updated := productA(2, 1)
	updated.Price = "80.00"

	next, notices := Reconcile(old, []Product{updated})
	assert.Empty(t, notices)
	assert.Equal(t, DetailSizeSelected, next.Detail.Mode)
	assert.Equal(t, "40", next.Detail.Size)
	assert.Equal(t, "80.00", next.Detail.Product.Price)
}

func TestReconcile_ProductRemovedClosesDetail(t *testing.T) {
	old := ViewState{Detail: Detail{}.Open(productA(2, 5))}
	next, notices := Reconcile(old, []Product{})

	assert.Equal(t, DetailClosed, next.Detail.Mode)
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeProductRemoved, notices[0].Kind)
}

func TestReconcile_FiltersPreserved(t *testing.T) {
	old := ViewState{Listing: Listing{Search: "zap", Brand: "Boni"}}
	next, notices := Reconcile(old, []Product{productA(1, 1)})
	assert.Empty(t, notices)
	assert.Equal(t, old.Listing, next.Listing)
	assert.Len(t, next.Listing.Visible([]Product{productA(1, 1), {ID: "b", Title: "Bota", Brand: "Otra"}}), 1)
}

func TestReconcile_AdminEditsReapplied(t *testing.T) {
	var form AdminForm
	form.Set("a", "38", 7)
	form.Set("a", "39", 1)
	form.Set("x", "38", 1)
	old := ViewState{Admin: form}

	list := []Product{productA(2, 5)}
	next, notices := Reconcile(old, list)

	assert.Equal(t, map[EditKey]int{{ProductID: "a", Size: "38"}: 7}, next.Admin.Edits)
	require.Len(t, notices, 2)
	for _, n := range notices {
		assert.Equal(t, NoticeEditDropped, n.Kind)
	}

	rows := next.Admin.Rows([]Product{productA(3, 9)})
	require.Len(t, rows, 2)
	assert.Equal(t, FormRow{ProductID: "a", Size: "38", Canonical: 3, Value: 7, Dirty: true}, rows[0])
	assert.Equal(t, FormRow{ProductID: "a", Size: "40", Canonical: 9, Value: 9}, rows[1])

	// old conserva sus tres cambios.
	assert.Len(t, old.Admin.Edits, 3)
}

func TestDetail_StateMachine(t *testing.T) {
	var d Detail
	_, err := d.Select("38")
	assert.Error(t, err)

	d = d.Open(productA(0, 5))
	_, err = d.Select("38")
	assert.ErrorIs(t, err, ErrSizeUnavailable)

	d, err = d.Select("40")
	require.NoError(t, err)
	assert.Equal(t, DetailSizeSelected, d.Mode)
	assert.Equal(t, "size_selected", d.Mode.String())

	d = d.Close()
	assert.Equal(t, DetailClosed, d.Mode)
}
