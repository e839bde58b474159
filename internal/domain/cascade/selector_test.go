package cascade

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/core/apperror"
	"orderdesk/internal/domain/catalog"
)

func testIndex() *catalog.Index {
	return catalog.NewIndex([]catalog.Product{
		{ItemCode: "FG001", ItemName: "Jivo Canola 1 LTR", Category: "OIL", Brand: "Jivo", Variety: "Canola",
			PiecesPerCase: decimal.NewFromInt(12), PackUnit: decimal.NewFromInt(12), TaxRate: decimal.NewFromInt(5)},
		{ItemCode: "FG002", ItemName: "Jivo Canola 5 LTR", Category: "OIL", Brand: "Jivo", Variety: "Canola"},
		{ItemCode: "FG003", ItemName: "Jivo Olive 500 ML", Category: "OIL", Brand: "Jivo", Variety: "Olive"},
		{ItemCode: "FG004", ItemName: "Other Mustard 1 LTR", Category: "OIL", Brand: "Other", Variety: "Mustard"},
		{ItemCode: "FG006", ItemName: "Wheatgrass 200 GM", Category: "HEALTH", Brand: "Jivo", Variety: "Wheatgrass"},
	})
}

func loadedSelector(t *testing.T) *Selector {
	t.Helper()
	s := NewSelector()
	require.NoError(t, s.Load(context.Background(), testIndex()))
	return s
}

func walk(t *testing.T, s *Selector, ix catalog.Filterer, values ...string) {
	t.Helper()
	for i, v := range values {
		require.NoError(t, s.Set(context.Background(), ix, Fields[i], v))
	}
}

func TestSelector_WalkToProduct(t *testing.T) {
	ix := testIndex()
	s := loadedSelector(t)
	assert.Equal(t, []string{"OIL", "HEALTH"}, s.Options(FieldCategory))
	assert.Equal(t, StateEmpty, s.State())

	walk(t, s, ix, "OIL", "Jivo", "Canola", "1 LTR", "FG001")

	assert.Equal(t, StateProductChosen, s.State())
	p, ok := s.Product()
	require.True(t, ok)
	assert.Equal(t, "FG001", p.ItemCode)
	assert.True(t, p.PiecesPerCase.Equal(decimal.NewFromInt(12)))
	assert.True(t, p.TaxRate.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, []string{"FG001"}, s.Options(FieldProduct))
}

func TestSelector_ChangingBrandClearsBelow(t *testing.T) {
	ix := testIndex()
	s := loadedSelector(t)
	walk(t, s, ix, "OIL", "Jivo", "Canola")

	require.NoError(t, s.Set(context.Background(), ix, FieldBrand, "Other"))

	assert.Equal(t, Selection{Category: "OIL", Brand: "Other"}, s.Selection())
	assert.Equal(t, []string{"Mustard"}, s.Options(FieldVariety))
	assert.Empty(t, s.Options(FieldType))
	assert.Empty(t, s.Options(FieldProduct))
	_, ok := s.Product()
	assert.False(t, ok)
}

func TestSelector_RejectsValueOutsideOptions(t *testing.T) {
	ix := testIndex()
	s := loadedSelector(t)
	walk(t, s, ix, "OIL")
	before := s.Selection()
	gen := s.Generation()

	err := s.Set(context.Background(), ix, FieldBrand, "Nope")

	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, before, s.Selection())
	assert.Equal(t, gen, s.Generation())
}

func TestSelector_RejectsSkippingLevels(t *testing.T) {
	s := loadedSelector(t)

	_, _, err := s.Begin(FieldVariety, "Canola")

	assert.True(t, apperror.IsValidation(err))
	assert.True(t, s.Selection().IsEmpty())
}

func TestSelector_SameValueIsNoop(t *testing.T) {
	ix := testIndex()
	s := loadedSelector(t)
	walk(t, s, ix, "OIL", "Jivo")
	gen := s.Generation()

	_, changed, err := s.Begin(FieldBrand, "Jivo")

	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, gen, s.Generation())
	assert.Equal(t, []string{"Canola", "Olive"}, s.Options(FieldVariety))
}

func TestSelector_ClearKeepsUpstreamOptions(t *testing.T) {
	ix := testIndex()
	s := loadedSelector(t)
	walk(t, s, ix, "OIL", "Jivo", "Canola")

	tk, changed, err := s.Begin(FieldBrand, "")

	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, tk.NeedsFetch)
	assert.Equal(t, Selection{Category: "OIL"}, s.Selection())
	assert.Equal(t, []string{"Jivo", "Other"}, s.Options(FieldBrand))
	assert.Empty(t, s.Options(FieldVariety))
}

func TestSelector_StaleCompletionIsDropped(t *testing.T) {
	ix := testIndex()
	s := loadedSelector(t)
	walk(t, s, ix, "OIL")

	// Brand "Jivo" fetch is issued, then overtaken by "Other".
	first, _, err := s.Begin(FieldBrand, "Jivo")
	require.NoError(t, err)
	second, _, err := s.Begin(FieldBrand, "Other")
	require.NoError(t, err)

	secondOpts, _ := ix.Filter(context.Background(), second.Query)
	require.NoError(t, s.Complete(second, secondOpts))

	firstOpts, _ := ix.Filter(context.Background(), first.Query)
	err = s.Complete(first, firstOpts)

	assert.True(t, apperror.IsStaleSelection(err))
	assert.Equal(t, []string{"Mustard"}, s.Options(FieldVariety))
	assert.Equal(t, "Other", s.Selection().Brand)
}

func TestSelector_ResetKeepsCategories(t *testing.T) {
	ix := testIndex()
	s := loadedSelector(t)
	walk(t, s, ix, "OIL", "Jivo")

	gen := s.Generation()

	s.Reset()

	assert.True(t, s.Selection().IsEmpty())
	assert.Greater(t, s.Generation(), gen)
	assert.Equal(t, []string{"OIL", "HEALTH"}, s.Options(FieldCategory))
	assert.Empty(t, s.Options(FieldBrand))
}

func TestSelector_LoadTicketFillsCategories(t *testing.T) {
	s := NewSelector()
	tk := s.BeginLoad()
	assert.True(t, tk.NeedsFetch)
	assert.Equal(t, FieldCategory, tk.Next)
	assert.Empty(t, s.Options(FieldCategory))

	opts, _ := testIndex().Filter(context.Background(), tk.Query)
	require.NoError(t, s.Complete(tk, opts))
	assert.Equal(t, []string{"OIL", "HEALTH"}, s.Options(FieldCategory))
}

type failingFilter struct{}

func (failingFilter) Filter(context.Context, catalog.Query) (catalog.Options, error) {
	return catalog.Options{}, errors.New("catalog unavailable")
}

func TestSelector_FetchErrorPropagates(t *testing.T) {
	s := loadedSelector(t)

	err := s.Set(context.Background(), failingFilter{}, FieldCategory, "OIL")

	assert.EqualError(t, err, "catalog unavailable")
	assert.Equal(t, "OIL", s.Selection().Category)
	assert.Empty(t, s.Options(FieldBrand))

	pending, ok := s.Pending()
	assert.True(t, ok)
	assert.Equal(t, FieldBrand, pending)
}

func TestSelector_SameValueRefetchesMissingOptions(t *testing.T) {
	ix := testIndex()
	s := loadedSelector(t)
	require.Error(t, s.Set(context.Background(), failingFilter{}, FieldCategory, "OIL"))
	gen := s.Generation()

	tk, changed, err := s.Begin(FieldCategory, "OIL")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, tk.NeedsFetch)
	assert.Equal(t, FieldBrand, tk.Next)
	assert.Greater(t, tk.Generation, gen)
	assert.Equal(t, Selection{Category: "OIL"}, tk.Selection)

	opts, _ := ix.Filter(context.Background(), tk.Query)
	require.NoError(t, s.Complete(tk, opts))
	assert.Equal(t, []string{"Jivo", "Other"}, s.Options(FieldBrand))

	_, ok := s.Pending()
	assert.False(t, ok)

	// Once loaded, the same value is a no-op again.
	_, changed, err = s.Begin(FieldCategory, "OIL")
	require.NoError(t, err)
	assert.False(t, changed)
}
