package entry

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/core/apperror"
	"orderdesk/internal/domain/cascade"
	"orderdesk/internal/domain/catalog"
	"orderdesk/internal/domain/order"
	"orderdesk/internal/domain/party"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type staticSource []catalog.Product

func (s staticSource) ListProducts(context.Context) ([]catalog.Product, error) { return s, nil }

func products() staticSource {
	return staticSource{
		{ItemCode: "FG001", ItemName: "Jivo Canola 1 LTR", Category: "OIL", Brand: "Jivo", Variety: "Canola",
			PiecesPerCase: dec("12"), PackUnit: dec("0.5"), TaxRate: dec("5")},
		{ItemCode: "FG002", ItemName: "Jivo Canola 5 LTR", Category: "OIL", Brand: "Jivo", Variety: "Canola",
			PiecesPerCase: dec("4"), PackUnit: dec("20")},
		{ItemCode: "FG004", ItemName: "Other Mustard 1 LTR", Category: "OIL", Brand: "Other", Variety: "Mustard"},
	}
}

type fakeAddresses struct {
	sets map[string]party.AddressSet
}

func (f *fakeAddresses) Addresses(_ context.Context, code string) (party.AddressSet, error) {
	return f.sets[code], nil
}

type fakeSubmitter struct {
	err      error
	payloads []order.CreateOrderPayload
}

func (f *fakeSubmitter) Submit(_ context.Context, p order.CreateOrderPayload) (order.SubmitResult, error) {
	f.payloads = append(f.payloads, p)
	if f.err != nil {
		return order.SubmitResult{}, f.err
	}
	return order.SubmitResult{ID: 1, OrderNumber: "ORD-20261019-0001", Status: order.StatusSubmitted}, nil
}

func newLoadedSession(t *testing.T, sub order.Submitter) *Session {
	t.Helper()
	s := NewSession(Config{
		Catalog: products(),
		Addresses: &fakeAddresses{sets: map[string]party.AddressSet{
			"C0001": {
				BillTo: []party.Address{{ID: 11, AddressID: "B1"}},
				ShipTo: []party.Address{{ID: 21, AddressID: "S1"}},
			},
		}},
		Submitter: sub,
	})
	require.NoError(t, s.LoadCatalog(context.Background()))
	return s
}

func selectPath(t *testing.T, s *Session, values ...string) {
	t.Helper()
	for i, v := range values {
		require.NoError(t, s.Select(context.Background(), cascade.Fields[i], v))
	}
}

func TestSession_SelectBeforeLoad(t *testing.T) {
	s := NewSession(Config{Catalog: products()})

	err := s.Select(context.Background(), cascade.FieldCategory, "OIL")

	assert.True(t, apperror.HasCode(err, apperror.CodeCatalogNotLoaded))
	assert.False(t, s.IsCatalogLoaded())
}

func TestSession_ConfirmResetsCascadeAndInputs(t *testing.T) {
	s := newLoadedSession(t, &fakeSubmitter{})
	assert.True(t, s.IsCatalogLoaded())

	selectPath(t, s, "OIL", "Jivo", "Canola", "1 LTR", "FG001")
	s.SetQuantity("10")
	s.SetMarketPrice("250.5")

	preview := s.Preview()
	assert.True(t, preview.Pieces.Equal(dec("120")))
	assert.True(t, preview.Litres.Equal(dec("5")))
	assert.True(t, preview.Total.Equal(dec("2505")))

	line, err := s.ConfirmLine()
	require.NoError(t, err)

	assert.Equal(t, "FG001", line.ItemCode)
	assert.Equal(t, "OIL", line.Category)
	assert.Equal(t, "Canola", line.Variety)
	assert.Equal(t, "1 LTR", line.Type)
	assert.True(t, line.Total.Equal(dec("2505")))

	assert.True(t, s.Selection().IsEmpty())
	assert.True(t, s.Preview().IsZero())
	assert.Equal(t, []string{"OIL"}, s.Options(cascade.FieldCategory))
	assert.Empty(t, s.Options(cascade.FieldBrand))
	require.Len(t, s.Lines(), 1)
	assert.True(t, s.GrandTotal().Equal(dec("2505")))
}

func TestSession_ConfirmInvalidKeepsState(t *testing.T) {
	s := newLoadedSession(t, &fakeSubmitter{})
	selectPath(t, s, "OIL", "Jivo", "Canola", "1 LTR", "FG001")
	s.SetQuantity("")
	s.SetMarketPrice("10")

	_, err := s.ConfirmLine()

	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "quantity", appErr.Field())
	assert.Equal(t, "FG001", s.Selection().Product)
	assert.Empty(t, s.Lines())
}

func TestSession_ProductChangeRecomputes(t *testing.T) {
	s := newLoadedSession(t, &fakeSubmitter{})
	selectPath(t, s, "OIL", "Jivo", "Canola", "1 LTR", "FG001")
	s.SetQuantity("2")
	s.SetMarketPrice("100")
	assert.True(t, s.Preview().Pieces.Equal(dec("24")))

	require.NoError(t, s.Select(context.Background(), cascade.FieldType, "5 LTR"))
	assert.True(t, s.Preview().Pieces.IsZero())
	assert.True(t, s.Preview().Litres.IsZero())
	assert.True(t, s.Preview().Total.Equal(dec("200")))

	require.NoError(t, s.Select(context.Background(), cascade.FieldProduct, "FG002"))
	assert.True(t, s.Preview().Pieces.Equal(dec("8")))
	assert.True(t, s.Preview().Litres.Equal(dec("40")))
}

func TestSession_RemoveAndSummary(t *testing.T) {
	s := newLoadedSession(t, &fakeSubmitter{})

	add := func(product, qty, price string) order.LineItem {
		selectPath(t, s, "OIL", "Jivo", "Canola", map[string]string{"FG001": "1 LTR", "FG002": "5 LTR"}[product], product)
		s.SetQuantity(qty)
		s.SetMarketPrice(price)
		line, err := s.ConfirmLine()
		require.NoError(t, err)
		return line
	}

	first := add("FG001", "10", "250.5")
	add("FG002", "1", "999")
	require.NoError(t, s.RemoveLine(first.ID))
	require.NoError(t, s.RemoveLine(first.ID))
	add("FG001", "1", "1")

	sum := s.Summary()
	assert.Equal(t, 2, sum.Lines)
	assert.True(t, sum.GrandTotal.Equal(dec("1000")))
	assert.True(t, sum.TotalQuantity.Equal(dec("2")))
	assert.True(t, sum.TotalLitres.Equal(dec("20.5")))
	assert.True(t, sum.TaxTotal.Equal(dec("0.05")))
}

func TestSession_PartyAndAddresses(t *testing.T) {
	s := newLoadedSession(t, &fakeSubmitter{})

	require.NoError(t, s.SelectParty(context.Background(), party.Party{CardCode: "C0001", CardName: "Sharma Traders"}))
	require.NoError(t, s.SelectBillTo(11))
	require.NoError(t, s.SelectShipTo(21))

	err := s.SelectShipTo(11)
	assert.True(t, apperror.IsValidation(err))

	h := s.Header()
	assert.Equal(t, "B1", h.BillTo.AddressID)
	assert.Equal(t, "S1", h.ShipTo.AddressID)

	require.NoError(t, s.SelectParty(context.Background(), party.Party{CardCode: "C0002"}))
	h = s.Header()
	assert.Nil(t, h.BillTo)
	assert.Nil(t, h.ShipTo)
	assert.Empty(t, s.Addresses().BillTo)
}

func fillOrder(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.SelectParty(context.Background(), party.Party{CardCode: "C0001", CardName: "Sharma Traders"}))
	require.NoError(t, s.SelectBillTo(11))
	s.SetDispatch(&party.Dispatch{ID: 3, Name: "Kundli"})
	s.SetCompany("Jivo Wellness")
	s.SetPONumber(" PO-77 ")
	selectPath(t, s, "OIL", "Jivo", "Canola", "1 LTR", "FG001")
	s.SetQuantity("10")
	s.SetMarketPrice("250.5")
	_, err := s.ConfirmLine()
	require.NoError(t, err)
}

func TestSession_SubmitSuccessClears(t *testing.T) {
	sub := &fakeSubmitter{}
	s := newLoadedSession(t, sub)
	fillOrder(t, s)

	res, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ORD-20261019-0001", res.OrderNumber)

	require.Len(t, sub.payloads, 1)
	p := sub.payloads[0]
	assert.Equal(t, "C0001", p.CardCode)
	assert.Equal(t, int64(11), p.BillToID)
	assert.Equal(t, "Kundli", p.DispatchFromName)
	assert.Equal(t, "PO-77", p.PONumber)
	assert.Len(t, p.Items, 1)

	assert.Empty(t, s.Lines())
	assert.Nil(t, s.Header().Party)
}

func TestSession_SubmitFailureKeepsDraft(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("SAP is unreachable")}
	s := newLoadedSession(t, sub)
	fillOrder(t, s)

	_, err := s.Submit(context.Background())

	require.Error(t, err)
	assert.True(t, apperror.IsSubmissionFailed(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "SAP is unreachable", appErr.Message)
	assert.Len(t, s.Lines(), 1)
	assert.Equal(t, "C0001", s.Header().Party.CardCode)

	sub.err = nil
	_, err = s.Submit(context.Background())
	require.NoError(t, err)
	assert.Len(t, sub.payloads, 2)
}

func TestSession_SubmitPreconditions(t *testing.T) {
	s := newLoadedSession(t, &fakeSubmitter{})

	_, err := s.Submit(context.Background())
	appErr, _ := apperror.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "party", appErr.Field())

	require.NoError(t, s.SelectParty(context.Background(), party.Party{CardCode: "C0001"}))
	_, err = s.Submit(context.Background())
	appErr, _ = apperror.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "items", appErr.Field())
}

func TestSession_Clear(t *testing.T) {
	s := newLoadedSession(t, &fakeSubmitter{})
	fillOrder(t, s)
	selectPath(t, s, "OIL", "Jivo")
	s.SetQuantity("3")

	require.NoError(t, s.Clear())

	assert.Empty(t, s.Lines())
	assert.True(t, s.Selection().IsEmpty())
	assert.Empty(t, s.Addresses().BillTo)
	assert.Equal(t, order.Header{}, s.Header())
	assert.True(t, s.Preview().IsZero())
	assert.True(t, s.IsCatalogLoaded())
}

// gatedFilter blocks queries for one brand until released.
type gatedFilter struct {
	inner   catalog.Filterer
	brand   string
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedFilter) Filter(ctx context.Context, q catalog.Query) (catalog.Options, error) {
	if q.Brand == g.brand && q.Variety == "" {
		g.once.Do(func() { close(g.started) })
		<-g.release
	}
	return g.inner.Filter(ctx, q)
}

func TestSession_StaleOptionsDropped(t *testing.T) {
	gate := &gatedFilter{
		inner:   catalog.NewIndex(products()),
		brand:   "Jivo",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := NewSession(Config{Filter: gate})
	require.NoError(t, s.LoadCatalog(context.Background()))
	require.NoError(t, s.Select(context.Background(), cascade.FieldCategory, "OIL"))

	slow := make(chan error, 1)
	go func() { slow <- s.Select(context.Background(), cascade.FieldBrand, "Jivo") }()
	<-gate.started

	require.NoError(t, s.Select(context.Background(), cascade.FieldBrand, "Other"))
	close(gate.release)

	err := <-slow
	assert.True(t, apperror.IsStaleSelection(err))
	assert.Equal(t, "Other", s.Selection().Brand)
	assert.Equal(t, []string{"Mustard"}, s.Options(cascade.FieldVariety))
}

// gatedAddresses blocks one party's lookup until released.
type gatedAddresses struct {
	slowCode string
	started  chan struct{}
	release  chan struct{}
}

func (g *gatedAddresses) Addresses(_ context.Context, code string) (party.AddressSet, error) {
	if code == g.slowCode {
		close(g.started)
		<-g.release
	}
	return party.AddressSet{BillTo: []party.Address{{ID: 1, AddressID: code}}}, nil
}

func TestSession_StaleAddressesDropped(t *testing.T) {
	addrs := &gatedAddresses{slowCode: "C0001", started: make(chan struct{}), release: make(chan struct{})}
	s := NewSession(Config{Catalog: products(), Addresses: addrs})

	slow := make(chan error, 1)
	go func() { slow <- s.SelectParty(context.Background(), party.Party{CardCode: "C0001"}) }()
	<-addrs.started

	require.NoError(t, s.SelectParty(context.Background(), party.Party{CardCode: "C0002"}))
	close(addrs.release)

	err := <-slow
	assert.True(t, apperror.IsStaleSelection(err))
	assert.Equal(t, "C0002", s.Header().Party.CardCode)
	require.Len(t, s.Addresses().BillTo, 1)
	assert.Equal(t, "C0002", s.Addresses().BillTo[0].AddressID)
}

// flakyFilter fails the first query that binds a category.
type flakyFilter struct {
	inner  catalog.Filterer
	failed bool
}

func (f *flakyFilter) Filter(ctx context.Context, q catalog.Query) (catalog.Options, error) {
	if q.Category != "" && !f.failed {
		f.failed = true
		return catalog.Options{}, errors.New("network down")
	}
	return f.inner.Filter(ctx, q)
}

func TestSession_SelectRetriesFailedFetch(t *testing.T) {
	s := NewSession(Config{Filter: &flakyFilter{inner: catalog.NewIndex(products())}})
	require.NoError(t, s.LoadCatalog(context.Background()))

	err := s.Select(context.Background(), cascade.FieldCategory, "OIL")
	require.EqualError(t, err, "network down")
	assert.Equal(t, "OIL", s.Selection().Category)
	assert.Empty(t, s.Options(cascade.FieldBrand))

	require.NoError(t, s.Select(context.Background(), cascade.FieldCategory, "OIL"))
	assert.Equal(t, []string{"Jivo", "Other"}, s.Options(cascade.FieldBrand))
}

// flakyAddresses fails the first lookup.
type flakyAddresses struct {
	calls int
}

func (f *flakyAddresses) Addresses(_ context.Context, code string) (party.AddressSet, error) {
	f.calls++
	if f.calls == 1 {
		return party.AddressSet{}, errors.New("network down")
	}
	return party.AddressSet{BillTo: []party.Address{{ID: 7, AddressID: code}}}, nil
}

func TestSession_SelectPartyRetriesFailedLookup(t *testing.T) {
	addrs := &flakyAddresses{}
	s := NewSession(Config{Catalog: products(), Addresses: addrs})
	c1 := party.Party{CardCode: "C0001", CardName: "Sharma Traders"}

	require.EqualError(t, s.SelectParty(context.Background(), c1), "network down")
	assert.Equal(t, "C0001", s.Header().Party.CardCode)
	assert.Empty(t, s.Addresses().BillTo)

	require.NoError(t, s.SelectParty(context.Background(), c1))
	require.Len(t, s.Addresses().BillTo, 1)
	require.NoError(t, s.SelectBillTo(7))

	// Loaded now: choosing the party again keeps the bill-to choice.
	require.NoError(t, s.SelectParty(context.Background(), c1))
	assert.Equal(t, 2, addrs.calls)
	require.NotNil(t, s.Header().BillTo)
}
