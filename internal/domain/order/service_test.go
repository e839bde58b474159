package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"orderdesk/internal/core/apperror"
	"orderdesk/internal/core/numerator"
	"orderdesk/internal/core/types"
	"orderdesk/pkg/logger"
)

type memRepo struct {
	orders []*Order
	err    error
}

func (r *memRepo) Create(_ context.Context, o *Order) error {
	if r.err != nil {
		return r.err
	}
	o.ID = int64(len(r.orders) + 1)
	r.orders = append(r.orders, o)
	return nil
}

func (r *memRepo) GetByNumber(_ context.Context, number string) (*Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == number {
			return o, nil
		}
	}
	return nil, apperror.NewNotFound("order", number)
}

type passTx struct{ calls int }

func (p *passTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type recMetrics struct {
	created  int
	rejected []string
}

func (m *recMetrics) OrderCreated(decimal.Decimal, int) { m.created++ }
func (m *recMetrics) OrderRejected(reason string)       { m.rejected = append(m.rejected, reason) }

func newTestService(repo *memRepo, gen numerator.Generator, m *recMetrics) *Service {
	cfg := ServiceConfig{
		Repo:      repo,
		TxManager: &passTx{},
		Numerator: gen,
		Clock:     func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) },
	}
	if m != nil {
		cfg.Metrics = m
	}
	return NewService(cfg)
}

func payload(totals ...string) CreateOrderPayload {
	p := CreateOrderPayload{CardCode: "C0001", CardName: "Sharma Traders"}
	for _, tot := range totals {
		p.Items = append(p.Items, PayloadItem{
			ItemCode: "FG001",
			Qty:      types.NewNumber(dec("1")),
			Total:    types.NewNumber(dec(tot)),
		})
	}
	return p
}

func TestService_Submit(t *testing.T) {
	repo := &memRepo{}
	m := &recMetrics{}
	svc := newTestService(repo, &numerator.MockGenerator{}, m)

	res, err := svc.Submit(context.Background(), payload("2505", "199.98"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.ID)
	assert.Equal(t, "ORD-20261019-0001", res.OrderNumber)
	assert.True(t, res.TotalAmount.Equal(dec("2704.98")))
	assert.Equal(t, StatusSubmitted, res.Status)
	assert.Equal(t, "Order created successfully", res.Message)
	assert.Equal(t, 1, m.created)

	require.Len(t, repo.orders, 1)
	assert.Len(t, repo.orders[0].Items, 2)

	res, err = svc.Submit(context.Background(), payload("1"))
	require.NoError(t, err)
	assert.Equal(t, "ORD-20261019-0002", res.OrderNumber)
}

func TestService_Submit_LogsCardCode(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := logger.WithLogger(context.Background(), &logger.Logger{SugaredLogger: zap.New(core).Sugar()})
	svc := newTestService(&memRepo{}, &numerator.MockGenerator{}, nil)

	_, err := svc.Submit(ctx, payload("10"))
	require.NoError(t, err)

	created := logs.FilterMessage("order created").All()
	require.Len(t, created, 1)
	fields := created[0].ContextMap()
	assert.Equal(t, "C0001", fields["card_code"])
	assert.Equal(t, "ORD-20261019-0001", fields["order_number"])
}

func TestService_Submit_Validation(t *testing.T) {
	m := &recMetrics{}
	svc := newTestService(&memRepo{}, &numerator.MockGenerator{}, m)

	_, err := svc.Submit(context.Background(), payload())
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	p := payload("1")
	p.CardCode = " "
	_, err = svc.Submit(context.Background(), p)
	appErr, _ := apperror.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "card_code", appErr.Field())

	p = payload("1")
	p.Items[0].ItemCode = ""
	_, err = svc.Submit(context.Background(), p)
	assert.True(t, apperror.IsValidation(err))

	p = payload("1")
	p.Items[0].Total = types.NewNumber(decimal.New(1, 30000000))
	_, err = svc.Submit(context.Background(), p)
	appErr, _ = apperror.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "total", appErr.Field())

	p = payload("99999999999999", "99999999999999")
	_, err = svc.Submit(context.Background(), p)
	appErr, _ = apperror.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "total_amount", appErr.Field())

	assert.Equal(t, []string{"validation", "validation", "validation", "validation", "validation"}, m.rejected)
}

func TestService_Submit_NumberingError(t *testing.T) {
	gen := &numerator.MockGenerator{
		GetNextNumberFunc: func(context.Context, numerator.Config, *numerator.Options, time.Time) (string, error) {
			return "", errors.New("sequence locked")
		},
	}
	repo := &memRepo{}
	svc := newTestService(repo, gen, &recMetrics{})

	_, err := svc.Submit(context.Background(), payload("1"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sequence locked")
	assert.Empty(t, repo.orders)
}

func TestService_Submit_StorageError(t *testing.T) {
	m := &recMetrics{}
	svc := newTestService(&memRepo{err: errors.New("insert failed")}, &numerator.MockGenerator{}, m)

	_, err := svc.Submit(context.Background(), payload("1"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert failed")
	assert.Equal(t, []string{"storage"}, m.rejected)
}

func TestService_GetByNumber(t *testing.T) {
	repo := &memRepo{}
	svc := newTestService(repo, &numerator.MockGenerator{}, nil)
	res, err := svc.Submit(context.Background(), payload("5"))
	require.NoError(t, err)

	o, err := svc.GetByNumber(context.Background(), res.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, "C0001", o.CardCode)

	_, err = svc.GetByNumber(context.Background(), "ORD-19990101-0001")
	assert.True(t, apperror.IsNotFound(err))
}
