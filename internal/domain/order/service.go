package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"orderdesk/internal/core/apperror"
	appctx "orderdesk/internal/core/context"
	"orderdesk/internal/core/numerator"
	"orderdesk/internal/core/tx"
	"orderdesk/internal/core/types"
	"orderdesk/pkg/logger"
)

var tracer = otel.Tracer("orderdesk/order")

// DefaultNumberPrefix leads generated order numbers.
const DefaultNumberPrefix = "ORD"

// Metrics receives submission outcomes. A nil Metrics is allowed.
type Metrics interface {
	OrderCreated(total decimal.Decimal, items int)
	OrderRejected(reason string)
}

// ServiceConfig wires a Service.
type ServiceConfig struct {
	Repo      Repository
	TxManager tx.Manager
	Numerator numerator.Generator
	Metrics   Metrics

	// NumberPrefix defaults to DefaultNumberPrefix.
	NumberPrefix string

	// NumberOptions selects strict or cached numbering; nil is strict.
	NumberOptions *numerator.Options

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Service stores submitted orders. It is the order-creation collaborator
// behind the HTTP API and implements Submitter in-process.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numerator numerator.Generator
	metrics   Metrics
	numbering numerator.Config
	numOpts   *numerator.Options
	now       func() time.Time
}

// NewService creates an order service.
func NewService(cfg ServiceConfig) *Service {
	prefix := cfg.NumberPrefix
	if prefix == "" {
		prefix = DefaultNumberPrefix
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:      cfg.Repo,
		txManager: cfg.TxManager,
		numerator: cfg.Numerator,
		metrics:   cfg.Metrics,
		numbering: numerator.OrderConfig(prefix),
		numOpts:   cfg.NumberOptions,
		now:       clock,
	}
}

// ValidatePayload checks the fields the order table cannot do without.
func ValidatePayload(p CreateOrderPayload) error {
	if strings.TrimSpace(p.CardCode) == "" {
		return apperror.NewFieldRequired("card_code")
	}
	if len(p.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}
	total := decimal.Zero
	for i, it := range p.Items {
		if strings.TrimSpace(it.ItemCode) == "" {
			return apperror.NewFieldRequired("item_code").WithDetail("index", i)
		}
		if field, ok := outOfRange(it); !ok {
			return apperror.NewValidation("value out of range").
				WithDetail("field", field).
				WithDetail("index", i)
		}
		total = total.Add(it.Total.Decimal)
	}
	if !types.InRange(total) {
		return apperror.NewValidation("order total out of range").
			WithDetail("field", "total_amount")
	}
	return nil
}

// outOfRange names the first numeric field of it that cannot be stored.
func outOfRange(it PayloadItem) (string, bool) {
	fields := []struct {
		name string
		v    types.Number
	}{
		{"qty", it.Qty},
		{"pcs", it.Pcs},
		{"boxes", it.Boxes},
		{"ltrs", it.Ltrs},
		{"market_price", it.MarketPrice},
		{"total", it.Total},
		{"tax_rate", it.TaxRate},
	}
	for _, f := range fields {
		if !types.InRange(f.v.Decimal) {
			return f.name, false
		}
	}
	return "", true
}

// Submit implements Submitter.
func (s *Service) Submit(ctx context.Context, payload CreateOrderPayload) (SubmitResult, error) {
	ctx, span := tracer.Start(ctx, "order.submit")
	defer span.End()
	ctx = appctx.WithCardCode(ctx, strings.TrimSpace(payload.CardCode))

	if err := ValidatePayload(payload); err != nil {
		s.rejected("validation")
		return SubmitResult{}, err
	}

	o := FromPayload(payload)
	o.TotalAmount = o.ItemsTotal()
	o.Status = StatusSubmitted
	o.CreatedAt = s.now()

	// Numbering runs before the transaction so the sequence row lock is not
	// held while items are inserted.
	number, err := s.numerator.GetNextNumber(ctx, s.numbering, s.numOpts, o.CreatedAt)
	if err != nil {
		s.rejected("numbering")
		span.RecordError(err)
		span.SetStatus(codes.Error, "numbering failed")
		return SubmitResult{}, fmt.Errorf("generate order number: %w", err)
	}
	o.OrderNumber = number
	span.SetAttributes(
		attribute.String("order.number", number),
		attribute.Int("order.items", len(o.Items)),
	)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, o); err != nil {
			return fmt.Errorf("create order %s: %w", number, err)
		}
		return nil
	})
	if err != nil {
		s.rejected("storage")
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return SubmitResult{}, err
	}

	if s.metrics != nil {
		s.metrics.OrderCreated(o.TotalAmount, len(o.Items))
	}
	logger.Info(ctx, "order created",
		"order_number", o.OrderNumber,
		"items", len(o.Items),
		"total_amount", o.TotalAmount.StringFixed(2),
	)

	return SubmitResult{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		Message:     "Order created successfully",
	}, nil
}

// GetByNumber returns a stored order.
func (s *Service) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	o, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("order", orderNumber)
		}
		return nil, fmt.Errorf("get order %s: %w", orderNumber, err)
	}
	return o, nil
}

func (s *Service) rejected(reason string) {
	if s.metrics != nil {
		s.metrics.OrderRejected(reason)
	}
}

var _ Submitter = (*Service)(nil)
