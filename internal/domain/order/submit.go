package order

import (
	"context"

	"github.com/shopspring/decimal"
)

// StatusSubmitted is the status of a freshly created order.
const StatusSubmitted = "submitted"

// SubmitResult is the collaborator's answer to a successful submission.
type SubmitResult struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	Message     string          `json:"message"`
}

// Submitter creates orders. Service is the in-process implementation.
type Submitter interface {
	Submit(ctx context.Context, payload CreateOrderPayload) (SubmitResult, error)
}
