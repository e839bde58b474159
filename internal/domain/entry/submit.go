package entry

import (
	"context"

	"orderdesk/internal/core/apperror"
	appctx "orderdesk/internal/core/context"
	"orderdesk/internal/domain/order"
	"orderdesk/pkg/logger"
)

// Draft assembles the current order without submitting it.
func (s *Session) Draft() (order.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return order.BuildDraft(s.header, s.lines.Lines())
}

// Submit sends the draft to the submitter. Failures come back as
// SubmissionFailed carrying the collaborator's message, and the session is
// left as it was so the user can retry. Success clears the session.
func (s *Session) Submit(ctx context.Context) (order.SubmitResult, error) {
	s.mu.Lock()
	if err := s.guardSubmitting(); err != nil {
		s.mu.Unlock()
		return order.SubmitResult{}, err
	}
	draft, err := order.BuildDraft(s.header, s.lines.Lines())
	if err != nil {
		s.mu.Unlock()
		return order.SubmitResult{}, err
	}
	if s.submitter == nil {
		s.mu.Unlock()
		return order.SubmitResult{}, apperror.NewInternal(nil).WithDetail("missing", "submitter")
	}
	s.submitting = true
	sub := s.submitter
	s.mu.Unlock()

	payload := draft.Payload()
	ctx = appctx.WithCardCode(ctx, payload.CardCode)

	res, err := sub.Submit(ctx, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		logger.Warn(ctx, "order submission failed", "lines", len(draft.Lines), "error", err)
		return order.SubmitResult{}, apperror.NewSubmissionFailed(err)
	}

	logger.Info(ctx, "order submitted", "order_number", res.OrderNumber, "lines", len(draft.Lines))
	s.resetLocked()
	return res, nil
}
