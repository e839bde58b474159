package party

import (
	"context"
	"fmt"
	"strings"

	"orderdesk/internal/core/apperror"
	"orderdesk/pkg/logger"
)

// Service answers the header lookups.
type Service struct {
	repo Repository
}

// NewService creates a party service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListParties returns parties sorted by name.
func (s *Service) ListParties(ctx context.Context) ([]Party, error) {
	parties, err := s.repo.ListParties(ctx)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	return parties, nil
}

// ListDispatches returns dispatch locations sorted by name.
func (s *Service) ListDispatches(ctx context.Context) ([]Dispatch, error) {
	dispatches, err := s.repo.ListDispatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dispatches: %w", err)
	}
	return dispatches, nil
}

// Addresses implements AddressSource.
func (s *Service) Addresses(ctx context.Context, cardCode string) (AddressSet, error) {
	cardCode = strings.TrimSpace(cardCode)
	if cardCode == "" {
		return AddressSet{}, apperror.NewFieldRequired("card_code")
	}

	stored, err := s.repo.ListAddresses(ctx, cardCode)
	if err != nil {
		return AddressSet{}, fmt.Errorf("list addresses of %s: %w", cardCode, err)
	}

	p, err := s.repo.GetParty(ctx, cardCode)
	if err != nil {
		if !apperror.IsNotFound(err) {
			return AddressSet{}, fmt.Errorf("get party %s: %w", cardCode, err)
		}
		p = nil
	}

	set := ResolveAddresses(p, stored)
	if set.IsFallback {
		logger.Debug(ctx, "party has no stored addresses, using fallback", "card_code", cardCode)
	}
	return set, nil
}

var _ AddressSource = (*Service)(nil)
