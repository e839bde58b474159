package master_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"orderdesk/internal/core/apperror"
	"orderdesk/internal/domain/party"
	"orderdesk/internal/infrastructure/storage/postgres"
)

// PartyRepo implements party.Repository.
type PartyRepo struct {
	txm *postgres.TxManager
}

// NewPartyRepo creates a party repository.
func NewPartyRepo(txm *postgres.TxManager) *PartyRepo {
	return &PartyRepo{txm: txm}
}

func partySelect() squirrel.SelectBuilder {
	return builder().
		Select(
			"card_code",
			"card_name",
			"COALESCE(address, '') AS address",
			"COALESCE(state, '') AS state",
		).
		From(tableParties)
}

func addressesQuery(cardCode string) squirrel.SelectBuilder {
	return builder().
		Select(
			"id",
			"COALESCE(address_id, '') AS address_id",
			"address_type",
			"COALESCE(gst_number, '') AS gst_number",
			"COALESCE(full_address, '') AS full_address",
		).
		From(tableAddresses).
		Where(squirrel.Eq{
			"card_code":    cardCode,
			"address_type": []string{string(party.AddressBillTo), string(party.AddressShipTo)},
		}).
		OrderBy("address_id")
}

func dispatchesQuery() squirrel.SelectBuilder {
	return builder().
		Select("id", "name", "COALESCE(code, '') AS code", "COALESCE(city, '') AS city").
		From(tableDispatches).
		OrderBy("name")
}

// ListParties returns parties ordered by name.
func (r *PartyRepo) ListParties(ctx context.Context) ([]party.Party, error) {
	sql, args, err := partySelect().OrderBy("card_name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build parties query: %w", err)
	}
	var out []party.Party
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	return out, nil
}

// GetParty returns one party or NotFound.
func (r *PartyRepo) GetParty(ctx context.Context, cardCode string) (*party.Party, error) {
	sql, args, err := partySelect().Where(squirrel.Eq{"card_code": cardCode}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build party query: %w", err)
	}
	var p party.Party
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("party", cardCode)
		}
		return nil, fmt.Errorf("get party: %w", err)
	}
	return &p, nil
}

// ListAddresses returns the stored bill-to and ship-to addresses of a party.
func (r *PartyRepo) ListAddresses(ctx context.Context, cardCode string) ([]party.Address, error) {
	sql, args, err := addressesQuery(cardCode).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build addresses query: %w", err)
	}
	var out []party.Address
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return out, nil
}

// ListDispatches returns dispatch locations ordered by name.
func (r *PartyRepo) ListDispatches(ctx context.Context) ([]party.Dispatch, error) {
	sql, args, err := dispatchesQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build dispatches query: %w", err)
	}
	var out []party.Dispatch
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list dispatches: %w", err)
	}
	return out, nil
}

var _ party.Repository = (*PartyRepo)(nil)
