package master_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"orderdesk/internal/core/types"
	"orderdesk/internal/domain/catalog"
	"orderdesk/internal/infrastructure/storage/postgres"
)

// productRow mirrors sap_products. sal_pack_unit is stored as text in SAP.
type productRow struct {
	ID          int64               `db:"id"`
	ItemCode    string              `db:"item_code"`
	ItemName    string              `db:"item_name"`
	Category    *string             `db:"category"`
	Brand       *string             `db:"brand"`
	Variety     *string             `db:"variety"`
	SalFactor2  decimal.NullDecimal `db:"sal_factor2"`
	TaxRate     decimal.NullDecimal `db:"tax_rate"`
	SalPackUnit *string             `db:"sal_pack_unit"`
}

func (r productRow) toDomain() catalog.Product {
	return catalog.Product{
		ID:            r.ID,
		ItemCode:      r.ItemCode,
		ItemName:      r.ItemName,
		Category:      deref(r.Category),
		Brand:         deref(r.Brand),
		Variety:       deref(r.Variety),
		PiecesPerCase: orZero(r.SalFactor2),
		PackUnit:      types.ParseOrZero(deref(r.SalPackUnit)),
		TaxRate:       orZero(r.TaxRate),
	}
}

var productColumns = postgres.ExtractDBColumns[productRow]()

// ProductRepo implements catalog.Source.
type ProductRepo struct {
	txm *postgres.TxManager
}

// NewProductRepo creates a product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{txm: txm}
}

func (r *ProductRepo) listQuery() squirrel.SelectBuilder {
	return builder().
		Select(productColumns...).
		From(tableProducts).
		Where(squirrel.Eq{"is_deleted": false}).
		OrderBy("category", "brand", "variety", "item_name")
}

// ListProducts returns every live product.
func (r *ProductRepo) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	sql, args, err := r.listQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build products query: %w", err)
	}

	var rows []productRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	out := make([]catalog.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

var _ catalog.Source = (*ProductRepo)(nil)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
