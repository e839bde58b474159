// Package order_repo stores sales orders and their items.
package order_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"orderdesk/internal/core/apperror"
	"orderdesk/internal/domain/order"
	"orderdesk/internal/infrastructure/storage/postgres"
)

const (
	tableOrders = "orders"
	tableItems  = "order_items"
)

var (
	orderColumns = postgres.ExtractDBColumns[order.Order]()
	itemColumns  = postgres.ExtractDBColumns[order.Item]()

	// Generated by the database.
	orderInsertColumns = without(orderColumns, "id", "created_at")
	itemInsertColumns  = without(itemColumns, "id")
)

// Repo implements order.Repository. Create must run inside a transaction.
type Repo struct {
	txm *postgres.TxManager
}

// NewRepo creates an order repository.
func NewRepo(txm *postgres.TxManager) *Repo {
	return &Repo{txm: txm}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func insertOrderQuery(o *order.Order) squirrel.InsertBuilder {
	return builder().
		Insert(tableOrders).
		Columns(orderInsertColumns...).
		Values(postgres.StructValues(o, orderInsertColumns)...).
		Suffix("RETURNING id, created_at")
}

// Create inserts the order header, then bulk-copies its items.
func (r *Repo) Create(ctx context.Context, o *order.Order) error {
	sql, args, err := insertOrderQuery(o).ToSql()
	if err != nil {
		return fmt.Errorf("build order insert: %w", err)
	}
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&o.ID, &o.CreatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if len(o.Items) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(o.Items))
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		rows = append(rows, postgres.StructValues(&o.Items[i], itemInsertColumns))
	}
	n, err := r.txm.CopyRows(ctx, tableItems, itemInsertColumns, rows)
	if err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	if int(n) != len(rows) {
		return fmt.Errorf("insert order items: copied %d of %d rows", n, len(rows))
	}
	return nil
}

func orderByNumberQuery(number string) squirrel.SelectBuilder {
	return builder().
		Select(orderColumns...).
		From(tableOrders).
		Where(squirrel.Eq{"order_number": number}).
		Limit(1)
}

func itemsQuery(orderID int64) squirrel.SelectBuilder {
	return builder().
		Select(itemColumns...).
		From(tableItems).
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("id")
}

// GetByNumber loads an order with its items.
func (r *Repo) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	q := r.txm.GetQuerier(ctx)

	sql, args, err := orderByNumberQuery(number).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build order query: %w", err)
	}
	var o order.Order
	if err := pgxscan.Get(ctx, q, &o, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("order", number)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	sql, args, err = itemsQuery(o.ID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build items query: %w", err)
	}
	if err := pgxscan.Select(ctx, q, &o.Items, sql, args...); err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return &o, nil
}

func lastNumberQuery(prefix string) squirrel.SelectBuilder {
	return builder().
		Select("order_number").
		From(tableOrders).
		Where(squirrel.Like{"order_number": prefix + "%"}).
		OrderBy("length(order_number) DESC", "order_number DESC").
		Limit(1)
}

// LastNumber returns the highest order number starting with prefix, or ""
// when there is none. Longer numbers sort first so "-10000" beats "-9999".
func (r *Repo) LastNumber(ctx context.Context, prefix string) (string, error) {
	sql, args, err := lastNumberQuery(prefix).ToSql()
	if err != nil {
		return "", fmt.Errorf("build last number query: %w", err)
	}
	var number string
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &number, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("last order number: %w", err)
	}
	return number, nil
}

var _ order.Repository = (*Repo)(nil)

func without(cols []string, drop ...string) []string {
	out := make([]string, 0, len(cols))
outer:
	for _, c := range cols {
		for _, d := range drop {
			if c == d {
				continue outer
			}
		}
		out = append(out, c)
	}
	return out
}
