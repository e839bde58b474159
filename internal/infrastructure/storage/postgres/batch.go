package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// CopyRows bulk-inserts rows with the COPY protocol. It must run inside a
// transaction so a failed copy does not leave a half-written parent row.
// Decimal values are converted to pgtype.Numeric since COPY is binary.
func (m *TxManager) CopyRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	t := m.GetTx(ctx)
	if t == nil {
		return 0, fmt.Errorf("copy into %s requires a transaction", table)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := t.CopyFrom(ctx, pgx.Identifier{table}, columns, &numericRows{rows: rows, idx: -1})
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", table, err)
	}
	return n, nil
}

// numericRows is pgx.CopyFromRows with decimal conversion.
type numericRows struct {
	rows [][]any
	idx  int
}

func (r *numericRows) Next() bool {
	r.idx++
	return r.idx < len(r.rows)
}

func (r *numericRows) Values() ([]any, error) {
	src := r.rows[r.idx]
	out := make([]any, len(src))
	for i, v := range src {
		out[i] = copyValue(v)
	}
	return out, nil
}

func (r *numericRows) Err() error { return nil }

func copyValue(v any) any {
	switch d := v.(type) {
	case decimal.Decimal:
		return ToNumeric(d)
	case decimal.NullDecimal:
		if !d.Valid {
			return nil
		}
		return ToNumeric(d.Decimal)
	default:
		return v
	}
}

// ToNumeric converts d without loss.
func ToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}
