package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/core/id"
)

func sumTotals(lines []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total)
	}
	return total
}

func TestAccumulator_GrandTotalTracksMutations(t *testing.T) {
	acc := NewAccumulator()

	a, err := acc.Confirm(candidate("10", "250.5"))
	require.NoError(t, err)
	b, err := acc.Confirm(candidate("2", "99.99"))
	require.NoError(t, err)
	assert.True(t, acc.GrandTotal().Equal(dec("2704.98")))

	acc.Remove(a.ID)
	assert.True(t, acc.GrandTotal().Equal(b.Total))
	assert.True(t, acc.GrandTotal().Equal(sumTotals(acc.Lines())))

	_, err = acc.Confirm(candidate("1", "0.01"))
	require.NoError(t, err)
	assert.True(t, acc.GrandTotal().Equal(dec("199.99")))
	assert.True(t, acc.GrandTotal().Equal(sumTotals(acc.Lines())))
	assert.Equal(t, 2, acc.Len())
}

func TestAccumulator_KeepsInsertionOrder(t *testing.T) {
	acc := NewAccumulator()
	first, _ := acc.Confirm(candidate("1", "1"))
	second, _ := acc.Confirm(candidate("2", "1"))
	third, _ := acc.Confirm(candidate("3", "1"))

	acc.Remove(second.ID)

	lines := acc.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, first.ID, lines[0].ID)
	assert.Equal(t, third.ID, lines[1].ID)
}

func TestAccumulator_RemoveUnknownIsNoop(t *testing.T) {
	acc := NewAccumulator()
	line, _ := acc.Confirm(candidate("1", "5"))

	acc.Remove(id.New())
	acc.Remove(line.ID)
	acc.Remove(line.ID)

	assert.Equal(t, 0, acc.Len())
	assert.True(t, acc.GrandTotal().IsZero())
}

func TestAccumulator_InvalidConfirmLeavesLinesAlone(t *testing.T) {
	acc := NewAccumulator()
	_, err := acc.Confirm(candidate("", "5"))

	require.Error(t, err)
	assert.Equal(t, 0, acc.Len())
}

func TestAccumulator_Summaries(t *testing.T) {
	acc := NewAccumulator()
	_, _ = acc.Confirm(candidate("10", "250.5"))
	_, _ = acc.Confirm(candidate("4", "100"))

	assert.True(t, acc.TotalQuantity().Equal(dec("14")))
	assert.True(t, acc.TotalLitres().Equal(dec("7")))
	assert.True(t, acc.TaxTotal().Equal(dec("145.25")))

	acc.Clear()
	assert.True(t, acc.TaxTotal().IsZero())
}

func TestAccumulator_LinesIsACopy(t *testing.T) {
	acc := NewAccumulator()
	_, _ = acc.Confirm(candidate("1", "10"))

	lines := acc.Lines()
	lines[0].Total = dec("1000")

	assert.True(t, acc.GrandTotal().Equal(dec("10")))
}
