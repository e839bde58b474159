package linecalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/domain/catalog"
)

func TestLine_RecomputesOnEveryInput(t *testing.T) {
	l := NewLine()
	l.SetQuantity("10")
	l.SetMarketPrice("250.5")
	assertDec(t, "2505", l.Result().Total, "total")
	assertDec(t, "0", l.Result().Pieces, "pieces")

	l.SetProduct(&catalog.Product{ItemCode: "FG001", PiecesPerCase: dec("12"), PackUnit: dec("0.5")})
	assertDec(t, "120", l.Result().Pieces, "pieces")
	assertDec(t, "5", l.Result().Litres, "litres")

	l.SetQuantity("abc")
	assert.True(t, l.Result().IsZero())
	assert.Equal(t, "abc", l.Quantity())
}

func TestLine_ProductSwapLeavesNoStaleFields(t *testing.T) {
	l := NewLine()
	l.SetProduct(&catalog.Product{ItemCode: "FG001", PiecesPerCase: dec("12"), PackUnit: dec("12")})
	l.SetQuantity("2")
	l.SetMarketPrice("100")
	assertDec(t, "24", l.Result().Litres, "litres")

	l.SetProduct(&catalog.Product{ItemCode: "FG003", PiecesPerCase: dec("20"), PackUnit: dec("10")})
	assertDec(t, "40", l.Result().Pieces, "pieces")
	assertDec(t, "20", l.Result().Litres, "litres")

	l.SetProduct(nil)
	assertDec(t, "0", l.Result().Pieces, "pieces")
	assertDec(t, "0", l.Result().Litres, "litres")
	assertDec(t, "200", l.Result().Total, "total")
}

func TestLine_ProductIsCopied(t *testing.T) {
	p := &catalog.Product{ItemCode: "FG001", PiecesPerCase: dec("12")}
	l := NewLine()
	l.SetProduct(p)
	p.PiecesPerCase = dec("99")

	got, ok := l.Product()
	require.True(t, ok)
	assertDec(t, "12", got.PiecesPerCase, "pieces per case")
}

func TestLine_Reset(t *testing.T) {
	l := NewLine()
	l.SetProduct(&catalog.Product{ItemCode: "FG001"})
	l.SetQuantity("1")
	l.SetMarketPrice("1")

	l.Reset()

	_, ok := l.Product()
	assert.False(t, ok)
	assert.Empty(t, l.Quantity())
	assert.Empty(t, l.MarketPrice())
	assert.True(t, l.Result().IsZero())
}
