package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals(t *testing.T) {
	lines := []Line{
		{UnitPrice: decimal.RequireFromString("15.00"), Quantity: 2},
		{UnitPrice: decimal.RequireFromString("45.00"), Quantity: 1},
	}

	totals := ComputeTotals(lines)

	assert.Equal(t, 3, totals.ItemCount)
	assert.Equal(t, "75.00", totals.SubtotalDisplay())
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil)

	assert.Equal(t, 0, totals.ItemCount)
	assert.Equal(t, "0.00", totals.SubtotalDisplay())
}

func TestComputeTotalsNoFloatDrift(t *testing.T) {
	// 0.1 * 3 在二进制浮点下是 0.30000000000000004
	lines := []Line{
		{UnitPrice: decimal.RequireFromString("0.10"), Quantity: 3},
	}

	totals := ComputeTotals(lines)

	require.True(t, totals.Subtotal.Equal(decimal.RequireFromString("0.3")))
	assert.Equal(t, "0.30", totals.SubtotalDisplay())
}

func TestComputeTotalsRounding(t *testing.T) {
	lines := []Line{
		{UnitPrice: decimal.RequireFromString("19.995"), Quantity: 1},
	}

	totals := ComputeTotals(lines)

	// 四舍五入只发生在展示层，内部保留精确值
	assert.Equal(t, "20.00", totals.SubtotalDisplay())
	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("19.995")))
}
