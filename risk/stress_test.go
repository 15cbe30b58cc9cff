package risk

import (
	"testing"

	"github.com/rustyeddy/smartfolio/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStressAll(t *testing.T) {
	l := ledger.New([]ledger.Position{
		pos("SUI", 600, 600, 50),
		pos("LINK", 200, 200, 25),
		pos(ledger.CashSymbol, 200, 200, 25),
	})

	res, total := Stress(l.Positions(), AllSymbols, -50)
	require.Len(t, res, 3)
	assert.InDelta(t, 600.0, total, 1e-9)
	assert.InDelta(t, -300.0, res[0].Delta, 1e-9)
	assert.InDelta(t, 0.0, res[2].Delta, 1e-9)
	assert.InDelta(t, 50.0, res[0].StressedAlloc, 1e-9)

	var sum float64
	for _, r := range res {
		sum += r.StressedAlloc
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestStressSingleSymbol(t *testing.T) {
	l := ledger.New([]ledger.Position{
		pos("SUI", 600, 600, 50),
		pos("LINK", 200, 200, 25),
	})
	res, total := Stress(l.Positions(), "LINK", 100)
	assert.InDelta(t, 1000.0, total, 1e-9)
	assert.Equal(t, 0.0, res[0].Delta)
	assert.InDelta(t, 200.0, res[1].Delta, 1e-9)
}

func TestDrawdowns(t *testing.T) {
	l := ledger.New([]ledger.Position{
		{Symbol: "SUI", Units: 100, CurrentPrice: 0.9825, TotalCost: ledger.Float(124)},
		{Symbol: "AAVE", Units: 1, CurrentPrice: 121.05, TotalCost: ledger.Float(120.6)},
		{Symbol: ledger.CashSymbol, Units: 10, CurrentPrice: 1},
	})

	dd := Drawdowns(l.Positions())
	require.Len(t, dd, 2)
	assert.Equal(t, "SUI", dd[0].Symbol)
	assert.InDelta(t, 1.24, dd[0].CostBasis, 1e-9)
	assert.InDelta(t, (0.9825-1.24)/1.24*100, dd[0].DrawdownPct, 1e-9)
	assert.Equal(t, "AAVE", dd[1].Symbol)
}
