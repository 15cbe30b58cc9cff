package risk

import (
	"testing"

	"github.com/rustyeddy/smartfolio/ledger"
	"github.com/rustyeddy/smartfolio/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anchorPolicy() Policy {
	return Policy{
		Anchor:            "SUI",
		AnchorTarget:      Band{Min: 40, Ideal: 50},
		AltTarget:         Band{Max: 25},
		CashTarget:        Band{Ideal: 25, Critical: 10},
		FeePercent:        1,
		AltProfitTakeMin:  20,
		AltProfitTakeMax:  50,
		CashCriticalBelow: 10,
		CashHealthyAbove:  20,
		MaxConcentration:  65,
		DrawdownAlert:     30,
	}
}

func pos(sym string, value, cost, target float64) ledger.Position {
	return ledger.Position{Symbol: sym, Units: value, CurrentPrice: 1, TotalCost: ledger.Float(cost), TargetAllocation: target}
}

func TestHealthGrades(t *testing.T) {
	p := anchorPolicy()

	tests := []struct {
		name string
		fn   func(Policy, float64) Health
		pct  float64
		want Health
	}{
		{"cash critical", CashHealth, 5, Critical},
		{"cash under", CashHealth, 15, Under},
		{"cash on target", CashHealth, 25, OnTarget},
		{"cash over", CashHealth, 31, Over},
		{"anchor critical", AnchorHealth, 39, Critical},
		{"anchor under", AnchorHealth, 44, Under},
		{"anchor on target", AnchorHealth, 60, OnTarget},
		{"anchor over", AnchorHealth, 66, Over},
		{"alts over", AltHealth, 31, Over},
		{"alts under", AltHealth, 14, Under},
		{"alts on target", AltHealth, 25, OnTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(p, tt.pct))
		})
	}
}

func TestEvaluateHealthyBook(t *testing.T) {
	l := ledger.New([]ledger.Position{
		pos("SUI", 600, 600, 60),
		pos("LINK", 100, 100, 10),
		pos("AAVE", 100, 100, 10),
		pos(ledger.CashSymbol, 200, 200, 20),
	})

	r := Evaluate(anchorPolicy(), l.Positions(), nil)

	assert.InDelta(t, 1000.0, r.TotalValue, 1e-9)
	assert.InDelta(t, 60.0, r.AnchorPercent, 1e-9)
	assert.InDelta(t, 20.0, r.CashPercent, 1e-9)
	assert.InDelta(t, 20.0, r.AltPercent, 1e-9)
	assert.True(t, r.Healthy(), "violations: %v", r.Violations)
	assert.Equal(t, 100.0, r.Score)
	require.Len(t, r.Gauges, 3)
	for _, g := range r.Gauges {
		assert.Equal(t, OnTarget, g.Health, g.Label)
	}
	assert.Empty(t, r.Suggestions)
}

func codes(r Report) []string {
	var out []string
	for _, v := range r.Violations {
		out = append(out, v.Code)
	}
	return out
}

func TestEvaluateStressedBook(t *testing.T) {
	l := ledger.New([]ledger.Position{
		pos("SUI", 900, 900, 50),
		pos("LINK", 50, 25, 25),
		pos(ledger.CashSymbol, 50, 50, 25),
	})

	r := Evaluate(anchorPolicy(), l.Positions(), nil)

	assert.ElementsMatch(t, []string{"CASH_CRITICAL", "CONCENTRATION", "OVERWEIGHT", "PROFIT_TAKE"}, codes(r))
	assert.Equal(t, 50.0, r.Score)
	assert.Equal(t, Over, r.Gauges[0].Health)
	assert.Equal(t, Critical, r.Gauges[2].Health)
}

func TestEvaluateWithoutAnchor(t *testing.T) {
	p := anchorPolicy()
	p.Anchor = ""
	p.AltTarget = Band{Max: 75}

	l := ledger.New([]ledger.Position{
		pos("LINK", 300, 300, 25),
		pos("AAVE", 100, 200, 25),
		pos(ledger.CashSymbol, 100, 100, 25),
	})
	r := Evaluate(p, l.Positions(), nil)

	require.Len(t, r.Gauges, 2)
	assert.InDelta(t, 80.0, r.AltPercent, 1e-9)
	assert.Contains(t, codes(r), "DRAWDOWN")
}

func TestRebalance(t *testing.T) {
	l := ledger.New([]ledger.Position{
		pos("SUI", 600, 600, 50),
		pos("LINK", 100, 100, 10),
		pos("AAVE", 100, 100, 15),
		pos(ledger.CashSymbol, 200, 200, 25),
	})
	ps := l.Positions()

	got := Rebalance(anchorPolicy(), ps[:3], l.TotalValue())
	require.Len(t, got, 2)

	assert.Equal(t, "SUI", got[0].Symbol)
	assert.Equal(t, Trim, got[0].Action)
	assert.InDelta(t, 10.0, got[0].Deviation, 1e-9)
	assert.Equal(t, 500.0, got[0].TargetValue)
	assert.Equal(t, -100.0, got[0].NeededChange)
	assert.Equal(t, 1.0, got[0].Fee)

	assert.Equal(t, "AAVE", got[1].Symbol)
	assert.Equal(t, Add, got[1].Action)
	assert.Equal(t, 50.0, got[1].NeededChange)
	assert.Equal(t, 0.5, got[1].Fee)
}

func TestConcentration(t *testing.T) {
	hhi, eff := Concentration([]ledger.Position{{Allocation: 50}, {Allocation: 50}})
	assert.InDelta(t, 0.5, hhi, 1e-12)
	assert.InDelta(t, 2.0, eff, 1e-12)

	hhi, eff = Concentration(nil)
	assert.Equal(t, 0.0, hhi)
	assert.Equal(t, 0.0, eff)
}

func TestFeeDrag(t *testing.T) {
	pending := []orders.Order{
		{Units: 6.06, Price: 7.923},
		{Units: 500, Price: 1.02},
	}
	assert.InDelta(t, (6.06*7.923+510)*0.01, FeeDrag(pending, 1), 1e-9)
}
