package risk

import (
	"sort"

	"github.com/rustyeddy/smartfolio/ledger"
)

// AllSymbols applies a stress move to every non-cash position.
const AllSymbols = "ALL"

type StressResult struct {
	Symbol        string  `json:"symbol"`
	Value         float64 `json:"value"`
	StressedValue float64 `json:"stressedValue"`
	Delta         float64 `json:"delta"`
	StressedAlloc float64 `json:"stressedAlloc"`
}

// Stress revalues positions after a pct move (e.g. -30) in symbol, or in
// every non-cash asset for AllSymbols. Cash is never stressed.
func Stress(positions []ledger.Position, symbol string, pct float64) (results []StressResult, total float64) {
	results = make([]StressResult, 0, len(positions))
	for _, p := range positions {
		r := StressResult{Symbol: p.Symbol, Value: p.CurrentValue, StressedValue: p.CurrentValue}
		if !p.IsCash() && (symbol == AllSymbols || symbol == p.Symbol) {
			r.StressedValue = p.CurrentValue * (1 + pct/100)
			r.Delta = r.StressedValue - p.CurrentValue
		}
		total += r.StressedValue
		results = append(results, r)
	}
	if total != 0 {
		for i := range results {
			results[i].StressedAlloc = results[i].StressedValue / total * 100
		}
	}
	return results, total
}

type Drawdown struct {
	Symbol      string  `json:"symbol"`
	CostBasis   float64 `json:"costBasis"`
	DrawdownPct float64 `json:"drawdownPct"`
}

// Drawdowns compares each non-cash price to its average cost, worst first.
// Uncosted positions are measured against their own price.
func Drawdowns(positions []ledger.Position) []Drawdown {
	var out []Drawdown
	for _, p := range positions {
		if p.IsCash() {
			continue
		}
		basis := p.CurrentPrice
		if p.AvgCost != nil && *p.AvgCost > 0 {
			basis = *p.AvgCost
		}
		if basis == 0 {
			continue
		}
		out = append(out, Drawdown{
			Symbol:      p.Symbol,
			CostBasis:   basis,
			DrawdownPct: (p.CurrentPrice - basis) / basis * 100,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DrawdownPct < out[j].DrawdownPct })
	return out
}
