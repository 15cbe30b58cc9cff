package ledger

import "math"

// CashSymbol is the symbol of the cash position. Its price is pinned at 1.
const CashSymbol = "USD"

// Position is one holding within an account. Units, TotalCost and
// CurrentPrice are the inputs; everything else is derived by the Ledger.
type Position struct {
	Symbol           string   `json:"symbol" yaml:"symbol"`
	Name             string   `json:"name" yaml:"name"`
	Units            float64  `json:"units" yaml:"units"`
	AvgCost          *float64 `json:"avgCost" yaml:"avgCost,omitempty"`
	CurrentPrice     float64  `json:"currentPrice" yaml:"currentPrice"`
	CurrentValue     float64  `json:"currentValue" yaml:"-"`
	TotalCost        *float64 `json:"totalCost" yaml:"totalCost,omitempty"`
	GainLoss         float64  `json:"gainLoss" yaml:"-"`
	Allocation       float64  `json:"allocation" yaml:"-"`
	TargetAllocation float64  `json:"targetAllocation" yaml:"targetAllocation"`
}

// IsCash reports whether p is the cash position.
func (p Position) IsCash() bool {
	return p.Symbol == CashSymbol
}

// Cost returns the total cost basis, treating an uncosted position as zero.
func (p Position) Cost() float64 {
	if p.TotalCost == nil {
		return 0
	}
	return *p.TotalCost
}

// ROI is the gain or loss as a percentage of cost. Zero when uncosted.
func (p Position) ROI() float64 {
	c := p.Cost()
	if c == 0 {
		return 0
	}
	return p.GainLoss / c * 100
}

// Clone returns a deep copy; the cost pointers are not shared.
func (p Position) Clone() Position {
	if p.AvgCost != nil {
		p.AvgCost = Float(*p.AvgCost)
	}
	if p.TotalCost != nil {
		p.TotalCost = Float(*p.TotalCost)
	}
	return p
}

func (p *Position) setTotalCost(v float64) {
	if v < 0 || math.IsNaN(v) {
		v = 0
	}
	p.TotalCost = Float(v)
}

// revalue refreshes value, gain and the derived average cost. TotalCost is
// the source of truth for the cost basis, AvgCost only mirrors it. A
// position sold down to zero keeps its last average cost. Cash never
// drifts from its cost.
func (p *Position) revalue() {
	if p.IsCash() {
		p.CurrentPrice = 1
		p.TotalCost = Float(p.Units)
	}
	p.CurrentValue = p.Units * p.CurrentPrice
	p.GainLoss = p.CurrentValue - p.Cost()

	switch {
	case p.TotalCost == nil:
		p.AvgCost = nil
	case p.Units > 0:
		p.AvgCost = Float(*p.TotalCost / p.Units)
	}
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
