package risk

import (
	"fmt"
	"math"
	"sort"

	"github.com/rustyeddy/smartfolio/ledger"
	"github.com/rustyeddy/smartfolio/orders"
	"github.com/shopspring/decimal"
)

// Health grades one allocation gauge.
type Health string

const (
	Critical Health = "CRITICAL"
	Under    Health = "UNDER"
	OnTarget Health = "ON_TARGET"
	Over     Health = "OVER"
)

// CashHealth grades the cash allocation against a ±5 point band around
// the ideal.
func CashHealth(p Policy, pct float64) Health {
	switch {
	case pct < p.CashCriticalBelow:
		return Critical
	case pct < p.CashTarget.Ideal-5:
		return Under
	case pct > p.CashTarget.Ideal+5:
		return Over
	}
	return OnTarget
}

// AnchorHealth grades the anchor allocation. The anchor may run well over
// its ideal before it counts as overweight.
func AnchorHealth(p Policy, pct float64) Health {
	switch {
	case pct < p.AnchorTarget.Min:
		return Critical
	case pct < p.AnchorTarget.Ideal-5:
		return Under
	case pct > p.AnchorTarget.Ideal+15:
		return Over
	}
	return OnTarget
}

// AltHealth grades the combined allocation of tactical assets.
func AltHealth(p Policy, pct float64) Health {
	switch {
	case pct > p.AltTarget.Max+5:
		return Over
	case pct < p.AltTarget.Max-10:
		return Under
	}
	return OnTarget
}

type Gauge struct {
	Label   string  `json:"label"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Health  Health  `json:"health"`
}

type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

type Action string

const (
	Trim Action = "TRIM"
	Add  Action = "ADD"
)

// Suggestion is a rebalance trade that brings a position back to target.
type Suggestion struct {
	Symbol       string  `json:"symbol"`
	Action       Action  `json:"action"`
	Deviation    float64 `json:"deviation"`
	TargetValue  float64 `json:"targetValue"`
	NeededChange float64 `json:"neededChange"`
	Fee          float64 `json:"fee"`
}

type Report struct {
	TotalValue    float64 `json:"totalValue"`
	CashPercent   float64 `json:"cashPercent"`
	AnchorPercent float64 `json:"anchorPercent"`
	AltPercent    float64 `json:"altPercent"`

	Gauges      []Gauge      `json:"gauges"`
	Violations  []Violation  `json:"violations"`
	Suggestions []Suggestion `json:"suggestions"`

	HHI                float64 `json:"hhi"`
	EffectivePositions float64 `json:"effectivePositions"`
	FeeDrag            float64 `json:"feeDrag"`
	Score              float64 `json:"score"` // % of compliance checks passed
}

// Healthy reports whether no violations were raised.
func (r *Report) Healthy() bool {
	return len(r.Violations) == 0
}

func (r *Report) add(code, msg string) {
	r.Violations = append(r.Violations, Violation{Code: code, Msg: msg})
}

// Evaluate measures positions and pending orders against p.
func Evaluate(p Policy, positions []ledger.Position, pending []orders.Order) Report {
	var r Report

	var coins []ledger.Position
	for _, pos := range positions {
		r.TotalValue += pos.CurrentValue
		switch {
		case pos.IsCash():
			r.CashPercent = pos.Allocation
		case p.Anchor != "" && pos.Symbol == p.Anchor:
			r.AnchorPercent = pos.Allocation
			coins = append(coins, pos)
		default:
			coins = append(coins, pos)
		}
	}
	r.AltPercent = 100 - r.AnchorPercent - r.CashPercent
	if r.TotalValue == 0 {
		r.AltPercent = 0
	}

	// Gauges
	if p.Anchor != "" {
		r.Gauges = append(r.Gauges, Gauge{Label: p.Anchor + " Anchor", Current: r.AnchorPercent, Target: p.AnchorTarget.Ideal, Health: AnchorHealth(p, r.AnchorPercent)})
	}
	r.Gauges = append(r.Gauges,
		Gauge{Label: "Alt Exposure", Current: r.AltPercent, Target: p.AltTarget.Max, Health: AltHealth(p, r.AltPercent)},
		Gauge{Label: "Cash Reserve", Current: r.CashPercent, Target: p.CashTarget.Ideal, Health: CashHealth(p, r.CashPercent)},
	)

	// Compliance
	checks, passed := 0, 0
	check := func(ok bool) {
		checks++
		if ok {
			passed++
		}
	}

	check(r.CashPercent >= p.CashCriticalBelow)
	if r.CashPercent < p.CashCriticalBelow {
		r.add("CASH_CRITICAL", fmt.Sprintf("cash %.1f%% below critical %.1f%%", r.CashPercent, p.CashCriticalBelow))
	} else if r.CashPercent < p.CashHealthyAbove {
		r.add("CASH_LOW", fmt.Sprintf("cash %.1f%% below healthy %.1f%%", r.CashPercent, p.CashHealthyAbove))
	}

	if p.Anchor != "" {
		check(r.AnchorPercent >= p.AnchorTarget.Min)
		if r.AnchorPercent < p.AnchorTarget.Min {
			r.add("ANCHOR_LOW", fmt.Sprintf("%s %.1f%% below minimum %.1f%%", p.Anchor, r.AnchorPercent, p.AnchorTarget.Min))
		}
	}

	if p.AltTarget.Max > 0 {
		check(r.AltPercent <= p.AltTarget.Max+5)
	}

	if p.MaxConcentration > 0 {
		var maxSym string
		var maxAlloc float64
		for _, c := range coins {
			if c.Allocation > maxAlloc {
				maxSym, maxAlloc = c.Symbol, c.Allocation
			}
		}
		check(maxAlloc <= p.MaxConcentration)
		if maxAlloc > p.MaxConcentration {
			r.add("CONCENTRATION", fmt.Sprintf("%s at %.1f%% exceeds max concentration %.1f%%", maxSym, maxAlloc, p.MaxConcentration))
		}
	}

	for _, c := range coins {
		if c.TargetAllocation > 0 && c.Allocation > c.TargetAllocation+10 {
			r.add("OVERWEIGHT", fmt.Sprintf("%s at %.1f%%, target %.1f%%", c.Symbol, c.Allocation, c.TargetAllocation))
		}
		if c.Symbol == p.Anchor {
			continue
		}
		roi := c.ROI()
		switch {
		case p.AltProfitTakeMax > 0 && roi >= p.AltProfitTakeMax:
			r.add("PROFIT_TAKE", fmt.Sprintf("%s +%.0f%% ROI is in the strong trim zone", c.Symbol, roi))
		case p.AltProfitTakeMin > 0 && roi >= p.AltProfitTakeMin:
			r.add("PROFIT_TAKE", fmt.Sprintf("%s +%.0f%% ROI, consider trimming", c.Symbol, roi))
		}
		if p.DrawdownAlert > 0 && roi <= -p.DrawdownAlert {
			r.add("DRAWDOWN", fmt.Sprintf("%s %.0f%% ROI, re-evaluate thesis", c.Symbol, roi))
		}
	}

	if checks > 0 {
		r.Score = float64(passed) / float64(checks) * 100
	}

	r.HHI, r.EffectivePositions = Concentration(coins)
	r.Suggestions = Rebalance(p, coins, r.TotalValue)
	r.FeeDrag = FeeDrag(pending, p.FeePercent)

	return r
}

// Concentration returns the Herfindahl index of the given allocations and
// the effective number of positions it implies.
func Concentration(positions []ledger.Position) (hhi, effective float64) {
	for _, p := range positions {
		hhi += math.Pow(p.Allocation/100, 2)
	}
	if hhi > 0 {
		effective = 1 / hhi
	}
	return hhi, effective
}

// Rebalance suggests trims and adds for positions that drifted more than
// the policy band from target, largest drift first.
func Rebalance(p Policy, positions []ledger.Position, total float64) []Suggestion {
	band := p.rebalanceBand()

	var out []Suggestion
	for _, pos := range positions {
		dev := pos.Allocation - pos.TargetAllocation
		var action Action
		switch {
		case dev > band:
			action = Trim
		case dev < -band:
			action = Add
		default:
			continue
		}
		target := pos.TargetAllocation / 100 * total
		needed := target - pos.CurrentValue
		out = append(out, Suggestion{
			Symbol:       pos.Symbol,
			Action:       action,
			Deviation:    dev,
			TargetValue:  cents(target),
			NeededChange: cents(needed),
			Fee:          cents(math.Abs(needed) * p.FeePercent / 100),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Deviation) > math.Abs(out[j].Deviation)
	})
	return out
}

// FeeDrag is the fee the pending orders would cost if all were filled.
func FeeDrag(pending []orders.Order, feePercent float64) float64 {
	var s float64
	for _, o := range pending {
		s += o.Notional() * feePercent / 100
	}
	return s
}

func cents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
