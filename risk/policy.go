package risk

// Band is an allocation target in percent of account value. Not every
// field applies to every asset class.
type Band struct {
	Min      float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Ideal    float64 `json:"ideal,omitempty" yaml:"ideal,omitempty"`
	Max      float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Critical float64 `json:"critical,omitempty" yaml:"critical,omitempty"`
}

// Policy is the read-only strategy an account is measured against. It is
// never enforced on trades; it only drives health reporting.
type Policy struct {
	// Anchor is the core asset symbol; empty for accounts without one.
	Anchor string

	AnchorTarget Band // Min, Ideal
	AltTarget    Band // Max
	CashTarget   Band // Ideal

	FeePercent float64 // flat, charged on buys and sells

	AltProfitTakeMin   float64 // % ROI to consider trimming an alt
	AltProfitTakeMax   float64 // % ROI strong trim zone
	AltDipEntryPercent float64 // pullback that qualifies as a dip entry
	CashCriticalBelow  float64 // cash % below this is an emergency
	CashHealthyAbove   float64 // cash % above this allows accumulation
	MaxConcentration   float64 // max % of any single non-cash asset
	DrawdownAlert      float64 // % loss vs cost that flags a position
	RebalanceBand      float64 // % deviation from target before suggesting a trade
}

// DefaultRebalanceBand is used when Policy.RebalanceBand is zero.
const DefaultRebalanceBand = 3.0

func (p Policy) rebalanceBand() float64 {
	if p.RebalanceBand > 0 {
		return p.RebalanceBand
	}
	return DefaultRebalanceBand
}
