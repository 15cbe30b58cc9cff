package market

import (
	"fmt"
	"sort"
)

// EMA is an exponential moving average over a price series.
type EMA struct {
	n     int
	alpha float64

	seen  int
	value float64
	ready bool

	name string
}

func NewEMA(period int) *EMA {
	if period <= 0 {
		panic("EMA period must be > 0")
	}
	return &EMA{
		n:     period,
		alpha: 2.0 / float64(period+1),
		name:  fmt.Sprintf("EMA(%d)", period),
	}
}

func (e *EMA) Name() string     { return e.name }
func (e *EMA) Warmup() int      { return e.n }
func (e *EMA) Ready() bool      { return e.ready }
func (e *EMA) Float64() float64 { return e.value }

func (e *EMA) Reset() {
	e.seen = 0
	e.value = 0
	e.ready = false
}

func (e *EMA) Update(price float64) {
	e.seen++
	if e.seen == 1 {
		// seed with the first price
		e.value = price
	} else {
		e.value = e.alpha*price + (1.0-e.alpha)*e.value
	}
	if e.seen >= e.n {
		e.ready = true
	}
}

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
	Flat Direction = "flat"
)

// Trend summarizes one price window.
type Trend struct {
	Symbol    string    `json:"symbol"`
	Last      float64   `json:"last"`
	Change    float64   `json:"change"` // % from oldest to newest
	EMA       float64   `json:"ema"`
	Direction Direction `json:"direction"`
}

// flatBand is how far, in percent, the last price may sit from its EMA
// and still count as flat.
const flatBand = 0.25

// Summarize reduces price windows to trends, sorted by symbol. The
// direction compares the last price to an EMA of the given period; windows
// shorter than the period are flat.
func Summarize(windows map[string][]float64, period int) []Trend {
	out := make([]Trend, 0, len(windows))
	for sym, prices := range windows {
		if len(prices) == 0 {
			continue
		}
		ema := NewEMA(period)
		for _, p := range prices {
			ema.Update(p)
		}
		t := Trend{
			Symbol:    sym,
			Last:      prices[len(prices)-1],
			Change:    Change(prices),
			EMA:       ema.Float64(),
			Direction: Flat,
		}
		if ema.Ready() && t.EMA != 0 {
			switch dev := (t.Last - t.EMA) / t.EMA * 100; {
			case dev > flatBand:
				t.Direction = Up
			case dev < -flatBand:
				t.Direction = Down
			}
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
