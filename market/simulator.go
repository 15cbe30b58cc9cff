package market

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// DefaultVolatility bounds the per-tick move of symbols without their own
// setting: each factor is drawn from [1-v, 1+v].
const DefaultVolatility = 0.001

// Simulator perturbs prices with bounded uniform noise. It stands in for a
// market-data feed; anything producing Ticks can replace it.
type Simulator struct {
	mu                sync.Mutex
	rng               *rand.Rand
	volatility        map[string]float64
	defaultVolatility float64
	now               func() time.Time
}

type SimOption func(*Simulator)

// WithSeed makes the generated ticks reproducible.
func WithSeed(seed int64) SimOption {
	return func(s *Simulator) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithVolatility sets per-symbol volatility, e.g. a calmer anchor asset.
func WithVolatility(v map[string]float64) SimOption {
	return func(s *Simulator) {
		for sym, x := range v {
			s.volatility[sym] = x
		}
	}
}

func WithDefaultVolatility(v float64) SimOption {
	return func(s *Simulator) { s.defaultVolatility = v }
}

func WithClock(now func() time.Time) SimOption {
	return func(s *Simulator) { s.now = now }
}

func NewSimulator(opts ...SimOption) *Simulator {
	s := &Simulator{
		rng:               rand.New(rand.NewSource(time.Now().UnixNano())),
		volatility:        map[string]float64{},
		defaultVolatility: DefaultVolatility,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) volatilityLocked(symbol string) float64 {
	if v, ok := s.volatility[symbol]; ok {
		return v
	}
	return s.defaultVolatility
}

// Next draws one factor per symbol.
func (s *Simulator) Next(symbols []string) Tick {
	s.mu.Lock()
	defer s.mu.Unlock()

	factors := make(map[string]float64, len(symbols))
	for _, sym := range symbols {
		v := s.volatilityLocked(sym)
		factors[sym] = 1 + (s.rng.Float64()*v*2 - v)
	}
	return Tick{Time: s.now(), Factors: factors}
}

// Target is what a Runner ticks: it names the symbols to move and applies
// the result atomically.
type Target interface {
	Symbols() []string
	ApplyPriceTick(Tick)
}

// Runner drives a Target from a Simulator on a fixed interval.
type Runner struct {
	Interval  time.Duration
	Simulator *Simulator
	Target    Target
}

// Step applies a single tick.
func (r *Runner) Step() Tick {
	t := r.Simulator.Next(r.Target.Symbols())
	r.Target.ApplyPriceTick(t)
	return t
}

// Run ticks until ctx is done and returns ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Step()
		}
	}
}
