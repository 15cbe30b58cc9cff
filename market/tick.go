package market

import (
	"sync"
	"time"
)

// Tick is one round of price moves: a multiplicative factor per symbol.
// Symbols without a factor keep their price.
type Tick struct {
	Time    time.Time
	Factors map[string]float64
}

// DefaultTrendWindow is how many prices a TrendStore keeps per symbol.
const DefaultTrendWindow = 7

// TrendStore keeps a short rolling window of recent prices per symbol,
// the data behind the dashboard sparklines.
type TrendStore struct {
	mu     sync.RWMutex
	window int
	trends map[string][]float64
}

func NewTrendStore(window int, seed map[string][]float64) *TrendStore {
	if window <= 0 {
		window = DefaultTrendWindow
	}
	ts := &TrendStore{window: window, trends: make(map[string][]float64, len(seed))}
	for sym, prices := range seed {
		for _, p := range prices {
			ts.Record(sym, p)
		}
	}
	return ts
}

// Record appends a price, dropping the oldest beyond the window.
func (ts *TrendStore) Record(symbol string, price float64) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	t := append(ts.trends[symbol], price)
	if len(t) > ts.window {
		t = t[len(t)-ts.window:]
	}
	ts.trends[symbol] = t
}

// Get returns a copy of the window for symbol, oldest first.
func (ts *TrendStore) Get(symbol string) []float64 {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	t := ts.trends[symbol]
	out := make([]float64, len(t))
	copy(out, t)
	return out
}

// All returns a copy of every window.
func (ts *TrendStore) All() map[string][]float64 {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	out := make(map[string][]float64, len(ts.trends))
	for sym, t := range ts.trends {
		c := make([]float64, len(t))
		copy(c, t)
		out[sym] = c
	}
	return out
}

// Change is the percentage move from the oldest to the newest price of a
// window; zero with fewer than two prices.
func Change(window []float64) float64 {
	if len(window) < 2 || window[0] == 0 {
		return 0
	}
	return (window[len(window)-1] - window[0]) / window[0] * 100
}
