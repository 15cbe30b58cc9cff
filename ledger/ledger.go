package ledger

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrSymbolNotFound = errors.New("symbol not found")
	ErrNoCash         = errors.New("cash position missing")
	ErrNoAnchor       = errors.New("no anchor asset")
	ErrInvalidTrade   = errors.New("invalid trade")
	ErrInvalidUnits   = errors.New("invalid units")
)

// Side is the direction of a trade.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// ParseSide accepts "buy" or "sell" in any case.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	}
	return "", fmt.Errorf("%w: unknown side %q", ErrInvalidTrade, s)
}

// Trade is a fully specified, all-or-nothing execution against the ledger.
type Trade struct {
	Symbol string
	Side   Side
	Units  float64
	Price  float64
}

// Gross is units times price, before fees.
func (t Trade) Gross() float64 {
	return t.Units * t.Price
}

// Ledger holds the positions of one account and keeps their derived fields
// consistent. Every mutating method leaves allocations renormalized before
// it returns. A Ledger is not safe for concurrent use; the owning store
// serializes access.
type Ledger struct {
	positions []Position
	index     map[string]int
}

// New builds a ledger from seed positions and recomputes every derived
// field. Later duplicates of a symbol are dropped.
func New(positions []Position) *Ledger {
	l := &Ledger{index: make(map[string]int, len(positions))}
	for _, p := range positions {
		if _, dup := l.index[p.Symbol]; dup || p.Symbol == "" {
			continue
		}
		l.index[p.Symbol] = len(l.positions)
		l.positions = append(l.positions, p.Clone())
	}
	l.recompute()
	return l
}

// Len is the number of positions, cash included.
func (l *Ledger) Len() int {
	return len(l.positions)
}

// Positions returns a copy of every position in seed order.
func (l *Ledger) Positions() []Position {
	out := make([]Position, len(l.positions))
	for i, p := range l.positions {
		out[i] = p.Clone()
	}
	return out
}

// Get returns a copy of the position for symbol.
func (l *Ledger) Get(symbol string) (Position, bool) {
	i, ok := l.index[symbol]
	if !ok {
		return Position{}, false
	}
	return l.positions[i].Clone(), true
}

// Symbols lists the non-cash symbols.
func (l *Ledger) Symbols() []string {
	out := make([]string, 0, len(l.positions))
	for _, p := range l.positions {
		if !p.IsCash() {
			out = append(out, p.Symbol)
		}
	}
	return out
}

// TotalValue is the sum of every position's current value.
func (l *Ledger) TotalValue() float64 {
	var total float64
	for _, p := range l.positions {
		total += p.CurrentValue
	}
	return total
}

// CashBalance is the value of the cash position, zero if there is none.
func (l *Ledger) CashBalance() float64 {
	if i, ok := l.index[CashSymbol]; ok {
		return l.positions[i].CurrentValue
	}
	return 0
}

// ApplyPriceTick multiplies each non-cash price by its factor. Symbols
// without a factor, and factors that are not finite and positive, leave the
// price unchanged.
func (l *Ledger) ApplyPriceTick(factors map[string]float64) {
	for i := range l.positions {
		p := &l.positions[i]
		if p.IsCash() {
			continue
		}
		f, ok := factors[p.Symbol]
		if !ok || f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
			continue
		}
		p.CurrentPrice *= f
	}
	l.recompute()
}

// ApplyTrade executes t against the ledger, settling through the cash
// position. feePercent is charged on top of a buy and taken out of the
// proceeds of a sell. A sell larger than the holding only sells what is
// held. On error the ledger is unchanged.
func (l *Ledger) ApplyTrade(t Trade, feePercent float64) error {
	if t.Units <= 0 || t.Price <= 0 || math.IsNaN(t.Units) || math.IsNaN(t.Price) {
		return fmt.Errorf("apply trade: %w: units %v price %v", ErrInvalidTrade, t.Units, t.Price)
	}
	if t.Symbol == CashSymbol {
		return fmt.Errorf("apply trade: %w: cannot trade the cash position", ErrInvalidTrade)
	}

	i, ok := l.index[t.Symbol]
	if !ok {
		return fmt.Errorf("apply trade: %w: %q", ErrSymbolNotFound, t.Symbol)
	}
	ci, ok := l.index[CashSymbol]
	if !ok {
		return fmt.Errorf("apply trade: %w", ErrNoCash)
	}

	p := &l.positions[i]
	cash := &l.positions[ci]

	switch t.Side {
	case Buy:
		cost := t.Gross() * (1 + feePercent/100)
		p.Units += t.Units
		p.setTotalCost(p.Cost() + cost)
		cash.Units -= cost

	case Sell:
		prev := p.Units
		sold := math.Min(t.Units, prev)
		remaining := math.Max(prev-sold, 0)
		if prev > 0 && p.TotalCost != nil {
			p.setTotalCost(*p.TotalCost * remaining / prev)
		}
		p.Units = remaining
		cash.Units += sold * t.Price * (1 - feePercent/100)

	default:
		return fmt.Errorf("apply trade: %w: unknown side %q", ErrInvalidTrade, t.Side)
	}

	l.recompute()
	return nil
}

// SyncBalance force-sets the units of symbol, for out-of-band corrections.
// The cost basis scales with the change in units; a position that held
// nothing is entered at its current price with zero gain. No fee is charged
// and cash is not touched.
func (l *Ledger) SyncBalance(symbol string, units float64) error {
	if units < 0 || math.IsNaN(units) || math.IsInf(units, 0) {
		return fmt.Errorf("sync balance: %w: %v", ErrInvalidUnits, units)
	}
	i, ok := l.index[symbol]
	if !ok {
		return fmt.Errorf("sync balance: %w: %q", ErrSymbolNotFound, symbol)
	}

	p := &l.positions[i]
	if p.Units > 0 && p.TotalCost != nil {
		p.setTotalCost(*p.TotalCost * units / p.Units)
	} else {
		p.setTotalCost(units * p.CurrentPrice)
	}
	p.Units = units

	l.recompute()
	return nil
}

// RecyclePnL moves the unrealized profit of source into anchor and returns
// the amount moved. The source gives up profit/price units but keeps its
// total cost: gains are harvested without reducing the capital invested.
// The anchor receives the same value in units and books it as cost.
// A source without profit is left untouched and zero is returned.
func (l *Ledger) RecyclePnL(source, anchor string) (float64, error) {
	if anchor == "" || anchor == source {
		return 0, fmt.Errorf("recycle: %w", ErrNoAnchor)
	}
	si, ok := l.index[source]
	if !ok {
		return 0, fmt.Errorf("recycle: %w: %q", ErrSymbolNotFound, source)
	}
	ai, ok := l.index[anchor]
	if !ok {
		return 0, fmt.Errorf("recycle: %w: anchor %q", ErrSymbolNotFound, anchor)
	}

	src := &l.positions[si]
	anc := &l.positions[ai]

	profit := math.Max(0, src.GainLoss)
	if profit <= 0 || src.CurrentPrice <= 0 || anc.CurrentPrice <= 0 {
		return 0, nil
	}

	src.Units = math.Max(src.Units-profit/src.CurrentPrice, 0)
	anc.Units += profit / anc.CurrentPrice
	anc.setTotalCost(anc.Cost() + profit)

	l.recompute()
	return profit, nil
}

// recompute refreshes derived fields and renormalizes allocations over the
// whole ledger. A zero total yields zero allocations rather than NaN.
func (l *Ledger) recompute() {
	var total float64
	for i := range l.positions {
		l.positions[i].revalue()
		total += l.positions[i].CurrentValue
	}
	for i := range l.positions {
		p := &l.positions[i]
		if total == 0 {
			p.Allocation = 0
			continue
		}
		p.Allocation = p.CurrentValue / total * 100
	}
}
