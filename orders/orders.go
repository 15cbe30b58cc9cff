package orders

import (
	"math"
	"strings"
	"time"

	"github.com/rustyeddy/smartfolio/id"
	"github.com/rustyeddy/smartfolio/ledger"
)

type Status string

const (
	Open      Status = "open"
	Filled    Status = "filled"
	Cancelled Status = "cancelled"
)

// DateLayout is the layout of Order.Date.
const DateLayout = "2006-01-02"

// Order is a pending trade intent. It only touches the ledger when filled,
// and fills are all-or-nothing.
type Order struct {
	ID     string      `json:"id" yaml:"id"`
	Type   ledger.Side `json:"type" yaml:"type"`
	Symbol string      `json:"symbol" yaml:"symbol"`
	Units  float64     `json:"units" yaml:"units"`
	Price  float64     `json:"price" yaml:"price"`
	Status Status      `json:"status" yaml:"status"`
	Date   string      `json:"date" yaml:"date"`
	Note   string      `json:"note,omitempty" yaml:"note,omitempty"`
}

// Trade is the ledger execution a fill of o performs.
func (o Order) Trade() ledger.Trade {
	return ledger.Trade{Symbol: o.Symbol, Side: o.Type, Units: o.Units, Price: o.Price}
}

// Notional is units times price.
func (o Order) Notional() float64 {
	return o.Units * o.Price
}

// Valid reports whether o can be staged.
func (o Order) Valid() bool {
	if strings.TrimSpace(o.Symbol) == "" {
		return false
	}
	if o.Type != ledger.Buy && o.Type != ledger.Sell {
		return false
	}
	return o.Units > 0 && o.Price > 0 && !math.IsInf(o.Units, 0) && !math.IsInf(o.Price, 0)
}

// Book holds the pending orders of one account in insertion order.
type Book struct {
	orders []Order
	newID  id.Generator
	now    func() time.Time
}

// Option configures a Book.
type Option func(*Book)

// WithIDs sets the id generator used for orders staged without an id.
func WithIDs(g id.Generator) Option {
	return func(b *Book) { b.newID = g }
}

// WithClock sets the clock used to date new orders.
func WithClock(now func() time.Time) Option {
	return func(b *Book) { b.now = now }
}

// NewBook returns a book holding the given orders. Seed orders with
// duplicate ids are dropped.
func NewBook(seed []Order, opts ...Option) *Book {
	b := &Book{newID: id.New, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	for _, o := range seed {
		if o.ID == "" || b.index(o.ID) >= 0 {
			continue
		}
		b.orders = append(b.orders, o)
	}
	return b
}

// Add stages an order. A missing id, status or date is filled in. It
// returns false, leaving the book untouched, for an invalid intent or an
// id that is already staged.
func (b *Book) Add(o Order) (Order, bool) {
	o.Symbol = strings.ToUpper(strings.TrimSpace(o.Symbol))
	if !o.Valid() {
		return Order{}, false
	}
	if o.ID == "" {
		o.ID = b.newID()
	}
	if b.index(o.ID) >= 0 {
		return Order{}, false
	}
	if o.Status == "" {
		o.Status = Open
	}
	if o.Date == "" {
		o.Date = b.now().Format(DateLayout)
	}
	b.orders = append(b.orders, o)
	return o, true
}

// Get returns the order with the given id.
func (b *Book) Get(orderID string) (Order, bool) {
	i := b.index(orderID)
	if i < 0 {
		return Order{}, false
	}
	return b.orders[i], true
}

// Take removes the order and returns it marked as filled.
func (b *Book) Take(orderID string) (Order, bool) {
	i := b.index(orderID)
	if i < 0 {
		return Order{}, false
	}
	o := b.orders[i]
	b.orders = append(b.orders[:i], b.orders[i+1:]...)
	o.Status = Filled
	return o, true
}

// Remove drops the order regardless of status.
func (b *Book) Remove(orderID string) bool {
	i := b.index(orderID)
	if i < 0 {
		return false
	}
	b.orders = append(b.orders[:i], b.orders[i+1:]...)
	return true
}

// List returns a copy of the staged orders.
func (b *Book) List() []Order {
	out := make([]Order, len(b.orders))
	copy(out, b.orders)
	return out
}

func (b *Book) Len() int {
	return len(b.orders)
}

func (b *Book) index(orderID string) int {
	for i, o := range b.orders {
		if o.ID == orderID {
			return i
		}
	}
	return -1
}
