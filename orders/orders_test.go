package orders

import (
	"testing"
	"time"

	"github.com/rustyeddy/smartfolio/id"
	"github.com/rustyeddy/smartfolio/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
}

func newBook(seed ...Order) *Book {
	return NewBook(seed, WithIDs(id.Sequence("ord")), WithClock(fixedClock))
}

func TestAddFillsDefaults(t *testing.T) {
	b := newBook()

	o, ok := b.Add(Order{Type: ledger.Buy, Symbol: "link", Units: 6.06, Price: 7.923})
	require.True(t, ok)
	assert.Equal(t, "ord-1", o.ID)
	assert.Equal(t, "LINK", o.Symbol)
	assert.Equal(t, Open, o.Status)
	assert.Equal(t, "2026-02-13", o.Date)
	assert.Equal(t, 1, b.Len())
}

func TestAddIsIdempotent(t *testing.T) {
	b := newBook()
	o := Order{ID: "sui-ladder-1", Type: ledger.Sell, Symbol: "SUI", Units: 500, Price: 1.02}

	_, ok := b.Add(o)
	require.True(t, ok)
	_, ok = b.Add(o)
	assert.False(t, ok)
	assert.Equal(t, 1, b.Len())
}

func TestAddRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		order Order
	}{
		{"no symbol", Order{Type: ledger.Buy, Units: 1, Price: 1}},
		{"bad type", Order{Type: "hold", Symbol: "SUI", Units: 1, Price: 1}},
		{"zero units", Order{Type: ledger.Buy, Symbol: "SUI", Price: 1}},
		{"negative price", Order{Type: ledger.Sell, Symbol: "SUI", Units: 1, Price: -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBook()
			_, ok := b.Add(tt.order)
			assert.False(t, ok)
			assert.Equal(t, 0, b.Len())
		})
	}
}

func TestTakeAndRemove(t *testing.T) {
	b := newBook(
		Order{ID: "a", Type: ledger.Buy, Symbol: "LINK", Units: 1, Price: 8, Status: Open},
		Order{ID: "b", Type: ledger.Sell, Symbol: "AAVE", Units: 1, Price: 175, Status: Open},
		Order{ID: "a", Type: ledger.Buy, Symbol: "IMX", Units: 1, Price: 1, Status: Open},
	)
	require.Equal(t, 2, b.Len())

	o, ok := b.Take("a")
	require.True(t, ok)
	assert.Equal(t, Filled, o.Status)
	assert.Equal(t, ledger.Trade{Symbol: "LINK", Side: ledger.Buy, Units: 1, Price: 8}, o.Trade())

	_, ok = b.Take("a")
	assert.False(t, ok)

	assert.True(t, b.Remove("b"))
	assert.False(t, b.Remove("b"))
	assert.Equal(t, 0, b.Len())
}

func TestListIsCopy(t *testing.T) {
	b := newBook(Order{ID: "a", Type: ledger.Buy, Symbol: "LINK", Units: 1, Price: 8})
	l := b.List()
	l[0].Units = 99

	o, ok := b.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1.0, o.Units)
}
