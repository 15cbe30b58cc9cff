package report

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rustyeddy/smartfolio/config"
	"github.com/rustyeddy/smartfolio/id"
	"github.com/rustyeddy/smartfolio/journal"
	"github.com/rustyeddy/smartfolio/ledger"
	"github.com/rustyeddy/smartfolio/portfolio"
	"github.com/rustyeddy/smartfolio/risk"
	"github.com/rustyeddy/smartfolio/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{1234.5, "$1,234.50"},
		{201.2, "$201.20"},
		{0.005, "$0.01"},
		{-42.129, "-$42.13"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Money(tt.in), "Money(%v)", tt.in)
	}

	assert.Equal(t, "+$5.00", SignedMoney(5))
	assert.Equal(t, "-$5.00", SignedMoney(-5))
	assert.Equal(t, "-", SignedMoney(0.001))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "12.35%", Percent(12.345))
	assert.Equal(t, "0.00%", Percent(0))
	assert.Equal(t, "+3.10%", SignedPercent(3.1))
	assert.Equal(t, "-0.50%", SignedPercent(-0.5))
	assert.Equal(t, "-", SignedPercent(0.001))
}

func TestUnitsAndPrice(t *testing.T) {
	assert.Equal(t, "3012.1", Units(3012.10))
	assert.Equal(t, "1.241", Units(1.241))
	assert.Equal(t, "0.333333", Units(1.0/3))
	assert.Equal(t, "$0.9825", Price(0.9825))
	assert.Equal(t, "$121.05", Price(121.05))
}

func openStore(t *testing.T) *portfolio.Store {
	t.Helper()
	now := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	s, err := portfolio.Open(context.Background(), store.NewMemory(), config.Default(),
		portfolio.WithIDs(id.Sequence("r")),
		portfolio.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)
	return s
}

func TestMarkdown(t *testing.T) {
	s := openStore(t)
	require.True(t, s.SetTargetValue(10000))
	_, ok := s.AddJournalEntry(journal.Entry{Symbol: "SUI", Type: journal.KindNote, Notes: "ladder | set"})
	require.True(t, ok)

	out, err := Markdown(s.View(), s.Health(), Options{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# Roth Alto CryptoIRA (#82367)\n"))
	for _, want := range []string{
		"## Summary",
		"| Cash | $201.20 (",
		"| Recycled to SUI | $450.00 |",
		"| Target | $10,000.00 (",
		"| SUI | 3012.1 | $0.9825 |",
		"## Trends",
		"| LINK | $8.95 | +9.15% | $8.74 | up |",
		"## Health",
		"| SUI Anchor |",
		"## Pending orders",
		"| 2026-02-13 | SELL | SUI | 500 | $1.02 | $510.00 | Ladder 1: Capture strength |",
		"Fee drag if all fill:",
		`ladder \| set`,
	} {
		assert.Contains(t, out, want)
	}
}

func TestMarkdownEmptySections(t *testing.T) {
	s := openStore(t)
	require.True(t, s.SwitchAccount("alts"))

	out, err := Markdown(s.View(), s.Health(), Options{})
	require.NoError(t, err)

	assert.Contains(t, out, "No pending orders.")
	assert.Contains(t, out, "No journal entries.")
	assert.NotContains(t, out, "Recycled to")
	assert.NotContains(t, out, "| Target |")
}

func TestMarkdownJournalLimit(t *testing.T) {
	s := openStore(t)
	for i := 0; i < 4; i++ {
		_, ok := s.AddJournalEntry(journal.Entry{Symbol: "LINK", Type: journal.KindNote, Notes: fmt.Sprintf("note %d", i)})
		require.True(t, ok)
	}

	out, err := Markdown(s.View(), s.Health(), Options{JournalLimit: 2})
	require.NoError(t, err)
	assert.Contains(t, out, "note 3")
	assert.Contains(t, out, "note 2")
	assert.NotContains(t, out, "note 1")
	assert.Contains(t, out, "2 older entries not shown.")

	out, err = Markdown(s.View(), s.Health(), Options{JournalLimit: -1})
	require.NoError(t, err)
	assert.Contains(t, out, "note 0")
}

func TestMarkdownWithoutName(t *testing.T) {
	v := portfolio.View{AccountID: "scratch", Assets: []ledger.Position{{Symbol: ledger.CashSymbol, Units: 1, CurrentPrice: 1}}}
	out, err := Markdown(v, risk.Report{}, Options{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# scratch\n"))
	assert.NotContains(t, out, "## Trends")
}
