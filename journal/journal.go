// Package journal is the append-only trade and note log of an account.
// Buy and sell entries that carry both a price and units double as trades
// against the ledger; everything else is a pure log record.
package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/smartfolio/id"
	"github.com/rustyeddy/smartfolio/ledger"
)

// Kind discriminates journal entries.
type Kind string

const (
	KindBuy  Kind = "buy"
	KindSell Kind = "sell"
	KindNote Kind = "note"
)

// ParseKind accepts buy, sell or note in any case.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindBuy, KindSell, KindNote:
		return k, nil
	}
	return "", fmt.Errorf("unknown journal entry type %q", s)
}

type Entry struct {
	ID        string   `json:"id"`
	Timestamp string   `json:"timestamp"`
	Symbol    string   `json:"symbol"`
	Type      Kind     `json:"type"`
	Price     *float64 `json:"price,omitempty"`
	Units     *float64 `json:"units,omitempty"`
	Notes     string   `json:"notes"`
}

// Trade returns the ledger trade the entry stands for. Notes and entries
// missing a price or units are log-only and return false.
func (e Entry) Trade() (ledger.Trade, bool) {
	if e.Price == nil || e.Units == nil {
		return ledger.Trade{}, false
	}
	var side ledger.Side
	switch e.Type {
	case KindBuy:
		side = ledger.Buy
	case KindSell:
		side = ledger.Sell
	default:
		return ledger.Trade{}, false
	}
	return ledger.Trade{
		Symbol: strings.ToUpper(strings.TrimSpace(e.Symbol)),
		Side:   side,
		Units:  *e.Units,
		Price:  *e.Price,
	}, true
}

// Time parses the entry timestamp; the zero time when it does not parse.
func (e Entry) Time() time.Time {
	t, err := time.Parse(time.RFC3339, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Log keeps entries most recent first.
type Log struct {
	entries []Entry
	newID   id.Generator
	now     func() time.Time
}

type Option func(*Log)

func WithIDs(g id.Generator) Option {
	return func(l *Log) { l.newID = g }
}

func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// NewLog wraps existing entries, which are assumed to be newest first.
func NewLog(seed []Entry, opts ...Option) *Log {
	l := &Log{newID: id.New, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	seen := make(map[string]bool, len(seed))
	for _, e := range seed {
		if e.ID == "" || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		l.entries = append(l.entries, e)
	}
	return l
}

// Add prepends an entry, filling in the id, timestamp and a default note.
// The kind is normalized; an unknown kind or a known id is rejected and the
// log is left as is.
func (l *Log) Add(e Entry) (Entry, bool) {
	if e.Type == "" {
		e.Type = KindNote
	}
	k, err := ParseKind(string(e.Type))
	if err != nil {
		return Entry{}, false
	}
	e.Type = k
	if e.ID == "" {
		e.ID = l.newID()
	}
	if l.index(e.ID) >= 0 {
		return Entry{}, false
	}
	if e.Timestamp == "" {
		e.Timestamp = l.now().UTC().Format(time.RFC3339)
	}
	if strings.TrimSpace(e.Notes) == "" {
		e.Notes = strings.ToUpper(string(e.Type)) + " " + e.Symbol
	}
	l.entries = append([]Entry{e}, l.entries...)
	return e, true
}

// Remove deletes an entry. A trade the entry triggered is not reversed.
func (l *Log) Remove(entryID string) bool {
	i := l.index(entryID)
	if i < 0 {
		return false
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	return true
}

// List returns a copy of the entries, newest first.
func (l *Log) List() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) Len() int {
	return len(l.entries)
}

func (l *Log) index(entryID string) int {
	for i, e := range l.entries {
		if e.ID == entryID {
			return i
		}
	}
	return -1
}
