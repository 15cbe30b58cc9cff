package portfolio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/smartfolio/journal"
	"github.com/rustyeddy/smartfolio/ledger"
	"github.com/rustyeddy/smartfolio/orders"
)

// Snapshot is the backup file format of one account.
type Snapshot struct {
	ActiveAccount string            `json:"activeAccount"`
	Assets        []ledger.Position `json:"assets"`
	PendingOrders []orders.Order    `json:"pendingOrders"`
	RecycledToSui float64           `json:"recycledToSui"`
	Journal       []journal.Entry   `json:"journal"`
	TargetValue   float64           `json:"targetValue"`
	ExportedAt    string            `json:"exportedAt"`
}

// Snapshot field names recognized by ImportSnapshot.
const (
	snapAssets   = "assets"
	snapOrders   = "pendingOrders"
	snapRecycled = "recycledToSui"
	snapJournal  = "journal"
	snapTarget   = "targetValue"
	snapAccount  = "activeAccount"
)

var errNoFields = errors.New("snapshot has no known fields")

// ExportSnapshot serializes the active book.
func (s *Store) ExportSnapshot() ([]byte, error) {
	s.lock()
	defer s.unlock()

	b := s.book
	snap := Snapshot{
		ActiveAccount: b.AccountID,
		Assets:        b.Ledger.Positions(),
		PendingOrders: b.Orders.List(),
		RecycledToSui: b.Recycled,
		Journal:       b.Journal.List(),
		TargetValue:   b.Target,
		ExportedAt:    s.now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export snapshot: %w", err)
	}
	return data, nil
}

// ImportSnapshot overwrites the active book with the fields present in
// data. It is all or nothing: if any present field fails to decode or
// validate, or no known field is present, the book is left untouched and
// false returned.
// The payload is always applied to the active account, whatever its
// activeAccount says.
func (s *Store) ImportSnapshot(data []byte) bool {
	s.lock()
	defer s.unlock()

	next, err := s.decodeSnapshot(data)
	if err != nil {
		s.log.Warn("import rejected", "err", err)
		return false
	}
	if next.from != "" && next.from != s.book.AccountID {
		s.log.Warn("importing snapshot from another account", "from", next.from, "into", s.book.AccountID)
	}

	b := s.book
	if next.assets != nil {
		b.Ledger = next.assets
	}
	if next.orders != nil {
		b.Orders = orders.NewBook(next.orders, s.orderOpts()...)
	}
	if next.journal != nil {
		b.Journal = journal.NewLog(next.journal, s.journalOpts()...)
	}
	if next.recycled != nil {
		b.Recycled = *next.recycled
	}
	if next.target != nil {
		b.Target = *next.target
	}
	s.log.Info("snapshot imported", "account", b.AccountID)
	s.commit(EventImported, next.from)
	return true
}

// pendingImport holds the decoded fields of a snapshot; nil means absent.
type pendingImport struct {
	from     string
	assets   *ledger.Ledger
	orders   []orders.Order
	journal  []journal.Entry
	recycled *float64
	target   *float64
}

func (s *Store) decodeSnapshot(data []byte) (pendingImport, error) {
	var p pendingImport

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return p, fmt.Errorf("parse snapshot: %w", err)
	}
	present := func(k string) (json.RawMessage, bool) {
		v, ok := raw[k]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return nil, false
		}
		return v, true
	}

	known := 0
	if v, ok := present(snapAssets); ok {
		known++
		l, err := decodeAssets(v)
		if err != nil {
			return p, fmt.Errorf("%s: %w", snapAssets, err)
		}
		p.assets = l
	}
	if v, ok := present(snapOrders); ok {
		known++
		list, err := decodeOrders(v)
		if err != nil {
			return p, fmt.Errorf("%s: %w", snapOrders, err)
		}
		p.orders = list
	}
	if v, ok := present(snapJournal); ok {
		known++
		list, err := decodeJournal(v)
		if err != nil {
			return p, fmt.Errorf("%s: %w", snapJournal, err)
		}
		p.journal = list
	}
	if v, ok := present(snapRecycled); ok {
		known++
		p.recycled = new(float64)
		if err := json.Unmarshal(v, p.recycled); err != nil {
			return p, fmt.Errorf("%s: %w", snapRecycled, err)
		}
	}
	if v, ok := present(snapTarget); ok {
		known++
		p.target = new(float64)
		if err := json.Unmarshal(v, p.target); err != nil {
			return p, fmt.Errorf("%s: %w", snapTarget, err)
		}
	}
	if v, ok := present(snapAccount); ok {
		if err := json.Unmarshal(v, &p.from); err != nil {
			return p, fmt.Errorf("%s: %w", snapAccount, err)
		}
	}
	if known == 0 {
		return p, errNoFields
	}
	return p, nil
}
