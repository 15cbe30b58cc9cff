package portfolio

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rustyeddy/smartfolio/config"
	"github.com/rustyeddy/smartfolio/journal"
	"github.com/rustyeddy/smartfolio/ledger"
	"github.com/rustyeddy/smartfolio/orders"
	"github.com/rustyeddy/smartfolio/store"
)

// Book is the full mutable state of one account.
type Book struct {
	AccountID string
	Ledger    *ledger.Ledger
	Orders    *orders.Book
	Journal   *journal.Log
	Recycled  float64 // profit moved into the anchor
	Target    float64 // display-only goal value
}

func seedPositions(acct config.AccountConfig) []ledger.Position {
	out := make([]ledger.Position, len(acct.Assets))
	for i, p := range acct.Assets {
		out[i] = p.Clone()
	}
	return out
}

func seedOrders(acct config.AccountConfig) []orders.Order {
	out := make([]orders.Order, len(acct.Orders))
	copy(out, acct.Orders)
	return out
}

// seedBook builds a book purely from static configuration.
func (s *Store) seedBook(acct config.AccountConfig) *Book {
	return &Book{
		AccountID: acct.ID,
		Ledger:    ledger.New(seedPositions(acct)),
		Orders:    orders.NewBook(seedOrders(acct), s.orderOpts()...),
		Journal:   journal.NewLog(nil, s.journalOpts()...),
		Recycled:  acct.Recycled,
		Target:    acct.Target,
	}
}

// loadBook hydrates an account field by field. An absent or malformed
// field falls back to its seed value. Nothing is written back.
func (s *Store) loadBook(ctx context.Context, acct config.AccountConfig) *Book {
	b := s.seedBook(acct)

	if l, ok := readField(ctx, s, acct.ID, store.FieldAssets, decodeAssets); ok {
		b.Ledger = l
	}
	if pending, ok := readField(ctx, s, acct.ID, store.FieldOrders, decodeOrders); ok {
		b.Orders = orders.NewBook(pending, s.orderOpts()...)
	}
	if entries, ok := readField(ctx, s, acct.ID, store.FieldJournal, decodeJournal); ok {
		b.Journal = journal.NewLog(entries, s.journalOpts()...)
	}
	if recycled, ok := readField(ctx, s, acct.ID, store.FieldRecycled, decodeFloat); ok {
		b.Recycled = recycled
	}
	if target, ok := readField(ctx, s, acct.ID, store.FieldTarget, decodeFloat); ok {
		b.Target = target
	}
	return b
}

func decodeFloat(data []byte) (float64, error) {
	var v float64
	err := json.Unmarshal(data, &v)
	return v, err
}

// readField decodes one persisted field and reports whether it was present
// and well formed.
func readField[T any](ctx context.Context, s *Store, account, field string, decode func([]byte) (T, error)) (T, bool) {
	var zero T
	key := store.Key(s.prefix, account, field)
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return zero, false
	}
	if err != nil {
		s.log.Warn("read failed, using seed", "key", key, "err", err)
		return zero, false
	}
	v, err := decode(data)
	if err != nil {
		s.log.Warn("malformed value, using seed", "key", key, "err", err)
		return zero, false
	}
	return v, true
}

// flush writes every field of the active book and the active pointer.
// Write failures are logged and otherwise ignored: the in-memory book
// stays authoritative for the session.
func (s *Store) flush(ctx context.Context) {
	b := s.book
	s.writeField(ctx, b.AccountID, store.FieldAssets, b.Ledger.Positions())
	s.writeField(ctx, b.AccountID, store.FieldOrders, b.Orders.List())
	s.writeField(ctx, b.AccountID, store.FieldJournal, b.Journal.List())
	s.writeField(ctx, b.AccountID, store.FieldRecycled, b.Recycled)
	s.writeField(ctx, b.AccountID, store.FieldTarget, b.Target)
	s.writeActive(ctx)
}

func (s *Store) writeField(ctx context.Context, account, field string, v any) {
	key := store.Key(s.prefix, account, field)
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("encode failed", "key", key, "err", err)
		return
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		s.log.Warn("write failed", "key", key, "err", err)
	}
}

func (s *Store) writeActive(ctx context.Context) {
	key := store.ActiveKey(s.prefix)
	if err := s.kv.Set(ctx, key, []byte(s.book.AccountID)); err != nil {
		s.log.Warn("write failed", "key", key, "err", err)
	}
}

// clear deletes every persisted field of an account.
func (s *Store) clear(ctx context.Context, account string) {
	for _, f := range store.Fields {
		key := store.Key(s.prefix, account, f)
		if err := s.kv.Delete(ctx, key); err != nil && !errors.Is(err, store.ErrNotFound) {
			s.log.Warn("delete failed", "key", key, "err", err)
		}
	}
}

func (s *Store) orderOpts() []orders.Option {
	return []orders.Option{orders.WithIDs(s.newID), orders.WithClock(s.now)}
}

func (s *Store) journalOpts() []journal.Option {
	return []journal.Option{journal.WithIDs(s.newID), journal.WithClock(s.now)}
}
