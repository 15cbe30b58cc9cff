// Package portfolio is the portfolio state engine. A Store owns the books
// of every configured account, keeps exactly one of them active and
// mutable, and persists it through a store.KV after every change.
package portfolio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rustyeddy/smartfolio/config"
	"github.com/rustyeddy/smartfolio/id"
	"github.com/rustyeddy/smartfolio/market"
	"github.com/rustyeddy/smartfolio/store"
)

// ErrNotOpen is the panic value of any call on a Store that did not come
// from Open.
var ErrNotOpen = errors.New("portfolio: store was never opened")

// Store is the multi-account engine. All methods are safe for concurrent
// use; each one runs to completion under a single mutex, so price ticks
// and user actions never interleave.
type Store struct {
	mu sync.Mutex

	kv      store.KV
	cfg     *config.Config
	prefix  string
	log     *slog.Logger
	newID   id.Generator
	now     func() time.Time
	account config.AccountConfig
	book    *Book
	trends  *market.TrendStore
	opened  bool

	subs    map[int]chan Event
	nextSub int
}

var _ market.Target = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithIDs sets the generator for order and journal ids.
func WithIDs(g id.Generator) Option {
	return func(s *Store) { s.newID = g }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open hydrates the active account from kv. The active pointer falls back
// to cfg.DefaultAccount when absent or unknown, and each field of the book
// falls back to its seed. Open never writes to kv.
func Open(ctx context.Context, kv store.KV, cfg *config.Config, opts ...Option) (*Store, error) {
	if kv == nil {
		return nil, errors.New("portfolio: nil kv")
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Store{
		kv:     kv,
		cfg:    cfg,
		prefix: cfg.Storage.Prefix,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:  id.New,
		now:    time.Now,
		subs:   make(map[int]chan Event),
	}
	if s.prefix == "" {
		s.prefix = store.DefaultPrefix
	}
	for _, opt := range opts {
		opt(s)
	}

	active := cfg.DefaultAccount
	if data, err := kv.Get(ctx, store.ActiveKey(s.prefix)); err == nil {
		saved := strings.Trim(strings.TrimSpace(string(data)), `"`)
		if _, ok := cfg.Account(saved); ok {
			active = saved
		} else {
			s.log.Warn("unknown active account, using default", "account", saved, "default", active)
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		s.log.Warn("read active account failed", "err", err)
	}

	acct, _ := cfg.Account(active)
	s.activate(ctx, acct)
	s.opened = true
	s.log.Info("portfolio opened", "account", acct.ID, "positions", s.book.Ledger.Len(), "orders", s.book.Orders.Len())
	return s, nil
}

// activate loads acct from storage and makes it the active book.
func (s *Store) activate(ctx context.Context, acct config.AccountConfig) {
	s.account = acct
	s.book = s.loadBook(ctx, acct)
	s.resetTrends()
}

func (s *Store) resetTrends() {
	s.trends = market.NewTrendStore(s.cfg.Simulator.TrendWindow, s.account.Trends)
}

// lock takes the store mutex and panics on a Store that was never opened.
func (s *Store) lock() {
	if s == nil {
		panic(ErrNotOpen)
	}
	s.mu.Lock()
	if !s.opened {
		s.mu.Unlock()
		panic(ErrNotOpen)
	}
}

func (s *Store) unlock() {
	s.mu.Unlock()
}

// commit persists the active book and notifies subscribers. Called with
// the mutex held after every successful mutation.
func (s *Store) commit(kind EventKind, detail string) {
	s.flush(context.Background())
	s.notify(kind, detail)
}
