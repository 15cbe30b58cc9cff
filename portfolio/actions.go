package portfolio

import (
	"context"
	"math"
	"strings"

	"github.com/rustyeddy/smartfolio/journal"
	"github.com/rustyeddy/smartfolio/market"
	"github.com/rustyeddy/smartfolio/orders"
)

func (s *Store) fee() float64 {
	return s.account.Strategy.TradeFeePercent
}

// ApplyPriceTick moves the prices of the active book and records the new
// prices in the trend windows.
func (s *Store) ApplyPriceTick(t market.Tick) {
	s.lock()
	defer s.unlock()

	s.book.Ledger.ApplyPriceTick(t.Factors)
	for sym := range t.Factors {
		if p, ok := s.book.Ledger.Get(sym); ok && !p.IsCash() {
			s.trends.Record(sym, p.CurrentPrice)
		}
	}
	s.commit(EventTick, "")
}

// AddOrder stages a pending order. Invalid intents and known ids are
// rejected.
func (s *Store) AddOrder(o orders.Order) (orders.Order, bool) {
	s.lock()
	defer s.unlock()

	added, ok := s.book.Orders.Add(o)
	if !ok {
		s.log.Info("order rejected", "id", o.ID, "symbol", o.Symbol, "type", o.Type)
		return orders.Order{}, false
	}
	s.commit(EventOrderAdded, added.ID)
	return added, true
}

// FillOrder executes a pending order at its limit price with the account
// fee and removes it. The order is removed even when the ledger rejects
// the trade, e.g. for a symbol the account does not hold.
func (s *Store) FillOrder(orderID string) bool {
	s.lock()
	defer s.unlock()

	o, ok := s.book.Orders.Take(orderID)
	if !ok {
		s.log.Info("fill: order not found", "id", orderID)
		return false
	}
	if err := s.book.Ledger.ApplyTrade(o.Trade(), s.fee()); err != nil {
		s.log.Warn("order removed without trade", "id", o.ID, "symbol", o.Symbol, "err", err)
	} else {
		s.log.Info("order filled", "id", o.ID, "type", o.Type, "symbol", o.Symbol, "units", o.Units, "price", o.Price)
	}
	s.commit(EventOrderFilled, o.ID)
	return true
}

// KillOrder drops a pending order without touching the ledger.
func (s *Store) KillOrder(orderID string) bool {
	s.lock()
	defer s.unlock()

	if !s.book.Orders.Remove(orderID) {
		s.log.Info("kill: order not found", "id", orderID)
		return false
	}
	s.commit(EventOrderKilled, orderID)
	return true
}

// AddJournalEntry logs an entry. A buy or sell entry carrying both price
// and units also trades the ledger; when that trade fails the entry is
// still kept.
func (s *Store) AddJournalEntry(e journal.Entry) (journal.Entry, bool) {
	s.lock()
	defer s.unlock()

	added, ok := s.book.Journal.Add(e)
	if !ok {
		s.log.Info("journal entry rejected", "id", e.ID)
		return journal.Entry{}, false
	}
	if t, ok := added.Trade(); ok {
		if err := s.book.Ledger.ApplyTrade(t, s.fee()); err != nil {
			s.log.Warn("journal entry logged without trade", "id", added.ID, "symbol", t.Symbol, "err", err)
		}
	}
	s.commit(EventJournalAdded, added.ID)
	return added, true
}

// RemoveJournalEntry deletes an entry. It never reverses a trade.
func (s *Store) RemoveJournalEntry(entryID string) bool {
	s.lock()
	defer s.unlock()

	if !s.book.Journal.Remove(entryID) {
		s.log.Info("journal entry not found", "id", entryID)
		return false
	}
	s.commit(EventJournalRemoved, entryID)
	return true
}

// SyncAssetBalance force-sets the units of a position, bypassing fees.
func (s *Store) SyncAssetBalance(symbol string, units float64) bool {
	s.lock()
	defer s.unlock()

	symbol = normalize(symbol)
	if err := s.book.Ledger.SyncBalance(symbol, units); err != nil {
		s.log.Info("sync rejected", "symbol", symbol, "units", units, "err", err)
		return false
	}
	s.commit(EventAssetSynced, symbol)
	return true
}

// RecyclePnL moves the unrealized gain of symbol into the account anchor.
// It is a no-op without profit or without an anchor.
func (s *Store) RecyclePnL(symbol string) bool {
	s.lock()
	defer s.unlock()

	symbol = normalize(symbol)
	profit, err := s.book.Ledger.RecyclePnL(symbol, s.account.Anchor)
	if err != nil {
		s.log.Info("recycle rejected", "symbol", symbol, "anchor", s.account.Anchor, "err", err)
		return false
	}
	if profit <= 0 {
		s.log.Debug("recycle: no profit", "symbol", symbol)
		return false
	}
	s.book.Recycled += profit
	s.log.Info("pnl recycled", "symbol", symbol, "anchor", s.account.Anchor, "profit", profit)
	s.commit(EventPnLRecycled, symbol)
	return true
}

// SwitchAccount flushes the active book, loads accountID and makes it
// active. Switching to the active or an unknown account does nothing.
func (s *Store) SwitchAccount(accountID string) bool {
	s.lock()
	defer s.unlock()

	if accountID == s.book.AccountID {
		return false
	}
	acct, ok := s.cfg.Account(accountID)
	if !ok {
		s.log.Warn("switch: unknown account", "account", accountID)
		return false
	}

	ctx := context.Background()
	s.flush(ctx)
	s.activate(ctx, acct)
	s.writeActive(ctx)
	s.log.Info("account switched", "account", acct.ID)
	s.notify(EventAccountSwitch, acct.ID)
	return true
}

// SetTargetValue sets the display-only goal value of the active account.
func (s *Store) SetTargetValue(v float64) bool {
	s.lock()
	defer s.unlock()

	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	s.book.Target = v
	s.commit(EventTargetSet, "")
	return true
}

// ResetToDefaults discards the persisted state of an account; an empty id
// means the active one. The active book is reseeded in memory.
func (s *Store) ResetToDefaults(accountID string) bool {
	s.lock()
	defer s.unlock()

	if accountID == "" {
		accountID = s.book.AccountID
	}
	acct, ok := s.cfg.Account(accountID)
	if !ok {
		s.log.Warn("reset: unknown account", "account", accountID)
		return false
	}

	s.clear(context.Background(), acct.ID)
	if acct.ID == s.book.AccountID {
		s.book = s.seedBook(acct)
		s.resetTrends()
	}
	s.log.Info("account reset", "account", acct.ID)
	s.notify(EventReset, acct.ID)
	return true
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
