package portfolio

import (
	"github.com/rustyeddy/smartfolio/journal"
	"github.com/rustyeddy/smartfolio/ledger"
	"github.com/rustyeddy/smartfolio/orders"
	"github.com/rustyeddy/smartfolio/risk"
)

// View is a deep copy of the active book plus the values derived from it.
// Mutating a View never affects the Store.
type View struct {
	AccountID   string               `json:"accountId"`
	AccountName string               `json:"accountName"`
	Anchor      string               `json:"anchor,omitempty"`
	Strategy    string               `json:"strategy"`
	FeePercent  float64              `json:"feePercent"`
	TotalValue  float64              `json:"totalValue"`
	CashBalance float64              `json:"cashBalance"`
	Assets      []ledger.Position    `json:"assets"`
	Orders      []orders.Order       `json:"pendingOrders"`
	Journal     []journal.Entry      `json:"journal"`
	Recycled    float64              `json:"recycledToAnchor"`
	Target      float64              `json:"targetValue"`
	Trends      map[string][]float64 `json:"marketTrends"`
}

// AccountInfo describes one configured account.
type AccountInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Anchor string `json:"anchor,omitempty"`
	Active bool   `json:"active"`
}

func (s *Store) View() View {
	s.lock()
	defer s.unlock()

	b := s.book
	return View{
		AccountID:   b.AccountID,
		AccountName: s.account.Name,
		Anchor:      s.account.Anchor,
		Strategy:    s.account.Strategy.Name,
		FeePercent:  s.fee(),
		TotalValue:  b.Ledger.TotalValue(),
		CashBalance: b.Ledger.CashBalance(),
		Assets:      b.Ledger.Positions(),
		Orders:      b.Orders.List(),
		Journal:     b.Journal.List(),
		Recycled:    b.Recycled,
		Target:      b.Target,
		Trends:      s.trends.All(),
	}
}

// ActiveAccount returns the id of the active account.
func (s *Store) ActiveAccount() string {
	s.lock()
	defer s.unlock()
	return s.book.AccountID
}

// Accounts lists every configured account in configuration order.
func (s *Store) Accounts() []AccountInfo {
	s.lock()
	defer s.unlock()

	out := make([]AccountInfo, 0, len(s.cfg.Accounts))
	for _, a := range s.cfg.Accounts {
		out = append(out, AccountInfo{ID: a.ID, Name: a.Name, Anchor: a.Anchor, Active: a.ID == s.book.AccountID})
	}
	return out
}

// Symbols lists the non-cash symbols of the active book. Together with
// ApplyPriceTick it makes a Store a market.Target.
func (s *Store) Symbols() []string {
	s.lock()
	defer s.unlock()
	return s.book.Ledger.Symbols()
}

// Health evaluates the active book against its account policy.
func (s *Store) Health() risk.Report {
	s.lock()
	defer s.unlock()
	return risk.Evaluate(s.account.Policy(), s.book.Ledger.Positions(), s.book.Orders.List())
}
