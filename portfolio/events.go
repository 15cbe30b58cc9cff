package portfolio

import "time"

type EventKind string

const (
	EventTick           EventKind = "tick"
	EventOrderAdded     EventKind = "order_added"
	EventOrderFilled    EventKind = "order_filled"
	EventOrderKilled    EventKind = "order_killed"
	EventJournalAdded   EventKind = "journal_added"
	EventJournalRemoved EventKind = "journal_removed"
	EventAssetSynced    EventKind = "asset_synced"
	EventPnLRecycled    EventKind = "pnl_recycled"
	EventAccountSwitch  EventKind = "account_switched"
	EventTargetSet      EventKind = "target_set"
	EventReset          EventKind = "reset"
	EventImported       EventKind = "imported"
)

// Event tells subscribers that the active book changed. Consumers re-read
// the View rather than patching their own copy.
type Event struct {
	Kind    EventKind `json:"kind"`
	Account string    `json:"account"`
	Detail  string    `json:"detail,omitempty"`
	Time    time.Time `json:"time"`
}

// Subscribe registers a listener with a buffer of buf events. Delivery
// never blocks the store: a full buffer drops the event. cancel closes
// the channel and may be called more than once.
func (s *Store) Subscribe(buf int) (<-chan Event, func()) {
	s.lock()
	defer s.unlock()

	if buf < 1 {
		buf = 1
	}
	ch := make(chan Event, buf)
	n := s.nextSub
	s.nextSub++
	s.subs[n] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[n]; ok {
			delete(s.subs, n)
			close(c)
		}
	}
	return ch, cancel
}

func (s *Store) notify(kind EventKind, detail string) {
	ev := Event{Kind: kind, Account: s.book.AccountID, Detail: detail, Time: s.now()}
	for n, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.log.Debug("subscriber slow, event dropped", "sub", n, "kind", kind)
		}
	}
}
