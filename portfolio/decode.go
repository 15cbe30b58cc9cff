package portfolio

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rustyeddy/smartfolio/journal"
	"github.com/rustyeddy/smartfolio/ledger"
	"github.com/rustyeddy/smartfolio/orders"
)

var (
	errNoPositions  = errors.New("no positions")
	errBadPosition  = errors.New("position without a symbol or repeated")
	errMissingID    = errors.New("missing id")
	errDuplicateID  = errors.New("duplicate id")
	errInvalidOrder = errors.New("invalid order")
)

// decodeAssets builds a ledger from a serialized position list. The list
// must be non-empty and every position must carry its own symbol; nothing
// is silently dropped.
func decodeAssets(data []byte) (*ledger.Ledger, error) {
	var positions []ledger.Position
	if err := json.Unmarshal(data, &positions); err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, errNoPositions
	}
	l := ledger.New(positions)
	if l.Len() != len(positions) {
		return nil, errBadPosition
	}
	return l, nil
}

// decodeOrders parses a pending order list. Every order needs a unique id
// and must be stageable.
func decodeOrders(data []byte) ([]orders.Order, error) {
	list := []orders.Order{}
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(list))
	for i, o := range list {
		switch {
		case o.ID == "":
			return nil, fmt.Errorf("order %d: %w", i, errMissingID)
		case seen[o.ID]:
			return nil, fmt.Errorf("order %s: %w", o.ID, errDuplicateID)
		case !o.Valid():
			return nil, fmt.Errorf("order %s: %w", o.ID, errInvalidOrder)
		}
		seen[o.ID] = true
	}
	return list, nil
}

// decodeJournal parses a journal. Every entry needs a unique id and a known
// kind, which is normalized to lower case.
func decodeJournal(data []byte) ([]journal.Entry, error) {
	list := []journal.Entry{}
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(list))
	for i, e := range list {
		switch {
		case e.ID == "":
			return nil, fmt.Errorf("entry %d: %w", i, errMissingID)
		case seen[e.ID]:
			return nil, fmt.Errorf("entry %s: %w", e.ID, errDuplicateID)
		}
		seen[e.ID] = true
		if e.Type == "" {
			list[i].Type = journal.KindNote
			continue
		}
		k, err := journal.ParseKind(string(e.Type))
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		list[i].Type = k
	}
	return list, nil
}
