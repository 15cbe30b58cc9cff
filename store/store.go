// Package store is the persistence adapter behind the portfolio engine: a
// plain key-value store with no transactions.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// KV maps keys to opaque serialized values.
type KV interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete of an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	// Keys returns the keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// DefaultPrefix namespaces every key the engine writes.
const DefaultPrefix = "smartfolio_"

// Per-account fields.
const (
	FieldAssets   = "assets"
	FieldOrders   = "orders"
	FieldRecycled = "recycled"
	FieldJournal  = "journal"
	FieldTarget   = "target"
)

// Fields lists every per-account field.
var Fields = []string{FieldAssets, FieldOrders, FieldRecycled, FieldJournal, FieldTarget}

// Key builds the key of one account field: {prefix}{account}_{field}.
func Key(prefix, account, field string) string {
	return prefix + account + "_" + field
}

// ActiveKey is the global key holding the active account id.
func ActiveKey(prefix string) string {
	return prefix + "activeAccount"
}
