package id

import (
	"crypto/rand"
	"strconv"
	"sync"

	"github.com/oklog/ulid/v2"
)

// entropy is read under mu; a monotonic reader is not safe for concurrent
// use and keeps ids minted within one millisecond in order.
var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// Generator mints a unique identifier. Orders and journal entries take one
// so tests can swap in a deterministic sequence.
type Generator func() string

// New returns a ULID string. ULIDs sort by creation time, so order and
// journal ids double as a creation timeline.
func New() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}

// Sequence returns a Generator producing prefix-1, prefix-2, ...
func Sequence(prefix string) Generator {
	var (
		smu sync.Mutex
		n   int
	)
	return func() string {
		smu.Lock()
		defer smu.Unlock()
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}
