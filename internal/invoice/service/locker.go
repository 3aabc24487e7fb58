package service

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

// locker serializes totals-affecting writes per invoice. Entries are
// reference counted and removed once the last holder unlocks.
type locker struct {
	mu   sync.Mutex
	held map[snowflake.ID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newLocker() *locker {
	return &locker{held: make(map[snowflake.ID]*lockEntry)}
}

// lock acquires the mutex for the invoice and returns its release func.
func (l *locker) lock(id snowflake.ID) func() {
	l.mu.Lock()
	entry, ok := l.held[id]
	if !ok {
		entry = &lockEntry{}
		l.held[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.held, id)
		}
		l.mu.Unlock()
	}
}
