// Package cache keeps the client-side mirror of hub entities consistent
// across views. Entries are keyed per entity; invalidation marks entries
// stale (kept visible, queued for refetch) rather than dropping them, and
// optimistic mutations run inside snapshot/restore transactions.
package cache

import (
	"context"
	"fmt"
	"sync"
)

type Key string

func GroupsKey() Key           { return "groups" }
func GroupKey(id int64) Key    { return Key(fmt.Sprintf("group/%d", id)) }
func ReportKey(id int64) Key   { return Key(fmt.Sprintf("report/%d", id)) }
func EstimateKey(id int64) Key { return Key(fmt.Sprintf("estimate/%d", id)) }
func BalanceKey() Key          { return "balance" }

// GroupDependents lists every cached view whose contents depend on one
// group: its detail, the group list, and the summary views derived from the
// group's prompts.
func GroupDependents(id int64) []Key {
	return []Key{GroupKey(id), GroupsKey(), ReportKey(id), EstimateKey(id)}
}

type entry struct {
	value any
	stale bool
}

type snapshotEntry struct {
	value   any
	present bool
}

type Cache struct {
	mu       sync.Mutex
	entries  map[Key]entry
	inflight map[Key]context.CancelFunc
}

func New() *Cache {
	return &Cache{
		entries:  map[Key]entry{},
		inflight: map[Key]context.CancelFunc{},
	}
}

// Get returns the cached value if present, stale or not. Use IsStale to
// decide whether a refetch is due.
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) IsStale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return !ok || e.stale
}

func (c *Cache) Put(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value}
}

// Invalidate marks entries stale without discarding their values, so views
// keep rendering while the refetch is queued.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		if e, ok := c.entries[key]; ok {
			e.stale = true
			c.entries[key] = e
		}
	}
}

func (c *Cache) Drop(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
}

// TrackInflight registers the cancel function of a refetch in progress for
// key, replacing (and cancelling) any previous one.
func (c *Cache) TrackInflight(key Key, cancel context.CancelFunc) {
	c.mu.Lock()
	previous := c.inflight[key]
	c.inflight[key] = cancel
	c.mu.Unlock()
	if previous != nil {
		previous()
	}
}

// CancelInflight cancels and forgets any refetches in progress for the keys.
func (c *Cache) CancelInflight(keys ...Key) {
	var cancels []context.CancelFunc
	c.mu.Lock()
	for _, key := range keys {
		if cancel, ok := c.inflight[key]; ok {
			cancels = append(cancels, cancel)
			delete(c.inflight, key)
		}
	}
	c.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

func (c *Cache) ForgetInflight(key Key) {
	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
}

// Txn is the snapshot/apply/commit-or-restore primitive behind optimistic
// mutations. Begin cancels in-flight refetches for the affected keys and
// snapshots their current entries; Restore puts those entries back verbatim.
type Txn struct {
	cache    *Cache
	snapshot map[Key]snapshotEntry
}

func (c *Cache) Begin(keys ...Key) *Txn {
	c.CancelInflight(keys...)
	txn := &Txn{cache: c, snapshot: map[Key]snapshotEntry{}}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		e, ok := c.entries[key]
		txn.snapshot[key] = snapshotEntry{value: e.value, present: ok}
	}
	return txn
}

// Put applies an optimistic value for a key captured by the transaction.
func (t *Txn) Put(key Key, value any) {
	if _, captured := t.snapshot[key]; !captured {
		panic("cache: txn put outside captured keys: " + string(key))
	}
	t.cache.Put(key, value)
}

// Restore rolls every captured key back to its snapshotted entry.
func (t *Txn) Restore() {
	t.cache.mu.Lock()
	defer t.cache.mu.Unlock()
	for key, snap := range t.snapshot {
		if snap.present {
			t.cache.entries[key] = entry{value: snap.value}
		} else {
			delete(t.cache.entries, key)
		}
	}
}

// Snapshot exposes the captured pre-mutation value for a key, mainly for
// building the optimistic transform off a stable copy.
func (t *Txn) Snapshot(key Key) (any, bool) {
	snap, ok := t.snapshot[key]
	if !ok || !snap.present {
		return nil, false
	}
	return snap.value, true
}
