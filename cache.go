package fptable

import "sync/atomic"

// Handle is a lightweight, process-local identifier for an open B-tree
// (the Go stand-in for an engine DBI handle; see SPEC_FULL.md §1). Zero
// means "no handle".
type Handle uint32

// NoHint marks a cache hint that has never been set.
const NoHint = ^uint32(0)

type cacheSlot struct {
	shove  atomic.Uint64
	handle atomic.Uint32
}

// handleCache is a fixed-size open-addressed map from Shove to Handle,
// per SPEC_FULL.md §3.5/§4.4. peek is safe to call without external
// locking; lookup/insert/remove must be called under the owning DB's
// dbiMu (see DB.dbiOpen).
type handleCache struct {
	slots []cacheSlot
}

func newHandleCache(size int) *handleCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &handleCache{slots: make([]cacheSlot, size)}
}

func (c *handleCache) size() int { return len(c.slots) }

// peek returns the cached handle for shove if hint still points at it.
// It never locks: the writer publishes handle before shove (insert), so
// observing a matching nonzero shove guarantees the handle is visible.
func (c *handleCache) peek(shove Shove, hint uint32) Handle {
	if hint >= uint32(len(c.slots)) {
		return 0
	}
	slot := &c.slots[hint]
	if Shove(slot.shove.Load()) != shove {
		return 0
	}
	return Handle(slot.handle.Load())
}

// lookup probes the cache starting at hint (if valid) or shove's home
// slot, returning the handle and the slot index it was found at. Must be
// called under DB.dbiMu.
func (c *handleCache) lookup(shove Shove, hint uint32) (Handle, uint32) {
	n := uint32(len(c.slots))
	if hint < n && Shove(c.slots[hint].shove.Load()) == shove {
		return Handle(c.slots[hint].handle.Load()), hint
	}

	home := uint32(uint64(shove) % uint64(n))
	i := home
	for {
		s := Shove(c.slots[i].shove.Load())
		if s == shove {
			return Handle(c.slots[i].handle.Load()), i
		}
		if s == 0 {
			return 0, NoHint
		}
		i = (i + 1) % n
		if i == home {
			return 0, NoHint
		}
	}
}

// insert installs (shove, handle) at the first empty slot reachable by
// linear probing from shove's home slot. Must not be called for a shove
// already present. Must be called under DB.dbiMu.
func (c *handleCache) insert(shove Shove, handle Handle) uint32 {
	n := uint32(len(c.slots))
	home := uint32(uint64(shove) % uint64(n))
	i := home
	for {
		if c.slots[i].shove.Load() == 0 {
			// Publish the handle before the shove so lock-free peek
			// never observes a nonzero shove with a stale handle.
			c.slots[i].handle.Store(uint32(handle))
			c.slots[i].shove.Store(uint64(shove))
			return i
		}
		i = (i + 1) % n
		if i == home {
			panic("fptable: handle cache full")
		}
	}
}

// remove clears the slot holding shove, if any. Must be called under
// DB.dbiMu.
func (c *handleCache) remove(shove Shove) {
	n := uint32(len(c.slots))
	home := uint32(uint64(shove) % uint64(n))
	i := home
	for {
		if Shove(c.slots[i].shove.Load()) == shove {
			c.slots[i].shove.Store(0)
			c.slots[i].handle.Store(0)
			return
		}
		if c.slots[i].shove.Load() == 0 {
			return
		}
		i = (i + 1) % n
		if i == home {
			return
		}
	}
}
