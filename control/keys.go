package control

import (
	"maps"
	"slices"
	"sync"
	"time"
)

type (
	// Key names a key on the keyboard: a single character such as "a" or
	// "1", or one of the named keys below.
	Key string

	// KeySet is a set of keys. A KeySet obtained from HeldKeys is a copy and
	// can be read without locking.
	KeySet map[Key]struct{}

	// HeldKeys tracks which keys are held down. Sources that report releases
	// call Press and Release. Terminals only repeat a held key and never report
	// the release, so with a non-zero timeout a key counts as held until
	// timeout has passed since its last Press.
	HeldKeys struct {
		mu      sync.Mutex
		keys    map[Key]time.Time
		timeout time.Duration
		now     func() time.Time
	}
)

const (
	KeyUp     Key = "up"
	KeyDown   Key = "down"
	KeyLeft   Key = "left"
	KeyRight  Key = "right"
	KeySpace  Key = "space"
	KeyEscape Key = "esc"
	KeyCtrlC  Key = "ctrl+c"
)

// NewHeldKeys returns an empty set of held keys. A zero timeout means keys
// are held until released.
func NewHeldKeys(timeout time.Duration) *HeldKeys {
	return &HeldKeys{keys: map[Key]time.Time{}, timeout: timeout, now: time.Now}
}

func (h *HeldKeys) Press(k Key) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys[k] = h.now()
}

func (h *HeldKeys) Release(k Key) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.keys, k)
}

// ReleaseAll releases every key.
func (h *HeldKeys) ReleaseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	clear(h.keys)
}

// Snapshot returns a copy of the keys currently held. Expired keys are
// dropped.
func (h *HeldKeys) Snapshot() KeySet {
	h.mu.Lock()
	defer h.mu.Unlock()
	ret := make(KeySet, len(h.keys))
	now := h.now()
	for k, t := range h.keys {
		if h.timeout > 0 && now.Sub(t) > h.timeout {
			delete(h.keys, k)
			continue
		}
		ret[k] = struct{}{}
	}
	return ret
}

// NewKeySet returns a set of the given keys.
func NewKeySet(keys ...Key) KeySet {
	ret := make(KeySet, len(keys))
	for _, k := range keys {
		ret[k] = struct{}{}
	}
	return ret
}

func (s KeySet) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// Pressed returns the keys of s that are not in prev.
func (s KeySet) Pressed(prev KeySet) KeySet {
	ret := KeySet{}
	for k := range s {
		if !prev.Has(k) {
			ret[k] = struct{}{}
		}
	}
	return ret
}

// Sorted returns the keys in alphabetical order.
func (s KeySet) Sorted() []Key {
	return slices.Sorted(maps.Keys(s))
}
