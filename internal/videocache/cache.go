// Package videocache keeps the saved-video list in sync with its store.
//
// Every mutation reads the whole persisted mapping, changes it, writes it
// back in full, and then replaces the in-memory mirror with what was written.
// The list is bounded by MaxSavableVideos, which keeps full rewrites cheap.
package videocache

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/tubeshelf/internal/domain"
	"github.com/mmcdole/tubeshelf/internal/event"
	"github.com/mmcdole/tubeshelf/internal/store"
)

const (
	// MaxSavableVideos is the hard limit on saved videos
	MaxSavableVideos = 100

	// StorageKey is where the saved mapping lives in the KV store
	StorageKey = "local-storage-video-list-key"
)

// Cache owns the saved mapping id -> {watched}.
type Cache struct {
	slot   *store.Slot
	max    int
	bus    *event.Bus
	logger *slog.Logger

	mu     sync.RWMutex // serializes mutations and guards mirror
	mirror domain.SavedSet
}

// New builds a cache over kv and loads the current mapping. max <= 0 or above
// MaxSavableVideos falls back to MaxSavableVideos.
func New(kv store.KV, max int, bus *event.Bus, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	if max <= 0 || max > MaxSavableVideos {
		max = MaxSavableVideos
	}

	c := &Cache{
		slot:   store.NewSlot(kv, StorageKey),
		max:    max,
		bus:    bus,
		logger: logger,
	}
	c.mirror = c.readOrEmpty()
	return c
}

// read loads the persisted mapping. Missing or corrupt data degrades to an
// empty mapping; a failing backend is returned as an error.
func (c *Cache) read() (domain.SavedSet, error) {
	var set domain.SavedSet
	err := c.slot.Load(&set)

	var perr *store.ParseError
	switch {
	case err == nil:
	case errors.Is(err, store.ErrSlotEmpty):
		return domain.SavedSet{}, nil
	case errors.As(err, &perr):
		c.logger.Warn("saved video list is corrupt, starting empty", "key", perr.Key, "error", perr.Err)
		return domain.SavedSet{}, nil
	default:
		return nil, err
	}

	if set == nil {
		// stored JSON null
		return domain.SavedSet{}, nil
	}
	return set, nil
}

// readOrEmpty is read for callers that only display the mapping
func (c *Cache) readOrEmpty() domain.SavedSet {
	set, err := c.read()
	if err != nil {
		c.logger.Error("failed to read saved video list", "error", err)
		return domain.SavedSet{}
	}
	return set
}

// Load re-reads the persisted mapping, refreshes the mirror and returns a copy
func (c *Cache) Load() domain.SavedSet {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mirror = c.readOrEmpty()
	return c.mirror.Clone()
}

// mutate runs one read-modify-write cycle. fn edits a fresh read of the store;
// on success the edited mapping is persisted and becomes the mirror. A failed
// read aborts the cycle without writing.
func (c *Cache) mutate(op, id string, fn func(set domain.SavedSet) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, err := c.read()
	if err != nil {
		// writing back a partial view would overwrite the real mapping
		c.logger.Error("failed to read saved video list", "op", op, "id", id, "error", err)
		return &domain.CacheError{Op: op, ID: id, Err: err}
	}
	if err := fn(set); err != nil {
		return &domain.CacheError{Op: op, ID: id, Err: err}
	}
	if err := c.slot.Save(set); err != nil {
		c.logger.Error("failed to persist saved video list", "op", op, "id", id, "error", err)
		return &domain.CacheError{Op: op, ID: id, Err: err}
	}
	c.mirror = set
	return nil
}

// Save adds id as unwatched, or resets it to unwatched if already saved
func (c *Cache) Save(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return &domain.CacheError{Op: "save", Err: domain.ErrInvalidVideoID}
	}

	var count int
	err := c.mutate("save", id, func(set domain.SavedSet) error {
		if len(set) >= c.max {
			return domain.ErrCapacityExceeded
		}
		set[id] = domain.SavedRecord{Watched: false}
		count = len(set)
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrCapacityExceeded) {
			c.logger.Info("save rejected, list is full", "id", id, "max", c.max)
		}
		return err
	}

	c.logger.Debug("video saved", "id", id, "count", count)
	c.bus.Publish(event.Event{Topic: event.VideoSaved, VideoID: id, Count: count})
	return nil
}

// ToggleWatched flips the watched flag of a saved video and returns the new value
func (c *Cache) ToggleWatched(id string) (bool, error) {
	var watched bool
	var count int
	err := c.mutate("toggle", id, func(set domain.SavedSet) error {
		rec, ok := set[id]
		if !ok {
			return domain.ErrVideoNotFound
		}
		rec.Watched = !rec.Watched
		set[id] = rec
		watched = rec.Watched
		count = len(set)
		return nil
	})
	if err != nil {
		return false, err
	}

	c.bus.Publish(event.Event{Topic: event.WatchedToggled, VideoID: id, Watched: watched, Count: count})
	return watched, nil
}

// Remove deletes id. Removing an unsaved id is not an error.
func (c *Cache) Remove(id string) error {
	var existed bool
	var count int
	err := c.mutate("remove", id, func(set domain.SavedSet) error {
		_, existed = set[id]
		delete(set, id)
		count = len(set)
		return nil
	})
	if err != nil {
		return err
	}

	if existed {
		c.bus.Publish(event.Event{Topic: event.VideoRemoved, VideoID: id, Count: count})
	}
	return nil
}

// Clear empties the saved list
func (c *Cache) Clear() error {
	err := c.mutate("clear", "", func(set domain.SavedSet) error {
		clear(set)
		return nil
	})
	if err != nil {
		return err
	}

	c.bus.Publish(event.Event{Topic: event.LibraryCleared})
	return nil
}

// Snapshot returns a copy of the mirror
func (c *Cache) Snapshot() domain.SavedSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mirror.Clone()
}

// Status reports whether id is saved and, if so, whether it is watched
func (c *Cache) Status(id string) (saved, watched bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.mirror[id]
	return ok, rec.Watched
}

func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mirror)
}

// IDs returns the saved ids in lexical order
func (c *Cache) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mirror.IDs()
}

// Max returns the capacity of the list
func (c *Cache) Max() int {
	return c.max
}

// Full reports whether another Save would be rejected
func (c *Cache) Full() bool {
	return c.Count() >= c.max
}
