package search

import (
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/tubeshelf/internal/event"
	"github.com/mmcdole/tubeshelf/internal/store"
)

const (
	// HistoryKey is where recent keywords live in the KV store
	HistoryKey = "keyword-history"

	DefaultHistorySize = 3
)

// History keeps the most recent search keywords, newest first.
type History struct {
	slot   *store.Slot
	size   int
	logger *slog.Logger

	mu       sync.RWMutex
	keywords []string
}

// NewHistory loads the keyword history from kv. size <= 0 uses
// DefaultHistorySize.
func NewHistory(kv store.KV, size int, logger *slog.Logger) *History {
	if logger == nil {
		logger = slog.Default()
	}
	if size <= 0 {
		size = DefaultHistorySize
	}

	h := &History{
		slot:   store.NewSlot(kv, HistoryKey),
		size:   size,
		logger: logger,
	}

	var keywords []string
	if err := h.slot.Load(&keywords); err != nil && !errors.Is(err, store.ErrSlotEmpty) {
		logger.Warn("ignoring unreadable keyword history", "error", err)
	}
	if len(keywords) > size {
		keywords = keywords[:size]
	}
	h.keywords = keywords
	return h
}

// Attach records every submitted keyword published on bus
func (h *History) Attach(bus *event.Bus) (detach func()) {
	return bus.Subscribe(event.KeywordSubmitted, func(e event.Event) {
		if err := h.Add(e.Query); err != nil {
			h.logger.Error("failed to save keyword history", "error", err)
		}
	})
}

// Add moves keyword to the front, dropping duplicates and the oldest entries
func (h *History) Add(keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	next := make([]string, 0, h.size)
	next = append(next, keyword)
	for _, k := range h.keywords {
		if k != keyword && len(next) < h.size {
			next = append(next, k)
		}
	}

	if err := h.slot.Save(next); err != nil {
		return err
	}
	h.keywords = next
	return nil
}

// Keywords returns the history, newest first
func (h *History) Keywords() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.keywords)
}

// Suggest returns the keywords that fuzzily contain input, closest first.
// Empty input returns the whole history.
func (h *History) Suggest(input string) []string {
	keywords := h.Keywords()
	input = strings.TrimSpace(input)
	if input == "" {
		return keywords
	}

	ranks := fuzzy.RankFindFold(input, keywords)
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return a.OriginalIndex - b.OriginalIndex
	})

	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = r.Target
	}
	return out
}

// Clear forgets every keyword
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.slot.Clear(); err != nil {
		return err
	}
	h.keywords = nil
	return nil
}
