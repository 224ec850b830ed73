package library

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/mmcdole/tubeshelf/internal/domain"
	"github.com/mmcdole/tubeshelf/internal/videocache"
	"github.com/sahilm/fuzzy"
)

// EmptyFaces are shown when a filtered list has nothing in it
var EmptyFaces = []string{"(·.·)", "(^_^)b", "(>_<)", "(;-;)", "(·.·)", "(·_·)", "(˚Δ˚)b", "(o_o)/", "(^-^*)"}

// Lookuper resolves video ids to details. search.Pager implements it.
type Lookuper interface {
	Lookup(ctx context.Context, ids []string) ([]domain.Video, error)
}

// Entry is one row of the saved list
type Entry struct {
	Video          domain.Video // Watched reflects the cache at List time
	MatchedIndexes []int        // positions in Video.Title hit by the text filter
}

// Service manages the saved list: details for every saved id, kept in the
// order they were restored or added.
type Service struct {
	cache  *videocache.Cache
	lookup Lookuper
	logger *slog.Logger

	mu     sync.RWMutex
	videos []domain.Video
}

// NewService creates a library service
func NewService(cache *videocache.Cache, lookup Lookuper, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cache:  cache,
		lookup: lookup,
		logger: logger,
	}
}

// Restore fetches details for every saved id in one request. Ids the remote
// no longer knows are kept as placeholders so they can still be removed.
func (s *Service) Restore(ctx context.Context) ([]domain.Video, error) {
	ids := s.cache.IDs()
	if len(ids) == 0 {
		s.mu.Lock()
		s.videos = nil
		s.mu.Unlock()
		return nil, nil
	}

	videos, err := s.lookup.Lookup(ctx, ids)
	if err != nil {
		s.logger.Error("failed to restore saved videos", "count", len(ids), "error", err)
		s.setPlaceholders(ids)
		return nil, fmt.Errorf("restore saved videos: %w", err)
	}

	found := make(map[string]bool, len(videos))
	for _, v := range videos {
		found[v.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			s.logger.Warn("saved video not found at source", "id", id)
			videos = append(videos, placeholder(id))
		}
	}

	s.mu.Lock()
	s.videos = videos
	s.mu.Unlock()

	s.logger.Info("restored saved videos", "count", len(videos))
	return slices.Clone(videos), nil
}

func (s *Service) setPlaceholders(ids []string) {
	videos := make([]domain.Video, len(ids))
	for i, id := range ids {
		videos[i] = placeholder(id)
	}
	s.mu.Lock()
	s.videos = videos
	s.mu.Unlock()
}

func placeholder(id string) domain.Video {
	return domain.Video{ID: id, Title: id}
}

// Save bookmarks id and fetches its details. The bookmark is kept even when
// the lookup fails; the returned error then wraps domain.ErrSourceUnavailable
// and the video carries only its id.
func (s *Service) Save(ctx context.Context, id string) (domain.Video, error) {
	id = strings.TrimSpace(id)
	if err := s.cache.Save(id); err != nil {
		return domain.Video{}, err
	}

	video := placeholder(id)
	videos, err := s.lookup.Lookup(ctx, []string{id})
	switch {
	case err != nil:
		s.logger.Warn("saved video but could not fetch details", "id", id, "error", err)
	case len(videos) == 0:
		s.logger.Warn("saved video not found at source", "id", id)
	default:
		video = videos[0]
	}
	video.Watched = false

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.videos[i] = video
	} else {
		s.videos = append(s.videos, video)
	}
	s.mu.Unlock()

	if err != nil {
		return video, fmt.Errorf("fetch details for %s: %w", id, err)
	}
	return video, nil
}

// ToggleWatched flips the watched flag of a saved video
func (s *Service) ToggleWatched(id string) (bool, error) {
	return s.cache.ToggleWatched(id)
}

// Remove deletes a saved video. Confirmation is the caller's job.
func (s *Service) Remove(id string) error {
	if err := s.cache.Remove(id); err != nil {
		return err
	}

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.videos = slices.Delete(s.videos, i, i+1)
	}
	s.mu.Unlock()
	return nil
}

// Clear removes every saved video
func (s *Service) Clear() error {
	if err := s.cache.Clear(); err != nil {
		return err
	}

	s.mu.Lock()
	s.videos = nil
	s.mu.Unlock()
	return nil
}

// must hold s.mu
func (s *Service) indexOf(id string) int {
	return slices.IndexFunc(s.videos, func(v domain.Video) bool { return v.ID == id })
}

// List returns saved videos passing filter. A non-empty query keeps only
// titles or channels that fuzzily match it, best match first.
func (s *Service) List(filter domain.WatchFilter, query string) []Entry {
	s.mu.RLock()
	videos := slices.Clone(s.videos)
	s.mu.RUnlock()

	pool := make([]Entry, 0, len(videos))
	for _, v := range videos {
		saved, watched := s.cache.Status(v.ID)
		if !saved || !filter.Matches(watched) {
			continue
		}
		v.Watched = watched
		pool = append(pool, Entry{Video: v})
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return pool
	}

	source := newEntrySource(pool)
	matches := fuzzy.FindFrom(strings.ToLower(query), source)
	out := make([]Entry, len(matches))
	for i, m := range matches {
		e := pool[m.Index]
		e.MatchedIndexes = source.titleMatches(m.Index, len(e.Video.Title), m.MatchedIndexes)
		out[i] = e
	}
	return out
}

// Empty reports whether List(filter, "") would return nothing
func (s *Service) Empty(filter domain.WatchFilter) bool {
	return len(s.List(filter, "")) == 0
}

// Count returns the number of saved videos and the capacity
func (s *Service) Count() (saved, max int) {
	return s.cache.Count(), s.cache.Max()
}

// Status reads the live saved state of id
func (s *Service) Status(id string) (saved, watched bool) {
	return s.cache.Status(id)
}

// EmptyFace returns a random face for the empty state
func EmptyFace() string {
	return EmptyFaces[rand.IntN(len(EmptyFaces))]
}

// entrySource matches against "title channel", lowercased. offsets maps each
// byte of a folded string back to the byte it came from in the original.
type entrySource struct {
	folded  []string
	offsets [][]int
}

func newEntrySource(entries []Entry) entrySource {
	src := entrySource{
		folded:  make([]string, len(entries)),
		offsets: make([][]int, len(entries)),
	}
	for i, e := range entries {
		src.folded[i], src.offsets[i] = fold(e.Video.Title + " " + e.Video.ChannelTitle)
	}
	return src
}

func (e entrySource) String(i int) string { return e.folded[i] }

func (e entrySource) Len() int { return len(e.folded) }

// titleMatches translates folded match offsets of entry i into offsets of its
// title, dropping those past titleLen and duplicates from multi-byte runes
func (e entrySource) titleMatches(i, titleLen int, idx []int) []int {
	out := make([]int, 0, len(idx))
	for _, j := range idx {
		if j >= len(e.offsets[i]) {
			continue
		}
		orig := e.offsets[i][j]
		if orig >= titleLen || (len(out) > 0 && out[len(out)-1] == orig) {
			continue
		}
		out = append(out, orig)
	}
	return out
}

// fold lowercases s one rune at a time; lowercase forms may differ in byte length
func fold(s string) (string, []int) {
	var b strings.Builder
	b.Grow(len(s))
	offsets := make([]int, 0, len(s))
	for i, r := range s {
		n, _ := b.WriteRune(unicode.ToLower(r))
		for range n {
			offsets = append(offsets, i)
		}
	}
	return b.String(), offsets
}
