package search

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/tubeshelf/internal/domain"
	"github.com/mmcdole/tubeshelf/internal/event"
)

// DefaultPageSize is the number of results requested per page
const DefaultPageSize = 10

// SavedStatus answers whether a video is saved and watched. The video cache
// implements it.
type SavedStatus interface {
	Status(id string) (saved, watched bool)
}

// Page is one page of annotated results.
type Page struct {
	Query     string
	Items     []domain.Video
	Exhausted bool // no further page can be fetched for Query
}

// Session is the pagination state of the current query.
type Session struct {
	Query         string
	NextPageToken string
	Started       bool // a query has been submitted
	Exhausted     bool // the last successful page carried no token
}

// Pager fetches search results page by page for one query at a time.
type Pager struct {
	source   domain.VideoSource
	saved    SavedStatus
	pageSize int
	bus      *event.Bus
	logger   *slog.Logger

	mu         sync.Mutex
	session    Session
	generation uint64
	loading    bool // a next-page request is in flight
}

// NewPager creates a pager over source. pageSize <= 0 uses DefaultPageSize.
func NewPager(source domain.VideoSource, saved SavedStatus, pageSize int, bus *event.Bus, logger *slog.Logger) *Pager {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{
		source:   source,
		saved:    saved,
		pageSize: pageSize,
		bus:      bus,
		logger:   logger,
	}
}

// StartQuery discards the current session and fetches the first page of query.
// A response that arrives after another StartQuery is dropped with
// domain.ErrStaleResponse.
func (p *Pager) StartQuery(ctx context.Context, query string) (Page, error) {
	query = strings.TrimSpace(query)

	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.session = Session{Query: query, Started: true}
	p.loading = false
	p.mu.Unlock()

	p.logger.Info("search started", "query", query)
	p.bus.Publish(event.Event{Topic: event.KeywordSubmitted, Query: query})

	return p.fetch(ctx, gen, query, "")
}

// FetchNextPage fetches the page after the last one. Without a started
// session, a continuation token, or while another next-page request is in
// flight, it returns an empty exhausted page and no error.
func (p *Pager) FetchNextPage(ctx context.Context) (Page, error) {
	p.mu.Lock()
	s := p.session
	gen := p.generation
	if !s.Started || s.Exhausted || s.NextPageToken == "" {
		p.mu.Unlock()
		return Page{Query: s.Query, Exhausted: true}, nil
	}
	if p.loading {
		p.mu.Unlock()
		p.logger.Debug("next page already loading", "query", s.Query)
		return Page{Query: s.Query}, nil
	}
	p.loading = true
	p.mu.Unlock()

	page, err := p.fetch(ctx, gen, s.Query, s.NextPageToken)

	p.mu.Lock()
	if gen == p.generation {
		p.loading = false
	}
	p.mu.Unlock()

	return page, err
}

func (p *Pager) fetch(ctx context.Context, gen uint64, query, token string) (Page, error) {
	result, err := p.source.Search(ctx, query, token, p.pageSize)

	p.mu.Lock()
	if gen != p.generation {
		current := p.session.Query
		p.mu.Unlock()
		p.logger.Debug("discarding stale search response", "query", query, "current", current)
		return Page{Query: query}, domain.ErrStaleResponse
	}
	if err != nil {
		p.mu.Unlock()
		p.logger.Error("search request failed", "query", query, "pageToken", token, "error", err)
		if !errors.Is(err, domain.ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
		}
		return Page{Query: query}, fmt.Errorf("search %q: %w", query, err)
	}
	p.session.NextPageToken = result.NextPageToken
	p.session.Exhausted = result.NextPageToken == ""
	exhausted := p.session.Exhausted
	p.mu.Unlock()

	items := p.annotate(result.Items)
	p.logger.Debug("search page loaded", "query", query, "items", len(items), "exhausted", exhausted)
	p.bus.Publish(event.Event{Topic: event.DataLoaded, Query: query, Count: len(items)})

	return Page{Query: query, Items: items, Exhausted: exhausted}, nil
}

// Pages yields pages of query until the results run out, a request fails,
// or the consumer stops. Each iteration restarts the session.
func (p *Pager) Pages(ctx context.Context, query string) iter.Seq2[Page, error] {
	return func(yield func(Page, error) bool) {
		page, err := p.StartQuery(ctx, query)
		for {
			if !yield(page, err) || err != nil || page.Exhausted {
				return
			}
			page, err = p.FetchNextPage(ctx)
		}
	}
}

// Lookup fetches the given ids in one request and annotates them from the
// saved list. Results keep the order the source returns.
func (p *Pager) Lookup(ctx context.Context, ids []string) ([]domain.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	videos, err := p.source.Lookup(ctx, ids)
	if err != nil {
		p.logger.Error("video lookup failed", "count", len(ids), "error", err)
		if !errors.Is(err, domain.ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
		}
		return nil, fmt.Errorf("lookup: %w", err)
	}
	return p.annotate(videos), nil
}

// Status reads the saved state of id at call time. Renderers use it rather
// than Video.Watched, which is only a fetch-time snapshot.
func (p *Pager) Status(id string) (saved, watched bool) {
	if p.saved == nil {
		return false, false
	}
	return p.saved.Status(id)
}

// Session returns a copy of the current pagination state
func (p *Pager) Session() Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

// HasMore reports whether FetchNextPage would issue a request
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.Started && !p.session.Exhausted && p.session.NextPageToken != ""
}

func (p *Pager) annotate(videos []domain.Video) []domain.Video {
	out := make([]domain.Video, len(videos))
	for i, v := range videos {
		_, v.Watched = p.Status(v.ID)
		out[i] = v
	}
	return out
}
