// Package dataapi talks to the YouTube Data API directly with an API key.
package dataapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/mmcdole/tubeshelf/internal/domain"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Options tunes the fixed request parameters
type Options struct {
	RegionCode        string
	SafeSearch        string
	RequestsPerSecond float64 // 0 disables limiting

	// Endpoint and HTTPClient override the Google defaults, for tests
	Endpoint   string
	HTTPClient *http.Client
}

// maxLookupIDs is the most ids videos.list accepts per request
const maxLookupIDs = 50

// Client implements domain.VideoSource with google.golang.org/api/youtube/v3
type Client struct {
	service    *youtube.Service
	regionCode string
	safeSearch string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a Data API client authenticated by apiKey
func NewClient(ctx context.Context, apiKey string, opts Options, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if apiKey == "" {
		return nil, fmt.Errorf("youtube api key is required")
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		service:    service,
		regionCode: opts.RegionCode,
		safeSearch: opts.SafeSearch,
		limiter:    limiter,
		logger:     logger,
	}, nil
}

// Search returns one page of video results for query
func (c *Client) Search(ctx context.Context, query, pageToken string, pageSize int) (domain.SearchPage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.SearchPage{}, err
	}

	call := c.service.Search.List([]string{"snippet"}).
		Context(ctx).
		Q(query).
		Type("video").
		MaxResults(int64(pageSize))
	if c.regionCode != "" {
		call = call.RegionCode(c.regionCode)
	}
	if c.safeSearch != "" {
		call = call.SafeSearch(c.safeSearch)
	}
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	c.logger.Debug("youtube search", "query", query, "pageToken", pageToken)

	resp, err := call.Do()
	if err != nil {
		return domain.SearchPage{}, c.wrapError("search", err)
	}

	videos := make([]domain.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		videos = append(videos, MapSearchResult(item, false))
	}

	return domain.SearchPage{Items: videos, NextPageToken: resp.NextPageToken}, nil
}

// Lookup fetches the given videos in one request
func (c *Client) Lookup(ctx context.Context, ids []string) ([]domain.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	c.logger.Debug("youtube videos lookup", "count", len(ids))

	videos := make([]domain.Video, 0, len(ids))
	for batch := range slices.Chunk(ids, maxLookupIDs) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.service.Videos.List([]string{"snippet"}).
			Context(ctx).
			Id(strings.Join(batch, ",")).
			Do()
		if err != nil {
			return nil, c.wrapError("videos", err)
		}

		for _, item := range resp.Items {
			videos = append(videos, MapVideo(item, false))
		}
	}
	return videos, nil
}

func (c *Client) wrapError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		c.logger.Error("youtube request error", "op", op, "status", gerr.Code, "message", gerr.Message)
		return fmt.Errorf("%w: status %d: %s", domain.ErrSourceUnavailable, gerr.Code, gerr.Message)
	}
	c.logger.Error("youtube request failed", "op", op, "error", err)
	return fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
}
