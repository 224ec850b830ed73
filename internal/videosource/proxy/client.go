package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/tubeshelf/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "tubeshelf/1.0"

	searchPath = "/youtube-search"
	videosPath = "/youtube-videos"
)

// Options tunes the fixed request parameters
type Options struct {
	RegionCode        string
	SafeSearch        string
	RequestsPerSecond float64 // 0 disables limiting
	HTTPClient        *http.Client
}

// Client implements domain.VideoSource against the search proxy functions
type Client struct {
	baseURL    string
	regionCode string
	safeSearch string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a proxy client rooted at baseURL
func NewClient(baseURL string, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		regionCode: opts.RegionCode,
		safeSearch: opts.SafeSearch,
		httpClient: httpClient,
		limiter:    newLimiter(opts.RequestsPerSecond),
		logger:     logger,
	}
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// Search returns one page of video results for query
func (c *Client) Search(ctx context.Context, query, pageToken string, pageSize int) (domain.SearchPage, error) {
	params := c.baseParams()
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(pageSize))
	params.Set("q", query)
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	body, err := c.doRequest(ctx, searchPath, params)
	if err != nil {
		return domain.SearchPage{}, err
	}

	resp, err := c.parseResponse(body)
	if err != nil {
		return domain.SearchPage{}, err
	}

	return domain.SearchPage{
		Items:         MapItems(resp.Items),
		NextPageToken: resp.NextPageToken,
	}, nil
}

// Lookup fetches the given videos in one request
func (c *Client) Lookup(ctx context.Context, ids []string) ([]domain.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	params := c.baseParams()
	params.Set("id", strings.Join(ids, ","))

	body, err := c.doRequest(ctx, videosPath, params)
	if err != nil {
		return nil, err
	}

	resp, err := c.parseResponse(body)
	if err != nil {
		return nil, err
	}

	return MapItems(resp.Items), nil
}

func (c *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("part", "snippet")
	if c.regionCode != "" {
		params.Set("regionCode", c.regionCode)
	}
	if c.safeSearch != "" {
		params.Set("safeSearch", c.safeSearch)
	}
	return params
}

// doRequest performs a rate-limited GET against the proxy
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("proxy request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("proxy request failed", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", domain.ErrSourceUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(body)
		c.logger.Error("proxy request error", "path", path, "status", resp.StatusCode, "message", msg)
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrSourceUnavailable, resp.StatusCode, msg)
	}

	return body, nil
}

// errorMessage extracts error.message from a failure body, falling back to
// the raw text
func errorMessage(body []byte) string {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		return er.Error.Message
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	if text == "" {
		return "no error message"
	}
	return text
}

func (c *Client) parseResponse(body []byte) (*ListResponse, error) {
	var resp ListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("%w: failed to parse response: %w", domain.ErrSourceUnavailable, err)
	}
	return &resp, nil
}
