package videosource

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/tubeshelf/internal/config"
	"github.com/mmcdole/tubeshelf/internal/domain"
	"github.com/mmcdole/tubeshelf/internal/videosource/dataapi"
	"github.com/mmcdole/tubeshelf/internal/videosource/proxy"
)

// NewClient creates the VideoSource selected by cfg.Source.Type.
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.VideoSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	src := cfg.Source
	switch src.Type {
	case config.SourceTypeProxy:
		if src.URL == "" {
			return nil, fmt.Errorf("proxy URL is required")
		}
		return proxy.NewClient(src.URL, proxy.Options{
			RegionCode:        src.RegionCode,
			SafeSearch:        src.SafeSearch,
			RequestsPerSecond: src.RequestsPerSecond,
		}, logger), nil

	case config.SourceTypeYouTube:
		client, err := dataapi.NewClient(ctx, src.APIKey, dataapi.Options{
			RegionCode:        src.RegionCode,
			SafeSearch:        src.SafeSearch,
			RequestsPerSecond: src.RequestsPerSecond,
		}, logger)
		if err != nil {
			return nil, err
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unknown source type: %s", src.Type)
	}
}
