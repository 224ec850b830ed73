package domain

import "context"

// SearchPage is one page of search results as returned by a VideoSource
type SearchPage struct {
	Items         []Video
	NextPageToken string // empty when there are no more pages
}

// VideoSource is a remote video catalog. Implementations return videos with
// Watched unset; callers annotate them from the saved list.
type VideoSource interface {
	// Search returns one page of results for query, resuming at pageToken
	// when it is not empty
	Search(ctx context.Context, query, pageToken string, pageSize int) (SearchPage, error)

	// Lookup fetches the given ids in a single request, in the order the
	// remote returns them
	Lookup(ctx context.Context, ids []string) ([]Video, error)
}
