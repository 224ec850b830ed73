package library

import (
	"context"
	"errors"
	"testing"

	"github.com/mmcdole/tubeshelf/internal/domain"
	"github.com/mmcdole/tubeshelf/internal/logging"
	"github.com/mmcdole/tubeshelf/internal/store"
	"github.com/mmcdole/tubeshelf/internal/videocache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) Lookup(ctx context.Context, ids []string) ([]domain.Video, error) {
	args := m.Called(ctx, ids)
	videos, _ := args.Get(0).([]domain.Video)
	return videos, args.Error(1)
}

var catalog = map[string]domain.Video{
	"a": {ID: "a", Title: "Lofi Hip Hop Radio", ChannelTitle: "Lofi Girl"},
	"b": {ID: "b", Title: "Jazz Piano Bar", ChannelTitle: "Cafe Music"},
	"c": {ID: "c", Title: "Rain Sounds", ChannelTitle: "Nature"},
}

func pick(ids ...string) []domain.Video {
	out := make([]domain.Video, len(ids))
	for i, id := range ids {
		out[i] = catalog[id]
	}
	return out
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Video.ID
	}
	return out
}

func newService(t *testing.T, lookup Lookuper) (*Service, *videocache.Cache) {
	t.Helper()
	cache := videocache.New(store.NewMemoryKV(), 0, nil, logging.NullLogger())
	return NewService(cache, lookup, logging.NullLogger()), cache
}

func TestRestore(t *testing.T) {
	lookup := new(mockLookup)
	svc, cache := newService(t, lookup)
	for _, id := range []string{"c", "a", "b", "gone"} {
		require.NoError(t, cache.Save(id))
	}
	_, err := cache.ToggleWatched("b")
	require.NoError(t, err)

	// remote order differs from input order
	lookup.On("Lookup", mock.Anything, []string{"a", "b", "c", "gone"}).Return(pick("b", "c", "a"), nil).Once()

	videos, err := svc.Restore(context.Background())
	require.NoError(t, err)
	assert.Len(t, videos, 4)

	entries := svc.List(domain.FilterAll, "")
	assert.Equal(t, []string{"b", "c", "a", "gone"}, ids(entries))
	assert.True(t, entries[0].Video.Watched)
	assert.Equal(t, "gone", entries[3].Video.Title)
	lookup.AssertExpectations(t)
}

func TestRestoreEmptyMakesNoRequest(t *testing.T) {
	lookup := new(mockLookup)
	svc, _ := newService(t, lookup)

	videos, err := svc.Restore(context.Background())
	require.NoError(t, err)
	assert.Empty(t, videos)
	lookup.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestRestoreFailureKeepsPlaceholders(t *testing.T) {
	lookup := new(mockLookup)
	svc, cache := newService(t, lookup)
	require.NoError(t, cache.Save("a"))
	lookup.On("Lookup", mock.Anything, []string{"a"}).Return(nil, domain.ErrSourceUnavailable)

	_, err := svc.Restore(context.Background())
	require.ErrorIs(t, err, domain.ErrSourceUnavailable)

	assert.Equal(t, []string{"a"}, ids(svc.List(domain.FilterAll, "")))
}

func TestSave(t *testing.T) {
	lookup := new(mockLookup)
	lookup.On("Lookup", mock.Anything, []string{"a"}).Return(pick("a"), nil)
	svc, cache := newService(t, lookup)

	video, err := svc.Save(context.Background(), " a ")
	require.NoError(t, err)
	assert.Equal(t, "Lofi Hip Hop Radio", video.Title)

	saved, watched := cache.Status("a")
	assert.True(t, saved)
	assert.False(t, watched)

	// Saving again replaces rather than duplicates the row
	_, err = svc.ToggleWatched("a")
	require.NoError(t, err)
	_, err = svc.Save(context.Background(), "a")
	require.NoError(t, err)
	entries := svc.List(domain.FilterAll, "")
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Video.Watched)
}

func TestSaveLookupFailureKeepsBookmark(t *testing.T) {
	lookup := new(mockLookup)
	lookup.On("Lookup", mock.Anything, []string{"a"}).Return(nil, errors.New("offline"))
	svc, cache := newService(t, lookup)

	video, err := svc.Save(context.Background(), "a")
	require.Error(t, err)
	assert.Equal(t, "a", video.ID)

	saved, _ := cache.Status("a")
	assert.True(t, saved)
	assert.Equal(t, []string{"a"}, ids(svc.List(domain.FilterAll, "")))
}

func TestSaveAtCapacity(t *testing.T) {
	lookup := new(mockLookup)
	cache := videocache.New(store.NewMemoryKV(), 1, nil, logging.NullLogger())
	svc := NewService(cache, lookup, logging.NullLogger())
	require.NoError(t, cache.Save("x"))

	_, err := svc.Save(context.Background(), "a")
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	lookup.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)

	saved, max := svc.Count()
	assert.Equal(t, 1, saved)
	assert.Equal(t, 1, max)
}

func TestListFilters(t *testing.T) {
	lookup := new(mockLookup)
	svc, cache := newService(t, lookup)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, cache.Save(id))
	}
	lookup.On("Lookup", mock.Anything, mock.Anything).Return(pick("a", "b", "c"), nil)
	_, err := svc.Restore(context.Background())
	require.NoError(t, err)

	_, err = svc.ToggleWatched("b")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, ids(svc.List(domain.FilterAll, "")))
	assert.Equal(t, []string{"a", "c"}, ids(svc.List(domain.FilterWatchLater, "")))
	assert.Equal(t, []string{"b"}, ids(svc.List(domain.FilterWatched, "")))
	assert.False(t, svc.Empty(domain.FilterWatched))

	_, err = svc.ToggleWatched("b")
	require.NoError(t, err)
	assert.True(t, svc.Empty(domain.FilterWatched))
}

func TestListFuzzyQuery(t *testing.T) {
	lookup := new(mockLookup)
	svc, cache := newService(t, lookup)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, cache.Save(id))
	}
	lookup.On("Lookup", mock.Anything, mock.Anything).Return(pick("a", "b", "c"), nil)
	_, err := svc.Restore(context.Background())
	require.NoError(t, err)

	entries := svc.List(domain.FilterAll, "JAZZ")
	require.Equal(t, []string{"b"}, ids(entries))
	assert.Equal(t, []int{0, 1, 2, 3}, entries[0].MatchedIndexes)

	// channel names match too
	assert.Equal(t, []string{"c"}, ids(svc.List(domain.FilterAll, "nature")))
	assert.Empty(t, svc.List(domain.FilterAll, "metal"))

	_, err = svc.ToggleWatched("a")
	require.NoError(t, err)
	assert.Empty(t, svc.List(domain.FilterWatchLater, "lofi"))
}

func TestListMatchOffsetsFollowTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		query string
		want  []int
	}{
		// İ is two bytes but lowercases to the one-byte i
		{"shorter lowercase", "İzmir jazz", "jazz", []int{7, 8, 9, 10}},
		{"matched wide rune", "İzmir jazz", "izm", []int{0, 2, 3}},
		{"ascii", "Rainy Jazz", "jazz", []int{6, 7, 8, 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := new(mockLookup)
			svc, cache := newService(t, lookup)
			require.NoError(t, cache.Save("x"))
			lookup.On("Lookup", mock.Anything, mock.Anything).
				Return([]domain.Video{{ID: "x", Title: tt.title, ChannelTitle: "ch"}}, nil)
			_, err := svc.Restore(context.Background())
			require.NoError(t, err)

			entries := svc.List(domain.FilterAll, tt.query)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.want, entries[0].MatchedIndexes)
		})
	}
}

func TestRemoveAndClear(t *testing.T) {
	lookup := new(mockLookup)
	svc, cache := newService(t, lookup)
	for _, id := range []string{"a", "b"} {
		require.NoError(t, cache.Save(id))
	}
	lookup.On("Lookup", mock.Anything, mock.Anything).Return(pick("a", "b"), nil)
	_, err := svc.Restore(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.Remove("a"))
	require.NoError(t, svc.Remove("a"))
	assert.Equal(t, []string{"b"}, ids(svc.List(domain.FilterAll, "")))

	require.NoError(t, svc.Clear())
	assert.True(t, svc.Empty(domain.FilterAll))
	assert.Zero(t, cache.Count())
}

func TestListDropsVideosRemovedElsewhere(t *testing.T) {
	lookup := new(mockLookup)
	svc, cache := newService(t, lookup)
	require.NoError(t, cache.Save("a"))
	lookup.On("Lookup", mock.Anything, mock.Anything).Return(pick("a"), nil)
	_, err := svc.Restore(context.Background())
	require.NoError(t, err)

	require.NoError(t, cache.Remove("a"))
	assert.Empty(t, svc.List(domain.FilterAll, ""))
}

func TestToggleWatchedMissing(t *testing.T) {
	svc, _ := newService(t, new(mockLookup))
	_, err := svc.ToggleWatched("ghost")
	assert.ErrorIs(t, err, domain.ErrVideoNotFound)
}

func TestEmptyFace(t *testing.T) {
	for range 20 {
		assert.Contains(t, EmptyFaces, EmptyFace())
	}
}
