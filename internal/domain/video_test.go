package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPublishedAt(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"full timestamp", "2021-03-05T12:00:00Z", "2021년 03월 05일"},
		{"date only", "2020-12-31", "2020년 12월 31일"},
		{"padded date", " 2019-01-02 T00:00:00Z", "2019년 01월 02일"},
		{"missing day", "2021-03", "2021년 03월 일"},
		{"empty", "", "년 월 일"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPublishedAt(tt.in))
		})
	}
}

func TestWatchFilter(t *testing.T) {
	assert.True(t, FilterAll.Matches(true))
	assert.True(t, FilterAll.Matches(false))
	assert.True(t, FilterWatchLater.Matches(false))
	assert.False(t, FilterWatchLater.Matches(true))
	assert.True(t, FilterWatched.Matches(true))
	assert.False(t, FilterWatched.Matches(false))

	for _, f := range []WatchFilter{FilterAll, FilterWatchLater, FilterWatched} {
		parsed, err := ParseWatchFilter(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}

	_, err := ParseWatchFilter("someday")
	assert.Error(t, err)
}

func TestSavedSetClone(t *testing.T) {
	set := SavedSet{"b": {Watched: true}, "a": {}}
	clone := set.Clone()
	clone["c"] = SavedRecord{}
	delete(clone, "a")

	assert.Len(t, set, 2)
	assert.True(t, set.Has("a"))
	assert.Equal(t, []string{"a", "b"}, set.IDs())
}

func TestCacheErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("saving: %w", &CacheError{Op: "save", ID: "abc", Err: ErrCapacityExceeded})

	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	var cerr *CacheError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "save", cerr.Op)
	assert.Equal(t, "save abc: saved video limit reached", cerr.Error())
	assert.Equal(t, "clear: saved video limit reached", (&CacheError{Op: "clear", Err: ErrCapacityExceeded}).Error())
}

func TestVideoWatchURL(t *testing.T) {
	v := Video{ID: "dQw4w9WgXcQ"}
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", v.WatchURL())
	assert.Equal(t, WatchStatusUnwatched, v.WatchStatus())
	v.Watched = true
	assert.Equal(t, WatchStatusWatched, v.WatchStatus())
}
