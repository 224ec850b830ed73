package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/mmcdole/tubeshelf/internal/config"
	"github.com/mmcdole/tubeshelf/internal/domain"
	"github.com/mmcdole/tubeshelf/internal/logging"
	"github.com/mmcdole/tubeshelf/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	pages  map[string]domain.SearchPage
	videos map[string]domain.Video
}

func (f *fakeSource) Search(_ context.Context, _, pageToken string, _ int) (domain.SearchPage, error) {
	return f.pages[pageToken], nil
}

func (f *fakeSource) Lookup(_ context.Context, ids []string) ([]domain.Video, error) {
	var out []domain.Video
	for _, id := range ids {
		if v, ok := f.videos[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func newTestApp(t *testing.T, maxSaved int) *app {
	t.Helper()
	lofi := domain.Video{ID: "lofi", Title: "Lofi Hip Hop Radio", ChannelTitle: "Lofi Girl", PublishedAt: "2020년 02월 22일"}
	jazz := domain.Video{ID: "jazz", Title: "Jazz Piano Bar", ChannelTitle: "Cafe Music"}
	rainy := domain.Video{ID: "rainy", Title: "Rain Sounds", ChannelTitle: "Nature"}
	source := &fakeSource{
		pages: map[string]domain.SearchPage{
			"":   {Items: []domain.Video{lofi, jazz}, NextPageToken: "p2"},
			"p2": {Items: []domain.Video{rainy}},
		},
		videos: map[string]domain.Video{lofi.ID: lofi, jazz.ID: jazz, rainy.ID: rainy},
	}

	cfg := config.DefaultConfig()
	cfg.Store.Type = config.StoreTypeMemory
	cfg.Library.MaxSaved = maxSaved

	a := newApp(cfg, store.NewMemoryKV(), source, logging.NullLogger())
	t.Cleanup(a.detach)
	return a
}

func runCmd(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := a.runCommand(context.Background(), args[0], args[1:], &out)
	return out.String(), err
}

func TestSaveListWatchRemove(t *testing.T) {
	a := newTestApp(t, 100)

	out, err := runCmd(t, a, "save", "lofi")
	require.NoError(t, err)
	assert.Contains(t, out, "saved lofi  Lofi Hip Hop Radio")

	_, err = runCmd(t, a, "save", "jazz")
	require.NoError(t, err)

	out, err = runCmd(t, a, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Lofi Hip Hop Radio")
	assert.Contains(t, out, "2020년 02월 22일")
	assert.Contains(t, out, "2/100 saved")

	out, err = runCmd(t, a, "watch", "lofi")
	require.NoError(t, err)
	assert.Equal(t, "lofi watched\n", out)

	out, err = runCmd(t, a, "list", "--filter", "watch-later")
	require.NoError(t, err)
	assert.Contains(t, out, "Jazz Piano Bar")
	assert.NotContains(t, out, "Lofi Hip Hop Radio")

	out, err = runCmd(t, a, "remove", "jazz")
	require.NoError(t, err)
	assert.Equal(t, "removed jazz\n", out)

	out, err = runCmd(t, a, "list", "--filter", "watch-later")
	require.NoError(t, err)
	assert.Contains(t, out, "no saved video")
}

func TestListQuery(t *testing.T) {
	a := newTestApp(t, 100)
	for _, id := range []string{"lofi", "jazz", "rainy"} {
		_, err := runCmd(t, a, "save", id)
		require.NoError(t, err)
	}

	out, err := runCmd(t, a, "list", "--query", "piano")
	require.NoError(t, err)
	assert.Contains(t, out, "Jazz Piano Bar")
	assert.NotContains(t, out, "Rain Sounds")
}

func TestListRejectsUnknownFilter(t *testing.T) {
	a := newTestApp(t, 100)
	_, err := runCmd(t, a, "list", "--filter", "bogus")
	assert.Error(t, err)
}

func TestSearchPages(t *testing.T) {
	a := newTestApp(t, 100)
	_, err := runCmd(t, a, "save", "jazz")
	require.NoError(t, err)

	out, err := runCmd(t, a, "search", "music")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "\n"))

	out, err = runCmd(t, a, "search", "--pages", "5", "chill", "music")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "●"), "saved video is marked: %q", lines[1])

	out, err = runCmd(t, a, "history")
	require.NoError(t, err)
	assert.Equal(t, "chill music\nmusic\n", out)

	_, err = runCmd(t, a, "history", "--clear")
	require.NoError(t, err)
	out, err = runCmd(t, a, "history")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSearchNeedsQuery(t *testing.T) {
	a := newTestApp(t, 100)
	_, err := runCmd(t, a, "search")
	assert.ErrorContains(t, err, "usage")
}

func TestSaveAtCapacity(t *testing.T) {
	a := newTestApp(t, 1)
	_, err := runCmd(t, a, "save", "lofi")
	require.NoError(t, err)

	_, err = runCmd(t, a, "save", "jazz")
	assert.ErrorContains(t, err, "saved list is full (1/1)")
}

func TestRemoveMissing(t *testing.T) {
	a := newTestApp(t, 100)
	_, err := runCmd(t, a, "remove", "nope")
	assert.ErrorIs(t, err, domain.ErrVideoNotFound)
}

func TestWatchMissing(t *testing.T) {
	a := newTestApp(t, 100)
	_, err := runCmd(t, a, "watch", "nope")
	assert.ErrorIs(t, err, domain.ErrVideoNotFound)
}

func TestClear(t *testing.T) {
	a := newTestApp(t, 100)
	_, err := runCmd(t, a, "save", "lofi")
	require.NoError(t, err)

	out, err := runCmd(t, a, "clear")
	require.NoError(t, err)
	assert.Equal(t, "cleared saved videos\n", out)
	assert.Equal(t, 0, a.cache.Count())
}

func TestCommandUsage(t *testing.T) {
	a := newTestApp(t, 100)

	_, err := runCmd(t, a, "bogus")
	assert.ErrorContains(t, err, `unknown command "bogus"`)

	_, err = runCmd(t, a, "save")
	assert.ErrorContains(t, err, "usage: tubeshelf save <id>")

	_, err = runCmd(t, a, "play", " ")
	assert.ErrorContains(t, err, "usage: tubeshelf play <id>")
}

func TestNeedsSetup(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.False(t, needsSetup(cfg))

	cfg.Source.Type = config.SourceTypeYouTube
	assert.True(t, needsSetup(cfg))

	cfg.Source.APIKey = "key"
	assert.False(t, needsSetup(cfg))
}
