package videocache

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/mmcdole/tubeshelf/internal/domain"
	"github.com/mmcdole/tubeshelf/internal/event"
	"github.com/mmcdole/tubeshelf/internal/logging"
	"github.com/mmcdole/tubeshelf/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// countingKV records how often the saved list is read and written
type countingKV struct {
	*store.MemoryKV
	mu   sync.Mutex
	gets int
	puts int
}

func newCountingKV() *countingKV {
	return &countingKV{MemoryKV: store.NewMemoryKV()}
}

func (k *countingKV) Get(key string) ([]byte, bool, error) {
	k.mu.Lock()
	k.gets++
	k.mu.Unlock()
	return k.MemoryKV.Get(key)
}

func (k *countingKV) Put(key string, value []byte) error {
	k.mu.Lock()
	k.puts++
	k.mu.Unlock()
	return k.MemoryKV.Put(key, value)
}

func (k *countingKV) reset() {
	k.mu.Lock()
	k.gets, k.puts = 0, 0
	k.mu.Unlock()
}

// mockKV lets tests fail individual store calls
type mockKV struct {
	mock.Mock
}

func (m *mockKV) Get(key string) ([]byte, bool, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Bool(1), args.Error(2)
}

func (m *mockKV) Put(key string, value []byte) error {
	return m.Called(key, value).Error(0)
}

func (m *mockKV) Delete(key string) error {
	return m.Called(key).Error(0)
}

func (m *mockKV) Close() error { return nil }

func newCache(t *testing.T, kv store.KV) *Cache {
	t.Helper()
	return New(kv, 0, nil, logging.NullLogger())
}

func persisted(t *testing.T, kv store.KV) domain.SavedSet {
	t.Helper()
	var set domain.SavedSet
	require.NoError(t, store.NewSlot(kv, StorageKey).Load(&set))
	return set
}

func TestLifecycleScenario(t *testing.T) {
	kv := store.NewMemoryKV()
	c := newCache(t, kv)
	assert.Empty(t, c.Load())

	require.NoError(t, c.Save("abc"))
	assert.Equal(t, domain.SavedSet{"abc": {Watched: false}}, c.Snapshot())
	assert.Equal(t, c.Snapshot(), persisted(t, kv))

	watched, err := c.ToggleWatched("abc")
	require.NoError(t, err)
	assert.True(t, watched)
	assert.Equal(t, domain.SavedSet{"abc": {Watched: true}}, persisted(t, kv))

	require.NoError(t, c.Remove("abc"))
	assert.Empty(t, c.Snapshot())
	assert.Empty(t, persisted(t, kv))
}

func TestSaveGrowsByOneAndMirrorsStore(t *testing.T) {
	kv := store.NewMemoryKV()
	c := newCache(t, kv)

	for i := range 20 {
		require.NoError(t, c.Save(fmt.Sprintf("vid-%02d", i)))
		assert.Equal(t, i+1, c.Count())
		assert.Equal(t, persisted(t, kv), c.Snapshot())
	}
}

func TestSaveExistingResetsWatched(t *testing.T) {
	c := newCache(t, store.NewMemoryKV())
	require.NoError(t, c.Save("abc"))
	_, err := c.ToggleWatched("abc")
	require.NoError(t, err)

	require.NoError(t, c.Save("abc"))

	saved, watched := c.Status("abc")
	assert.True(t, saved)
	assert.False(t, watched)
	assert.Equal(t, 1, c.Count())
}

func TestSaveRejectsBlankID(t *testing.T) {
	kv := newCountingKV()
	c := newCache(t, kv)
	kv.reset()

	for _, id := range []string{"", "   "} {
		err := c.Save(id)
		assert.ErrorIs(t, err, domain.ErrInvalidVideoID)
	}
	assert.Zero(t, kv.puts)
}

func TestSaveAtCapacity(t *testing.T) {
	kv := store.NewMemoryKV()
	full := make(domain.SavedSet, MaxSavableVideos)
	for i := range MaxSavableVideos {
		full[fmt.Sprintf("vid-%03d", i)] = domain.SavedRecord{}
	}
	require.NoError(t, store.NewSlot(kv, StorageKey).Save(full))

	c := newCache(t, kv)
	require.True(t, c.Full())

	err := c.Save("new")
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)
	var cerr *domain.CacheError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "save", cerr.Op)
	assert.Equal(t, "new", cerr.ID)

	assert.Equal(t, MaxSavableVideos, c.Count())
	assert.Len(t, persisted(t, kv), MaxSavableVideos)
	saved, _ := c.Status("new")
	assert.False(t, saved)

	// Re-saving an existing id is also rejected at capacity
	assert.ErrorIs(t, c.Save("vid-000"), domain.ErrCapacityExceeded)
}

func TestConfiguredMax(t *testing.T) {
	c := New(store.NewMemoryKV(), 2, nil, logging.NullLogger())
	assert.Equal(t, 2, c.Max())

	require.NoError(t, c.Save("a"))
	require.NoError(t, c.Save("b"))
	assert.ErrorIs(t, c.Save("c"), domain.ErrCapacityExceeded)

	assert.Equal(t, MaxSavableVideos, New(store.NewMemoryKV(), 500, nil, nil).Max())
}

func TestToggleWatchedIsItsOwnInverse(t *testing.T) {
	c := newCache(t, store.NewMemoryKV())
	require.NoError(t, c.Save("abc"))

	first, err := c.ToggleWatched("abc")
	require.NoError(t, err)
	second, err := c.ToggleWatched("abc")
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	_, watched := c.Status("abc")
	assert.False(t, watched)
}

func TestToggleWatchedMissing(t *testing.T) {
	c := newCache(t, store.NewMemoryKV())

	_, err := c.ToggleWatched("ghost")
	assert.ErrorIs(t, err, domain.ErrVideoNotFound)
	assert.Empty(t, c.Snapshot())
}

func TestRemoveIsIdempotent(t *testing.T) {
	bus := event.NewBus()
	var removed []string
	bus.Subscribe(event.VideoRemoved, func(e event.Event) { removed = append(removed, e.VideoID) })

	c := New(store.NewMemoryKV(), 0, bus, logging.NullLogger())
	require.NoError(t, c.Save("abc"))

	require.NoError(t, c.Remove("abc"))
	require.NoError(t, c.Remove("abc"))

	assert.Empty(t, c.Snapshot())
	assert.Equal(t, []string{"abc"}, removed)
}

func TestClear(t *testing.T) {
	kv := store.NewMemoryKV()
	c := newCache(t, kv)
	require.NoError(t, c.Save("a"))
	require.NoError(t, c.Save("b"))

	require.NoError(t, c.Clear())

	assert.Zero(t, c.Count())
	raw, ok, err := kv.Get(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "{}", string(raw))
}

func TestEveryMutationReadsOnceAndWritesOnce(t *testing.T) {
	kv := newCountingKV()
	c := newCache(t, kv)

	mutations := map[string]func() error{
		"save":   func() error { return c.Save("abc") },
		"toggle": func() error { _, err := c.ToggleWatched("abc"); return err },
		"remove": func() error { return c.Remove("abc") },
		"clear":  func() error { return c.Clear() },
	}
	for _, name := range []string{"save", "toggle", "remove", "clear"} {
		kv.reset()
		require.NoError(t, mutations[name](), name)
		assert.Equal(t, 1, kv.gets, "%s reads", name)
		assert.Equal(t, 1, kv.puts, "%s writes", name)
	}

	// Read helpers never touch the store
	kv.reset()
	c.Snapshot()
	c.Status("abc")
	c.IDs()
	c.Count()
	assert.Zero(t, kv.gets)
}

func TestMutationSeesExternalWriter(t *testing.T) {
	kv := store.NewMemoryKV()
	c := newCache(t, kv)
	require.NoError(t, c.Save("mine"))

	// Another process replaces the whole list
	require.NoError(t, store.NewSlot(kv, StorageKey).Save(domain.SavedSet{"theirs": {Watched: true}}))

	require.NoError(t, c.Save("second"))

	assert.Equal(t, domain.SavedSet{
		"theirs": {Watched: true},
		"second": {Watched: false},
	}, c.Snapshot())
}

func TestRoundTripThroughFreshInstance(t *testing.T) {
	kv, err := store.NewBoltKV(t.TempDir())
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, newCache(t, kv).Save("abc"))

	fresh := newCache(t, kv)
	assert.Equal(t, domain.SavedSet{"abc": {Watched: false}}, fresh.Load())
}

func TestLoadCorruptOrNullFallsBackToEmpty(t *testing.T) {
	for _, raw := range []string{"{broken", "null", `["a","b"]`} {
		kv := store.NewMemoryKV()
		require.NoError(t, kv.Put(StorageKey, []byte(raw)))

		c := newCache(t, kv)
		assert.Empty(t, c.Load(), raw)

		// The next save overwrites the bad value
		require.NoError(t, c.Save("abc"))
		assert.Equal(t, domain.SavedSet{"abc": {}}, persisted(t, kv))
	}
}

func TestWriteFailureLeavesMirror(t *testing.T) {
	kv := new(mockKV)
	kv.On("Get", StorageKey).Return([]byte(`{"a":{"watched":false}}`), true, nil)
	kv.On("Put", StorageKey, mock.Anything).Return(errors.New("disk full"))

	c := newCache(t, kv)
	err := c.Save("b")

	require.Error(t, err)
	var cerr *domain.CacheError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "disk full", cerr.Err.Error())
	assert.Equal(t, domain.SavedSet{"a": {}}, c.Snapshot())
	kv.AssertExpectations(t)
}

func TestReadFailureDegradesToEmpty(t *testing.T) {
	kv := new(mockKV)
	kv.On("Get", StorageKey).Return(nil, false, errors.New("connection refused"))

	c := newCache(t, kv)
	assert.Empty(t, c.Snapshot())
}

// flakyKV fails the next Get once armed
type flakyKV struct {
	*store.MemoryKV
	failNext bool
}

func (k *flakyKV) Get(key string) ([]byte, bool, error) {
	if k.failNext {
		k.failNext = false
		return nil, false, errors.New("i/o timeout")
	}
	return k.MemoryKV.Get(key)
}

func TestReadFailureDuringMutationKeepsStore(t *testing.T) {
	kv := &flakyKV{MemoryKV: store.NewMemoryKV()}
	c := newCache(t, kv)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, c.Save(id))
	}
	_, err := c.ToggleWatched("b")
	require.NoError(t, err)
	want := domain.SavedSet{"a": {}, "b": {Watched: true}, "c": {}}

	tests := []struct {
		name string
		op   func() error
	}{
		{"save", func() error { return c.Save("d") }},
		{"toggle", func() error { _, err := c.ToggleWatched("a"); return err }},
		{"remove", func() error { return c.Remove("a") }},
		{"clear", c.Clear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv.failNext = true
			err := tt.op()

			require.Error(t, err)
			var cerr *domain.CacheError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.name, cerr.Op)
			assert.EqualError(t, cerr.Err, "i/o timeout")
			assert.Equal(t, want, persisted(t, kv))
			assert.Equal(t, want, c.Snapshot())
		})
	}
}

func TestMutationsPublishEvents(t *testing.T) {
	bus := event.NewBus()
	var got []event.Event
	bus.SubscribeAll(func(e event.Event) { got = append(got, e) },
		event.VideoSaved, event.WatchedToggled, event.VideoRemoved, event.LibraryCleared)

	c := New(store.NewMemoryKV(), 0, bus, logging.NullLogger())
	require.NoError(t, c.Save("abc"))
	_, err := c.ToggleWatched("abc")
	require.NoError(t, err)
	require.NoError(t, c.Remove("abc"))
	require.NoError(t, c.Clear())
	// Failed mutations stay quiet
	_, _ = c.ToggleWatched("abc")

	require.Len(t, got, 4)
	assert.Equal(t, event.Event{Topic: event.VideoSaved, VideoID: "abc", Count: 1}, got[0])
	assert.Equal(t, event.Event{Topic: event.WatchedToggled, VideoID: "abc", Watched: true, Count: 1}, got[1])
	assert.Equal(t, event.Event{Topic: event.VideoRemoved, VideoID: "abc", Count: 0}, got[2])
	assert.Equal(t, event.LibraryCleared, got[3].Topic)
}

func TestHandlersCanReadCache(t *testing.T) {
	bus := event.NewBus()
	c := New(store.NewMemoryKV(), 0, bus, logging.NullLogger())

	var seen bool
	bus.Subscribe(event.VideoSaved, func(e event.Event) {
		seen, _ = c.Status(e.VideoID)
	})

	require.NoError(t, c.Save("abc"))
	assert.True(t, seen)
}

func TestConcurrentSaves(t *testing.T) {
	c := newCache(t, store.NewMemoryKV())

	var wg sync.WaitGroup
	for i := range 150 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Save(fmt.Sprintf("vid-%03d", i))
		}()
	}
	wg.Wait()

	assert.Equal(t, MaxSavableVideos, c.Count())
}
