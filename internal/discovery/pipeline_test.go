package discovery

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kaelbrown/catalogplay/internal/catalogapi"
	"github.com/kaelbrown/catalogplay/internal/history"
	"github.com/kaelbrown/catalogplay/internal/registry"
	"github.com/kaelbrown/catalogplay/internal/trackindex"
)

// fakeClient serves a single page of album hints and then an empty feed
// forever, letting the pipeline run without ever terminating Stage A.
type fakeClient struct {
	hints  []catalogapi.AlbumHint
	served atomic.Bool
}

func (f *fakeClient) FetchDiscoveryPage(ctx context.Context, query catalogapi.DiscoveryQuery, page uint32) ([]catalogapi.AlbumHint, bool, error) {
	if page == 0 && f.served.CompareAndSwap(false, true) {
		return f.hints, false, nil
	}
	return nil, false, nil
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func TestPipelineFetchesAndIndexesUnheardTracks(t *testing.T) {
	reg := registry.New()
	idx := trackindex.New()
	hist := history.LoadOrDefault(filepath.Join(t.TempDir(), "history.json"))

	albumURL := "https://someband.bandcamp.com/album/great-album"
	client := &fakeClient{hints: []catalogapi.AlbumHint{{URL: albumURL}}}
	fetcher := catalogapi.NewStaticAlbumFetcher(map[string]catalogapi.AlbumPage{
		albumURL: {
			ID:     42,
			Artist: "Some Band",
			Name:   "Great Album",
			URL:    albumURL,
			Tracks: []catalogapi.AlbumPageTrack{
				{ID: 1, Num: 1, Name: "Opener", URL: albumURL + "/track/opener"},
				{ID: 2, Num: 2, Name: "Closer", URL: albumURL + "/track/closer"},
			},
		},
	})

	c := New(reg, idx, hist, client, fetcher, catalogapi.DiscoveryQuery{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("unexpected error starting pipeline: %v", err)
	}
	defer c.Stop()

	waitUntil(t, 2*time.Second, func() bool { return idx.FilteredCap() >= 2 })

	if reg.Get(42) == nil {
		t.Error("expected album 42 to be registered")
	}
	ref, ok := idx.FilteredAt(0)
	if !ok || ref.TrackID != 1 {
		t.Errorf("expected first filtered entry to be track 1, got %+v, %v", ref, ok)
	}
}

func TestPipelineSkipsAlreadyHeardAlbums(t *testing.T) {
	reg := registry.New()
	idx := trackindex.New()
	hist := history.LoadOrDefault(filepath.Join(t.TempDir(), "history.json"))
	hist.MarkAlbum(42)

	albumURL := "https://someband.bandcamp.com/album/already-heard"
	client := &fakeClient{hints: []catalogapi.AlbumHint{{URL: albumURL}}}
	fetcher := catalogapi.NewStaticAlbumFetcher(map[string]catalogapi.AlbumPage{
		albumURL: {ID: 42, Artist: "Some Band", Name: "Already Heard", URL: albumURL},
	})

	c := New(reg, idx, hist, client, fetcher, catalogapi.DiscoveryQuery{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Stop()

	time.Sleep(200 * time.Millisecond)
	if reg.Get(42) != nil {
		t.Error("expected already-heard album to never be registered")
	}
}

func TestStartTwiceReturnsErrAlreadyRunning(t *testing.T) {
	reg := registry.New()
	idx := trackindex.New()
	hist := history.LoadOrDefault(filepath.Join(t.TempDir(), "history.json"))
	client := &fakeClient{}
	c := New(reg, idx, hist, client, catalogapi.UnimplementedAlbumFetcher{}, catalogapi.DiscoveryQuery{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Stop()

	if err := c.Start(ctx); err != ErrAlreadyRunning {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestStopIsIdempotentWhenNotRunning(t *testing.T) {
	reg := registry.New()
	idx := trackindex.New()
	hist := history.LoadOrDefault(filepath.Join(t.TempDir(), "history.json"))
	c := New(reg, idx, hist, &fakeClient{}, catalogapi.UnimplementedAlbumFetcher{}, catalogapi.DiscoveryQuery{})

	c.Stop() // must not block or panic when never started
	if c.Running() {
		t.Error("expected Running() to be false")
	}
}

func TestStopBlocksUntilStagesExit(t *testing.T) {
	reg := registry.New()
	idx := trackindex.New()
	hist := history.LoadOrDefault(filepath.Join(t.TempDir(), "history.json"))
	c := New(reg, idx, hist, &fakeClient{}, catalogapi.UnimplementedAlbumFetcher{}, catalogapi.DiscoveryQuery{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.Stop()
	if c.Running() {
		t.Error("expected pipeline to report stopped after Stop returns")
	}
}
