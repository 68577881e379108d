package catalogapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRestyClientFetchDiscoveryPageParsesAlbumHints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_web" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		resp := feedResponse{
			Items: []feedItem{
				{Type: "a", URLHints: urlHints{Subdomain: "someband", Slug: "great-album"}},
				{Type: "t", URLHints: urlHints{Subdomain: "ignored", Slug: "track-only"}},
				{Type: "a", URLHints: urlHints{Subdomain: "", Slug: ""}},
			},
			MoreAvailable: true,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewRestyClient(srv.URL, 5*time.Second)
	hints, more, err := client.FetchDiscoveryPage(context.Background(), DiscoveryQuery{}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !more {
		t.Error("expected more_available to be true")
	}
	if len(hints) != 1 {
		t.Fatalf("expected exactly one usable album hint, got %d: %+v", len(hints), hints)
	}
	want := "https://someband.bandcamp.com/album/great-album"
	if hints[0].URL != want {
		t.Errorf("hint URL = %q, want %q", hints[0].URL, want)
	}
}

func TestRestyClientFetchDiscoveryPageHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewRestyClient(srv.URL, 5*time.Second)
	if _, _, err := client.FetchDiscoveryPage(context.Background(), DiscoveryQuery{}, 0); err == nil {
		t.Error("expected error on non-2xx response")
	}
}

func TestStaticAlbumFetcher(t *testing.T) {
	page := AlbumPage{ID: 1, Name: "Test Album"}
	fetcher := NewStaticAlbumFetcher(map[string]AlbumPage{"https://x.bandcamp.com/album/y": page})

	got, err := fetcher.FetchAlbum(context.Background(), "https://x.bandcamp.com/album/y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Test Album" {
		t.Errorf("got %+v", got)
	}

	if _, err := fetcher.FetchAlbum(context.Background(), "unknown"); err == nil {
		t.Error("expected error for unregistered URL")
	}
}

func TestUnimplementedAlbumFetcherAlwaysErrors(t *testing.T) {
	var f AlbumFetcher = UnimplementedAlbumFetcher{}
	if _, err := f.FetchAlbum(context.Background(), "https://x.bandcamp.com/album/y"); err == nil {
		t.Error("expected UnimplementedAlbumFetcher to always error")
	}
}
