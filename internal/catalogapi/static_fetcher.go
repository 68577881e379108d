package catalogapi

import (
	"context"
	"fmt"
)

// StaticAlbumFetcher is an in-memory AlbumFetcher keyed by album URL, used
// by pipeline tests in place of real album-page scraping.
type StaticAlbumFetcher struct {
	pages map[string]AlbumPage
}

// NewStaticAlbumFetcher builds a StaticAlbumFetcher serving pages.
func NewStaticAlbumFetcher(pages map[string]AlbumPage) *StaticAlbumFetcher {
	return &StaticAlbumFetcher{pages: pages}
}

// FetchAlbum returns the page registered for albumURL, or an error if none
// was registered.
func (f *StaticAlbumFetcher) FetchAlbum(ctx context.Context, albumURL string) (AlbumPage, error) {
	page, ok := f.pages[albumURL]
	if !ok {
		return AlbumPage{}, fmt.Errorf("catalogapi: no static page registered for %q", albumURL)
	}
	return page, nil
}

// UnimplementedAlbumFetcher is the default AlbumFetcher: it always errors.
// Album-page scraping is out of scope for this module — a real deployment
// must inject its own AlbumFetcher (an HTML-scraping adapter) rather than
// rely on this one.
type UnimplementedAlbumFetcher struct{}

// FetchAlbum always returns an error.
func (UnimplementedAlbumFetcher) FetchAlbum(ctx context.Context, albumURL string) (AlbumPage, error) {
	return AlbumPage{}, fmt.Errorf("catalogapi: no AlbumFetcher configured; album-page scraping is not implemented by this module")
}
