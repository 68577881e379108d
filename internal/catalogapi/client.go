package catalogapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the catalog's discovery API root, matching the public
// bandcamp.com/api/discover/3 surface this client speaks.
const DefaultBaseURL = "https://bandcamp.com/api/discover/3"

// AlbumHint is a discovered album URL, handed off from Stage A to Stage B
// of the fetch pipeline. It does not record which feed page it came from.
type AlbumHint struct {
	URL string
}

// Client fetches one page of the discovery feed and returns the album URLs
// it references. It does not fetch album pages themselves — see
// AlbumFetcher.
type Client interface {
	FetchDiscoveryPage(ctx context.Context, query DiscoveryQuery, page uint32) ([]AlbumHint, bool, error)
}

// AlbumFetcher retrieves and parses a single catalog album page. No
// concrete implementation ships in this module: the album page's HTML/JSON
// shape is not part of the discovery-feed contract this client speaks, and
// is left for the operator to supply.
type AlbumFetcher interface {
	FetchAlbum(ctx context.Context, albumURL string) (AlbumPage, error)
}

// AlbumPage is the parsed result of fetching a single album URL. Its shape
// mirrors the Track/Album fields an AlbumFetcher is expected to produce.
// ID and every track's ID are catalog-assigned identifiers the fetcher
// must recover from the page — there is no other source for them.
type AlbumPage struct {
	ID               uint32
	Artist           string
	Name             string
	URL              string
	ReleaseDate      string
	FeaturedTrackNum *int32
	Tags             *string
	AlbumArtURL      *string
	ArtistArtURL     *string
	Tracks           []AlbumPageTrack
}

// AlbumPageTrack is one track entry as reported by an AlbumFetcher.
type AlbumPageTrack struct {
	ID   uint32
	Num  int32
	Name string
	URL  string
}

// RestyClient is the concrete discovery-feed client, backed by resty. It
// implements only FetchDiscoveryPage: the get_web endpoint's query
// contract is fully specified, unlike album-page scraping.
type RestyClient struct {
	http    *resty.Client
	baseURL string
}

// NewRestyClient builds a RestyClient against baseURL with the given
// request timeout.
func NewRestyClient(baseURL string, timeout time.Duration) *RestyClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &RestyClient{
		http:    resty.New().SetTimeout(timeout),
		baseURL: baseURL,
	}
}

// FetchDiscoveryPage requests page under query and returns the album URLs
// hinted at by the response, along with whether another page is available.
func (c *RestyClient) FetchDiscoveryPage(ctx context.Context, query DiscoveryQuery, page uint32) ([]AlbumHint, bool, error) {
	var feed feedResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query.Params(page)).
		SetResult(&feed).
		Get(c.baseURL + "/get_web")
	if err != nil {
		return nil, false, fmt.Errorf("catalogapi: request get_web: %w", err)
	}
	if resp.IsError() {
		return nil, false, fmt.Errorf("catalogapi: get_web returned status %d", resp.StatusCode())
	}

	hints := make([]AlbumHint, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Type != "a" {
			continue
		}
		if item.URLHints.Subdomain == "" || item.URLHints.Slug == "" {
			continue
		}
		hints = append(hints, AlbumHint{
			URL: fmt.Sprintf("https://%s.bandcamp.com/album/%s", item.URLHints.Subdomain, item.URLHints.Slug),
		})
	}
	return hints, feed.MoreAvailable, nil
}
