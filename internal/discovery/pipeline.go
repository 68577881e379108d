package discovery

import (
	"context"
	"log/slog"
	"time"

	"github.com/kaelbrown/catalogplay/internal/catalogapi"
	"github.com/kaelbrown/catalogplay/internal/model"
)

// Pacing constants mirror the original pipeline's hand-tuned backoff
// schedule: short polls while a queue is merely empty, a longer pause
// while a queue is completely full, and a couple of throttles that keep
// Stage B/C from running far ahead of navigation.
const (
	pollEmptyQueue   = 100 * time.Millisecond
	pollFullURLQueue = 1 * time.Second
	pollFullAlbumQ   = 500 * time.Millisecond
	stageBPacing     = 2500 * time.Millisecond
	stageCPacing     = 2500 * time.Millisecond
	stageCFullPoll   = 500 * time.Millisecond

	cursorDistancePace = 8  // Stage C slows down once it is this far ahead of the cursor
	cursorDistanceCap  = 32 // Stage C blocks once it is this far ahead of the cursor
)

// runStageA is the paginator: it repeatedly requests the next discovery
// feed page and pushes every hinted album URL onto urlQueue, backing off
// when the queue is full.
func (c *Context) runStageA(ctx context.Context) {
	defer c.wg.Done()
	var page uint32

	for c.running.Load() {
		hints, _, err := c.Client.FetchDiscoveryPage(ctx, c.Query, page)
		if err != nil {
			slog.Warn("discovery: stage A fetch failed", "page", page, "error", err)
			page++
			continue
		}

		for _, hint := range hints {
			c.pushURL(hint.URL)
			if !c.running.Load() {
				break
			}
		}
		page++
	}
	slog.Debug("discovery: stage A stopped")
}

func (c *Context) pushURL(url string) {
	select {
	case c.urlQueue <- url:
		return
	default:
	}
	slog.Debug("discovery: url queue full, waiting")
	for c.running.Load() {
		select {
		case c.urlQueue <- url:
			return
		case <-time.After(pollFullURLQueue):
		}
	}
}

// runStageB pops album URLs, fetches the album page, and — unless the
// album has already been fully heard — registers it and hands its ID to
// Stage C via albumQueue.
func (c *Context) runStageB(ctx context.Context) {
	defer c.wg.Done()

	for c.running.Load() {
		url, ok := c.popURL()
		if !ok {
			return
		}

		page, err := c.AlbumFetcher.FetchAlbum(ctx, url)
		if err != nil {
			slog.Warn("discovery: failed to fetch album", "url", url, "error", err)
			continue
		}

		album := albumFromPage(page)
		if c.History.ContainsAlbum(album.ID) {
			slog.Debug("discovery: filtered album", "name", album.Name)
		} else {
			c.Registry.Insert(album)
			c.pushAlbum(album.ID)
		}

		if c.running.Load() && len(c.albumQueue) > 1 {
			time.Sleep(stageBPacing)
		}
		c.waitForAlbumQueueSpace()
	}
	slog.Debug("discovery: stage B stopped")
}

func (c *Context) popURL() (string, bool) {
	for c.running.Load() {
		select {
		case url := <-c.urlQueue:
			return url, true
		case <-time.After(pollEmptyQueue):
		}
	}
	return "", false
}

func (c *Context) pushAlbum(id model.AlbumID) {
	select {
	case c.albumQueue <- id:
		return
	default:
	}
	for c.running.Load() {
		select {
		case c.albumQueue <- id:
			return
		case <-time.After(pollFullAlbumQ):
		}
	}
}

func (c *Context) waitForAlbumQueueSpace() {
	if len(c.albumQueue) < albumQueueCapacity {
		return
	}
	slog.Debug("discovery: album queue full, waiting")
	for len(c.albumQueue) >= albumQueueCapacity && c.running.Load() {
		time.Sleep(pollFullAlbumQ)
	}
}

// runStageC pops fetched albums, expands each into its valid tracks,
// pushes every not-already-heard track into the filtered index, and
// throttles itself to stay within cursorDistanceCap of the navigation
// cursor.
func (c *Context) runStageC() {
	defer c.wg.Done()

	for c.running.Load() {
		albumID, ok := c.popAlbum()
		if !ok {
			return
		}

		album := c.Registry.Get(albumID)
		if album == nil {
			slog.Warn("discovery: stage C got unknown album id", "album_id", albumID)
			continue
		}

		trackCount := 0
		filteredCount := 0

		for _, track := range album.Tracks() {
			if !track.Valid() {
				continue
			}
			trackCount++

			heard := c.History.ContainsTrack(track.ID)
			if heard {
				filteredCount++
			}

			masterIdx := c.Index.PushMaster(model.TrackRef{AlbumID: track.AlbumID, TrackID: track.ID})
			if !heard {
				c.Index.PushFiltered(masterIdx)
			}

			if !c.running.Load() {
				break
			}
		}

		if trackCount > 0 && trackCount == filteredCount {
			c.History.MarkAlbum(album.ID)
			slog.Info("discovery: filtered all tracks from album", "album", album.Name, "artist", album.Artist)
		} else if filteredCount > 0 {
			slog.Info("discovery: filtered some tracks from album", "count", filteredCount, "album", album.Name, "artist", album.Artist)
		}

		c.paceAgainstCursor()
	}
	slog.Debug("discovery: stage C stopped")
}

func (c *Context) popAlbum() (model.AlbumID, bool) {
	for c.running.Load() {
		select {
		case id := <-c.albumQueue:
			return id, true
		case <-time.After(pollEmptyQueue):
		}
	}
	return 0, false
}

// paceAgainstCursor keeps Stage C from running unboundedly far ahead of
// the navigation cursor: a moderate lead triggers a pacing sleep, a large
// lead blocks until the cursor catches up (or the pipeline stops).
func (c *Context) paceAgainstCursor() {
	filteredCap := c.Index.FilteredCap()
	cur := uint64(c.cursor.Load())

	if c.running.Load() && filteredCap > cur && filteredCap-cur > cursorDistancePace {
		time.Sleep(stageCPacing)
	}

	if filteredCap > cur && filteredCap-cur > cursorDistanceCap {
		slog.Debug("discovery: filtered index at capacity lead, waiting")
		for {
			cur = uint64(c.cursor.Load())
			filteredCap = c.Index.FilteredCap()
			if cur >= filteredCap || filteredCap-cur <= cursorDistanceCap || !c.running.Load() {
				return
			}
			time.Sleep(stageCFullPoll)
		}
	}
}

func albumFromPage(page catalogapi.AlbumPage) *model.Album {
	album := model.NewAlbum(model.AlbumID(page.ID), page.Artist, page.Name, page.URL, page.ReleaseDate)
	album.FeaturedTrackNum = page.FeaturedTrackNum
	album.Tags = page.Tags
	album.AlbumArtURL = page.AlbumArtURL
	album.ArtistArtURL = page.ArtistArtURL
	for _, t := range page.Tracks {
		track := model.Track{
			ID:   model.TrackID(t.ID),
			Num:  t.Num,
			Name: t.Name,
			URL:  t.URL,
		}
		if !track.Valid() {
			continue
		}
		album.AddTrack(track)
	}
	return album
}
