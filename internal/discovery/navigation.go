package discovery

import (
	"context"
	"errors"
	"time"

	"github.com/kaelbrown/catalogplay/internal/model"
)

// ErrNoEntry is returned when a navigation position cannot be resolved —
// the filtered index will never produce that position (it is behind the
// current cursor and the pipeline has stopped) or the underlying
// registry/track data is missing.
var ErrNoEntry = errors.New("discovery: no entry at requested position")

const resolvePollInterval = 10 * time.Millisecond

// Entry is one navigable track, fully resolved against its owning album.
type Entry struct {
	Name         string
	Artist       string
	AlbumName    string
	AlbumArtURL  *string
	URL          string
	AlbumID      model.AlbumID
	TrackID      model.TrackID
}

// resolve waits until the filtered index has grown to cover pos (the
// pipeline fills it asynchronously), then dereferences it into an Entry.
// It gives up if ctx is cancelled or the pipeline has stopped and will
// clearly never reach pos.
func (c *Context) resolve(ctx context.Context, pos uint64) (Entry, error) {
	for c.Index.FilteredCap() <= pos {
		if !c.running.Load() {
			return Entry{}, ErrNoEntry
		}
		select {
		case <-ctx.Done():
			return Entry{}, ctx.Err()
		case <-time.After(resolvePollInterval):
		}
	}

	ref, ok := c.Index.FilteredAt(pos)
	if !ok {
		return Entry{}, ErrNoEntry
	}
	album := c.Registry.Get(ref.AlbumID)
	if album == nil {
		return Entry{}, ErrNoEntry
	}
	track, ok := album.Track(ref.TrackID)
	if !ok {
		return Entry{}, ErrNoEntry
	}

	return Entry{
		Name:        track.Name,
		Artist:      album.Artist,
		AlbumName:   album.Name,
		AlbumArtURL: album.AlbumArtURL,
		URL:         track.URL,
		AlbumID:     album.ID,
		TrackID:     track.ID,
	}, nil
}

// Current resolves the entry at the present cursor position without
// advancing it.
func (c *Context) Current(ctx context.Context) (Entry, error) {
	return c.resolve(ctx, uint64(c.cursor.Load()))
}

// Next advances the cursor by one position and resolves the entry there.
func (c *Context) Next(ctx context.Context) (Entry, error) {
	pos := c.cursor.Add(1)
	c.History.SetCursor(uint64(pos))
	return c.resolve(ctx, uint64(pos))
}

// Previous moves the cursor back by one position (never below zero) and
// resolves the entry there. At position zero it resolves position zero
// without moving the cursor, matching the original navigation's floor
// behavior.
func (c *Context) Previous(ctx context.Context) (Entry, error) {
	for {
		cur := c.cursor.Load()
		if cur == 0 {
			return c.resolve(ctx, 0)
		}
		if c.cursor.CompareAndSwap(cur, cur-1) {
			c.History.SetCursor(uint64(cur - 1))
			return c.resolve(ctx, uint64(cur-1))
		}
	}
}

// MarkCurrent records the track at the current cursor position as heard,
// and — if that completes every track of its album — marks the album as
// fully heard too.
func (c *Context) MarkCurrent(ctx context.Context) error {
	pos := uint64(c.cursor.Load())
	ref, ok := c.Index.FilteredAt(pos)
	if !ok {
		return ErrNoEntry
	}
	album := c.Registry.Get(ref.AlbumID)
	if album == nil {
		return ErrNoEntry
	}
	track, ok := album.Track(ref.TrackID)
	if !ok {
		return ErrNoEntry
	}

	c.History.MarkTrack(track.ID)
	if c.Registry.RecordListen(album.ID, track.ID) {
		c.History.MarkAlbum(album.ID)
	}
	return nil
}
