package model

// Album is the canonical representation of a fetched catalog album. Tracks
// are kept in insertion order (the order the scraper/fetcher produced them
// in), which is also track position — callers must not assume ordering by
// TrackID.
type Album struct {
	ID               AlbumID
	Artist           string
	Name             string
	URL              string
	ReleaseDate      string
	FeaturedTrackNum *int32
	Tags             *string
	AlbumArtURL      *string
	ArtistArtURL     *string

	order  []TrackID
	tracks map[TrackID]Track
}

// NewAlbum constructs an empty Album ready to receive tracks via AddTrack.
func NewAlbum(id AlbumID, artist, name, url, releaseDate string) *Album {
	return &Album{
		ID:          id,
		Artist:      artist,
		Name:        name,
		URL:         url,
		ReleaseDate: releaseDate,
		tracks:      make(map[TrackID]Track),
	}
}

// AddTrack appends a track to the album, preserving insertion order. A
// track whose ID is already present replaces the earlier one in its
// existing position instead of being appended again. The track's AlbumID is forced to match the album's ID, honoring the
// "every contained Track.album_id == Album.id" invariant.
func (a *Album) AddTrack(t Track) {
	t.AlbumID = a.ID
	if a.tracks == nil {
		a.tracks = make(map[TrackID]Track)
	}
	if _, exists := a.tracks[t.ID]; !exists {
		a.order = append(a.order, t.ID)
	}
	a.tracks[t.ID] = t
}

// Track returns the track with the given ID and whether it was found.
func (a *Album) Track(id TrackID) (Track, bool) {
	t, ok := a.tracks[id]
	return t, ok
}

// Tracks returns the album's tracks in insertion (position) order.
func (a *Album) Tracks() []Track {
	out := make([]Track, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.tracks[id])
	}
	return out
}

// TrackCount returns the number of tracks in the album.
func (a *Album) TrackCount() int {
	return len(a.order)
}
