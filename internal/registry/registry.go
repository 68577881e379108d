// Package registry is the in-memory canonical store of fetched albums: a
// concurrent AlbumID -> Album map and a parallel per-album listen-progress
// map. An Album, once inserted, is never deleted during a run — navigation
// must always be able to resolve old refs.
package registry

import (
	"hash/fnv"
	"log/slog"
	"sync"

	"github.com/kaelbrown/catalogplay/internal/model"
)

const shardCount = 16

type shard struct {
	mu      sync.RWMutex
	albums  map[model.AlbumID]*model.Album
	listens map[model.AlbumID]map[model.TrackID]struct{}
}

// Registry is a sharded AlbumID -> Album map. Sharding keeps navigation
// reads (Get) from blocking excessively on fetch-stage inserts, since each
// shard carries its own lock.
type Registry struct {
	shards [shardCount]*shard
}

// New creates an empty Registry.
func New() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i] = &shard{
			albums:  make(map[model.AlbumID]*model.Album),
			listens: make(map[model.AlbumID]map[model.TrackID]struct{}),
		}
	}
	return r
}

func (r *Registry) shardFor(id model.AlbumID) *shard {
	h := fnv.New32a()
	h.Write([]byte{byte(id), byte(id >> 8), byte(id >> 16), byte(id >> 24)})
	return r.shards[h.Sum32()%shardCount]
}

// Insert adds album to the registry iff it is not already present. A
// collision (the album was already inserted this run) is logged and
// otherwise ignored. Returns true if the album was newly inserted.
func (r *Registry) Insert(album *model.Album) bool {
	s := r.shardFor(album.ID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.albums[album.ID]; exists {
		slog.Warn("registry: album collision on insert", "album_id", album.ID, "name", album.Name)
		return false
	}

	s.albums[album.ID] = album
	s.listens[album.ID] = make(map[model.TrackID]struct{})
	return true
}

// Get returns the album for id, or nil if not present.
func (r *Registry) Get(id model.AlbumID) *model.Album {
	s := r.shardFor(id)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.albums[id]
}

// RecordListen marks trackID as heard within albumID's transient listen set
// and reports whether the album is now fully heard (every valid track of
// the album is present in the listen set).
func (r *Registry) RecordListen(albumID model.AlbumID, trackID model.TrackID) (fullyHeard bool) {
	s := r.shardFor(albumID)
	s.mu.Lock()
	defer s.mu.Unlock()

	album, ok := s.albums[albumID]
	if !ok {
		slog.Warn("registry: record listen for unknown album", "album_id", albumID)
		return false
	}

	listens, ok := s.listens[albumID]
	if !ok {
		listens = make(map[model.TrackID]struct{})
		s.listens[albumID] = listens
	}
	listens[trackID] = struct{}{}

	return albumFullyHeardLocked(album, listens)
}

func albumFullyHeardLocked(album *model.Album, listens map[model.TrackID]struct{}) bool {
	for _, t := range album.Tracks() {
		if !t.Valid() {
			continue
		}
		if _, heard := listens[t.ID]; !heard {
			return false
		}
	}
	return true
}
