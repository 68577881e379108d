// Package history implements the persistent listen-history cache: the set
// of track and album IDs the user has already heard, surviving restarts.
package history

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/kaelbrown/catalogplay/internal/model"
)

// fileV1 is the on-disk schema. Version 0 (the legacy format) only ever
// wrote last_cursor and track_ids; album_ids is zero-filled on load when
// absent, per the versioned-schema invariant.
type fileV1 struct {
	Version    int              `json:"version"`
	LastCursor uint64           `json:"last_cursor"`
	TrackIDs   []model.TrackID  `json:"track_ids"`
	AlbumIDs   []model.AlbumID  `json:"album_ids"`
}

// Store is the single mutex-guarded listen-history record. All persistence
// writes the complete serialized form; readers tolerate a missing file by
// producing an empty default.
type Store struct {
	mu   sync.Mutex
	path string

	heardTracks map[model.TrackID]struct{}
	heardAlbums map[model.AlbumID]struct{}
	cursor      uint64
}

// LoadOrDefault reads the history file at path. Any error (missing file,
// corrupt JSON, unreadable permissions) yields an empty store rather than
// failing — the caller never has to special-case first-run.
func LoadOrDefault(path string) *Store {
	s := &Store{
		path:        path,
		heardTracks: make(map[model.TrackID]struct{}),
		heardAlbums: make(map[model.AlbumID]struct{}),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("history: failed to read file, starting empty", "path", path, "error", err)
		}
		return s
	}

	var f fileV1
	if err := json.Unmarshal(raw, &f); err != nil {
		slog.Warn("history: failed to parse file, starting empty", "path", path, "error", err)
		return s
	}

	for _, id := range f.TrackIDs {
		s.heardTracks[id] = struct{}{}
	}
	// v1+ carries AlbumIDs; a v0 payload simply has an empty/absent slice,
	// which zero-fills heardAlbums naturally.
	for _, id := range f.AlbumIDs {
		s.heardAlbums[id] = struct{}{}
	}
	s.cursor = f.LastCursor

	slog.Info("history: loaded",
		"path", path,
		"heard_tracks", len(s.heardTracks),
		"heard_albums", len(s.heardAlbums),
		"schema_version", f.Version,
	)
	return s
}

// MarkTrack adds id to the heard-tracks set and persists synchronously.
// Persistence failures are logged as warnings and otherwise ignored — the
// in-memory state remains authoritative for the rest of the run.
func (s *Store) MarkTrack(id model.TrackID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heardTracks[id] = struct{}{}
	s.saveLocked()
}

// MarkAlbum adds id to the heard-albums set and persists synchronously.
func (s *Store) MarkAlbum(id model.AlbumID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heardAlbums[id] = struct{}{}
	s.saveLocked()
}

// ContainsTrack reports whether id has already been heard.
func (s *Store) ContainsTrack(id model.TrackID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.heardTracks[id]
	return ok
}

// ContainsAlbum reports whether id has already been fully heard.
func (s *Store) ContainsAlbum(id model.AlbumID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.heardAlbums[id]
	return ok
}

// SetCursor records the navigation cursor so it can be restored on the next
// load. Like Mark*, this persists synchronously.
func (s *Store) SetCursor(cursor uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = cursor
	s.saveLocked()
}

// Cursor returns the last-persisted navigation cursor.
func (s *Store) Cursor() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// saveLocked writes the complete record to disk. Caller must hold s.mu.
// The write goes to a temp file in the same directory, then is renamed into
// place, so a crash mid-write never corrupts the previous generation.
func (s *Store) saveLocked() {
	f := fileV1{
		Version:    1,
		LastCursor: s.cursor,
		TrackIDs:   make([]model.TrackID, 0, len(s.heardTracks)),
		AlbumIDs:   make([]model.AlbumID, 0, len(s.heardAlbums)),
	}
	for id := range s.heardTracks {
		f.TrackIDs = append(f.TrackIDs, id)
	}
	for id := range s.heardAlbums {
		f.AlbumIDs = append(f.AlbumIDs, id)
	}

	data, err := json.Marshal(f)
	if err != nil {
		slog.Warn("history: failed to marshal record", "error", err)
		return
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Warn("history: failed to create directory", "dir", dir, "error", err)
		return
	}

	tmp, err := os.CreateTemp(dir, "history-*.json.tmp")
	if err != nil {
		slog.Warn("history: failed to create temp file", "error", err)
		return
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		slog.Warn("history: failed to write temp file", "error", err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		slog.Warn("history: failed to close temp file", "error", err)
		return
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		slog.Warn("history: failed to rename into place", "error", err)
		return
	}
}
