// Package service implements the business logic behind the control/status
// HTTP API: a thin layer translating discovery.Context calls into
// API-shaped results, mirroring the handler/service split the teacher uses
// for its playlist and radio endpoints.
package service

import (
	"context"

	"github.com/kaelbrown/catalogplay/internal/discovery"
)

// EntryView is the JSON-facing shape of a navigation entry.
type EntryView struct {
	Name        string  `json:"name"`
	Artist      string  `json:"artist"`
	AlbumName   string  `json:"album_name"`
	AlbumArtURL *string `json:"album_art_url,omitempty"`
	URL         string  `json:"url"`
}

// StatusView reports pipeline health for the status endpoint.
type StatusView struct {
	Running        bool   `json:"running"`
	Cursor         int64  `json:"cursor"`
	FilteredCap    uint64 `json:"filtered_cap"`
	MasterLen      uint64 `json:"master_len"`
	URLQueueLen    int    `json:"url_queue_len"`
	AlbumQueueLen  int    `json:"album_queue_len"`
}

// NavigationService adapts discovery.Context for the control API.
type NavigationService struct {
	ctx *discovery.Context
}

// NewNavigationService builds a NavigationService over ctx.
func NewNavigationService(ctx *discovery.Context) *NavigationService {
	return &NavigationService{ctx: ctx}
}

func toEntryView(e discovery.Entry) EntryView {
	return EntryView{
		Name:        e.Name,
		Artist:      e.Artist,
		AlbumName:   e.AlbumName,
		AlbumArtURL: e.AlbumArtURL,
		URL:         e.URL,
	}
}

// Current resolves the entry at the present navigation position.
func (s *NavigationService) Current(ctx context.Context) (EntryView, error) {
	e, err := s.ctx.Current(ctx)
	if err != nil {
		return EntryView{}, err
	}
	return toEntryView(e), nil
}

// Next advances the navigation cursor and resolves the new entry.
func (s *NavigationService) Next(ctx context.Context) (EntryView, error) {
	e, err := s.ctx.Next(ctx)
	if err != nil {
		return EntryView{}, err
	}
	return toEntryView(e), nil
}

// Previous moves the navigation cursor back and resolves the new entry.
func (s *NavigationService) Previous(ctx context.Context) (EntryView, error) {
	e, err := s.ctx.Previous(ctx)
	if err != nil {
		return EntryView{}, err
	}
	return toEntryView(e), nil
}

// Mark records the current entry as heard.
func (s *NavigationService) Mark(ctx context.Context) error {
	return s.ctx.MarkCurrent(ctx)
}

// Status reports pipeline health.
func (s *NavigationService) Status() StatusView {
	urlLen, albumLen := s.ctx.QueueDepths()
	return StatusView{
		Running:       s.ctx.Running(),
		Cursor:        s.ctx.Cursor(),
		FilteredCap:   s.ctx.Index.FilteredCap(),
		MasterLen:     s.ctx.Index.MasterLen(),
		URLQueueLen:   urlLen,
		AlbumQueueLen: albumLen,
	}
}

// Start launches the discovery pipeline.
func (s *NavigationService) Start(ctx context.Context) error {
	return s.ctx.Start(ctx)
}

// Stop halts the discovery pipeline.
func (s *NavigationService) Stop() {
	s.ctx.Stop()
}
