// Package discovery implements the three-stage fetch pipeline and the
// navigation API that reads from its output: a paginator (Stage A), an
// album fetcher (Stage B), and a track expander (Stage C), feeding a
// shared filtered track index that the navigation API walks with a single
// monotonic cursor.
package discovery

import (
	"sync"
	"sync/atomic"

	"github.com/kaelbrown/catalogplay/internal/catalogapi"
	"github.com/kaelbrown/catalogplay/internal/history"
	"github.com/kaelbrown/catalogplay/internal/model"
	"github.com/kaelbrown/catalogplay/internal/registry"
	"github.com/kaelbrown/catalogplay/internal/trackindex"
)

const (
	urlQueueCapacity   = 32
	albumQueueCapacity = 4
)

// Context owns every piece of shared state for one discovery run: the
// album registry, the track index, the listen-history cache, the bounded
// inter-stage queues, and the navigation cursor. A Context is built once
// per process and Start/Stop may be called repeatedly, but never
// concurrently with itself.
type Context struct {
	Registry *registry.Registry
	Index    *trackindex.Index
	History  *history.Store

	Client       catalogapi.Client
	AlbumFetcher catalogapi.AlbumFetcher
	Query        catalogapi.DiscoveryQuery

	urlQueue   chan string
	albumQueue chan model.AlbumID

	running atomic.Bool
	cursor  atomic.Int64

	wg sync.WaitGroup
}

// New builds a Context ready to Start. cursor is restored from the
// supplied history store's persisted value.
func New(reg *registry.Registry, idx *trackindex.Index, hist *history.Store, client catalogapi.Client, fetcher catalogapi.AlbumFetcher, query catalogapi.DiscoveryQuery) *Context {
	c := &Context{
		Registry:     reg,
		Index:        idx,
		History:      hist,
		Client:       client,
		AlbumFetcher: fetcher,
		Query:        query,
		urlQueue:     make(chan string, urlQueueCapacity),
		albumQueue:   make(chan model.AlbumID, albumQueueCapacity),
	}
	c.cursor.Store(int64(hist.Cursor()))
	return c
}

// QueueDepths reports the current length of the inter-stage queues, for
// status reporting.
func (c *Context) QueueDepths() (urlQueueLen, albumQueueLen int) {
	return len(c.urlQueue), len(c.albumQueue)
}

// Running reports whether the pipeline is currently active.
func (c *Context) Running() bool {
	return c.running.Load()
}

// Cursor returns the current navigation cursor position.
func (c *Context) Cursor() int64 {
	return c.cursor.Load()
}
