package trackindex

import (
	"sync/atomic"

	"github.com/kaelbrown/catalogplay/internal/model"
)

// Index is the shared structure written by the fetch pipeline and read by
// the navigation API. It holds every valid TrackRef discovered this run
// (the master slab) plus a filtered view that excludes tracks and albums
// already present in listen history.
//
// filteredCap publishes the current length of the filtered view. It is
// updated with a compare-and-swap max loop rather than a plain store: Stage
// C workers append to the filtered slab concurrently, and if two workers
// race to publish a new length, a naive store(len) can retreat the
// published cap if the slower goroutine's snapshot is smaller. The CAS loop
// only ever advances the published value.
type Index struct {
	master   *Slab[model.TrackRef]
	filtered *Slab[uint64] // stores master indices

	filteredCap atomic.Uint64
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		master:   NewSlab[model.TrackRef](),
		filtered: NewSlab[uint64](),
	}
}

// PushMaster records ref in the master slab and returns its stable master
// index, regardless of filtering. Every valid track the pipeline discovers
// is pushed here exactly once.
func (ix *Index) PushMaster(ref model.TrackRef) uint64 {
	return ix.master.Push(ref)
}

// MasterLen returns the number of tracks seen so far, filtered or not.
func (ix *Index) MasterLen() uint64 {
	return ix.master.Len()
}

// PushFiltered appends masterIdx to the filtered view and advances
// filteredCap to match, then returns the new filtered position.
func (ix *Index) PushFiltered(masterIdx uint64) uint64 {
	pos := ix.filtered.Push(masterIdx)
	ix.advanceCap(pos + 1)
	return pos
}

// advanceCap publishes candidate as the new filteredCap iff it is greater
// than the currently published value.
func (ix *Index) advanceCap(candidate uint64) {
	for {
		cur := ix.filteredCap.Load()
		if candidate <= cur {
			return
		}
		if ix.filteredCap.CompareAndSwap(cur, candidate) {
			return
		}
	}
}

// FilteredCap returns the number of entries currently visible to
// navigation.
func (ix *Index) FilteredCap() uint64 {
	return ix.filteredCap.Load()
}

// FilteredAt resolves a filtered position to the TrackRef it points at,
// dereferencing through the master slab.
func (ix *Index) FilteredAt(pos uint64) (model.TrackRef, bool) {
	masterIdx, ok := ix.filtered.Get(pos)
	if !ok {
		return model.TrackRef{}, false
	}
	return ix.master.Get(masterIdx)
}
