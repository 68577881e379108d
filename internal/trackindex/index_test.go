package trackindex

import (
	"sync"
	"testing"

	"github.com/kaelbrown/catalogplay/internal/model"
)

func TestSlabPushGetStableIndices(t *testing.T) {
	s := NewSlab[string]()
	i0 := s.Push("a")
	i1 := s.Push("b")

	if i0 != 0 || i1 != 1 {
		t.Fatalf("expected sequential indices 0,1; got %d,%d", i0, i1)
	}
	if v, ok := s.Get(0); !ok || v != "a" {
		t.Errorf("Get(0) = %q, %v", v, ok)
	}
	if _, ok := s.Get(2); ok {
		t.Error("expected out-of-range Get to report not found")
	}
	if s.Len() != 2 {
		t.Errorf("expected len 2, got %d", s.Len())
	}
}

func TestIndexPushFilteredAdvancesCap(t *testing.T) {
	ix := New()
	m0 := ix.PushMaster(model.TrackRef{AlbumID: 1, TrackID: 1})
	m1 := ix.PushMaster(model.TrackRef{AlbumID: 1, TrackID: 2})

	ix.PushFiltered(m0)
	if ix.FilteredCap() != 1 {
		t.Fatalf("expected filteredCap 1, got %d", ix.FilteredCap())
	}
	ix.PushFiltered(m1)
	if ix.FilteredCap() != 2 {
		t.Fatalf("expected filteredCap 2, got %d", ix.FilteredCap())
	}

	ref, ok := ix.FilteredAt(0)
	if !ok || ref.TrackID != 1 {
		t.Errorf("FilteredAt(0) = %+v, %v", ref, ok)
	}
}

func TestFilteredCapNeverRetreatsUnderConcurrency(t *testing.T) {
	ix := New()
	const n = 500
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			masterIdx := ix.PushMaster(model.TrackRef{AlbumID: 1, TrackID: model.TrackID(i)})
			ix.PushFiltered(masterIdx)
		}(i)
	}
	wg.Wait()

	if got := ix.FilteredCap(); got != n {
		t.Errorf("expected filteredCap %d after %d concurrent pushes, got %d", n, n, got)
	}
}
