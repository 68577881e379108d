package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kaelbrown/catalogplay/internal/api/service"
	"github.com/kaelbrown/catalogplay/internal/catalogapi"
	"github.com/kaelbrown/catalogplay/internal/discovery"
	"github.com/kaelbrown/catalogplay/internal/history"
	"github.com/kaelbrown/catalogplay/internal/model"
	"github.com/kaelbrown/catalogplay/internal/registry"
	"github.com/kaelbrown/catalogplay/internal/trackindex"
)

func newTestHandlers(t *testing.T) (*gin.Engine, *NavigationHandlers) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := registry.New()
	idx := trackindex.New()
	hist := history.LoadOrDefault(filepath.Join(t.TempDir(), "history.json"))

	album := model.NewAlbum(1, "Artist", "Album", "https://x.bandcamp.com/album/x", "2024")
	album.AddTrack(model.Track{ID: 1, Name: "Track", URL: "https://x.bandcamp.com/track/1"})
	reg.Insert(album)
	m := idx.PushMaster(model.TrackRef{AlbumID: 1, TrackID: 1})
	idx.PushFiltered(m)

	ctx := discovery.New(reg, idx, hist, nil, catalogapi.UnimplementedAlbumFetcher{}, catalogapi.DiscoveryQuery{})
	svc := service.NewNavigationService(ctx)
	h := NewNavigationHandlers(svc)

	r := gin.New()
	r.GET("/current", h.Current)
	r.POST("/next", h.Next)
	r.POST("/previous", h.Previous)
	r.POST("/mark", h.Mark)
	r.GET("/status", h.Status)
	r.POST("/start", h.Start)
	r.POST("/stop", h.Stop)
	return r, h
}

func doRequest(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCurrentHandlerReturnsEntry(t *testing.T) {
	r, _ := newTestHandlers(t)
	w := doRequest(r, http.MethodGet, "/current")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %+v", body)
	}
}

func TestCurrentHandlerReturns404WhenNoEntry(t *testing.T) {
	r, h := newTestHandlers(t)
	_ = h

	// Advance far past the filtered index's reach; the pipeline is not
	// running so resolution gives up immediately.
	for i := 0; i < 5; i++ {
		doRequest(r, http.MethodPost, "/next")
	}
	w := doRequest(r, http.MethodGet, "/current")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestStatusHandler(t *testing.T) {
	r, _ := newTestHandlers(t)
	w := doRequest(r, http.MethodGet, "/status")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]any
	json.Unmarshal(w.Body.Bytes(), &body)
	pipeline, ok := body["pipeline"].(map[string]any)
	if !ok {
		t.Fatalf("expected pipeline object in response, got %+v", body)
	}
	if pipeline["running"] != false {
		t.Errorf("expected running=false, got %+v", pipeline["running"])
	}
}

func TestMarkHandler(t *testing.T) {
	r, _ := newTestHandlers(t)
	w := doRequest(r, http.MethodPost, "/mark")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthz", Healthz)
	w := doRequest(r, http.MethodGet, "/healthz")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
