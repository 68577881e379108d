package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaelbrown/catalogplay/internal/api/service"
	"github.com/kaelbrown/catalogplay/internal/discovery"
)

// NavigationHandlers holds the gin route handlers for navigation and
// lifecycle endpoints.
type NavigationHandlers struct {
	svc *service.NavigationService
}

// NewNavigationHandlers builds a NavigationHandlers over svc.
func NewNavigationHandlers(svc *service.NavigationService) *NavigationHandlers {
	return &NavigationHandlers{svc: svc}
}

func statusFor(err error) int {
	if errors.Is(err, discovery.ErrNoEntry) {
		return http.StatusNotFound
	}
	if errors.Is(err, discovery.ErrAlreadyRunning) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Current handles GET /api/current
func (h *NavigationHandlers) Current(c *gin.Context) {
	entry, err := h.svc.Current(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "entry": entry})
}

// Next handles POST /api/next  (protected)
func (h *NavigationHandlers) Next(c *gin.Context) {
	entry, err := h.svc.Next(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "entry": entry})
}

// Previous handles POST /api/previous  (protected)
func (h *NavigationHandlers) Previous(c *gin.Context) {
	entry, err := h.svc.Previous(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "entry": entry})
}

// Mark handles POST /api/mark  (protected)
func (h *NavigationHandlers) Mark(c *gin.Context) {
	if err := h.svc.Mark(c.Request.Context()); err != nil {
		c.JSON(statusFor(err), gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Status handles GET /api/status
func (h *NavigationHandlers) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "pipeline": h.svc.Status()})
}

// Start handles POST /api/start  (protected)
func (h *NavigationHandlers) Start(c *gin.Context) {
	if err := h.svc.Start(c.Request.Context()); err != nil {
		c.JSON(statusFor(err), gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Stop handles POST /api/stop  (protected)
func (h *NavigationHandlers) Stop(c *gin.Context) {
	h.svc.Stop()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Healthz handles GET /healthz
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
