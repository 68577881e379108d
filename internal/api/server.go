// Package api assembles the gin-based control/status HTTP surface: a thin
// ambient layer over the navigation API, grounded on the teacher's
// internal/radio/{server,middleware}.go and its handler/service split
// (internal/radio/handler, internal/radio/service).
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kaelbrown/catalogplay/internal/api/handler"
	"github.com/kaelbrown/catalogplay/internal/api/service"
	"github.com/kaelbrown/catalogplay/internal/auth"
	"github.com/kaelbrown/catalogplay/internal/discovery"
)

// Server is the control/status HTTP API.
type Server struct {
	httpServer *http.Server
}

// NewServer builds the gin engine and wires every route, protecting the
// mutating navigation/lifecycle endpoints with AuthRequired.
func NewServer(addr string, discoveryCtx *discovery.Context, authenticator *auth.Auth) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(SecurityHeadersMiddleware())

	navSvc := service.NewNavigationService(discoveryCtx)
	navHandlers := handler.NewNavigationHandlers(navSvc)
	authHandlers := handler.NewAuthHandlers(authenticator)

	engine.GET("/healthz", handler.Healthz)

	apiGroup := engine.Group("/api")
	apiGroup.GET("/status", navHandlers.Status)
	apiGroup.GET("/current", navHandlers.Current)
	apiGroup.POST("/auth/login", authHandlers.Login)

	protected := apiGroup.Group("")
	protected.Use(AuthRequired(authenticator))
	protected.POST("/next", navHandlers.Next)
	protected.POST("/previous", navHandlers.Previous)
	protected.POST("/mark", navHandlers.Mark)
	protected.POST("/start", navHandlers.Start)
	protected.POST("/stop", navHandlers.Stop)

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      engine,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start runs the HTTP server until ctx is cancelled, then shuts it down
// with a bounded grace period.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
