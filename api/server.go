package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/moyoez/editor-bridge/api/controllers"
	"github.com/moyoez/editor-bridge/api/middlewares"
	"github.com/moyoez/editor-bridge/editor"
	"github.com/moyoez/editor-bridge/notify"
	"github.com/moyoez/editor-bridge/tool"
	"github.com/moyoez/editor-bridge/types"
)

// Server represents the HTTP API the editing surface talks to.
type Server struct {
	port     int
	cfg      types.AppConfig
	registry *editor.Registry
	hub      *notify.Hub
	engine   *gin.Engine
	server   *http.Server
	mu       sync.RWMutex
}

// NewServer creates a new API server instance for the given registry.
func NewServer(cfg types.AppConfig, registry *editor.Registry, hub *notify.Hub) *Server {
	return &Server{
		port:     cfg.Port,
		cfg:      cfg,
		registry: registry,
		hub:      hub,
	}
}

// Handler builds the routes without listening; tests drive it through httptest.
func (s *Server) Handler() http.Handler {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		s.engine = s.setupRoutes()
	}
	return s.engine
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middlewares.AllowAllCORS())
	engine.Use(gin.Recovery())
	engine.Use(middlewares.RateLimit(s.cfg.RateLimitPerSecond, s.cfg.RateLimitBurst))
	if !s.cfg.AllowRemote {
		engine.Use(middlewares.OnlyAllowLocal)
	}

	editorCtrl := controllers.NewEditorController(s.registry, s.hub, s.cfg.ChunkSize, s.cfg.TextChunkSize)

	v1 := engine.Group("/api/editor/v1")
	{
		v1.POST("/setup", editorCtrl.HandleSetup)
		v1.GET("/:editorId", editorCtrl.HandleGet)
		v1.DELETE("/:editorId", editorCtrl.HandleDestroy)
		v1.PUT("/:editorId/content", editorCtrl.HandleUpdate)
		v1.PATCH("/:editorId/read-only", editorCtrl.HandleSetReadOnly)
		v1.POST("/:editorId/upload-chunk", editorCtrl.HandleUploadChunk)
		v1.POST("/:editorId/text-changed", editorCtrl.HandleTextChanged)
		v1.GET("/:editorId/notify-ws", editorCtrl.HandleNotifyWS)
	}
	self := engine.Group("/api/self/v1")
	{
		self.GET("/status", controllers.HandleStatus(s.registry))
	}
	return engine
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	handler := s.Handler()

	s.mu.Lock()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: handler,
	}
	srv := s.server
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting API server on http://0.0.0.0:%d", s.port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and tears every editor down.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()

	s.registry.DestroyAll()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
