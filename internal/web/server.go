// internal/web/server.go
package web

import (
	"context"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"favicongen/internal/buildinfo"
	"favicongen/internal/config"
	"favicongen/internal/database"
	"favicongen/internal/favicon"
	"favicongen/internal/metrics"
)

type Server struct {
	config    *config.Config
	store     database.Store
	generator *favicon.Generator
	metrics   *metrics.Collector
	router    *gin.Engine
	server    *http.Server

	wsMu      sync.Mutex
	wsClients map[*WSClient]bool
}

// NewServer wires the preview routes. store may be nil, in which case the
// history endpoints answer 503.
func NewServer(cfg *config.Config, store database.Store, generator *favicon.Generator, metricsCollector *metrics.Collector) *Server {
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(requestLogger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.SetHTMLTemplate(template.Must(template.New("index").Parse(indexHTML)))

	server := &Server{
		config:    cfg,
		store:     store,
		generator: generator,
		metrics:   metricsCollector,
		router:    router,
		wsClients: make(map[*WSClient]bool),
	}

	server.setupRoutes()
	return server
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	logrus.WithField("port", s.config.Server.Port).Info("Starting preview server")

	// Start server in goroutine
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.closeWebSockets()
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) setupRoutes() {
	// Main page
	s.router.GET("/", s.serveIndex)

	// Icons
	s.router.GET("/favicon.ico", s.serveFaviconICO)
	s.router.GET("/favicon.svg", s.serveFaviconSVG)
	s.router.GET("/render/:size", s.renderPNG)
	s.router.Static("/assets", s.generator.OutputDir())

	// API routes
	api := s.router.Group("/api")
	{
		api.POST("/generate", s.generate)

		api.GET("/runs", s.getRuns)
		api.GET("/runs/:id", s.getRun)
		api.GET("/stats", s.getStats)

		api.GET("/build", s.getBuildInfo)
		api.GET("/health", s.healthCheck)
	}
	s.setupPurgeRoutes()

	// WebSocket endpoint
	s.router.GET("/ws", s.handleWebSocket)

	// Prometheus metrics
	if s.config.Prometheus.Enabled {
		s.router.GET(s.config.Prometheus.MetricsPath, gin.WrapH(promhttp.Handler()))
	}
}

func (s *Server) serveIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index", gin.H{
		"Sizes":    favicon.PNGSizes,
		"ICOSizes": favicon.ICOSizes,
		"ICOName":  favicon.ICOName,
		"Version":  buildinfo.Version,
	})
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
		"version":   buildinfo.Version,
	})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("HTTP request")
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
