package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"CoinSentinel/internal/model"
	"CoinSentinel/internal/tracker"
)

// Server exposes the read API over HTTP.
type Server struct {
	svc     *tracker.Service
	engine  *gin.Engine
	srv     *http.Server
	driver  string
	started time.Time
}

// New creates the HTTP server. driver names the configured storage backend
// for the health endpoint.
func New(addr string, svc *tracker.Service, driver string, debug bool) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		svc:     svc,
		engine:  gin.New(),
		driver:  driver,
		started: time.Now(),
	}
	s.engine.Use(gin.Recovery())
	s.srv = &http.Server{Addr: addr, Handler: s.engine}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/prices/:symbol", s.getPrices)
	s.engine.GET("/stats/:symbol/:period", s.getStats)
	s.engine.GET("/stats/:symbol/:period/history", s.getStatsHistory)
	s.engine.GET("/health", s.getHealth)
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	log.Printf("[INFO] http server listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) getPrices(c *gin.Context) {
	samples, err := s.svc.Prices(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if samples == nil {
		samples = []model.PriceSample{}
	}
	c.JSON(http.StatusOK, samples)
}

func (s *Server) getStats(c *gin.Context) {
	rec, err := s.svc.GetStatistics(c.Request.Context(), c.Param("symbol"), c.Param("period"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) getStatsHistory(c *gin.Context) {
	recs, err := s.svc.StatsHistory(c.Request.Context(), c.Param("symbol"), c.Param("period"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if recs == nil {
		recs = []model.StatsRecord{}
	}
	c.JSON(http.StatusOK, recs)
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"storage":        s.driver,
		"uptime_seconds": int(time.Since(s.started).Seconds()),
	})
}

func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrInsufficientData):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
