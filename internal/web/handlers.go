// internal/web/handlers.go
package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"favicongen/internal/database"
)

const defaultRunLimit = 20

// RunResponse adds summary fields the preview page shows per run
type RunResponse struct {
	*database.Run
	Status  string `json:"status"`
	Changed int    `json:"changed"`
}

func newRunResponse(run *database.Run) RunResponse {
	resp := RunResponse{Run: run, Status: "success"}
	if !run.Succeeded() {
		resp.Status = "failed"
	}
	for _, out := range run.Outputs {
		if out.Changed {
			resp.Changed++
		}
	}
	return resp
}

// POST /api/generate - run the generator and notify websocket clients
func (s *Server) generate(c *gin.Context) {
	run, err := s.generator.Run(c.Request.Context())
	resp := newRunResponse(run)

	s.broadcast(WSMessage{Type: "generated", Data: resp})

	if err != nil {
		logrus.WithField("run_id", run.ID).WithError(err).Error("Generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
			"data":  resp,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GET /api/runs?limit=N - newest first
func (s *Server) getRuns(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}

	limit := defaultRunLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	runs, err := s.store.ListRuns(c.Request.Context(), limit)
	if err != nil {
		logrus.WithError(err).Error("Failed to list runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list runs"})
		return
	}

	response := make([]RunResponse, 0, len(runs))
	for i := range runs {
		response = append(response, newRunResponse(&runs[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  response,
		"count": len(response),
	})
}

func (s *Server) getRun(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}

	run, err := s.store.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
			return
		}
		logrus.WithError(err).Error("Failed to get run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get run"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newRunResponse(run)})
}

func (s *Server) getStats(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}

	stats, err := s.store.GetStats(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to get stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      stats,
		"ws_active": s.clientCount(),
		"timestamp": time.Now(),
	})
}

func (s *Server) requireStore(c *gin.Context) bool {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Run history is disabled"})
		return false
	}
	return true
}
