// internal/web/purge_handlers.go
package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (s *Server) setupPurgeRoutes() {
	api := s.router.Group("/api")

	runs := api.Group("/runs")
	{
		runs.DELETE("/purge", s.purgeRuns)
	}
}

// DELETE /api/runs/purge?older_than=24h - drop old run history. Without
// older_than the configured retention applies.
func (s *Server) purgeRuns(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}

	olderThan := s.config.Database.HistoryRetention
	if v := c.Query("older_than"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "older_than must be a non-negative duration"})
			return
		}
		olderThan = d
	}

	before := time.Now().Add(-olderThan)
	deleted, err := s.store.PruneRuns(c.Request.Context(), before)
	if err != nil {
		logrus.WithError(err).Error("Failed to purge run history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to purge run history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Run history purged",
		"deleted":   deleted,
		"before":    before,
		"timestamp": time.Now(),
	})
}
