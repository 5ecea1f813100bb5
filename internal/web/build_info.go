// internal/web/build_info.go
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"favicongen/internal/buildinfo"
)

// getBuildInfo returns comprehensive build information
func (s *Server) getBuildInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": buildinfo.Get()})
}
