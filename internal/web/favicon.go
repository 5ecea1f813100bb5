// internal/web/favicon.go
package web

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"favicongen/internal/favicon"
	"favicongen/internal/render"
)

const (
	minRenderSize = 16
	maxRenderSize = 1024
	svgViewBox    = 512
)

// faviconSVG uses the raster icon's inset, corner radius, glyph size and
// glyph lift. Text metrics are left to the browser.
var faviconSVG = buildFaviconSVG(svgViewBox)

func buildFaviconSVG(size int) string {
	p := render.Padding(size)
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %[1]d %[1]d" width="%[1]d" height="%[1]d">
  <rect x="%[2]d" y="%[2]d" width="%[3]d" height="%[3]d" rx="%[4]d" fill="%[5]s"/>
  <text x="50%%" y="50%%" dy="%[6]d" text-anchor="middle" dominant-baseline="central" font-family="Helvetica, Arial, sans-serif" font-size="%[7]d" fill="%[8]s">%[9]s</text>
</svg>
`,
		size, p, size-2*p, render.CornerRadius(size), hexColor(render.BackgroundColor),
		-render.GlyphLift(size), render.FontSize(size), hexColor(render.GlyphColor), render.Glyph)
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (s *Server) serveFaviconSVG(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/svg+xml", []byte(faviconSVG))
}

// serveFaviconICO prefers the generated file and renders one in memory
// when it has not been written yet.
func (s *Server) serveFaviconICO(c *gin.Context) {
	data, err := os.ReadFile(filepath.Join(s.generator.OutputDir(), favicon.ICOName))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logrus.WithError(err).Warn("Failed to read generated favicon")
		}

		data, err = s.generator.RenderICO()
		if err != nil {
			logrus.WithError(err).Error("Failed to render favicon")
			// Fallback to SVG
			s.serveFaviconSVG(c)
			return
		}
	}

	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "image/x-icon", data)
}

// GET /render/:size - on-the-fly PNG
func (s *Server) renderPNG(c *gin.Context) {
	size, err := strconv.Atoi(c.Param("size"))
	if err != nil || size < minRenderSize || size > maxRenderSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("size must be an integer between %d and %d", minRenderSize, maxRenderSize),
		})
		return
	}

	data, err := s.generator.RenderPNG(size)
	if err != nil {
		logrus.WithField("size", size).WithError(err).Error("Failed to render icon")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render icon"})
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}
