// internal/render/font.go
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// Face is a resolved glyph face. Fallback reports whether the requested
// font could not be used and the built-in bitmap face was substituted.
type Face struct {
	font.Face
	Source   string
	Fallback bool
}

// LoadFace opens the scalable font at path at the given pixel size. It
// never fails: when the font is missing or unreadable the 7x13 bitmap face
// is returned instead, and err describes why.
func LoadFace(path string, px int) (*Face, error) {
	face, err := openScalable(path, px)
	if err != nil {
		return &Face{Face: basicfont.Face7x13, Source: "basicfont/7x13", Fallback: true}, err
	}
	return &Face{Face: face, Source: path}, nil
}

func openScalable(path string, px int) (font.Face, error) {
	if px < 1 {
		return nil, fmt.Errorf("invalid font size %d", px)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttc", ".otc":
		collection, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font collection: %w", err)
		}
		f, err := collection.Font(0)
		if err != nil {
			return nil, fmt.Errorf("failed to load font from collection: %w", err)
		}
		return opentype.NewFace(f, &opentype.FaceOptions{
			Size:    float64(px),
			DPI:     72,
			Hinting: font.HintingFull,
		})
	default:
		f, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font: %w", err)
		}
		return truetype.NewFace(f, &truetype.Options{
			Size:    float64(px),
			DPI:     72,
			Hinting: font.HintingFull,
		}), nil
	}
}
