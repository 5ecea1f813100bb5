// internal/favicon/manifest.go
package favicon

import (
	"encoding/json"
	"fmt"
)

// Manifest is the web app manifest written next to the icons.
type Manifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Description     string         `json:"description"`
	ThemeColor      string         `json:"theme_color"`
	BackgroundColor string         `json:"background_color"`
	Display         string         `json:"display"`
	Scope           string         `json:"scope"`
	StartURL        string         `json:"start_url"`
	Icons           []ManifestIcon `json:"icons"`
}

type ManifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

// DefaultManifest references the 192 and 512 pixel favicons.
func DefaultManifest() Manifest {
	return Manifest{
		Name:            "KayanLive Questionnaire",
		ShortName:       "KayanLive",
		Description:     "KayanLive Project Brief Questionnaire",
		ThemeColor:      "#2c2c2b",
		BackgroundColor: "#2c2c2b",
		Display:         "standalone",
		Scope:           "/",
		StartURL:        "/",
		Icons: []ManifestIcon{
			{Src: "/favicon-192x192.png", Sizes: "192x192", Type: "image/png"},
			{Src: "/favicon-512x512.png", Sizes: "512x512", Type: "image/png"},
		},
	}
}

func (m Manifest) encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return append(data, '\n'), nil
}
