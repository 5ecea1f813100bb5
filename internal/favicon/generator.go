// internal/favicon/generator.go
package favicon

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	ico "github.com/sergeymakinen/go-ico"
	"github.com/sirupsen/logrus"

	"favicongen/internal/database"
	"favicongen/internal/metrics"
	"favicongen/internal/render"
)

type Options struct {
	OutputDir string
	FontPath  string
	Manifest  bool
	OGImage   bool
	// HistoryRetention prunes recorded runs older than this after every
	// run. Zero keeps everything.
	HistoryRetention time.Duration
	// Progress receives one line per written file. Nil discards.
	Progress io.Writer
}

// Output describes one written file.
type Output struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Bytes  int    `json:"bytes"`
	Digest string `json:"digest"`
	// FontFallback is set when rendering this file used the bitmap face.
	FontFallback bool `json:"font_fallback,omitempty"`
}

type Generator struct {
	opts     Options
	renderer *render.Renderer
	store    database.Store
	metrics  *metrics.Collector

	mu sync.Mutex
}

// NewGenerator builds a generator. store and collector may be nil.
func NewGenerator(opts Options, store database.Store, collector *metrics.Collector) *Generator {
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}

	g := &Generator{
		opts:     opts,
		renderer: render.NewRenderer(opts.FontPath),
		store:    store,
		metrics:  collector,
	}
	if collector != nil {
		g.renderer.OnFallback = func(path string, err error) {
			collector.RecordFontFallback()
		}
	}
	return g
}

func (g *Generator) OutputDir() string {
	return g.opts.OutputDir
}

// RenderPNG returns the PNG encoding of the icon at size.
func (g *Generator) RenderPNG(size int) ([]byte, error) {
	data, _, err := g.encodePNG(size)
	return data, err
}

// RenderICO returns an ICO container holding ICOSizes, in order.
func (g *Generator) RenderICO() ([]byte, error) {
	data, _, err := g.encodeICO()
	return data, err
}

// The encode helpers report whether any render in the call used the
// bitmap face, so a run only sees its own fallbacks.
func (g *Generator) encodePNG(size int) ([]byte, bool, error) {
	img, fallback, err := g.renderer.RenderIcon(size)
	if err != nil {
		return nil, false, err
	}

	data, err := pngBytes(img)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode %dx%d png: %w", size, size, err)
	}
	return data, fallback, nil
}

func (g *Generator) encodeICO() ([]byte, bool, error) {
	images := make([]image.Image, 0, len(ICOSizes))
	anyFallback := false
	for _, size := range ICOSizes {
		img, fallback, err := g.renderer.RenderIcon(size)
		if err != nil {
			return nil, false, err
		}
		anyFallback = anyFallback || fallback
		images = append(images, img)
	}

	var buf bytes.Buffer
	if err := ico.EncodeAll(&buf, images); err != nil {
		return nil, false, fmt.Errorf("failed to encode ico: %w", err)
	}
	return buf.Bytes(), anyFallback, nil
}

func pngBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GeneratePNGSet writes every PNGSizes entry to the output directory. It
// stops at the first failure; files already written stay on disk.
func (g *Generator) GeneratePNGSet() ([]Output, error) {
	outputs := make([]Output, 0, len(PNGSizes))

	for _, spec := range PNGSizes {
		start := time.Now()
		out, err := g.writePNG(spec)
		g.recordOutput(spec.Name, KindPNG, out, start, err)
		if err != nil {
			return outputs, err
		}
		outputs = append(outputs, out)
		fmt.Fprintf(g.opts.Progress, "Generated %s (%dx%d)\n", spec.Name, spec.Size, spec.Size)
	}

	return outputs, nil
}

func (g *Generator) writePNG(spec SizeSpec) (Output, error) {
	data, fallback, err := g.encodePNG(spec.Size)
	if err != nil {
		return Output{}, fmt.Errorf("failed to render %s: %w", spec.Name, err)
	}
	if err := g.writeFile(spec.Name, data); err != nil {
		return Output{}, err
	}

	out := newOutput(spec.Name, KindPNG, spec.Size, spec.Size, data)
	out.FontFallback = fallback
	return out, nil
}

// GenerateICO writes favicon.ico to the output directory.
func (g *Generator) GenerateICO() (Output, error) {
	start := time.Now()

	data, fallback, err := g.encodeICO()
	if err != nil {
		err = fmt.Errorf("failed to render %s: %w", ICOName, err)
		g.recordOutput(ICOName, KindICO, Output{}, start, err)
		return Output{}, err
	}
	if err := g.writeFile(ICOName, data); err != nil {
		g.recordOutput(ICOName, KindICO, Output{}, start, err)
		return Output{}, err
	}

	largest := ICOSizes[len(ICOSizes)-1]
	out := newOutput(ICOName, KindICO, largest, largest, data)
	out.FontFallback = fallback
	g.recordOutput(ICOName, KindICO, out, start, nil)
	fmt.Fprintf(g.opts.Progress, "Generated %s with sizes: %v\n", ICOName, ICOSizes)

	return out, nil
}

// WriteManifest writes site.webmanifest to the output directory.
func (g *Generator) WriteManifest() (Output, error) {
	data, err := DefaultManifest().encode()
	if err != nil {
		return Output{}, err
	}
	if err := g.writeFile(ManifestName, data); err != nil {
		return Output{}, err
	}

	fmt.Fprintf(g.opts.Progress, "Generated %s\n", ManifestName)
	return newOutput(ManifestName, KindManifest, 0, 0, data), nil
}

// WriteOGImage writes the social preview card to the output directory.
func (g *Generator) WriteOGImage() (Output, error) {
	start := time.Now()

	out, err := g.writeOGImage()
	g.recordOutput(OGImageName, KindOGImage, out, start, err)
	if err != nil {
		return Output{}, err
	}

	fmt.Fprintf(g.opts.Progress, "Generated %s (%dx%d)\n", OGImageName, out.Width, out.Height)
	return out, nil
}

func (g *Generator) writeOGImage() (Output, error) {
	img, fallback, err := g.renderer.RenderBanner(render.BannerWidth, render.BannerHeight)
	if err != nil {
		return Output{}, fmt.Errorf("failed to render %s: %w", OGImageName, err)
	}

	data, err := pngBytes(img)
	if err != nil {
		return Output{}, fmt.Errorf("failed to encode %s: %w", OGImageName, err)
	}
	if err := g.writeFile(OGImageName, data); err != nil {
		return Output{}, err
	}

	out := newOutput(OGImageName, KindOGImage, render.BannerWidth, render.BannerHeight, data)
	out.FontFallback = fallback
	return out, nil
}

// Run generates the PNG set, the ICO file and, when enabled, the social
// preview card and the manifest.
// The run is recorded in the store whether or not it succeeds.
func (g *Generator) Run(ctx context.Context) (*database.Run, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	run := &database.Run{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
		OutputDir: g.opts.OutputDir,
		Font:      g.renderer.FontPath,
	}

	previous := g.previousDigests(ctx)
	outputs, err := g.generateAll()

	for _, out := range outputs {
		run.FontFallback = run.FontFallback || out.FontFallback
		run.Outputs = append(run.Outputs, database.Output{
			Name:    out.Name,
			Kind:    out.Kind,
			Width:   out.Width,
			Height:  out.Height,
			Bytes:   out.Bytes,
			Digest:  out.Digest,
			Changed: previous[out.Name] != out.Digest,
		})
	}

	elapsed := time.Since(run.StartedAt)
	run.Duration = float64(elapsed.Milliseconds())
	if err != nil {
		run.Error = err.Error()
	}

	if g.metrics != nil {
		g.metrics.RecordRun(elapsed, err)
	}
	g.saveRun(ctx, run)

	logrus.WithFields(logrus.Fields{
		"run_id":        run.ID,
		"outputs":       len(run.Outputs),
		"font_fallback": run.FontFallback,
		"duration":      elapsed,
	}).Debug("Generator run finished")

	return run, err
}

func (g *Generator) generateAll() ([]Output, error) {
	outputs, err := g.GeneratePNGSet()
	if err != nil {
		return outputs, err
	}

	icoOut, err := g.GenerateICO()
	if err != nil {
		return outputs, err
	}
	outputs = append(outputs, icoOut)

	if g.opts.OGImage {
		ogOut, err := g.WriteOGImage()
		if err != nil {
			return outputs, err
		}
		outputs = append(outputs, ogOut)
	}

	if g.opts.Manifest {
		manifestOut, err := g.WriteManifest()
		if err != nil {
			return outputs, err
		}
		outputs = append(outputs, manifestOut)
	}

	return outputs, nil
}

func (g *Generator) previousDigests(ctx context.Context) map[string]string {
	if g.store == nil {
		return nil
	}

	digests, err := g.store.LatestDigests(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Failed to load previous digests")
		return nil
	}
	return digests
}

// saveRun stores the run and applies retention. History problems are
// logged and never fail generation.
func (g *Generator) saveRun(ctx context.Context, run *database.Run) {
	if g.store == nil {
		return
	}

	if err := g.store.RecordRun(ctx, run); err != nil {
		logrus.WithField("run_id", run.ID).WithError(err).Warn("Failed to record run")
		return
	}

	if g.opts.HistoryRetention > 0 {
		cutoff := time.Now().Add(-g.opts.HistoryRetention)
		if _, err := g.store.PruneRuns(ctx, cutoff); err != nil {
			logrus.WithError(err).Warn("Failed to prune run history")
		}
	}
}

// writeFile does not create the output directory; a missing directory is
// reported as an error.
func (g *Generator) writeFile(name string, data []byte) error {
	path := filepath.Join(g.opts.OutputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (g *Generator) recordOutput(name, kind string, out Output, start time.Time, err error) {
	if g.metrics == nil {
		return
	}
	g.metrics.RecordOutput(name, kind, out.Bytes, time.Since(start), err)
}

func newOutput(name, kind string, width, height int, data []byte) Output {
	sum := sha256.Sum256(data)
	return Output{
		Name:   name,
		Kind:   kind,
		Width:  width,
		Height: height,
		Bytes:  len(data),
		Digest: hex.EncodeToString(sum[:]),
	}
}
