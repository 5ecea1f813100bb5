package favicon

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	ico "github.com/sergeymakinen/go-ico"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"favicongen/internal/database"
	"favicongen/internal/metrics"
	"favicongen/internal/render"
)

func newTestGenerator(t *testing.T, opts Options, store database.Store) *Generator {
	t.Helper()
	if opts.OutputDir == "" {
		opts.OutputDir = t.TempDir()
	}
	if opts.FontPath == "" {
		opts.FontPath = filepath.Join(t.TempDir(), "missing.ttc")
	}
	return NewGenerator(opts, store, metrics.NewCollector())
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func TestGeneratePNGSetWritesEverySize(t *testing.T) {
	var progress bytes.Buffer
	g := newTestGenerator(t, Options{Progress: &progress}, nil)

	outputs, err := g.GeneratePNGSet()
	require.NoError(t, err)
	require.Len(t, outputs, len(PNGSizes))

	for i, spec := range PNGSizes {
		img := decodePNG(t, filepath.Join(g.OutputDir(), spec.Name))
		assert.Equal(t, image.Rect(0, 0, spec.Size, spec.Size), img.Bounds(), spec.Name)

		last := spec.Size - 1
		for _, p := range []image.Point{{0, 0}, {last, 0}, {0, last}, {last, last}} {
			_, _, _, a := img.At(p.X, p.Y).RGBA()
			assert.Zero(t, a, "%s corner %v", spec.Name, p)
		}
		_, _, _, a := img.At(spec.Size/2, spec.Size/2).RGBA()
		assert.NotZero(t, a, "%s center", spec.Name)

		assert.Equal(t, spec.Name, outputs[i].Name)
		assert.Len(t, outputs[i].Digest, 64)
	}

	lines := strings.Split(strings.TrimSpace(progress.String()), "\n")
	require.Len(t, lines, len(PNGSizes))
	assert.Equal(t, "Generated favicon-16x16.png (16x16)", lines[0])
	assert.Equal(t, "Generated apple-touch-icon.png (180x180)", lines[4])
}

func TestGenerateICOEmbedsThreeSizesInOrder(t *testing.T) {
	g := newTestGenerator(t, Options{}, nil)

	out, err := g.GenerateICO()
	require.NoError(t, err)
	assert.Equal(t, ICOName, out.Name)

	f, err := os.Open(filepath.Join(g.OutputDir(), ICOName))
	require.NoError(t, err)
	defer f.Close()

	images, err := ico.DecodeAll(f)
	require.NoError(t, err)
	require.Len(t, images, 3)
	for i, size := range ICOSizes {
		assert.Equal(t, image.Rect(0, 0, size, size), images[i].Bounds())
	}
}

func TestMissingOutputDirFails(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public")
	g := newTestGenerator(t, Options{OutputDir: dir}, nil)

	_, err := g.GeneratePNGSet()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "favicon-16x16.png")

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "output directory must not be created")
}

func TestFailureKeepsEarlierFiles(t *testing.T) {
	dir := t.TempDir()
	// A directory where a file should go makes that one write fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "favicon-192x192.png"), 0755))
	g := newTestGenerator(t, Options{OutputDir: dir}, nil)

	outputs, err := g.GeneratePNGSet()
	require.Error(t, err)
	require.Len(t, outputs, 2)

	for _, name := range []string{"favicon-16x16.png", "favicon-32x32.png"} {
		_, statErr := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, statErr, name)
	}
	_, statErr := os.Stat(filepath.Join(dir, "favicon-512x512.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunIsIdempotent(t *testing.T) {
	g := newTestGenerator(t, Options{}, nil)

	first, err := g.Run(context.Background())
	require.NoError(t, err)
	contents := make(map[string][]byte)
	for _, out := range first.Outputs {
		data, err := os.ReadFile(filepath.Join(g.OutputDir(), out.Name))
		require.NoError(t, err)
		contents[out.Name] = data
	}

	second, err := g.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, second.Outputs, len(first.Outputs))
	for i, out := range second.Outputs {
		data, err := os.ReadFile(filepath.Join(g.OutputDir(), out.Name))
		require.NoError(t, err)
		assert.Equal(t, contents[out.Name], data, out.Name)
		assert.Equal(t, first.Outputs[i].Digest, out.Digest)
	}
}

func TestRunWithMissingFontUsesFallback(t *testing.T) {
	g := newTestGenerator(t, Options{}, nil)

	run, err := g.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, run.Error)
	assert.True(t, run.FontFallback)
	assert.Len(t, run.Outputs, len(PNGSizes)+1)
}

func TestRunWritesManifest(t *testing.T) {
	g := newTestGenerator(t, Options{Manifest: true}, nil)

	run, err := g.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, run.Outputs, len(PNGSizes)+2)
	assert.Equal(t, ManifestName, run.Outputs[len(run.Outputs)-1].Name)

	data, err := os.ReadFile(filepath.Join(g.OutputDir(), ManifestName))
	require.NoError(t, err)

	var m Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "KayanLive", m.ShortName)
	assert.Equal(t, "#2c2c2b", m.ThemeColor)
	require.Len(t, m.Icons, 2)
	assert.Equal(t, "/favicon-512x512.png", m.Icons[1].Src)
}

func TestRunRecordsHistory(t *testing.T) {
	store, err := database.NewBoltStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	g := newTestGenerator(t, Options{HistoryRetention: time.Hour}, store)
	ctx := context.Background()

	first, err := g.Run(ctx)
	require.NoError(t, err)
	for _, out := range first.Outputs {
		assert.True(t, out.Changed, out.Name)
	}

	second, err := g.Run(ctx)
	require.NoError(t, err)
	for _, out := range second.Outputs {
		assert.False(t, out.Changed, out.Name)
	}

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
}

func TestRunRecordsFailure(t *testing.T) {
	store, err := database.NewBoltStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	g := newTestGenerator(t, Options{OutputDir: filepath.Join(t.TempDir(), "missing")}, store)

	run, err := g.Run(context.Background())
	require.Error(t, err)
	assert.NotEmpty(t, run.Error)
	assert.Empty(t, run.Outputs)

	stored, err := store.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.False(t, stored.Succeeded())
}

func TestRenderPNGRejectsInvalidSize(t *testing.T) {
	g := newTestGenerator(t, Options{}, nil)

	_, err := g.RenderPNG(0)
	assert.Error(t, err)
}

func goRegularFont(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "go.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0644))
	return path
}

func TestWriteOGImage(t *testing.T) {
	var progress bytes.Buffer
	g := newTestGenerator(t, Options{Progress: &progress}, nil)

	out, err := g.WriteOGImage()
	require.NoError(t, err)
	assert.Equal(t, OGImageName, out.Name)
	assert.Equal(t, KindOGImage, out.Kind)
	assert.Equal(t, 1200, out.Width)
	assert.Equal(t, 630, out.Height)
	assert.True(t, out.FontFallback)
	assert.Equal(t, "Generated og-image.png (1200x630)\n", progress.String())

	img := decodePNG(t, filepath.Join(g.OutputDir(), OGImageName))
	assert.Equal(t, image.Rect(0, 0, 1200, 630), img.Bounds())

	accent := 0
	for y := 0; y < 630; y++ {
		for x := 0; x < 1200; x++ {
			r, gr, b, a := img.At(x, y).RGBA()
			if a == 0xffff && r>>8 == uint32(render.GlyphColor.R) && gr>>8 == uint32(render.GlyphColor.G) && b>>8 == uint32(render.GlyphColor.B) {
				accent++
			}
		}
	}
	assert.Positive(t, accent, "expected title pixels in the accent color")
}

func TestRunWritesOGImageBeforeManifest(t *testing.T) {
	g := newTestGenerator(t, Options{OGImage: true, Manifest: true}, nil)

	run, err := g.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, run.Outputs, len(PNGSizes)+3)

	names := make([]string, 0, 3)
	for _, out := range run.Outputs[len(PNGSizes):] {
		names = append(names, out.Name)
	}
	assert.Equal(t, []string{ICOName, OGImageName, ManifestName}, names)
}

func TestRunSkipsOGImageByDefault(t *testing.T) {
	g := newTestGenerator(t, Options{}, nil)

	_, err := g.Run(context.Background())
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(g.OutputDir(), OGImageName))
}

func TestRunWithRealFontReportsNoFallback(t *testing.T) {
	g := newTestGenerator(t, Options{FontPath: goRegularFont(t), OGImage: true}, nil)

	run, err := g.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, run.FontFallback)
	for _, out := range run.Outputs {
		assert.False(t, out.FontFallback, out.Name)
	}
}

func TestConcurrentRendersDoNotLeakFallbackIntoRun(t *testing.T) {
	g := newTestGenerator(t, Options{FontPath: goRegularFont(t)}, nil)

	// A 1px icon has a zero font size and always uses the bitmap face.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_, _ = g.RenderPNG(1)
				}
			}
		}()
	}

	run, err := g.Run(context.Background())
	close(stop)
	wg.Wait()

	require.NoError(t, err)
	assert.False(t, run.FontFallback)
}
