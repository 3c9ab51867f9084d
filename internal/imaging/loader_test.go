package imaging

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/ironsheep/raster-algebra-mcp/internal/graylevel"
)

// solidImage returns an in-memory image filled with c.
func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// stripeImage paints one vertical stripe per color, each stripeWidth wide.
func stripeImage(stripeWidth, height int, colors ...color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, stripeWidth*len(colors), height))
	for i, c := range colors {
		for y := 0; y < height; y++ {
			for x := 0; x < stripeWidth; x++ {
				img.Set(i*stripeWidth+x, y, c)
			}
		}
	}
	return img
}

// writeImage encodes img into dir/name, choosing the encoder by extension.
func writeImage(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	defer f.Close()

	var encode func(io.Writer, image.Image) error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".bmp":
		encode = bmp.Encode
	case ".tif", ".tiff":
		encode = func(w io.Writer, m image.Image) error { return tiff.Encode(w, m, nil) }
	default:
		encode = png.Encode
	}
	if err := encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", name, err)
	}
	return path
}

var (
	white     = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	lightGray = color.RGBA{0xBF, 0xBF, 0xBF, 0xFF}
	midGray   = color.RGBA{0x7F, 0x7F, 0x7F, 0xFF}
	darkGray  = color.RGBA{0x3F, 0x3F, 0x3F, 0xFF}
	black     = color.RGBA{0x00, 0x00, 0x00, 0xFF}
)

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	path := writeImage(t, t.TempDir(), "scan.png", solidImage(40, 30, midGray))

	img1, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := img1.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", b.Dx(), b.Dy())
	}

	img2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
}

func TestImageCache_Load_Formats(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.bmp", "c.tiff", "d.TIF"} {
		t.Run(name, func(t *testing.T) {
			cache := NewImageCache()
			path := writeImage(t, dir, name, stripeImage(2, 2, white, black))
			img, err := cache.Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if got := graylevel.FromColor(img.At(3, 1)); got != graylevel.Black {
				t.Errorf("pixel (3,1): got %v, want black", got)
			}
		})
	}
}

func TestImageCache_Load_Errors(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load should fail for non-existent file")
	}

	bad := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Load(bad); err == nil {
		t.Error("Load should fail for invalid image data")
	}
}

func TestImageCache_ClearAndEvict(t *testing.T) {
	cache := NewImageCache()
	dir := t.TempDir()
	p1 := writeImage(t, dir, "one.png", solidImage(4, 4, white))
	p2 := writeImage(t, dir, "two.png", solidImage(4, 4, black))
	for _, p := range []string{p1, p2} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	if cache.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", cache.Len())
	}

	cache.Evict(p1)
	cache.Evict("/never/loaded.png")
	cache.mu.RLock()
	_, has1 := cache.images[p1]
	_, has2 := cache.images[p2]
	cache.mu.RUnlock()
	if has1 || !has2 {
		t.Errorf("after Evict: has p1=%v p2=%v, want false true", has1, has2)
	}

	cache.Clear()
	if n := cache.Len(); n != 0 {
		t.Errorf("Clear left %d images", n)
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	path := writeImage(t, t.TempDir(), "shared.png", solidImage(16, 16, lightGray))

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()
	img := stripeImage(3, 2, white, lightGray, midGray, darkGray, black)
	path := writeImage(t, t.TempDir(), "levels.png", img)

	info, err := LoadImageInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if info.Width != 15 || info.Height != 2 {
		t.Errorf("dimensions: got %dx%d, want 15x2", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}
	want := [graylevel.Count]int{6, 6, 6, 6, 6}
	if info.Histogram != want {
		t.Errorf("Histogram: got %v, want %v", info.Histogram, want)
	}
}

func TestColorModelTraits(t *testing.T) {
	tests := []struct {
		name      string
		model     color.Model
		wantDepth string
		wantAlpha bool
	}{
		{"rgba", color.RGBAModel, "8-bit", true},
		{"nrgba", color.NRGBAModel, "8-bit", true},
		{"rgba64", color.RGBA64Model, "16-bit", true},
		{"nrgba64", color.NRGBA64Model, "16-bit", true},
		{"gray", color.GrayModel, "8-bit", false},
		{"gray16", color.Gray16Model, "16-bit", false},
		{"palette", color.Palette{color.Black, color.White}, "8-bit", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			depth, alpha := colorModelTraits(tt.model)
			if depth != tt.wantDepth || alpha != tt.wantAlpha {
				t.Errorf("got %s alpha=%v, want %s alpha=%v", depth, alpha, tt.wantDepth, tt.wantAlpha)
			}
		})
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path   string
		format string
	}{
		{"x.png", "png"},
		{"x.jpg", "jpeg"},
		{"x.JPEG", "jpeg"},
		{"x.gif", "gif"},
		{"x.bmp", "bmp"},
		{"x.tif", "tiff"},
		{"x.tiff", "tiff"},
		{"x.xyz", "unknown"},
		{"noext", "unknown"},
	}
	for _, tt := range tests {
		if got := formatOf(tt.path); got != tt.format {
			t.Errorf("formatOf(%q): got %s, want %s", tt.path, got, tt.format)
		}
	}
}

func TestGetDimensions(t *testing.T) {
	cache := NewImageCache()
	path := writeImage(t, t.TempDir(), "dims.bmp", solidImage(30, 20, darkGray))

	dims, err := GetDimensions(cache, path)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 30 || dims.Height != 20 {
		t.Errorf("dimensions: got %dx%d, want 30x20", dims.Width, dims.Height)
	}

	if _, err := GetDimensions(cache, "/nonexistent/image.png"); err == nil {
		t.Error("GetDimensions should fail for non-existent file")
	}
}
