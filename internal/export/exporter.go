package export

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"screen-slicer/internal/layout"
	"screen-slicer/internal/transform"
	"screen-slicer/pkg/geometry"

	"github.com/disintegration/imaging"
)

// Output formats.
const (
	FormatJPEG = "jpg"
	FormatPNG  = "png"
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 95

// Result is the outcome of exporting one screen.
type Result struct {
	Screen int // 1-based
	Crop   Crop
	Path   string
	Err    error
}

// Exporter writes per-screen crops into Dir.
type Exporter struct {
	Dir     string
	Format  string // FormatJPEG or FormatPNG
	Quality int    // JPEG quality, 1-100
	Workers int    // 0 means runtime.NumCPU()
}

// NewExporter returns an exporter writing JPEG files into dir.
func NewExporter(dir string) *Exporter {
	return &Exporter{Dir: dir, Format: FormatJPEG, Quality: DefaultQuality}
}

// FileName returns the output name for a 1-based screen number.
func (x *Exporter) FileName(screen int) string {
	return fmt.Sprintf("screen_%d.%s", screen, x.ext())
}

func (x *Exporter) ext() string {
	switch strings.ToLower(x.Format) {
	case FormatPNG:
		return FormatPNG
	default:
		return FormatJPEG
	}
}

func (x *Exporter) quality() int {
	if x.Quality < 1 || x.Quality > 100 {
		return DefaultQuality
	}
	return x.Quality
}

// Export writes one file per entry and returns one result per entry, in
// arrangement order. src, arr and img are only read. A failing screen never
// stops the others.
func (x *Exporter) Export(src image.Image, arr layout.Arrangement, img transform.Image) []Result {
	results := make([]Result, len(arr))
	if len(arr) == 0 {
		return results
	}

	if err := os.MkdirAll(x.Dir, 0755); err != nil {
		for i, e := range arr {
			results[i] = Result{Screen: e.Index + 1, Err: &ScreenError{Screen: e.Index + 1, Err: err}}
		}
		return results
	}

	bounds := src.Bounds()
	native := geometry.NewSize(float64(bounds.Dx()), float64(bounds.Dy()))

	workers := x.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, entry := range arr {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int, e layout.Entry) {
			defer wg.Done()
			defer func() { <-sem }()

			results[idx] = x.exportOne(src, bounds.Min, native, e, img)
		}(i, entry)
	}

	wg.Wait()
	return results
}

func (x *Exporter) exportOne(src image.Image, origin image.Point, native geometry.Size, e layout.Entry, img transform.Image) Result {
	n := e.Index + 1
	res := Result{Screen: n}

	crop, err := ComputeCrop(e, img, native)
	res.Crop = crop
	if err != nil {
		res.Err = &ScreenError{Screen: n, Err: err}
		return res
	}

	out := imaging.Crop(src, crop.Rectangle(origin))
	path := filepath.Join(x.Dir, x.FileName(n))
	if err := imaging.Save(out, path, imaging.JPEGQuality(x.quality())); err != nil {
		res.Err = &ScreenError{Screen: n, Err: fmt.Errorf("failed to save %s: %w", path, err)}
		return res
	}
	res.Path = path
	return res
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
