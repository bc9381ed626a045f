package raster

import (
	"image"
	"os"
	"sort"

	"golang.org/x/image/tiff"

	"github.com/sar-tools/cslc-correct/pkg/grid"
)

// quicklook stretch percentiles
const (
	stretchLow  = 0.02
	stretchHigh = 0.98
)

// SaveQuicklook writes an 8-bit grayscale TIFF preview of g with a
// percentile contrast stretch, so the low-amplitude bulk of a SAR scene
// is visible instead of a near-black image.
func SaveQuicklook(g *grid.Grid, path string) error {
	lo, hi := percentiles(g.Data, stretchLow, stretchHigh)

	img := image.NewGray(image.Rect(0, 0, g.Cols, g.Rows))

	for i, v := range g.Data {
		img.Pix[i] = stretchToByte(v, lo, hi)
	}

	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if err := tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		f.Close()
		os.Remove(path)

		return &WriteError{Path: path, Err: err}
	}

	if err := f.Close(); err != nil {
		os.Remove(path)

		return &WriteError{Path: path, Err: err}
	}

	return nil
}

func percentiles(data []float64, low, high float64) (lo, hi float64) {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	n := len(sorted)
	lo = sorted[int(low*float64(n-1))]
	hi = sorted[int(high*float64(n-1))]

	return lo, hi
}

func stretchToByte(v, lo, hi float64) uint8 {
	if hi <= lo {
		return 0
	}

	s := (v - lo) / (hi - lo)
	if s < 0 {
		s = 0
	} else if s > 1 {
		s = 1
	}

	return uint8(s * 255)
}
