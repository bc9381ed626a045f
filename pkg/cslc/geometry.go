package cslc

import (
	"fmt"
	"math"

	"github.com/sar-tools/cslc-correct/pkg/grid"
)

// geotransformFromCoords derives a north-up geotransform from the
// pixel-center coordinate vectors stored with a dataset. The vectors must
// be evenly spaced; the geotransform origin is the outer corner of the
// first pixel, half a pixel out from the first center.
func geotransformFromCoords(xs, ys []float64) (grid.Geotransform, error) {
	dx, err := spacing(xs, "x")
	if err != nil {
		return grid.Geotransform{}, err
	}

	dy, err := spacing(ys, "y")
	if err != nil {
		return grid.Geotransform{}, err
	}

	return grid.Geotransform{
		xs[0] - dx/2, dx, 0,
		ys[0] - dy/2, 0, dy,
	}, nil
}

func spacing(coords []float64, axis string) (float64, error) {
	if len(coords) < 2 {
		return 0, fmt.Errorf("%s coordinate vector has %d entries, need at least 2", axis, len(coords))
	}

	d := coords[1] - coords[0]
	if d == 0 {
		return 0, fmt.Errorf("%s coordinate vector has zero spacing", axis)
	}

	// tolerate float rounding in the stored coordinates
	for i := 2; i < len(coords); i++ {
		step := coords[i] - coords[i-1]
		if math.Abs(step-d) > 1e-6*math.Abs(d) {
			return 0, fmt.Errorf("%s coordinate vector is not evenly spaced at index %d", axis, i)
		}
	}

	return d, nil
}

// resampleBilinear interpolates src, georeferenced by srcGT, onto a
// rows x cols grid georeferenced by dstGT. Both geotransforms must be
// axis-aligned. Samples outside src clamp to its border.
func resampleBilinear(src *grid.Grid, srcGT grid.Geotransform, rows, cols int, dstGT grid.Geotransform) (*grid.Grid, error) {
	if srcGT[2] != 0 || srcGT[4] != 0 || dstGT[2] != 0 || dstGT[4] != 0 {
		return nil, fmt.Errorf("resampling requires axis-aligned geotransforms")
	}
	if srcGT[1] == 0 || srcGT[5] == 0 {
		return nil, fmt.Errorf("source geotransform has zero pixel size")
	}

	out, err := grid.New(rows, cols)
	if err != nil {
		return nil, err
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x, y := dstGT.Apply(float64(r)+0.5, float64(c)+0.5)

			// fractional source pixel of the target pixel center
			fc := (x-srcGT[0])/srcGT[1] - 0.5
			fr := (y-srcGT[3])/srcGT[5] - 0.5

			out.Set(r, c, sampleBilinear(src, fr, fc))
		}
	}

	return out, nil
}

func sampleBilinear(src *grid.Grid, fr, fc float64) float64 {
	fr = clamp(fr, 0, float64(src.Rows-1))
	fc = clamp(fc, 0, float64(src.Cols-1))

	r0 := int(math.Floor(fr))
	c0 := int(math.Floor(fc))
	r1 := min(r0+1, src.Rows-1)
	c1 := min(c0+1, src.Cols-1)

	wr := fr - float64(r0)
	wc := fc - float64(c0)

	top := src.At(r0, c0)*(1-wc) + src.At(r0, c1)*wc
	bot := src.At(r1, c0)*(1-wc) + src.At(r1, c1)*wc

	return top*(1-wr) + bot*wr
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
