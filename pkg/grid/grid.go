// Package grid holds the raster data model shared by the correction
// pipeline: a row-major float64 grid, the affine geotransform tying it to
// map coordinates, and the EPSG code naming its coordinate system.
package grid

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Grid is a single-band raster, stored row-major: Data[row*Cols+col].
type Grid struct {
	Rows int
	Cols int
	Data []float64
}

func New(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", rows, cols)
	}

	return &Grid{
		Rows: rows,
		Cols: cols,
		Data: make([]float64, rows*cols),
	}, nil
}

func (g *Grid) At(row, col int) float64 {
	return g.Data[row*g.Cols+col]
}

func (g *Grid) Set(row, col int, v float64) {
	g.Data[row*g.Cols+col] = v
}

func (g *Grid) Shape() (rows, cols int) {
	return g.Rows, g.Cols
}

func (g *Grid) SameShape(o *Grid) bool {
	return o != nil && g.Rows == o.Rows && g.Cols == o.Cols
}

// Copy returns a new grid with the same shape and values.
func (g *Grid) Copy() *Grid {
	c := &Grid{
		Rows: g.Rows,
		Cols: g.Cols,
		Data: make([]float64, len(g.Data)),
	}
	copy(c.Data, g.Data)

	return c
}

// Geotransform is the affine map from pixel to map coordinates, in GDAL
// coefficient order: origin X, pixel width, row rotation, origin Y,
// column rotation, pixel height (negative for north-up rasters).
type Geotransform [6]float64

// Apply maps a fractional pixel position to map coordinates. Pixel (0,0)
// maps the upper-left corner of the upper-left pixel; add 0.5 to each
// index for the pixel center.
func (gt Geotransform) Apply(row, col float64) (x, y float64) {
	x = gt[0] + col*gt[1] + row*gt[2]
	y = gt[3] + col*gt[4] + row*gt[5]

	return x, y
}

// Bound returns the georeferenced extent of a rows x cols raster under gt.
func (gt Geotransform) Bound(rows, cols int) orb.Bound {
	b := orb.Bound{
		Min: orb.Point{gt[0], gt[3]},
		Max: orb.Point{gt[0], gt[3]},
	}

	corners := [][2]float64{
		{0, 0},
		{0, float64(cols)},
		{float64(rows), 0},
		{float64(rows), float64(cols)},
	}

	for _, c := range corners {
		x, y := gt.Apply(c[0], c[1])
		b = b.Extend(orb.Point{x, y})
	}

	return b
}

// SpatialReference is an EPSG code. It is carried through the pipeline as
// an integer and only expanded to a projection definition at write time.
type SpatialReference int

func (sr SpatialReference) String() string {
	return fmt.Sprintf("EPSG:%d", int(sr))
}
