package cslc

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/sar-tools/cslc-correct/pkg/grid"
)

// gridFromValues converts a decoded 2-D dataset into a Grid. Complex
// layers (the CSLC backscatter itself) are reduced to their magnitude;
// real layers (LUTs, factors) are taken as-is.
func gridFromValues(values interface{}) (*grid.Grid, error) {
	switch rows := values.(type) {
	case [][]float64:
		return gridFrom2D(len(rows), func(r int) []float64 { return rows[r] })
	case [][]float32:
		return gridFrom2D(len(rows), func(r int) []float64 {
			out := make([]float64, len(rows[r]))
			for c, x := range rows[r] {
				out[c] = float64(x)
			}
			return out
		})
	case [][]complex64:
		return gridFrom2D(len(rows), func(r int) []float64 {
			out := make([]float64, len(rows[r]))
			for c, z := range rows[r] {
				out[c] = math.Hypot(float64(real(z)), float64(imag(z)))
			}
			return out
		})
	case [][]complex128:
		return gridFrom2D(len(rows), func(r int) []float64 {
			out := make([]float64, len(rows[r]))
			for c, z := range rows[r] {
				out[c] = cmplx.Abs(z)
			}
			return out
		})
	default:
		return nil, fmt.Errorf("unsupported dataset type %T, want a 2-D float or complex array", values)
	}
}

func gridFrom2D(rows int, row func(r int) []float64) (*grid.Grid, error) {
	if rows == 0 {
		return nil, fmt.Errorf("dataset has no rows")
	}

	cols := len(row(0))

	g, err := grid.New(rows, cols)
	if err != nil {
		return nil, err
	}

	for r := 0; r < rows; r++ {
		vals := row(r)
		if len(vals) != cols {
			return nil, fmt.Errorf("ragged dataset: row %d has %d columns, want %d", r, len(vals), cols)
		}

		copy(g.Data[r*cols:(r+1)*cols], vals)
	}

	return g, nil
}

// readCoordinates reads a 1-D coordinate vector (pixel-center map
// coordinates along one axis).
func readCoordinates(g api.Group, name string) ([]float64, error) {
	v, err := g.GetVariable(name)
	if err != nil {
		return nil, err
	}

	switch vals := v.Values.(type) {
	case []float64:
		return vals, nil
	case []float32:
		out := make([]float64, len(vals))
		for i, x := range vals {
			out[i] = float64(x)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("coordinate vector %s has type %T, want a 1-D float array", name, vals)
	}
}

// epsgFromValues extracts the EPSG code from the projection dataset, which
// is stored as a scalar integer.
func epsgFromValues(values interface{}) (int, error) {
	switch v := values.(type) {
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case int16:
		return int(v), nil
	case uint32:
		return int(v), nil
	case []int64:
		if len(v) == 1 {
			return int(v[0]), nil
		}
	case []int32:
		if len(v) == 1 {
			return int(v[0]), nil
		}
	}

	return 0, fmt.Errorf("projection dataset has type %T, want a scalar integer EPSG code", values)
}
