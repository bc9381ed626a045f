// Package correct applies thermal noise correction and radiometric
// normalization to CSLC amplitude grids.
//
// The thermal noise floor is an additive power estimate: amplitude is
// squared into the power domain, the noise estimate subtracted, the result
// clamped at zero (negative power has no physical meaning), and the square
// root taken back to amplitude. The radiometric factor is a per-pixel
// multiplicative gain applied afterwards, on the floored amplitude.
package correct

import (
	"fmt"
	"math"

	"github.com/sar-tools/cslc-correct/pkg/grid"
)

// Config selects which corrections an invocation applies.
type Config struct {
	ApplyNoise       bool
	ApplyRadiometric bool
}

// Enabled reports whether any correction is requested. Callers should skip
// the whole pipeline, including input reads, when it returns false.
func (c Config) Enabled() bool {
	return c.ApplyNoise || c.ApplyRadiometric
}

// ShapeMismatchError reports a correction grid whose dimensions differ from
// the amplitude grid's. Grids are never broadcast or truncated.
type ShapeMismatchError struct {
	Grid     string
	WantRows int
	WantCols int
	GotRows  int
	GotCols  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s grid is %dx%d, amplitude is %dx%d",
		e.Grid, e.GotRows, e.GotCols, e.WantRows, e.WantCols)
}

func checkShape(name string, amp, other *grid.Grid) error {
	if amp.SameShape(other) {
		return nil
	}

	return &ShapeMismatchError{
		Grid:     name,
		WantRows: amp.Rows,
		WantCols: amp.Cols,
		GotRows:  other.Rows,
		GotCols:  other.Cols,
	}
}

// ApplyNoise subtracts the noise power estimate from amp in the power
// domain and returns a new amplitude grid. amp is not modified.
func ApplyNoise(amp, noise *grid.Grid) (*grid.Grid, error) {
	if err := checkShape("noise", amp, noise); err != nil {
		return nil, err
	}

	out := amp.Copy()

	for i, a := range out.Data {
		p := a*a - noise.Data[i]
		if p < 0.0 {
			p = 0.0
		}
		out.Data[i] = math.Sqrt(p)
	}

	return out, nil
}

// ApplyRadiometric multiplies amp elementwise by the normalization factor
// and returns a new grid. amp is not modified.
func ApplyRadiometric(amp, factor *grid.Grid) (*grid.Grid, error) {
	if err := checkShape("radiometric", amp, factor); err != nil {
		return nil, err
	}

	out := amp.Copy()

	for i := range out.Data {
		out.Data[i] *= factor.Data[i]
	}

	return out, nil
}

// Apply runs the requested corrections in order: noise first, then
// radiometric normalization of the floored amplitude. A nil noise or
// factor grid skips the corresponding step. Shapes are checked up front so
// a mismatch in either grid aborts before any arithmetic.
func Apply(amp, noise, factor *grid.Grid) (*grid.Grid, error) {
	if noise != nil {
		if err := checkShape("noise", amp, noise); err != nil {
			return nil, err
		}
	}
	if factor != nil {
		if err := checkShape("radiometric", amp, factor); err != nil {
			return nil, err
		}
	}

	out := amp

	if noise != nil {
		var err error
		out, err = ApplyNoise(out, noise)
		if err != nil {
			return nil, err
		}
	}

	if factor != nil {
		var err error
		out, err = ApplyRadiometric(out, factor)
		if err != nil {
			return nil, err
		}
	}

	if out == amp {
		out = amp.Copy()
	}

	return out, nil
}
