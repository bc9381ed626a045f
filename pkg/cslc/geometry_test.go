package cslc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sar-tools/cslc-correct/pkg/grid"
)

func TestGeotransformFromCoords(t *testing.T) {
	// pixel centers at x=5,15,25 (10 m pixels) and y=95,85 (north-up)
	gt, err := geotransformFromCoords([]float64{5, 15, 25}, []float64{95, 85})
	require.NoError(t, err)

	assert.Equal(t, grid.Geotransform{0, 10, 0, 100, 0, -10}, gt)

	// first pixel center maps back to (5, 95)
	x, y := gt.Apply(0.5, 0.5)
	assert.Equal(t, 5.0, x)
	assert.Equal(t, 95.0, y)
}

func TestGeotransformFromCoordsErrors(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		ys   []float64
	}{
		{"too few x", []float64{5}, []float64{95, 85}},
		{"too few y", []float64{5, 15}, []float64{95}},
		{"uneven x spacing", []float64{5, 15, 30}, []float64{95, 85}},
		{"zero y spacing", []float64{5, 15}, []float64{95, 95}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := geotransformFromCoords(tt.xs, tt.ys)
			assert.Error(t, err)
		})
	}
}

func TestResampleBilinearIdentity(t *testing.T) {
	src, err := grid.New(2, 2)
	require.NoError(t, err)
	copy(src.Data, []float64{1, 2, 3, 4})

	gt := grid.Geotransform{0, 1, 0, 0, 0, -1}

	got, err := resampleBilinear(src, gt, 2, 2, gt)
	require.NoError(t, err)
	assert.InDeltaSlice(t, src.Data, got.Data, 1e-12)
}

func TestResampleBilinearUpsample(t *testing.T) {
	// 2x2 LUT over a 20x20 m extent, resampled to a 4x4 grid on the same
	// extent. Target centers fall between LUT centers, so interior values
	// interpolate and edge values clamp to the border samples.
	src, err := grid.New(2, 2)
	require.NoError(t, err)
	copy(src.Data, []float64{0, 10, 20, 30})

	srcGT := grid.Geotransform{0, 10, 0, 0, 0, -10}
	dstGT := grid.Geotransform{0, 5, 0, 0, 0, -5}

	got, err := resampleBilinear(src, srcGT, 4, 4, dstGT)
	require.NoError(t, err)

	// corner pixels clamp to the LUT corners
	assert.InDelta(t, 0.0, got.At(0, 0), 1e-12)
	assert.InDelta(t, 10.0, got.At(0, 3), 1e-12)
	assert.InDelta(t, 20.0, got.At(3, 0), 1e-12)
	assert.InDelta(t, 30.0, got.At(3, 3), 1e-12)

	// target pixel (1,1) center is at map (7.5, -7.5), i.e. fractional LUT
	// pixel (0.25, 0.25): 0*0.75*0.75 + 10*0.75*0.25 + 20*0.25*0.75 + 30*0.25*0.25
	assert.InDelta(t, 7.5, got.At(1, 1), 1e-12)

	// row interpolation only along the clamped left edge
	assert.InDelta(t, 5.0, got.At(1, 0), 1e-12)
}

func TestResampleBilinearRejectsRotation(t *testing.T) {
	src, err := grid.New(2, 2)
	require.NoError(t, err)

	rotated := grid.Geotransform{0, 1, 0.1, 0, 0, -1}
	straight := grid.Geotransform{0, 1, 0, 0, 0, -1}

	_, err = resampleBilinear(src, rotated, 2, 2, straight)
	assert.Error(t, err)

	_, err = resampleBilinear(src, straight, 2, 2, rotated)
	assert.Error(t, err)
}

func TestSampleBilinearClamps(t *testing.T) {
	src, err := grid.New(2, 2)
	require.NoError(t, err)
	copy(src.Data, []float64{1, 2, 3, 4})

	assert.Equal(t, 1.0, sampleBilinear(src, -5, -5))
	assert.Equal(t, 4.0, sampleBilinear(src, 10, 10))
	assert.Equal(t, 2.0, sampleBilinear(src, -1, 1))
}
