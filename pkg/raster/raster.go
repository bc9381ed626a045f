// Package raster writes corrected amplitude grids to georeferenced
// GeoTIFF files, and optionally to small 8-bit quicklook previews.
package raster

import (
	"fmt"
	"os"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/sar-tools/cslc-correct/pkg/grid"
)

var registerDrivers sync.Once

// InvalidSpatialReferenceError reports an EPSG code that does not resolve
// to a known coordinate reference system.
type InvalidSpatialReferenceError struct {
	EPSG int
	Err  error
}

func (e *InvalidSpatialReferenceError) Error() string {
	return fmt.Sprintf("EPSG:%d is not a valid spatial reference: %v", e.EPSG, e.Err)
}

func (e *InvalidSpatialReferenceError) Unwrap() error {
	return e.Err
}

// WriteError reports a destination that could not be created or written.
// The destination is removed on a mid-write failure, so a file that exists
// after Save returned is complete.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Save writes g as a single-band Float32 GeoTIFF at path, LZW-compressed
// and BigTIFF-enabled so mosaics past the classic 4 GiB limit still write.
// The spatial reference is resolved from the EPSG code before the file is
// created, so an invalid code never produces an output file.
func Save(g *grid.Grid, gt grid.Geotransform, epsg grid.SpatialReference, path string) error {
	registerDrivers.Do(godal.RegisterAll)

	srs, err := godal.NewSpatialRefFromEPSG(int(epsg))
	if err != nil {
		return &InvalidSpatialReferenceError{EPSG: int(epsg), Err: err}
	}
	defer srs.Close()

	ds, err := godal.Create(godal.GTiff, path, 1, godal.Float32, g.Cols, g.Rows,
		godal.CreationOption("COMPRESS=LZW", "BIGTIFF=YES"))
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	abort := func(err error) error {
		ds.Close()
		os.Remove(path)

		return &WriteError{Path: path, Err: err}
	}

	if err := ds.SetGeoTransform([6]float64(gt)); err != nil {
		return abort(err)
	}

	if err := ds.SetSpatialRef(srs); err != nil {
		return abort(err)
	}

	buf := make([]float32, len(g.Data))
	for i, v := range g.Data {
		buf[i] = float32(v)
	}

	if err := ds.Bands()[0].Write(0, 0, buf, g.Cols, g.Rows); err != nil {
		return abort(err)
	}

	if err := ds.Close(); err != nil {
		os.Remove(path)

		return &WriteError{Path: path, Err: err}
	}

	return nil
}
