// Package cslc reads CSLC products and their static-layer companions.
//
// Products are HDF5 containers. Amplitude is read from the per-polarization
// complex backscatter layer, grid geometry from the coordinate vectors
// stored alongside it, and the correction inputs (thermal noise LUT,
// radiometric normalization factor) from the static-layer product.
package cslc

import (
	"fmt"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/hdf5"

	"github.com/sar-tools/cslc-correct/pkg/grid"
)

// Dataset locations inside the containers.
const (
	DataPath     = "data"
	MetadataPath = "metadata"

	NoiseLUTPath          = MetadataPath + "/noise_information/thermal_noise_lut"
	RadiometricFactorPath = DataPath + "/radiometric_normalization_factor"

	xCoordinatesName = "x_coordinates"
	yCoordinatesName = "y_coordinates"
	projectionName   = "projection"
)

// DataAccessError reports a product that could not be read: a missing or
// malformed dataset, or an unreadable container.
type DataAccessError struct {
	Product string
	Dataset string
	Err     error
}

func (e *DataAccessError) Error() string {
	if e.Dataset == "" {
		return fmt.Sprintf("product %s: %v", e.Product, e.Err)
	}

	return fmt.Sprintf("product %s: dataset %s: %v", e.Product, e.Dataset, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// Product is an open CSLC or static-layer container.
type Product struct {
	path string
	root api.Group
}

func Open(path string) (*Product, error) {
	root, err := hdf5.Open(path)
	if err != nil {
		return nil, &DataAccessError{Product: path, Err: err}
	}

	return &Product{path: path, root: root}, nil
}

func (p *Product) Close() {
	p.root.Close()
}

func (p *Product) fail(dataset string, err error) *DataAccessError {
	return &DataAccessError{Product: p.path, Dataset: dataset, Err: err}
}

// group descends to the named group. The returned closer releases the
// intermediate groups; the root stays open until Product.Close.
func (p *Product) group(groupPath string) (api.Group, func(), error) {
	g := p.root
	opened := []api.Group{}

	closer := func() {
		for i := len(opened) - 1; i >= 0; i-- {
			opened[i].Close()
		}
	}

	for _, name := range strings.Split(groupPath, "/") {
		if name == "" {
			continue
		}

		sub, err := g.GetGroup(name)
		if err != nil {
			closer()
			return nil, nil, err
		}

		opened = append(opened, sub)
		g = sub
	}

	return g, closer, nil
}

func (p *Product) readGrid(groupPath, name string) (*grid.Grid, error) {
	g, done, err := p.group(groupPath)
	if err != nil {
		return nil, p.fail(groupPath+"/"+name, err)
	}
	defer done()

	v, err := g.GetVariable(name)
	if err != nil {
		return nil, p.fail(groupPath+"/"+name, err)
	}

	out, err := gridFromValues(v.Values)
	if err != nil {
		return nil, p.fail(groupPath+"/"+name, err)
	}

	return out, nil
}

// ReadAmplitude extracts the linear-scale amplitude of the named
// polarization channel. Complex layers are reduced to their magnitude.
func (p *Product) ReadAmplitude(pol string) (*grid.Grid, error) {
	return p.readGrid(DataPath, pol)
}

// ReadGridGeometry returns the geotransform and EPSG code of the dataset at
// datasetPath, both read from the grid metadata stored in the dataset's
// group: the x/y coordinate vectors (pixel centers) and the projection
// dataset holding the EPSG code.
func (p *Product) ReadGridGeometry(datasetPath string) (grid.Geotransform, grid.SpatialReference, error) {
	groupPath := datasetPath
	if i := strings.LastIndex(datasetPath, "/"); i >= 0 {
		groupPath = datasetPath[:i]
	}

	g, done, err := p.group(groupPath)
	if err != nil {
		return grid.Geotransform{}, 0, p.fail(datasetPath, err)
	}
	defer done()

	xs, err := readCoordinates(g, xCoordinatesName)
	if err != nil {
		return grid.Geotransform{}, 0, p.fail(groupPath+"/"+xCoordinatesName, err)
	}

	ys, err := readCoordinates(g, yCoordinatesName)
	if err != nil {
		return grid.Geotransform{}, 0, p.fail(groupPath+"/"+yCoordinatesName, err)
	}

	gt, err := geotransformFromCoords(xs, ys)
	if err != nil {
		return grid.Geotransform{}, 0, p.fail(groupPath, err)
	}

	proj, err := g.GetVariable(projectionName)
	if err != nil {
		return grid.Geotransform{}, 0, p.fail(groupPath+"/"+projectionName, err)
	}

	epsg, err := epsgFromValues(proj.Values)
	if err != nil {
		return grid.Geotransform{}, 0, p.fail(groupPath+"/"+projectionName, err)
	}

	return gt, grid.SpatialReference(epsg), nil
}

// ResampleNoiseLUT reads the stored thermal noise lookup table, which is
// coarser than the image grid, and bilinearly resamples it onto the target
// geometry. Target pixels outside the LUT extent clamp to its border.
func (p *Product) ResampleNoiseLUT(rows, cols int, gt grid.Geotransform) (*grid.Grid, error) {
	i := strings.LastIndex(NoiseLUTPath, "/")
	lutGroup, lutName := NoiseLUTPath[:i], NoiseLUTPath[i+1:]

	lut, err := p.readGrid(lutGroup, lutName)
	if err != nil {
		return nil, err
	}

	lutGT, _, err := p.ReadGridGeometry(NoiseLUTPath)
	if err != nil {
		return nil, err
	}

	out, err := resampleBilinear(lut, lutGT, rows, cols, gt)
	if err != nil {
		return nil, p.fail(NoiseLUTPath, err)
	}

	return out, nil
}

// ReadRadiometricFactor reads the per-pixel radiometric normalization gain.
// The static layers are produced on the image grid, so no resampling is
// needed.
func (p *Product) ReadRadiometricFactor() (*grid.Grid, error) {
	i := strings.LastIndex(RadiometricFactorPath, "/")

	return p.readGrid(RadiometricFactorPath[:i], RadiometricFactorPath[i+1:])
}
