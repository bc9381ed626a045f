// Command correct extracts the amplitude of a CSLC product with thermal
// noise correction and / or radiometric normalization applied, and writes
// it as a georeferenced GeoTIFF.
package main

import (
	"flag"
	"log"
	"path"

	"github.com/sar-tools/cslc-correct/pkg/correct"
	"github.com/sar-tools/cslc-correct/pkg/cslc"
	"github.com/sar-tools/cslc-correct/pkg/grid"
	"github.com/sar-tools/cslc-correct/pkg/raster"
)

func main() {
	log.SetPrefix("[correct] ")
	log.SetFlags(log.Ldate | log.Ltime | log.LUTC)

	var cslcPath string
	var staticPath string
	var outPath string
	var pol string
	var quicklookPath string
	var noiseOff bool
	var radiometricOff bool

	flag.StringVar(&cslcPath, "c", "", "CSLC product file")
	flag.StringVar(&staticPath, "s", "", "CSLC static layer file")
	flag.StringVar(&outPath, "o", "", "path to the output file")
	flag.StringVar(&pol, "p", "VV", "polarization")
	flag.StringVar(&quicklookPath, "quicklook", "", "optional path for an 8-bit preview TIFF")
	flag.BoolVar(&noiseOff, "noise-correction-off", false, "turn off the noise correction")
	flag.BoolVar(&radiometricOff, "radiometric-normalization-off", false, "turn off the radiometric normalization")

	flag.Parse()

	cfg := correct.Config{
		ApplyNoise:       !noiseOff,
		ApplyRadiometric: !radiometricOff,
	}

	if !cfg.Enabled() {
		log.Printf("both corrections disabled, nothing to do")
		return
	}

	prod, err := cslc.Open(cslcPath)

	if err != nil {
		log.Fatalf("could not open CSLC product: %s", err)
	}
	defer prod.Close()

	amplitude, err := prod.ReadAmplitude(pol)

	if err != nil {
		log.Fatalf("could not read amplitude: %s", err)
	}

	gt, epsg, err := prod.ReadGridGeometry(path.Join(cslc.DataPath, pol))

	if err != nil {
		log.Fatalf("could not read grid geometry: %s", err)
	}

	log.Printf("read %dx%d %s amplitude, %s, extent %v",
		amplitude.Rows, amplitude.Cols, pol, epsg, gt.Bound(amplitude.Rows, amplitude.Cols))

	// at least one correction is on, so the static layers are always needed
	static, err := cslc.Open(staticPath)

	if err != nil {
		log.Fatalf("could not open static layer product: %s", err)
	}
	defer static.Close()

	var noise, factor *grid.Grid

	if cfg.ApplyNoise {
		noise, err = static.ResampleNoiseLUT(amplitude.Rows, amplitude.Cols, gt)

		if err != nil {
			log.Fatalf("could not read noise correction: %s", err)
		}
	}

	if cfg.ApplyRadiometric {
		factor, err = static.ReadRadiometricFactor()

		if err != nil {
			log.Fatalf("could not read radiometric normalization: %s", err)
		}
	}

	corrected, err := correct.Apply(amplitude, noise, factor)

	if err != nil {
		log.Fatalf("could not apply corrections: %s", err)
	}

	if err := raster.Save(corrected, gt, epsg, outPath); err != nil {
		log.Fatalf("could not save output: %s", err)
	}

	log.Printf("wrote %s", outPath)

	if quicklookPath != "" {
		if err := raster.SaveQuicklook(corrected, quicklookPath); err != nil {
			log.Fatalf("could not save quicklook: %s", err)
		}

		log.Printf("wrote %s", quicklookPath)
	}
}
