package pipeline

import(
	"fmt"
	"log"
	"runtime"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"

	"k2mosaic/pkg/mast"
	"k2mosaic/pkg/mosaic"
	"k2mosaic/pkg/raster"
	"k2mosaic/pkg/tpf"
	"k2mosaic/pkg/wcsref"
)

// LoadCutouts materializes every target pixel file up front. The
// cutouts are shared read-only by all the canvases afterwards, so each
// file is read exactly once however many cadences get mosaicked.
func LoadCutouts(cfg Config, filenames []string) ([]mosaic.Cutout, error) {
	bar := progressbar.Default(int64(len(filenames)), "Reading target pixel files")
	cutouts := make([]mosaic.Cutout, 0, len(filenames))
	for _, filename := range filenames {
		var ct mosaic.Cutout
		var err error
		if strings.HasPrefix(filename, "http://") || strings.HasPrefix(filename, "https://") {
			var raw []byte
			if raw, err = mast.Download(filename); err == nil {
				ct, err = tpf.ReadBytes(filename, raw)
			}
		} else {
			ct, err = tpf.Read(filename)
		}
		if err != nil {
			return nil, err
		}
		cutouts = append(cutouts, ct)
		bar.Add(1)
	}
	return cutouts, nil
}

type mosaicJob struct {
	CadenceNo int
	Err       error
}

// Run assembles one mosaic per requested cadence and writes each to
// its own FITS file. Canvases are independent, so they fan out over a
// worker pool; each worker owns its canvas outright and nothing is
// shared but the read-only cutouts.
//
// A fatal assembly error (corrupt cadence, bad placement under the
// strict policy) abandons that cadence's output unit; no file appears
// for it. Other cadences carry on.
func Run(cfg Config, cutouts []mosaic.Cutout, cadences []int) error {
	if len(cutouts) == 0 {
		return fmt.Errorf("no cutouts to mosaic")
	}
	ref := cutouts[0]

	refKeywords, err := wcsref.Lookup(ref.Campaign, ref.Channel)
	if err != nil {
		log.Printf("Warning: no astrometric reference for campaign %d channel %d; "+
			"mosaics will not carry a WCS solution "+
			"(harvest one from local FFIs with 'k2mosaic wcs-export')", ref.Campaign, ref.Channel)
		refKeywords = nil
	}

	nWorkers := cfg.Workers
	if nWorkers < 1 {
		nWorkers = runtime.NumCPU()
	}

	var wg sync.WaitGroup
	jobsChan := make(chan mosaicJob, len(cadences))
	resultsChan := make(chan mosaicJob, len(cadences))

	for i:=0; i<nWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobsChan {
				job.Err = mosaicOne(cfg, cutouts, refKeywords, job.CadenceNo)
				resultsChan<- job
			}
		}()
	}

	for _, cadenceNo := range cadences {
		jobsChan<- mosaicJob{CadenceNo: cadenceNo}
	}
	close(jobsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	bar := progressbar.Default(int64(len(cadences)), "Mosaicking")
	failed := 0
	for result := range resultsChan {
		if result.Err != nil {
			failed++
			log.Printf("Cadence %d failed: %v", result.CadenceNo, result.Err)
		}
		bar.Add(1)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d cadences failed", failed, len(cadences))
	}
	return nil
}

// mosaicOne assembles and writes a single output unit: one canvas, one
// cadence, one file. Serialization only happens once every merge has
// succeeded, so a fatal error never leaves a partial file behind.
func mosaicOne(cfg Config, cutouts []mosaic.Cutout, refKeywords []mosaic.Keyword, cadenceNo int) error {
	ref := cutouts[0]
	canvas := mosaic.NewCanvas(ref.Mission, ref.Campaign, ref.Channel, cadenceNo)
	canvas.IncludeBackground = cfg.IncludeBackground
	canvas.SkipBadPlacement = cfg.SkipBadPlacement

	for _, ct := range cutouts {
		if err := canvas.Merge(ct); err != nil {
			return err
		}
	}

	r := canvas.Finalize()
	if refKeywords != nil {
		r.InjectKeywords(refKeywords)
	}

	filename := r.Filename(cfg.OutputPrefix)
	if err := raster.Write(r, filename); err != nil {
		return err
	}
	if cfg.Verbosity > 0 {
		log.Printf("Wrote %s (%s)", filename, r.Flux.Stats())
	}
	return nil
}
