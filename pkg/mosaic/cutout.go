package mosaic

import(
	"fmt"
	"path/filepath"
)

// A Cutout is one target pixel file, fully materialized: a small
// aperture-shaped pixel time series plus the placement and timing
// metadata needed to drop it onto a channel canvas. The canvas only
// ever reads from it.
//
// Per-cadence sample arrays (Flux etc.) are row-major [Height*Width],
// matching the FITS layout. Cadence numbers are contiguous and ascend
// by 1 from FirstCadence, so sample lookup is pure arithmetic.
type Cutout struct {
	Name         string  // where it came from, for logs and errors

	// Placement: absolute channel coords of the lower-left corner.
	CornerCol    int     // 1CRV5P
	CornerRow    int     // 2CRV5P
	Height       int
	Width        int
	Aperture     []bool  // row-major mask; true = pixel carries target flux

	// The per-cadence samples.
	FirstCadence int
	Time         []float64   // BJD - (BJDRefInt + BJDRefFrac), mid-cadence
	Quality      []uint32
	Flux         [][]float32
	FluxErr      [][]float32 // nil when the file carries no error plane
	FluxBkg      [][]float32
	FluxBkgErr   [][]float32

	// Instrument timing constants.
	FrameTimeSec float64 // FRAMETIM
	NumFrames    int     // NUM_FRM frames co-added per cadence
	BJDRefInt    int     // BJDREFI
	BJDRefFrac   float64 // BJDREFF
	IntTimeSec   float64 // INT_TIME photon accumulation per frame
	Gain         float64 // e-/count
	ReadNoise    float64

	// Identity.
	Mission      string  // "k2" or "kepler"
	Campaign     int     // K2 campaign, or Kepler quarter
	Channel      int
	Module       int
	Output       int
	KeplerID     int
}

func (ct Cutout)String() string {
	return fmt.Sprintf("%s: %dx%d @(col %d,row %d), cadences [%d,%d)",
		ct.Filename(), ct.Width, ct.Height, ct.CornerCol, ct.CornerRow,
		ct.FirstCadence, ct.FirstCadence+ct.NumCadences())
}

func (ct Cutout)Filename() string { return filepath.Base(ct.Name) }

// NumCadences is len(Time); the sample arrays are all this long.
func (ct Cutout)NumCadences() int { return len(ct.Time) }

func (ct Cutout)LastCadence() int { return ct.FirstCadence + ct.NumCadences() - 1 }

// InAperture reports whether local pixel (i row, j col) is masked in.
func (ct Cutout)InAperture(i, j int) bool { return ct.Aperture[i*ct.Width + j] }
