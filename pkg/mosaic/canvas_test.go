package mosaic

import(
	"math"
	"testing"
)

// testCutout builds a w x h cutout at (col,row) covering cadences
// [100,103), fully masked in, with constant flux and error planes.
func testCutout(name string, col, row, w, h int, flux, fluxErr float32) Cutout {
	nCad := 3
	mask := make([]bool, w*h)
	for i := range mask {
		mask[i] = true
	}
	ct := Cutout{
		Name:         name,
		CornerCol:    col,
		CornerRow:    row,
		Width:        w,
		Height:       h,
		Aperture:     mask,
		FirstCadence: 100,
		FrameTimeSec: 6.02,
		NumFrames:    270,
		BJDRefInt:    2454833,
		BJDRefFrac:   0.0,
		IntTimeSec:   6.02,
		Gain:         110.0,
		ReadNoise:    85.0,
		Mission:      "k2",
		Campaign:     6,
		Channel:      15,
		Module:       5,
		Output:       3,
	}
	for c := 0; c < nCad; c++ {
		f := make([]float32, w*h)
		e := make([]float32, w*h)
		for i := range f {
			f[i], e[i] = flux, fluxErr
		}
		ct.Time = append(ct.Time, 2456000.5+float64(c)*0.02-float64(ct.BJDRefInt))
		ct.Quality = append(ct.Quality, 0)
		ct.Flux = append(ct.Flux, f)
		ct.FluxErr = append(ct.FluxErr, e)
	}
	return ct
}

func TestMergeComposite(t *testing.T) {
	c := NewCanvasWithShape("k2", 6, 15, 101, 10, 10)

	if err := c.Merge(testCutout("a.fits", 0, 0, 3, 3, 1.0, 0.1)); err != nil {
		t.Fatalf("merge a: %v", err)
	}
	if err := c.Merge(testCutout("b.fits", 5, 5, 2, 2, 2.0, 0.2)); err != nil {
		t.Fatalf("merge b: %v", err)
	}

	if got := c.Flux.Get(1, 1); got != 1.0 {
		t.Errorf("pixel (1,1): got %f, want 1.0", got)
	}
	if got := c.Flux.Get(6, 6); got != 2.0 {
		t.Errorf("pixel (6,6): got %f, want 2.0", got)
	}
	if got := c.Flux.Get(9, 9); !math.IsNaN(got) {
		t.Errorf("uncovered pixel (9,9): got %f, want NaN", got)
	}
	if !c.Initialized() {
		t.Errorf("canvas not initialized after successful merges")
	}
}

func TestMergeHonorsApertureMask(t *testing.T) {
	ct := testCutout("a.fits", 2, 2, 3, 3, 5.0, 0.5)
	// Mask out the center pixel (local row 1, col 1).
	ct.Aperture[1*ct.Width+1] = false

	c := NewCanvasWithShape("k2", 6, 15, 101, 10, 10)
	if err := c.Merge(ct); err != nil {
		t.Fatalf("merge: %v", err)
	}

	if got := c.Flux.Get(3, 3); !math.IsNaN(got) {
		t.Errorf("masked-out pixel (3,3): got %f, want NaN", got)
	}
	if got := c.Flux.Get(2, 2); got != 5.0 {
		t.Errorf("masked-in pixel (2,2): got %f, want 5.0", got)
	}
}

func TestMergeIdempotent(t *testing.T) {
	ct := testCutout("a.fits", 1, 1, 4, 4, 3.0, 0.3)

	c := NewCanvasWithShape("k2", 6, 15, 101, 10, 10)
	if err := c.Merge(ct); err != nil {
		t.Fatalf("merge: %v", err)
	}
	fluxOnce := c.Flux.Copy()
	uncertOnce := c.Uncert.Copy()

	if err := c.Merge(ct); err != nil {
		t.Fatalf("re-merge: %v", err)
	}
	if !c.Flux.Equal(fluxOnce) {
		t.Errorf("flux changed after re-merging the same cutout")
	}
	if !c.Uncert.Equal(uncertOnce) {
		t.Errorf("uncertainty changed after re-merging the same cutout")
	}
}

func TestMergeLastWriteWins(t *testing.T) {
	c := NewCanvasWithShape("k2", 6, 15, 101, 10, 10)
	if err := c.Merge(testCutout("a.fits", 0, 0, 3, 3, 1.0, 0.1)); err != nil {
		t.Fatalf("merge a: %v", err)
	}
	if err := c.Merge(testCutout("b.fits", 1, 1, 3, 3, 7.0, 0.7)); err != nil {
		t.Fatalf("merge b: %v", err)
	}

	// The overlap belongs to whoever merged last.
	if got := c.Flux.Get(1, 1); got != 7.0 {
		t.Errorf("overlap pixel (1,1): got %f, want 7.0", got)
	}
	// Non-overlapping pixels of the first cutout survive.
	if got := c.Flux.Get(0, 0); got != 1.0 {
		t.Errorf("pixel (0,0): got %f, want 1.0", got)
	}
}

func TestMergePlacementPolicy(t *testing.T) {
	offEdge := testCutout("off.fits", 8, 8, 3, 3, 1.0, 0.1)

	c := NewCanvasWithShape("k2", 6, 15, 101, 10, 10)
	if err := c.Merge(offEdge); err != nil {
		t.Fatalf("skip policy: got %v, want cutout skipped", err)
	}
	if got := len(c.Flux.DefinedValues()); got != 0 {
		t.Errorf("skip policy: %d pixels written, want 0", got)
	}

	c = NewCanvasWithShape("k2", 6, 15, 101, 10, 10)
	c.SkipBadPlacement = false
	err := c.Merge(offEdge)
	if _, ok := err.(*PlacementError); !ok {
		t.Errorf("strict policy: got %v, want *PlacementError", err)
	}
}

func TestMergeSkipsUncoveredCadence(t *testing.T) {
	ct := testCutout("a.fits", 0, 0, 3, 3, 1.0, 0.1) // covers [100,103)

	c := NewCanvasWithShape("k2", 6, 15, 99, 10, 10)
	if err := c.Merge(ct); err != nil {
		t.Fatalf("merge: got %v, want silent skip", err)
	}
	if got := len(c.Flux.DefinedValues()); got != 0 {
		t.Errorf("%d pixels written for an uncovered cadence, want 0", got)
	}
	if c.Initialized() {
		t.Errorf("canvas initialized by a cutout that doesn't cover the cadence")
	}
}

func TestMergeCorruptCadenceFatal(t *testing.T) {
	good := testCutout("good.fits", 0, 0, 3, 3, 1.0, 0.1)
	bad := testCutout("bad.fits", 5, 5, 2, 2, 2.0, 0.2)
	bad.Quality[1] = QualityDataGap | 8 // cadence 101 is a data gap

	c := NewCanvasWithShape("k2", 6, 15, 101, 10, 10)
	if err := c.Merge(good); err != nil {
		t.Fatalf("merge good: %v", err)
	}
	err := c.Merge(bad)
	cce, ok := err.(*CorruptCadenceError)
	if !ok {
		t.Fatalf("merge bad: got %v, want *CorruptCadenceError", err)
	}
	if cce.CadenceNo != 101 {
		t.Errorf("corrupt cadence number: got %d, want 101", cce.CadenceNo)
	}
	if cce.Quality&QualityDataGap == 0 {
		t.Errorf("corrupt cadence quality %d doesn't carry the data-gap bit", cce.Quality)
	}
}

func TestMergeNaNTimeFatal(t *testing.T) {
	ct := testCutout("a.fits", 0, 0, 3, 3, 1.0, 0.1)
	ct.Time[1] = math.NaN()

	c := NewCanvasWithShape("k2", 6, 15, 101, 10, 10)
	if _, ok := c.Merge(ct).(*CorruptCadenceError); !ok {
		t.Errorf("want *CorruptCadenceError for a NaN timestamp")
	}
}

func TestMergeBackgroundQuadrature(t *testing.T) {
	ct := testCutout("a.fits", 0, 0, 2, 2, 10.0, 3.0)
	for range ct.Time {
		bkg := make([]float32, 4)
		bkgErr := make([]float32, 4)
		for i := range bkg {
			bkg[i], bkgErr[i] = 1.5, 4.0
		}
		ct.FluxBkg = append(ct.FluxBkg, bkg)
		ct.FluxBkgErr = append(ct.FluxBkgErr, bkgErr)
	}

	c := NewCanvasWithShape("k2", 6, 15, 101, 10, 10)
	c.IncludeBackground = true
	if err := c.Merge(ct); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if got := c.Flux.Get(0, 0); got != 11.5 {
		t.Errorf("flux with background: got %f, want 11.5", got)
	}
	// sqrt(3^2 + 4^2) = 5
	if got := c.Uncert.Get(0, 0); math.Abs(got-5.0) > 1e-9 {
		t.Errorf("quadrature error: got %f, want 5.0", got)
	}
}

func TestMergeMetadataFirstCutoutWins(t *testing.T) {
	a := testCutout("a.fits", 0, 0, 3, 3, 1.0, 0.1)
	b := testCutout("b.fits", 5, 5, 2, 2, 2.0, 0.2)
	b.Gain = 999.0
	b.Module = 24

	c := NewCanvasWithShape("k2", 6, 15, 101, 10, 10)
	if err := c.Merge(a); err != nil {
		t.Fatalf("merge a: %v", err)
	}
	if err := c.Merge(b); err != nil {
		t.Fatalf("merge b: %v", err)
	}
	if c.Meta.Gain != a.Gain {
		t.Errorf("gain: got %f, want the first cutout's %f", c.Meta.Gain, a.Gain)
	}
	if c.Meta.Module != a.Module {
		t.Errorf("module: got %d, want the first cutout's %d", c.Meta.Module, a.Module)
	}
}
