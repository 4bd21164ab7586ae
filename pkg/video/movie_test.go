package video

import(
	"image"
	"os"
	"path/filepath"
	"testing"

	"k2mosaic/pkg/mosaic"
	"k2mosaic/pkg/raster"
)

// writeTestMosaic writes a real mosaic FITS file with a w x h flux
// grid whose interior cells are defined.
func writeTestMosaic(t *testing.T, filename string, cadenceNo, w, h int) {
	t.Helper()
	c := mosaic.NewCanvasWithShape("k2", 6, 15, cadenceNo, w, h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			c.Flux.Set(x, y, float64(100+x+y))
			c.Uncert.Set(x, y, 1.0)
		}
	}
	if err := raster.Write(c.Finalize(), filename); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func TestWriteFramesKeepsLabelsWhenFramesSkipped(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "cad100.fits")
	b := filepath.Join(dir, "cad101.fits")
	c := filepath.Join(dir, "cad102.fits")
	writeTestMosaic(t, a, 100, 12, 10)
	// The middle mosaic is too small for the framing locked from the
	// first one, so rendering it fails and it gets skipped.
	writeTestMosaic(t, b, 101, 4, 4)
	writeTestMosaic(t, c, 102, 12, 10)

	opts := NewRenderOptions()
	opts.Scale = 1
	m := NewMovie([]string{a, b, c}, opts)

	outDir := t.TempDir()
	if err := m.WriteFrames(outDir); err != nil {
		t.Fatalf("write frames: %v", err)
	}

	for _, want := range []string{"videoframe-cad100.png", "videoframe-cad102.png"} {
		if _, err := os.Stat(filepath.Join(outDir, want)); err != nil {
			t.Errorf("missing %s: %v", want, err)
		}
	}
	// The skipped mosaic must not leave a mislabeled frame behind.
	if _, err := os.Stat(filepath.Join(outDir, "videoframe-cad101.png")); err == nil {
		t.Errorf("videoframe-cad101.png exists, but cad101 was skipped")
	}
}

func TestRenderRejectsCropOutsideMosaic(t *testing.T) {
	frame := testFrame(6, 6)
	opts := NewRenderOptions()
	opts.Crop = image.Rect(-2, -2, 8, 8)
	if _, err := Render(frame, opts); err == nil {
		t.Errorf("crop beyond the mosaic should fail, not read out of range")
	}
}

func TestWriteGIF(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "cad100.fits")
	b := filepath.Join(dir, "cad101.fits")
	writeTestMosaic(t, a, 100, 12, 10)
	writeTestMosaic(t, b, 101, 12, 10)

	opts := NewRenderOptions()
	opts.Scale = 1
	m := NewMovie([]string{a, b}, opts)

	out := filepath.Join(t.TempDir(), "movie.gif")
	if err := m.WriteGIF(out); err != nil {
		t.Fatalf("write gif: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil || info.Size() == 0 {
		t.Errorf("gif not written: %v", err)
	}
}
