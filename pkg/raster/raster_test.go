package raster

import(
	"math"
	"path/filepath"
	"testing"

	"k2mosaic/pkg/mosaic"
)

func TestHeaderCards(t *testing.T) {
	cards := headerCards([]mosaic.Keyword{
		mosaic.Present("GAIN", 110.0, "channel gain"),
		mosaic.Undefined("LIVETIME", "not meaningful here"),
		mosaic.Absent("NOPE"),
	})

	// DATE always leads.
	if cards[0].Name != "DATE" {
		t.Errorf("first card: got %s, want DATE", cards[0].Name)
	}

	byName := map[string]interface{}{}
	for _, c := range cards {
		byName[c.Name] = c.Value
	}
	if byName["GAIN"] != 110.0 {
		t.Errorf("GAIN: got %v", byName["GAIN"])
	}
	if v, ok := byName["LIVETIME"]; !ok || v != "" {
		t.Errorf("undefined keyword should be a blank-valued card, got %v/%v", v, ok)
	}
	if _, ok := byName["NOPE"]; ok {
		t.Errorf("absent keyword should not be written at all")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	c := mosaic.NewCanvasWithShape("k2", 6, 15, 3051, 12, 9)
	for y := 2; y < 7; y++ {
		for x := 3; x < 9; x++ {
			c.Flux.Set(x, y, float64(x*y))
			c.Uncert.Set(x, y, 0.5)
		}
	}
	r := c.Finalize()

	filename := filepath.Join(t.TempDir(), r.Filename("k2mosaic"))
	if err := Write(r, filename); err != nil {
		t.Fatalf("write: %v", err)
	}

	frame, err := ReadFrame(filename)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if frame.CadenceNo != 3051 {
		t.Errorf("cadence: got %d, want 3051", frame.CadenceNo)
	}
	if frame.Flux.Dx() != 12 || frame.Flux.Dy() != 9 {
		t.Fatalf("dims: got %dx%d, want 12x9", frame.Flux.Dx(), frame.Flux.Dy())
	}
	if got := frame.Flux.Get(4, 3); got != 12.0 {
		t.Errorf("pixel (4,3): got %f, want 12.0", got)
	}
	if got := frame.Flux.Get(0, 0); !math.IsNaN(got) {
		t.Errorf("unmerged pixel (0,0): got %f, want NaN", got)
	}
}
