package raster

import(
	"bytes"
	"fmt"
	"os"

	"github.com/astrogo/fitsio"

	"k2mosaic/pkg/kmath"
)

// A Frame is the subset of a mosaic file the renderer needs: the flux
// grid plus a little provenance for annotating video frames.
type Frame struct {
	Filename  string
	Flux      *kmath.Grid
	CadenceNo int
	DateObs   string
}

// ReadFrame loads the flux block of a mosaic FITS file.
func ReadFrame(filename string) (*Frame, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("mosaic read '%s': %v", filename, err)
	}

	f, err := fitsio.Open(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("mosaic open '%s': %v", filename, err)
	}
	defer f.Close()

	if len(f.HDUs()) < 2 {
		return nil, fmt.Errorf("mosaic '%s': no image blocks", filename)
	}

	frame := Frame{Filename: filename}
	hdr := f.HDU(0).Header()
	if card := hdr.Get("CADENCEN"); card != nil {
		if v, ok := card.Value.(int); ok {
			frame.CadenceNo = v
		}
	}
	if card := hdr.Get("DATE-OBS"); card != nil {
		if v, ok := card.Value.(string); ok {
			frame.DateObs = v
		}
	}

	img, ok := f.HDU(1).(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("mosaic '%s': block 2 is not an image", filename)
	}
	axes := img.Header().Axes()
	if len(axes) != 2 {
		return nil, fmt.Errorf("mosaic '%s': flux block has %d axes, want 2", filename, len(axes))
	}

	vals := make([]float32, axes[0]*axes[1])
	if err := img.Read(&vals); err != nil {
		return nil, fmt.Errorf("mosaic '%s': flux read: %v", filename, err)
	}
	grid, err := kmath.GridFromFloat32s(vals, axes[0], axes[1])
	if err != nil {
		return nil, fmt.Errorf("mosaic '%s': %v", filename, err)
	}
	frame.Flux = grid

	return &frame, nil
}
