package mosaic

import(
	"image"
	"log"

	"k2mosaic/pkg/kmath"
)

// The fixed dimensions of one Kepler CCD channel readout.
const (
	ChannelRows = 1070
	ChannelCols = 1132
)

type canvasState int

const (
	canvasUninitialized canvasState = iota
	canvasInitialized
)

// A Canvas assembles an artificial full-channel image for one cadence
// by compositing target pixel cutouts. It owns its flux and
// uncertainty grids outright; one canvas, one writer, no locking.
// Merge cutouts in whatever order you like, then Finalize once.
type Canvas struct {
	Meta   ChannelMeta
	Flux   *kmath.Grid
	Uncert *kmath.Grid

	// IncludeBackground adds the background flux back into each pixel
	// and combines the two error planes in quadrature.
	IncludeBackground bool

	// SkipBadPlacement controls the PlacementError policy: true (the
	// default) logs and skips the offending cutout, false fails the
	// whole canvas.
	SkipBadPlacement  bool

	state canvasState
}

// NewCanvas makes an empty channel canvas for one (campaign, channel,
// cadence) output unit. Canvases are single-use: assemble, finalize,
// discard.
func NewCanvas(mission string, campaign, channel, cadenceNo int) *Canvas {
	return NewCanvasWithShape(mission, campaign, channel, cadenceNo, ChannelCols, ChannelRows)
}

// NewCanvasWithShape is NewCanvas with explicit dimensions, for tests
// and for instruments with other channel geometries.
func NewCanvasWithShape(mission string, campaign, channel, cadenceNo, cols, rows int) *Canvas {
	return &Canvas{
		Meta: ChannelMeta{
			Mission:   mission,
			Campaign:  campaign,
			Channel:   channel,
			CadenceNo: cadenceNo,
		},
		Flux:             kmath.NewGrid(cols, rows),
		Uncert:           kmath.NewGrid(cols, rows),
		SkipBadPlacement: true,
	}
}

func (c *Canvas)Bounds() image.Rectangle {
	return image.Rect(0, 0, c.Flux.Dx(), c.Flux.Dy())
}

func (c *Canvas)Initialized() bool { return c.state == canvasInitialized }

// Merge composites one cutout into the canvas: resolve its placement,
// locate the requested cadence in its sample table, validate and (first
// time only) derive the channel metadata, then copy the masked pixels.
//
// A cutout that doesn't cover the cadence is skipped silently. A
// corrupt cadence is fatal and leaves the canvas unusable.
func (c *Canvas)Merge(ct Cutout) error {
	rect, err := ResolvePlacement(ct, c.Bounds())
	if err != nil {
		if c.SkipBadPlacement {
			log.Printf("Skipping cutout: %v", err)
			return nil
		}
		return err
	}

	idx, err := LocateCadence(c.Meta.CadenceNo, ct.FirstCadence, ct.NumCadences())
	if err != nil {
		return nil // cutout doesn't cover this cadence
	}

	if err := c.Meta.accumulate(ct, idx, c.Initialized()); err != nil {
		return err
	}
	c.state = canvasInitialized

	mergeAperture(c.Flux, c.Uncert, rect, ct, idx, c.IncludeBackground)
	return nil
}
