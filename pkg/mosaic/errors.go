package mosaic

import(
	"fmt"
	"image"
)

// A PlacementError means a cutout claims to sit (partly) outside the
// channel. The canvas either skips the cutout or gives up entirely,
// depending on Canvas.SkipBadPlacement.
type PlacementError struct {
	Name         string
	Rect         image.Rectangle
	CanvasBounds image.Rectangle
}

func (e *PlacementError)Error() string {
	return fmt.Sprintf("cutout %q placed at %v, outside channel %v", e.Name, e.Rect, e.CanvasBounds)
}

// A CadenceNotFoundError means a cutout simply doesn't cover the
// requested cadence. Not every target was observed for the whole
// campaign, so the canvas skips the cutout without complaint.
type CadenceNotFoundError struct {
	CadenceNo    int
	FirstCadence int
	NumCadences  int
}

func (e *CadenceNotFoundError)Error() string {
	return fmt.Sprintf("cadence %d not in [%d,%d)", e.CadenceNo,
		e.FirstCadence, e.FirstCadence+e.NumCadences)
}

// A CorruptCadenceError means the instrument flagged the requested
// cadence as unusable. Fatal for the whole canvas: there is no
// trustworthy data for this instant, so no mosaic gets written.
type CorruptCadenceError struct {
	Name      string
	CadenceNo int
	Quality   uint32
}

func (e *CorruptCadenceError)Error() string {
	return fmt.Sprintf("cutout %q: cadence %d flagged unusable (quality 0x%x)", e.Name, e.CadenceNo, e.Quality)
}
