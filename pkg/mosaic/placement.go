package mosaic

import(
	"image"
)

// ResolvePlacement maps a cutout's declared corner and shape onto the
// half-open region [row, row+height) x [col, col+width) of the canvas.
// Returns a PlacementError when the region doesn't fit inside the
// canvas bounds, which signals a corrupt or mismatched cutout.
func ResolvePlacement(ct Cutout, canvasBounds image.Rectangle) (image.Rectangle, error) {
	rect := image.Rect(ct.CornerCol, ct.CornerRow, ct.CornerCol+ct.Width, ct.CornerRow+ct.Height)
	if !rect.In(canvasBounds) {
		return image.Rectangle{}, &PlacementError{Name: ct.Filename(), Rect: rect, CanvasBounds: canvasBounds}
	}
	return rect, nil
}
