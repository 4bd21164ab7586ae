package mosaic

import(
	"image"
	"math"

	"k2mosaic/pkg/kmath"
)

// mergeAperture copies cadence sample idx of a cutout into the canvas
// grids over rect, but only where the aperture mask is set. Cells
// outside the mask keep whatever they held. Overlapping cutouts are
// last-write-wins: the copy fully overwrites masked cells, never
// accumulates, so re-merging a cutout is a no-op.
func mergeAperture(flux, uncert *kmath.Grid, rect image.Rectangle, ct Cutout, idx int, includeBackground bool) {
	for i:=0; i<ct.Height; i++ {
		for j:=0; j<ct.Width; j++ {
			if !ct.InAperture(i, j) {
				continue
			}
			x := rect.Min.X + j
			y := rect.Min.Y + i
			k := i*ct.Width + j

			f := float64(ct.Flux[idx][k])
			e := math.NaN()
			if ct.FluxErr != nil {
				e = float64(ct.FluxErr[idx][k])
			}

			if includeBackground && ct.FluxBkg != nil {
				f += float64(ct.FluxBkg[idx][k])
				if ct.FluxBkgErr != nil {
					// Independent errors combine in quadrature.
					be := float64(ct.FluxBkgErr[idx][k])
					e = math.Sqrt(e*e + be*be)
				}
			}

			flux.Set(x, y, f)
			uncert.Set(x, y, e)
		}
	}
}
