package kmath

import(
	"fmt"
	"image"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// A Grid is a channel-sized raster of float64 samples. Cells start out
// undefined (NaN), and stay that way until a merge writes to them.
type Grid struct {
	stride int
	values []float64
}

// NewGrid returns a w x h grid with every cell undefined.
func NewGrid(w, h int) *Grid {
	g := Grid{
		stride: w,
		values: make([]float64, w*h),
	}
	g.Fill(math.NaN())
	return &g
}

// Fill sets every cell to v. Fill(NaN) resets the grid to undefined.
func (g *Grid)Fill(v float64) {
	for i := range g.values {
		g.values[i] = v
	}
}

func (g *Grid)NewFromThis() *Grid          { return NewGrid(g.Dx(), g.Dy()) }
func (g *Grid)Set(x, y int, v float64)     { g.values[g.stride*y + x] = v }
func (g *Grid)Get(x, y int) float64        { return g.values[g.stride*y + x] }
func (g *Grid)Dx() int                     { return g.stride }
func (g *Grid)Dy() int                     { return len(g.values) / g.stride }
func (g *Grid)Defined(x, y int) bool       { return !math.IsNaN(g.Get(x, y)) }

func (g *Grid)Copy() *Grid {
	g2 := Grid{stride: g.stride, values: make([]float64, len(g.values))}
	copy(g2.values, g.values)
	return &g2
}

// Equal compares two grids cell by cell. NaN cells compare equal to
// NaN cells, which is what we want when comparing canvases.
func (g *Grid)Equal(g2 *Grid) bool {
	if g.stride != g2.stride || len(g.values) != len(g2.values) {
		return false
	}
	for i := range g.values {
		a, b := g.values[i], g2.values[i]
		if math.IsNaN(a) && math.IsNaN(b) {
			continue
		}
		if a != b {
			return false
		}
	}
	return true
}

// DefinedValues returns every non-NaN cell value, in no particular order.
func (g *Grid)DefinedValues() []float64 {
	vals := []float64{}
	for _, v := range g.values {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	return vals
}

// DefinedBounds returns the bounding box of the defined cells, so that a
// renderer can crop a mostly-empty channel down to where the data is.
func (g *Grid)DefinedBounds() (image.Rectangle, bool) {
	found := false
	r := image.Rectangle{}
	for y:=0; y<g.Dy(); y++ {
		for x:=0; x<g.Dx(); x++ {
			if math.IsNaN(g.Get(x, y)) {
				continue
			}
			p := image.Point{x, y}
			if !found {
				r = image.Rectangle{Min:p, Max:p.Add(image.Point{1,1})}
				found = true
			} else {
				r = growRectangle(r, p)
			}
		}
	}
	return r, found
}

func growRectangle(r image.Rectangle, p image.Point) image.Rectangle {
	if p.X < r.Min.X   { r.Min.X = p.X }
	if p.X >= r.Max.X  { r.Max.X = p.X+1 }
	if p.Y < r.Min.Y   { r.Min.Y = p.Y }
	if p.Y >= r.Max.Y  { r.Max.Y = p.Y+1 }
	return r
}

// CutLevels finds display stretch levels at the given percentiles (in
// [0,1]) over the defined cells.
func (g *Grid)CutLevels(minPrct, maxPrct float64) (float64, float64, error) {
	vals := g.DefinedValues()
	if len(vals) == 0 {
		return 0, 0, fmt.Errorf("cut levels: grid has no defined cells")
	}
	sort.Float64s(vals)
	lo := stat.Quantile(minPrct, stat.Empirical, vals, nil)
	hi := stat.Quantile(maxPrct, stat.Empirical, vals, nil)
	return lo, hi, nil
}

func (g *Grid)Stats() string {
	min, max := math.MaxFloat64, -math.MaxFloat64
	n := 0
	for _, v := range g.values {
		if math.IsNaN(v) {
			continue
		}
		n++
		if v > max { max = v }
		if v < min { min = v }
	}
	if n == 0 {
		return fmt.Sprintf("grid[%dx%d, empty]", g.Dx(), g.Dy())
	}
	return fmt.Sprintf("grid[%dx%d, %d defined, vals{%f,%f}]", g.Dx(), g.Dy(), n, min, max)
}

// Float32s flattens the grid row-major into float32s, the layout FITS
// image blocks use.
func (g *Grid)Float32s() []float32 {
	out := make([]float32, len(g.values))
	for i, v := range g.values {
		out[i] = float32(v)
	}
	return out
}

// GridFromFloat32s is the inverse of Float32s.
func GridFromFloat32s(vals []float32, w, h int) (*Grid, error) {
	if len(vals) != w*h {
		return nil, fmt.Errorf("grid from float32s: got %d values, want %dx%d", len(vals), w, h)
	}
	g := Grid{stride: w, values: make([]float64, len(vals))}
	for i, v := range vals {
		g.values[i] = float64(v)
	}
	return &g, nil
}
