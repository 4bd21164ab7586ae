package video

import(
	"fmt"
	"image/color"
	"log"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var Colormaps = []string{"gray", "heat", "blue"}

func ListColormaps() string {
	return fmt.Sprintf("%v", Colormaps)
}

// A Colormap maps a stretched sample in [0,1] to an output color.
type Colormap interface {
	At(t float64) color.Color
}

// gradient interpolates between keypoint colors in Luv space, which
// keeps perceived brightness monotonic along the ramp.
type gradient []struct {
	col colorful.Color
	pos float64
}

func (g gradient)At(t float64) color.Color {
	if t < 0 { t = 0 }
	if t > 1 { t = 1 }
	for i := 0; i < len(g)-1; i++ {
		a, b := g[i], g[i+1]
		if t < a.pos || t > b.pos {
			continue
		}
		frac := (t - a.pos) / (b.pos - a.pos)
		return a.col.BlendLuv(b.col, frac).Clamped()
	}
	return g[len(g)-1].col
}

func GetColormap(name string) Colormap {
	switch name {
	case "", "gray":
		return gradient{
			{colorful.Color{R: 0, G: 0, B: 0}, 0.0},
			{colorful.Color{R: 1, G: 1, B: 1}, 1.0},
		}
	case "heat":
		return gradient{
			{colorful.Color{R: 0, G: 0, B: 0}, 0.0},
			{colorful.Color{R: 0.7, G: 0.1, B: 0}, 0.35},
			{colorful.Color{R: 1, G: 0.6, B: 0}, 0.7},
			{colorful.Color{R: 1, G: 1, B: 1}, 1.0},
		}
	case "blue":
		return gradient{
			{colorful.Color{R: 0, G: 0, B: 0.05}, 0.0},
			{colorful.Color{R: 0.1, G: 0.3, B: 0.7}, 0.5},
			{colorful.Color{R: 0.9, G: 0.95, B: 1}, 1.0},
		}
	default:
		log.Fatalf("no colormap named '%s', wanted %s", name, ListColormaps())
		return nil
	}
}
