// Package video turns mosaic rasters into viewable frames and movies.
// Channel mosaics are sparse and have a huge dynamic range, so the
// renderer crops to the defined cells, stretches between percentile
// cut levels, and log-scales before mapping to a colormap.
package video

import(
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/skypies/util/histogram"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/goregular"

	"k2mosaic/pkg/kmath"
	"k2mosaic/pkg/raster"
)

type RenderOptions struct {
	Crop       image.Rectangle // zero value = crop to the defined cells
	MinPercent float64         // percentile cut levels, in percent
	MaxPercent float64
	CutMin     float64         // explicit cut levels; used when CutSet
	CutMax     float64
	CutSet     bool
	Colormap   string          // "gray" (default) or "heat"
	Scale      int             // output pixels per channel pixel
	Annotate   bool            // burn cadence/date into the frame
	Verbosity  int
}

func NewRenderOptions() RenderOptions {
	return RenderOptions{
		MinPercent: 10.0,
		MaxPercent: 99.5,
		Colormap:   "gray",
		Scale:      4,
	}
}

// undefined cells render as the dull background, so gaps read as gaps
var backgroundColor = color.RGBA{0x33, 0x33, 0x33, 0xff}

// Render maps one mosaic frame to an RGBA image.
func Render(frame *raster.Frame, opts RenderOptions) (*image.RGBA, error) {
	g := frame.Flux

	crop := opts.Crop
	if crop.Empty() {
		defined, ok := g.DefinedBounds()
		if !ok {
			return nil, fmt.Errorf("render %s: mosaic has no defined cells", frame.Filename)
		}
		crop = defined
	}
	if !crop.In(image.Rect(0, 0, g.Dx(), g.Dy())) {
		return nil, fmt.Errorf("render %s: crop %v outside the %dx%d mosaic",
			frame.Filename, crop, g.Dx(), g.Dy())
	}

	lo, hi := opts.CutMin, opts.CutMax
	if !opts.CutSet {
		var err error
		lo, hi, err = g.CutLevels(opts.MinPercent/100.0, opts.MaxPercent/100.0)
		if err != nil {
			return nil, fmt.Errorf("render %s: %v", frame.Filename, err)
		}
	}

	if opts.Verbosity > 0 {
		logFluxHistogram(g, frame.Filename)
		log.Printf("Render %s: crop %v, cut levels [%.1f, %.1f]", frame.Filename, crop, lo, hi)
	}

	cmap := GetColormap(opts.Colormap)
	small := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	for y := crop.Min.Y; y < crop.Max.Y; y++ {
		for x := crop.Min.X; x < crop.Max.X; x++ {
			// Flip vertically: channel row 0 belongs at the bottom.
			oy := crop.Max.Y - 1 - y
			v := g.Get(x, y)
			if math.IsNaN(v) {
				small.SetRGBA(x-crop.Min.X, oy, backgroundColor)
				continue
			}
			small.Set(x-crop.Min.X, oy, cmap.At(logStretch(v, lo, hi)))
		}
	}

	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, crop.Dx()*scale, crop.Dy()*scale))
	draw.NearestNeighbor.Scale(out, out.Bounds(), small, small.Bounds(), draw.Src, nil)

	if opts.Annotate {
		if err := annotate(out, frame); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// logStretch maps v into [0,1] with a log curve between the cut levels.
func logStretch(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	if v < lo { v = lo }
	if v > hi { v = hi }
	return math.Log10(v-lo+1.0) / math.Log10(hi-lo+1.0)
}

func annotate(img *image.RGBA, frame *raster.Frame) error {
	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("annotate: parsing font: %v", err)
	}

	dc := gg.NewContextForRGBA(img)
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: 16}))
	dc.SetRGB(1, 1, 1)
	label := fmt.Sprintf("cadence %d", frame.CadenceNo)
	if frame.DateObs != "" {
		label += "  " + frame.DateObs
	}
	dc.DrawString(label, 10, float64(img.Bounds().Dy())-10)
	return nil
}

// logFluxHistogram logs the distribution of log2(flux) across the
// defined cells; handy when hand-picking cut levels.
func logFluxHistogram(g *kmath.Grid, name string) {
	hist := histogram.Histogram{NumBuckets: 64, ValMin: 0, ValMax: 32}
	for _, v := range g.DefinedValues() {
		if v <= 0 {
			continue
		}
		hist.Add(histogram.ScalarVal(int(math.Log2(v))))
	}
	log.Printf("Flux histogram for %s (log2 e-/s): %s", name, hist)
}

// WritePNG saves a rendered frame.
func WritePNG(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return png.Encode(writer, img)
	}
}
