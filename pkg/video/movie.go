package video

import(
	"fmt"
	"image"
	"image/color"
	stddraw "image/draw"
	"image/gif"
	"log"
	"os"
	"path/filepath"
	"strings"

	"k2mosaic/pkg/raster"
)

// A Movie renders a sequence of mosaic files into an animated GIF or a
// directory of PNG frames. All frames share the same crop and cut
// levels (taken from the first renderable mosaic) so the animation
// doesn't flicker.
type Movie struct {
	Filenames []string
	Options   RenderOptions
	FPS       float64
}

func NewMovie(filenames []string, opts RenderOptions) Movie {
	return Movie{Filenames: filenames, Options: opts, FPS: 15.0}
}

// lockFraming pins the crop and cut levels from the first frame that
// has any data, so every subsequent frame is rendered consistently.
func (m *Movie)lockFraming(first *raster.Frame) error {
	if m.Options.Crop.Empty() {
		defined, ok := first.Flux.DefinedBounds()
		if !ok {
			return fmt.Errorf("movie: first mosaic %s has no defined cells", first.Filename)
		}
		m.Options.Crop = defined
	}
	if !m.Options.CutSet {
		lo, hi, err := first.Flux.CutLevels(m.Options.MinPercent/100.0, m.Options.MaxPercent/100.0)
		if err != nil {
			return fmt.Errorf("movie: %s: %v", first.Filename, err)
		}
		m.Options.CutMin, m.Options.CutMax, m.Options.CutSet = lo, hi, true
	}
	return nil
}

// A renderedFrame keeps the image paired with the mosaic it came
// from, so skipped mosaics can't shift the labeling of later frames.
type renderedFrame struct {
	img      *image.RGBA
	filename string
}

func (m *Movie)renderAll() ([]renderedFrame, error) {
	frames := []renderedFrame{}
	for _, filename := range m.Filenames {
		frame, err := raster.ReadFrame(filename)
		if err != nil {
			return nil, err
		}

		if len(frames) == 0 {
			if err := m.lockFraming(frame); err != nil {
				return nil, err
			}
		}

		img, err := Render(frame, m.Options)
		if err != nil {
			// A mosaic with no usable pixels isn't worth failing the
			// whole movie over.
			log.Printf("Skipping frame: %v", err)
			continue
		}
		frames = append(frames, renderedFrame{img: img, filename: filename})
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("movie: no renderable frames")
	}
	return frames, nil
}

// WriteGIF renders every mosaic and encodes an animated GIF.
func (m *Movie)WriteGIF(filename string) error {
	frames, err := m.renderAll()
	if err != nil {
		return err
	}

	delay := int(100.0 / m.FPS) // gif delays are in 1/100ths of a second
	if delay < 1 {
		delay = 1
	}

	pal := colormapPalette(GetColormap(m.Options.Colormap))
	anim := gif.GIF{}
	for _, frame := range frames {
		img := image.NewPaletted(frame.img.Bounds(), pal)
		stddraw.FloydSteinberg.Draw(img, frame.img.Bounds(), frame.img, image.Point{})
		anim.Image = append(anim.Image, img)
		anim.Delay = append(anim.Delay, delay)
	}

	out, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	defer out.Close()
	return gif.EncodeAll(out, &anim)
}

// WriteFrames renders every mosaic to its own PNG next to outDir.
func (m *Movie)WriteFrames(outDir string) error {
	frames, err := m.renderAll()
	if err != nil {
		return err
	}
	for _, frame := range frames {
		base := strings.TrimSuffix(filepath.Base(frame.filename), ".fits")
		fn := filepath.Join(outDir, fmt.Sprintf("videoframe-%s.png", base))
		if err := WritePNG(frame.img, fn); err != nil {
			return err
		}
	}
	return nil
}

// colormapPalette samples the colormap into the 256 slots a GIF frame
// gets, reserving one for the undefined-cell background.
func colormapPalette(cmap Colormap) color.Palette {
	pal := color.Palette{backgroundColor}
	for i := 0; i < 255; i++ {
		pal = append(pal, cmap.At(float64(i)/254.0))
	}
	return pal
}
