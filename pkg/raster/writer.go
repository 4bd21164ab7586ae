// Package raster serializes finished mosaics to FITS, and reads them
// back for rendering.
package raster

import(
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/astrogo/fitsio"

	"k2mosaic/pkg/kmath"
	"k2mosaic/pkg/mosaic"
)

// Write serializes the raster to filename. The file is built in a temp
// file next to the target and renamed into place, so a failed assembly
// never leaves a partially written mosaic lying around.
func Write(r *mosaic.Raster, filename string) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp*")
	if err != nil {
		return fmt.Errorf("mosaic write '%s': %v", filename, err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("mosaic encode '%s': %v", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("mosaic write '%s': %v", filename, err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("mosaic write '%s': %v", filename, err)
	}
	return nil
}

// Encode streams the raster's four blocks, in order: header-only
// primary HDU, flux image, uncertainty image, empty event table.
func Encode(w io.Writer, r *mosaic.Raster) error {
	f, err := fitsio.Create(w)
	if err != nil {
		return fmt.Errorf("fits create: %v", err)
	}
	defer f.Close()

	primary := fitsio.NewImage(8, []int{})
	defer primary.Close()
	if err := primary.Header().Append(headerCards(r.Header)...); err != nil {
		return fmt.Errorf("fits primary header: %v", err)
	}
	if err := f.Write(primary); err != nil {
		return fmt.Errorf("fits primary write: %v", err)
	}

	if err := writeImage(f, "FLUX", r.Flux); err != nil {
		return err
	}
	if err := writeImage(f, "FLUX_ERR", r.Uncert); err != nil {
		return err
	}

	return writeEventTable(f, r.Events)
}

func writeImage(f *fitsio.File, name string, g *kmath.Grid) error {
	img := fitsio.NewImage(-32, []int{g.Dx(), g.Dy()})
	defer img.Close()

	err := img.Header().Append(
		fitsio.Card{Name: "EXTNAME", Value: name, Comment: "name of extension"},
	)
	if err != nil {
		return fmt.Errorf("fits %s header: %v", name, err)
	}
	if err := img.Write(g.Float32s()); err != nil {
		return fmt.Errorf("fits %s data: %v", name, err)
	}
	if err := f.Write(img); err != nil {
		return fmt.Errorf("fits %s write: %v", name, err)
	}
	return nil
}

// writeEventTable emits block 4, the per-pixel event marker table.
// Zero rows for now; the block reserves space in the layout for future
// cosmic-ray annotation.
func writeEventTable(f *fitsio.File, events []mosaic.Event) error {
	tbl, err := fitsio.NewTable("EVENTS", []fitsio.Column{
		{Name: "PIXEL_X", Format: "J"},
		{Name: "PIXEL_Y", Format: "J"},
		{Name: "MAGNITUDE", Format: "E"},
	}, fitsio.BINARY_TBL)
	if err != nil {
		return fmt.Errorf("fits events table: %v", err)
	}
	defer tbl.Close()

	for _, ev := range events {
		if err := tbl.Write(&ev); err != nil {
			return fmt.Errorf("fits events row: %v", err)
		}
	}
	if err := f.Write(tbl); err != nil {
		return fmt.Errorf("fits events write: %v", err)
	}
	return nil
}

// headerCards maps tagged keywords onto FITS cards. Undefined
// keywords become cards with a blank value; Absent ones are dropped.
func headerCards(kws []mosaic.Keyword) []fitsio.Card {
	cards := []fitsio.Card{
		{Name: "DATE", Value: time.Now().UTC().Format("2006-01-02"), Comment: "file creation date"},
	}
	for _, kw := range kws {
		if kw.IsAbsent() {
			continue
		}
		card := fitsio.Card{Name: kw.Name, Comment: kw.Comment}
		if v, ok := kw.Value(); ok {
			card.Value = v
		} else {
			card.Value = "" // explicitly undefined, but present in the layout
		}
		cards = append(cards, card)
	}
	return cards
}
