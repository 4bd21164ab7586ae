// Package tpf reads Kepler/K2 Target Pixel Files into mosaic cutouts.
//
// A TPF is a FITS container: a primary header with target identity, a
// TARGETTABLES binary table with one row per cadence, and an aperture
// mask image. The reader materializes the whole thing up front, so the
// mosaic core never sees a partial read.
package tpf

import(
	"bytes"
	"compress/gzip"
	"io"
	"math"
	"os"
	"strings"

	"github.com/astrogo/fitsio"
	"github.com/pkg/errors"

	"k2mosaic/pkg/mosaic"
)

// tpfRow mirrors the TARGETTABLES columns we care about. Array columns
// come back flattened row-major, one slice per cadence.
type tpfRow struct {
	Time       float64   `fits:"TIME"`
	CadenceNo  int32     `fits:"CADENCENO"`
	Quality    int32     `fits:"QUALITY"`
	Flux       []float32 `fits:"FLUX"`
	FluxErr    []float32 `fits:"FLUX_ERR"`
	FluxBkg    []float32 `fits:"FLUX_BKG"`
	FluxBkgErr []float32 `fits:"FLUX_BKG_ERR"`
}

// Read loads one target pixel file from disk. Gzip-compressed files
// (the archive's native form) are handled transparently.
func Read(filename string) (mosaic.Cutout, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return mosaic.Cutout{}, errors.Wrapf(err, "tpf read %s", filename)
	}
	return ReadBytes(filename, raw)
}

// ReadBytes decodes an already-fetched target pixel file. The name is
// only used to detect gzip and to label errors and log lines.
func ReadBytes(filename string, raw []byte) (mosaic.Cutout, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".gz") {
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return mosaic.Cutout{}, errors.Wrapf(err, "tpf gunzip %s", filename)
		}
		raw, err = io.ReadAll(zr)
		if err != nil {
			return mosaic.Cutout{}, errors.Wrapf(err, "tpf gunzip %s", filename)
		}
	}

	ct, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return mosaic.Cutout{}, errors.Wrapf(err, "tpf decode %s", filename)
	}
	ct.Name = filename
	return ct, nil
}

// Decode parses an uncompressed target pixel file.
func Decode(r io.Reader) (mosaic.Cutout, error) {
	ct := mosaic.Cutout{}

	f, err := fitsio.Open(r)
	if err != nil {
		return ct, errors.Wrap(err, "fits open")
	}
	defer f.Close()

	if len(f.HDUs()) < 3 {
		return ct, errors.Errorf("fits container has %d HDUs, want >= 3", len(f.HDUs()))
	}

	if err := decodeIdentity(f.HDU(0).Header(), &ct); err != nil {
		return ct, err
	}

	tbl, ok := f.HDU(1).(*fitsio.Table)
	if !ok {
		return ct, errors.New("HDU 1 is not the TARGETTABLES binary table")
	}
	if err := decodeTimingConstants(tbl.Header(), &ct); err != nil {
		return ct, err
	}
	if err := decodeAperture(f.HDU(2), &ct); err != nil {
		return ct, err
	}
	if err := decodeSamples(tbl, &ct); err != nil {
		return ct, err
	}

	return ct, nil
}

func decodeIdentity(hdr *fitsio.Header, ct *mosaic.Cutout) error {
	// K2 files carry CAMPAIGN, classic Kepler files carry QUARTER.
	if campaign, err := intCard(hdr, "CAMPAIGN"); err == nil {
		ct.Mission = "k2"
		ct.Campaign = campaign
	} else if quarter, err := intCard(hdr, "QUARTER"); err == nil {
		ct.Mission = "kepler"
		ct.Campaign = quarter
	} else {
		return errors.New("primary header has neither CAMPAIGN nor QUARTER")
	}

	var err error
	if ct.Channel, err = intCard(hdr, "CHANNEL"); err != nil {
		return err
	}
	ct.Module, _ = intCard(hdr, "MODULE")
	ct.Output, _ = intCard(hdr, "OUTPUT")
	ct.KeplerID, _ = intCard(hdr, "KEPLERID")
	return nil
}

func decodeTimingConstants(hdr *fitsio.Header, ct *mosaic.Cutout) error {
	var err error
	if ct.CornerCol, err = intCard(hdr, "1CRV5P"); err != nil {
		return err
	}
	if ct.CornerRow, err = intCard(hdr, "2CRV5P"); err != nil {
		return err
	}
	if ct.FrameTimeSec, err = floatCard(hdr, "FRAMETIM"); err != nil {
		return err
	}
	if ct.NumFrames, err = intCard(hdr, "NUM_FRM"); err != nil {
		return err
	}
	if ct.BJDRefInt, err = intCard(hdr, "BJDREFI"); err != nil {
		return err
	}
	if ct.BJDRefFrac, err = floatCard(hdr, "BJDREFF"); err != nil {
		return err
	}
	if ct.IntTimeSec, err = floatCard(hdr, "INT_TIME"); err != nil {
		return err
	}
	ct.Gain, _ = floatCard(hdr, "GAIN")
	ct.ReadNoise, _ = floatCard(hdr, "READNOIS")
	return nil
}

func decodeAperture(hdu fitsio.HDU, ct *mosaic.Cutout) error {
	img, ok := hdu.(fitsio.Image)
	if !ok {
		return errors.New("HDU 2 is not the aperture mask image")
	}

	axes := img.Header().Axes()
	if len(axes) != 2 {
		return errors.Errorf("aperture mask has %d axes, want 2", len(axes))
	}
	ct.Width, ct.Height = axes[0], axes[1]

	var mask []int32
	if err := img.Read(&mask); err != nil {
		return errors.Wrap(err, "aperture mask read")
	}
	if len(mask) != ct.Width*ct.Height {
		return errors.Errorf("aperture mask has %d cells, want %dx%d", len(mask), ct.Width, ct.Height)
	}

	ct.Aperture = make([]bool, len(mask))
	for i, v := range mask {
		ct.Aperture[i] = v > 0
	}
	return nil
}

func decodeSamples(tbl *fitsio.Table, ct *mosaic.Cutout) error {
	n := int(tbl.NumRows())
	if n == 0 {
		return errors.New("TARGETTABLES has no cadences")
	}

	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return errors.Wrap(err, "TARGETTABLES read")
	}
	defer rows.Close()

	ct.Time = make([]float64, 0, n)
	ct.Quality = make([]uint32, 0, n)
	ct.Flux = make([][]float32, 0, n)
	ct.FluxErr = make([][]float32, 0, n)
	ct.FluxBkg = make([][]float32, 0, n)
	ct.FluxBkgErr = make([][]float32, 0, n)

	first := true
	prev := 0
	for rows.Next() {
		var r tpfRow
		if err := rows.Scan(&r); err != nil {
			return errors.Wrap(err, "TARGETTABLES scan")
		}

		if first {
			ct.FirstCadence = int(r.CadenceNo)
			first = false
		} else if int(r.CadenceNo) != prev+1 {
			return errors.Errorf("cadence numbers not contiguous: %d follows %d", r.CadenceNo, prev)
		}
		prev = int(r.CadenceNo)

		ct.Time = append(ct.Time, r.Time)
		ct.Quality = append(ct.Quality, uint32(r.Quality))
		ct.Flux = append(ct.Flux, r.Flux)
		ct.FluxErr = append(ct.FluxErr, r.FluxErr)
		ct.FluxBkg = append(ct.FluxBkg, r.FluxBkg)
		ct.FluxBkgErr = append(ct.FluxBkgErr, r.FluxBkgErr)
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "TARGETTABLES rows")
	}

	return nil
}

func intCard(hdr *fitsio.Header, name string) (int, error) {
	card := hdr.Get(name)
	if card == nil || card.Value == nil {
		return 0, errors.Errorf("header keyword %s missing", name)
	}
	switch v := card.Value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	}
	return 0, errors.Errorf("header keyword %s is %T, want int", name, card.Value)
}

func floatCard(hdr *fitsio.Header, name string) (float64, error) {
	card := hdr.Get(name)
	if card == nil || card.Value == nil {
		return math.NaN(), errors.Errorf("header keyword %s missing", name)
	}
	switch v := card.Value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return math.NaN(), errors.Errorf("header keyword %s is %T, want float", name, card.Value)
}
