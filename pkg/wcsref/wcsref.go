// Package wcsref looks up fixed astrometric reference keywords for a
// (campaign, channel) pair, harvested from real full-frame images. The
// mosaic copies them verbatim into its header so downstream tools can
// put the stitched channel on the sky.
//
// The embedded table only covers the campaign/channel pairs it has
// been harvested for; mosaics for anything else come out without a WCS
// solution. Export regenerates the table from a directory of
// calibrated FFIs (the `k2mosaic wcs-export` subcommand).
package wcsref

import(
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"strconv"

	"k2mosaic/pkg/mosaic"
)

// Keys is the keyword set harvested per channel, in header order.
var Keys = []string{
	"TELESCOP", "INSTRUME", "CHANNEL", "MODULE", "OUTPUT", "RADESYS",
	"EQUINOX", "WCSAXES", "CTYPE1", "CTYPE2", "CRVAL1",
	"CRVAL2", "CRPIX1", "CRPIX2", "CD1_1", "CD1_2", "CD2_1", "CD2_2",
	"A_ORDER", "B_ORDER", "A_2_0", "A_0_2", "A_1_1", "B_2_0", "B_0_2",
	"B_1_1", "AP_ORDER", "BP_ORDER", "AP_1_0", "AP_0_1", "AP_2_0",
	"AP_0_2", "AP_1_1", "BP_1_0", "BP_0_1", "BP_2_0", "BP_0_2", "BP_1_1",
}

//go:embed data/k2-ffi-headers.csv
var headersCSV []byte

// ErrNotFound means the reference table has no row for the requested
// campaign/channel. Callers warn and carry on with an incomplete
// header; it is never fatal.
var ErrNotFound = fmt.Errorf("wcsref: no reference header for campaign/channel")

// Lookup returns the reference keywords for (campaign, channel), in
// table order, ready to inject into a mosaic header.
func Lookup(campaign, channel int) ([]mosaic.Keyword, error) {
	return lookupIn(headersCSV, campaign, channel)
}

func lookupIn(table []byte, campaign, channel int) ([]mosaic.Keyword, error) {
	recs, err := csv.NewReader(bytes.NewReader(table)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("wcsref: parsing reference table: %v", err)
	}
	if len(recs) < 1 {
		return nil, ErrNotFound
	}

	cols := map[string]int{}
	for i, name := range recs[0] {
		cols[name] = i
	}
	for _, need := range []string{"campaign", "extension"} {
		if _, ok := cols[need]; !ok {
			return nil, fmt.Errorf("wcsref: reference table has no %q column", need)
		}
	}

	for _, rec := range recs[1:] {
		c, err1 := strconv.Atoi(rec[cols["campaign"]])
		ext, err2 := strconv.Atoi(rec[cols["extension"]])
		if err1 != nil || err2 != nil || c != campaign || ext != channel {
			continue
		}

		kws := []mosaic.Keyword{}
		for _, key := range Keys {
			i, ok := cols[key]
			if !ok || rec[i] == "" {
				kws = append(kws, mosaic.Undefined(key, "astrometric reference"))
				continue
			}
			kws = append(kws, mosaic.Present(key, coerce(rec[i]), "astrometric reference"))
		}
		return kws, nil
	}

	return nil, ErrNotFound
}

// coerce maps a csv cell back to the type the FITS card held.
func coerce(s string) interface{} {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return s
}
