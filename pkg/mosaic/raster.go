package mosaic

import(
	"fmt"
	"strings"

	"k2mosaic/pkg/kmath"
)

// CreatorTag identifies this tool in output headers.
const CreatorTag = "k2mosaic"

// An Event marks one per-pixel event (e.g. a cosmic ray hit) in the
// mosaic. The event table is always written empty for now; the block
// is reserved so the file layout won't change when annotation lands.
type Event struct {
	PixelX    int32
	PixelY    int32
	Magnitude float32
}

// A Raster is the finished mosaic, ready for serialization: exactly
// four blocks, in order. Block 1 is the metadata header, 2 the flux
// image, 3 the uncertainty image, 4 the (empty) event table.
type Raster struct {
	Header []Keyword
	Flux   *kmath.Grid
	Uncert *kmath.Grid
	Events []Event

	Meta ChannelMeta // kept for filename derivation and logging
}

// Finalize freezes the canvas into a Raster. The header keyword layout
// is fixed: fields the assembly couldn't derive (nothing merged, say)
// are written as explicitly undefined, never dropped.
func (c *Canvas)Finalize() *Raster {
	m := c.Meta
	ok := c.Initialized()

	hdr := []Keyword{
		Present("CREATOR", CreatorTag, "file generator"),
		Present("TELESCOP", "Kepler", "telescope"),
		Present("INSTRUME", "Kepler Photometer", "detector type"),
		Present("OBSMODE", "full frame image", "observing mode"),
		Present("MISSION", strings.ToUpper(m.Mission), "mission name"),
		Present("CAMPAIGN", m.Campaign, "observing campaign or quarter"),
		Present("CHANNEL", m.Channel, "CCD channel"),
		PresentOr("MODULE", m.Module, ok, "CCD module"),
		PresentOr("OUTPUT", m.Output, ok, "CCD output"),
		Present("CADENCEN", m.CadenceNo, "unique cadence number"),
		PresentOr("DATE-OBS", m.DateObs, ok, "TSTART as UTC calendar date"),
		PresentOr("DATE-END", m.DateEnd, ok, "TSTOP as UTC calendar date"),
		PresentOr("MJDSTA", m.MJDStart, ok, "start of observation in MJD"),
		PresentOr("MJDEND", m.MJDEnd, ok, "end of observation in MJD"),
		PresentOr("TIMEBJD", m.TimeBJD, ok, "mid-cadence barycentric JD"),
		PresentOr("EXPOSURE", m.ExposureSec, ok, "[s] time on source"),
		PresentOr("FRAMETIM", m.FrameTimeSec, ok, "[s] frame time"),
		PresentOr("NUM_FRM", m.NumFrames, ok, "frames co-added per cadence"),
		PresentOr("INT_TIME", m.IntTimeSec, ok, "[s] photon accumulation per frame"),
		PresentOr("BJDREFI", m.BJDRefInt, ok, "integer part of BJD reference"),
		PresentOr("BJDREFF", m.BJDRefFrac, ok, "fractional part of BJD reference"),
		PresentOr("GAIN", m.Gain, ok, "[electrons/count] channel gain"),
		PresentOr("READNOIS", m.ReadNoise, ok, "[electrons] readout noise"),
		PresentOr("QUALITY", int(m.Quality), ok, "cadence quality bitmask"),
		// Not meaningful for a stitched mosaic, but part of the layout.
		Undefined("LIVETIME", "[d] TELAPSE multiplied by DEADC"),
		Undefined("DEADC", "deadtime correction"),
	}

	return &Raster{
		Header: hdr,
		Flux:   c.Flux,
		Uncert: c.Uncert,
		Events: []Event{},
		Meta:   m,
	}
}

// InjectKeywords appends reference keywords (e.g. the WCS solution for
// this campaign/channel) verbatim to the header.
func (r *Raster)InjectKeywords(kws []Keyword) {
	r.Header = append(r.Header, kws...)
}

// Filename returns the canonical output filename for the raster.
func (r *Raster)Filename(prefix string) string {
	return OutputFilename(prefix, r.Meta.Campaign, r.Meta.Channel, r.Meta.CadenceNo)
}

// OutputFilename encodes campaign, channel and cadence, e.g.
// "k2mosaic-c06-ch15-cad3051.fits".
func OutputFilename(prefix string, campaign, channel, cadenceNo int) string {
	return fmt.Sprintf("%s-c%02d-ch%02d-cad%d.fits", prefix, campaign, channel, cadenceNo)
}
