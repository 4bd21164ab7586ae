package mosaic

import(
	"math"
	"time"
)

// QualityDataGap is the SAP_QUALITY bit the pipeline sets on cadences
// with no usable data (detector anomaly / data gap). A cutout carrying
// this bit at the requested cadence poisons the whole mosaic.
const QualityDataGap uint32 = 65536

const (
	jdUnixEpoch = 2440587.5 // JD of 1970-01-01T00:00:00 UTC
	jdMJDEpoch  = 2400000.5 // JD of the Modified Julian Date epoch

	secondsPerDay = 86400.0
)

// ChannelMeta carries the channel-level identity and timing fields for
// one mosaic. Campaign/channel/cadence are fixed at construction; the
// rest is derived once, from the first cutout successfully merged, and
// frozen from then on.
type ChannelMeta struct {
	Mission      string
	Campaign     int
	Channel      int
	CadenceNo    int

	// Everything below is derived on first merge.
	TimeBJD      float64 // mid-cadence barycentric JD
	DateObs      string  // calendar UTC of cadence start
	DateEnd      string  // calendar UTC of cadence end
	MJDStart     float64
	MJDEnd       float64
	Quality      uint32
	ExposureSec  float64
	FrameTimeSec float64
	NumFrames    int
	IntTimeSec   float64
	BJDRefInt    int
	BJDRefFrac   float64
	Gain         float64
	ReadNoise    float64
	Module       int
	Output       int
}

// accumulate validates the requested cadence of a cutout and, on the
// first cutout only, derives the channel-level fields. The initialized
// flag lives on the Canvas so that reordering the cutout list has a
// well-defined, testable effect: whichever cutout merges first wins.
func (m *ChannelMeta)accumulate(ct Cutout, idx int, initialized bool) error {
	quality := ct.Quality[idx]
	if quality & QualityDataGap != 0 {
		return &CorruptCadenceError{Name: ct.Filename(), CadenceNo: m.CadenceNo, Quality: quality}
	}
	if math.IsNaN(ct.Time[idx]) {
		// No timestamp means the cadence never produced data; same deal.
		return &CorruptCadenceError{Name: ct.Filename(), CadenceNo: m.CadenceNo, Quality: quality}
	}
	if initialized {
		return nil
	}

	epoch := float64(ct.BJDRefInt) + ct.BJDRefFrac
	halfCadenceDays := ct.FrameTimeSec * float64(ct.NumFrames) / 2.0 / secondsPerDay
	jdStart := ct.Time[idx] + epoch - halfCadenceDays
	jdEnd := ct.Time[idx] + epoch + halfCadenceDays

	m.TimeBJD = ct.Time[idx] + epoch
	m.DateObs = JDToUTC(jdStart)
	m.DateEnd = JDToUTC(jdEnd)
	m.MJDStart = jdStart - jdMJDEpoch
	m.MJDEnd = jdEnd - jdMJDEpoch
	m.Quality = quality
	m.ExposureSec = ct.IntTimeSec * float64(ct.NumFrames)
	m.FrameTimeSec = ct.FrameTimeSec
	m.NumFrames = ct.NumFrames
	m.IntTimeSec = ct.IntTimeSec
	m.BJDRefInt = ct.BJDRefInt
	m.BJDRefFrac = ct.BJDRefFrac
	m.Gain = ct.Gain
	m.ReadNoise = ct.ReadNoise
	m.Module = ct.Module
	m.Output = ct.Output

	return nil
}

// JDToUTC renders a Julian Date as a calendar timestamp with a 'Z'
// suffix. (Strictly the input is barycentric, but nobody cares about
// the ~minutes of light travel time in a mosaic header.)
func JDToUTC(jd float64) string {
	sec := (jd - jdUnixEpoch) * secondsPerDay
	t := time.Unix(0, int64(sec*float64(time.Second))).UTC()
	return t.Format("2006-01-02T15:04:05.000Z")
}
