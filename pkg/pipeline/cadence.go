package pipeline

import(
	"fmt"
	"strconv"
	"strings"

	"k2mosaic/pkg/mosaic"
)

// ParseCadenceSpec resolves a user-facing cadence selector against the
// cadence range of a reference cutout (by convention the first file in
// the list). Accepted forms:
//
//	"all"      every step-th cadence the reference covers
//	"first"    just the first cadence
//	"last"     just the last cadence
//	"N"        a single cadence number
//	"N..M"     an inclusive range, every step-th
//
// Small numbers are treated as offsets into the reference's cadence
// sequence rather than absolute cadence numbers, so "0..99" works on
// any campaign.
func ParseCadenceSpec(spec string, step int, ref mosaic.Cutout) ([]int, error) {
	if step < 1 {
		step = 1
	}
	first, last := ref.FirstCadence, ref.LastCadence()

	switch strings.TrimSpace(spec) {
	case "", "all":
		return cadenceRange(first, last, step), nil
	case "first":
		return []int{first}, nil
	case "last":
		return []int{last}, nil
	}

	lo, hi := 0, 0
	if strings.Contains(spec, "..") {
		parts := strings.SplitN(spec, "..", 2)
		var err1, err2 error
		lo, err1 = strconv.Atoi(parts[0])
		hi, err2 = strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("bad cadence range %q", spec)
		}
	} else {
		n, err := strconv.Atoi(spec)
		if err != nil {
			return nil, fmt.Errorf("bad cadence %q", spec)
		}
		lo, hi = n, n
	}

	// Relative offsets into the reference's sequence.
	if hi < ref.NumCadences() {
		lo, hi = first+lo, first+hi
	}

	if lo < first || hi > last || lo > hi {
		return nil, fmt.Errorf("cadence range %q outside [%d,%d]", spec, first, last)
	}
	return cadenceRange(lo, hi, step), nil
}

func cadenceRange(lo, hi, step int) []int {
	out := []int{}
	for c := lo; c <= hi; c += step {
		out = append(out, c)
	}
	return out
}
