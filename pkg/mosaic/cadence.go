package mosaic

// LocateCadence turns the requested absolute cadence number into a
// local sample offset within a cutout. Cadence numbers in a cutout are
// contiguous and ascend by 1, so this is O(1) arithmetic, never a scan.
// Returns a CadenceNotFoundError when the cutout doesn't cover the
// cadence; callers skip the cutout for this canvas.
func LocateCadence(cadenceNo, firstCadence, numCadences int) (int, error) {
	idx := cadenceNo - firstCadence
	if idx < 0 || idx >= numCadences {
		return 0, &CadenceNotFoundError{
			CadenceNo:    cadenceNo,
			FirstCadence: firstCadence,
			NumCadences:  numCadences,
		}
	}
	return idx, nil
}
