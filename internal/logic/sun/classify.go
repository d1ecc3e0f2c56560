package sun

// Classify infers the sun direction from a pair of raw light readings.
// The threshold is a noise band: only a strict majority of light beyond it
// on one side counts as a direction. A difference within [-threshold,
// threshold] (boundaries included) resolves to Overhead, the safe default.
func Classify(east, west, threshold int) Direction {
	diff := east - west

	if diff > threshold {
		return East
	}
	if diff < -threshold {
		return West
	}
	return Overhead
}
