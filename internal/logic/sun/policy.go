package sun

// Tilt angles for the three sun positions, in degrees.
const (
	tiltEast     = 30  // morning
	tiltOverhead = 90  // midday
	tiltWest     = 150 // afternoon
)

// TiltFor maps a sun direction to the target canopy tilt angle. Unknown
// directions fall back to the flat midday position so a future enum value
// can never drive the servo somewhere undefined.
func TiltFor(d Direction) int {
	switch d {
	case East:
		return tiltEast
	case West:
		return tiltWest
	case Overhead:
		return tiltOverhead
	default:
		return tiltOverhead
	}
}
