package sun

// Direction is the inferred horizontal position of the sun relative to the
// two LDRs. The numeric values are part of the telemetry wire format
// (field3 on ThingSpeak), so they must not be reordered.
type Direction int

const (
	East     Direction = 0
	Overhead Direction = 1
	West     Direction = 2
)

func (d Direction) String() string {
	switch d {
	case East:
		return "east"
	case Overhead:
		return "overhead"
	case West:
		return "west"
	default:
		return "unknown"
	}
}
