package sun

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name      string
		east      int
		west      int
		threshold int
		want      Direction
	}{
		{"strong_east", 2000, 1500, 150, East},
		{"strong_west", 1000, 1600, 150, West},
		{"balanced", 1800, 1850, 150, Overhead},
		{"equal_readings", 1200, 1200, 150, Overhead},
		{"diff_exactly_threshold", 1350, 1200, 150, Overhead},
		{"diff_one_over_threshold", 1351, 1200, 150, East},
		{"diff_exactly_neg_threshold", 1200, 1350, 150, Overhead},
		{"diff_one_under_neg_threshold", 1200, 1351, 150, West},
		{"zero_threshold_east", 5, 4, 0, East},
		{"zero_threshold_tie", 5, 5, 0, Overhead},
		{"dark_sensors", 0, 0, 150, Overhead},
		{"saturated_east", 4095, 0, 150, East},
		{"saturated_west", 0, 4095, 150, West},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.east, tc.west, tc.threshold)
			if got != tc.want {
				t.Errorf("Classify(%d, %d, %d) = %v, want %v",
					tc.east, tc.west, tc.threshold, got, tc.want)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	// Same inputs must always yield the same direction (no hidden state).
	for i := 0; i < 3; i++ {
		if got := Classify(2000, 1500, 150); got != East {
			t.Fatalf("run %d: Classify(2000, 1500, 150) = %v, want East", i, got)
		}
	}
}

func TestDirection_String(t *testing.T) {
	cases := []struct {
		d    Direction
		want string
	}{
		{East, "east"},
		{Overhead, "overhead"},
		{West, "west"},
		{Direction(7), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.d.String(); got != tc.want {
			t.Errorf("Direction(%d).String() = %q, want %q", int(tc.d), got, tc.want)
		}
	}
}

func TestDirection_WireOrdinals(t *testing.T) {
	// The ordinals are part of the telemetry wire format.
	if East != 0 || Overhead != 1 || West != 2 {
		t.Errorf("direction ordinals changed: east=%d overhead=%d west=%d", East, Overhead, West)
	}
}
