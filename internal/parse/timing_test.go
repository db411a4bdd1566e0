package parse

import "testing"

func TestParseTiming(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Timing
	}{
		{"minutes with dot", "5'05.84", Timing{Minutes: 5, Seconds: 5, Hundredths: 84}},
		{"curly apostrophe", "1’16.30", Timing{Minutes: 1, Seconds: 16, Hundredths: 30}},
		{"colon marker", "2:08.91", Timing{Minutes: 2, Seconds: 8, Hundredths: 91}},
		{"seconds only", "58.45", Timing{Seconds: 58, Hundredths: 45}},
		{"comma separator", "58,45", Timing{Seconds: 58, Hundredths: 45}},
		{"no hundredths", "5'05", Timing{Minutes: 5, Seconds: 5}},
		{"single hundredths digit is tenths", "25.2", Timing{Seconds: 25, Hundredths: 20}},
		{"surrounding whitespace", "  31.20 ", Timing{Seconds: 31, Hundredths: 20}},
		{"blank", "", Timing{}},
		{"garbage", "DSQ", Timing{}},
		{"overflowing seconds carry", "95.00", Timing{Minutes: 1, Seconds: 35}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTiming(tt.in); got != tt.want {
				t.Errorf("ParseTiming(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimingString(t *testing.T) {
	tests := []struct {
		in   Timing
		want string
	}{
		{Timing{Minutes: 1, Seconds: 16, Hundredths: 30}, "1'16.30"},
		{Timing{Seconds: 58, Hundredths: 45}, "58.45"},
		{Timing{Seconds: 5, Hundredths: 4}, "5.04"},
		{Timing{}, "0.00"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTimingAddCarries(t *testing.T) {
	a := Timing{Seconds: 59, Hundredths: 80}
	b := Timing{Seconds: 1, Hundredths: 30}
	got := a.Add(b)
	want := Timing{Minutes: 1, Seconds: 1, Hundredths: 10}
	if got != want {
		t.Fatalf("Add = %+v, want %+v", got, want)
	}
}

func TestTimingSubClampsAtZero(t *testing.T) {
	small := Timing{Seconds: 10}
	big := Timing{Seconds: 20}
	if got := small.Sub(big); !got.IsZero() {
		t.Fatalf("Sub below zero = %+v, want zero", got)
	}
}

func TestCumulative(t *testing.T) {
	deltas := []Timing{
		{Seconds: 25},
		{Seconds: 25, Hundredths: 20},
		{Seconds: 26, Hundredths: 10},
	}
	got := Cumulative(deltas)
	want := []Timing{
		{Seconds: 25},
		{Seconds: 50, Hundredths: 20},
		{Minutes: 1, Seconds: 16, Hundredths: 30},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cumulative[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDeltasInvertsCumulative(t *testing.T) {
	deltas := []Timing{
		{Seconds: 30, Hundredths: 12},
		{Seconds: 32, Hundredths: 45},
		{Seconds: 33, Hundredths: 1},
		{Seconds: 31, Hundredths: 99},
	}
	got := Deltas(Cumulative(deltas))
	for i := range deltas {
		if got[i] != deltas[i] {
			t.Errorf("delta[%d] = %+v, want %+v", i, got[i], deltas[i])
		}
	}
}

func TestFromHundredths(t *testing.T) {
	if got := FromHundredths(7630); (got != Timing{Minutes: 1, Seconds: 16, Hundredths: 30}) {
		t.Errorf("FromHundredths(7630) = %+v", got)
	}
	if got := FromHundredths(-5); !got.IsZero() {
		t.Errorf("FromHundredths(-5) = %+v, want zero", got)
	}
}
