package parse

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Pérez Álvarez ", "PEREZ ALVAREZ"},
		{"  nuoto   club  riccione ", "NUOTO CLUB RICCIONE"},
		{"Müller", "MULLER"},
		{"ROSSI", "ROSSI"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeNameEquivalence(t *testing.T) {
	if NormalizeName("PEREZ ALVAREZ") != NormalizeName("Pérez  Álvarez") {
		t.Fatal("accented and plain spellings must normalize equal")
	}
}

func TestCollapseSpaces(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a  b\tc", "a b c"},
		{"  trimmed  ", "trimmed"},
		{"one", "one"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CollapseSpaces(tt.in); got != tt.want {
			t.Errorf("CollapseSpaces(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitSwimmerName(t *testing.T) {
	tests := []struct {
		name                string
		complete            string
		last, first         string
		wantLast, wantFirst string
	}{
		{"explicit fields pass through", "ROSSI MARIO", "ROSSI", "MARIO", "ROSSI", "MARIO"},
		{"fallback splits on first token", "ROSSI MARIO LUCA", "", "", "ROSSI", "MARIO LUCA"},
		{"single token", "ROSSI", "", "", "ROSSI", ""},
		{"empty", "", "", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotLast, gotFirst := SplitSwimmerName(tt.complete, tt.last, tt.first)
			if gotLast != tt.wantLast || gotFirst != tt.wantFirst {
				t.Errorf("got (%q, %q), want (%q, %q)", gotLast, gotFirst, tt.wantLast, tt.wantFirst)
			}
		})
	}
}
