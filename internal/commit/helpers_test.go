package commit

import "testing"

func TestMeetingCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Trofeo Citta di Riccione", "trofeocittadiriccione"},
		{"15° Trofeo Città di Riccione", "15trofeocittadiriccione"},
		{"  Campionati   Regionali  ", "campionatiregionali"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := meetingCode(tt.in); got != tt.want {
			t.Errorf("meetingCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCityName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Viale Monterosa, 60 - Riccione", "Riccione"},
		{"Via Roma 1 - Ostia - Roma", "Roma"},
		{"Viale Monterosa, 60", ""},
		{"Via Roma - Zona 3", ""},
		{"Via Roma - ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cityName(tt.in); got != tt.want {
			t.Errorf("cityName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScorePoints(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"770,22", 770.22, true},
		{"770.22", 770.22, true},
		{"0", 0, true},
		{"", 0, false},
		{"n.p.", 0, false},
	}
	for _, tt := range tests {
		got, ok := scorePoints(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("scorePoints(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
