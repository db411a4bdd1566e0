package parse

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"iso", "2023-02-25", time.Date(2023, 2, 25, 0, 0, 0, 0, time.UTC)},
		{"numeric italian", "25/02/2023", time.Date(2023, 2, 25, 0, 0, 0, 0, time.UTC)},
		{"textual italian", "25 Febbraio 2023", time.Date(2023, 2, 25, 0, 0, 0, 0, time.UTC)},
		{"abbreviated month", "3 Dic 2022", time.Date(2022, 12, 3, 0, 0, 0, 0, time.UTC)},
		{"span resolves to first day", "25/26 Febbraio 2023", time.Date(2023, 2, 25, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if err != nil {
				t.Fatalf("ParseDate(%q): %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDateErrors(t *testing.T) {
	for _, in := range []string{"", "sabato", "Febbraio 2023"} {
		if _, err := ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q): expected error", in)
		}
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1987", 1987},
		{"87", 1987},
		{"05", 2005},
		{"30", 2030},
		{"31", 1931},
		{"", 0},
		{"n/a", 0},
	}
	for _, tt := range tests {
		if got := ParseYear(tt.in); got != tt.want {
			t.Errorf("ParseYear(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
