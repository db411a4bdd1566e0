package parse

import "testing"

func TestParseEventTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  EventType
	}{
		{"individual spelled out", "100 Stile Libero", EventType{Phases: 1, PhaseLength: 100, Distance: 100, Stroke: StrokeFreestyle}},
		{"individual with meters marker", "50 m Farfalla", EventType{Phases: 1, PhaseLength: 50, Distance: 50, Stroke: StrokeButterfly}},
		{"individual compact code", "200MI", EventType{Phases: 1, PhaseLength: 200, Distance: 200, Stroke: StrokeMedley}},
		{"backstroke", "100 Dorso", EventType{Phases: 1, PhaseLength: 100, Distance: 100, Stroke: StrokeBackstroke}},
		{"breaststroke", "200 Rana", EventType{Phases: 1, PhaseLength: 200, Distance: 200, Stroke: StrokeBreaststroke}},
		{"medley relay", "4x50 m Misti", EventType{Relay: true, Phases: 4, PhaseLength: 50, Distance: 200, Stroke: StrokeMedley}},
		{"freestyle relay uppercase X", "4X100 Stile Libero", EventType{Relay: true, Phases: 4, PhaseLength: 100, Distance: 400, Stroke: StrokeFreestyle}},
		{"relay spaced", "4 x 50 SL", EventType{Relay: true, Phases: 4, PhaseLength: 50, Distance: 200, Stroke: StrokeFreestyle}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEventTitle(tt.title)
			if err != nil {
				t.Fatalf("ParseEventTitle(%q): %v", tt.title, err)
			}
			if got != tt.want {
				t.Errorf("ParseEventTitle(%q) = %+v, want %+v", tt.title, got, tt.want)
			}
		})
	}
}

func TestParseEventTitleErrors(t *testing.T) {
	for _, title := range []string{"", "Premiazioni", "100 Rovescio"} {
		if _, err := ParseEventTitle(title); err == nil {
			t.Errorf("ParseEventTitle(%q): expected error", title)
		}
	}
}

func TestEventCode(t *testing.T) {
	individual := EventType{Phases: 1, PhaseLength: 100, Distance: 100, Stroke: StrokeFreestyle}
	if got := individual.Code("F"); got != "100SL" {
		t.Errorf("individual code = %q, want 100SL", got)
	}

	relay := EventType{Relay: true, Phases: 4, PhaseLength: 50, Distance: 200, Stroke: StrokeMedley}
	if got := relay.Code("M"); got != "S4X50MI" {
		t.Errorf("same-gender relay code = %q, want S4X50MI", got)
	}
	if got := relay.Code("X"); got != "X4X50MI" {
		t.Errorf("mixed relay code = %q, want X4X50MI", got)
	}
}

func TestLegStroke(t *testing.T) {
	medley := EventType{Relay: true, Phases: 4, PhaseLength: 50, Stroke: StrokeMedley}
	wantOrder := []string{StrokeBackstroke, StrokeBreaststroke, StrokeButterfly, StrokeFreestyle}
	for i, want := range wantOrder {
		if got := medley.LegStroke(i + 1); got != want {
			t.Errorf("medley leg %d = %q, want %q", i+1, got, want)
		}
	}

	free := EventType{Relay: true, Phases: 4, PhaseLength: 50, Stroke: StrokeFreestyle}
	for leg := 1; leg <= 4; leg++ {
		if got := free.LegStroke(leg); got != StrokeFreestyle {
			t.Errorf("freestyle leg %d = %q", leg, got)
		}
	}
}
