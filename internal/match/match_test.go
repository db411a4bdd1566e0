package match

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "ROSSI MARIO", "ROSSI MARIO", 1},
		{"case and accents fold", "Pérez Álvarez", "PEREZ ALVAREZ", 1},
		{"whitespace folds", "Nuoto  Club ", "Nuoto Club", 1},
		{"disjoint", "AB", "XY", 0},
		{"empty both", "", "", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.a, tt.b); got != tt.want {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestScoreNearMatch(t *testing.T) {
	got := Score("ROSSI MARIO", "ROSSI MARIA")
	if got <= 0.8 || got >= 1 {
		t.Errorf("one-letter difference scored %v, want strictly between 0.8 and 1", got)
	}
	if Score("ROSSI MARIO", "ROSSI MARIA") != Score("ROSSI MARIA", "ROSSI MARIO") {
		t.Error("score must be symmetric")
	}
}

func TestRank(t *testing.T) {
	r := Ranker{Threshold: DefaultThreshold, Limit: 2}
	names := []string{"CSI NUOTO", "NUOTO CLUB RICCIONE", "NUOTO CLUB RICIONE", "POLISPORTIVA X"}
	ranked := r.Rank("Nuoto Club Riccione", names)
	if len(ranked) != 2 {
		t.Fatalf("ranked = %d entries, want capped at 2", len(ranked))
	}
	if ranked[0].Index != 1 || ranked[0].Score != 1 {
		t.Errorf("top = %+v, want exact match at index 1", ranked[0])
	}
	if ranked[1].Index != 2 {
		t.Errorf("second = %+v, want near-match at index 2", ranked[1])
	}
}

func TestRankEmptyCandidates(t *testing.T) {
	r := NewRanker(0)
	if got := r.Rank("anything", nil); len(got) != 0 {
		t.Errorf("Rank over no candidates = %v", got)
	}
}

func TestBest(t *testing.T) {
	r := NewRanker(0)
	if r.Threshold != DefaultThreshold {
		t.Fatalf("NewRanker(0).Threshold = %v", r.Threshold)
	}

	best, ok := r.Best("ROSSI MARIO", []string{"BIANCHI LUCA", "ROSSI MARIO"})
	if !ok || best.Index != 1 {
		t.Errorf("Best = %+v ok=%v, want confirmed index 1", best, ok)
	}

	// A clearly different name stays below the threshold but is still
	// surfaced.
	best, ok = r.Best("ROSSI MARIO", []string{"ROSSINI MARIOLINO"})
	if ok {
		t.Errorf("sub-threshold match auto-confirmed: %+v", best)
	}
	if best.Index != 0 {
		t.Errorf("sub-threshold best not surfaced: %+v", best)
	}

	if best, ok := r.Best("x", nil); ok || best.Index != -1 {
		t.Errorf("Best with no candidates = %+v ok=%v", best, ok)
	}
}
