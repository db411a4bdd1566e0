package layout

import (
	"errors"
	"strings"
	"testing"

	"swimpipe/pkg/records"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		doc     records.Record
		want    int
		wantErr string
	}{
		{"lt2", records.Record{"layoutType": 2}, DialectLT2, ""},
		{"lt4", records.Record{"layoutType": 4}, DialectLT4, ""},
		{"lt4 as float from json", records.Record{"layoutType": float64(4)}, DialectLT4, ""},
		{"missing marker", records.Record{"name": "x"}, 0, "layoutType missing"},
		{"unknown value", records.Record{"layoutType": 3}, 0, "unknown layoutType 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.doc)
			if tt.wantErr != "" {
				var fe *FormatError
				if !errors.As(err, &fe) {
					t.Fatalf("want FormatError, got %v", err)
				}
				if !strings.Contains(fe.Msg, tt.wantErr) {
					t.Fatalf("error %q does not contain %q", fe.Msg, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Detect: %v", err)
			}
			if got != tt.want {
				t.Errorf("Detect = %d, want %d", got, tt.want)
			}
		})
	}
}

const lt2Source = `{
  "layoutType": 2,
  "name": "15° Trofeo Citta di Riccione",
  "dates": "25/02/2023",
  "sections": [
    {
      "title": "100 Stile Libero - M25",
      "fin_sesso": "M",
      "rows": [
        {
          "pos": "1", "name": "ROSSI MARIO", "surname": "ROSSI", "firstname": "MARIO",
          "year": "1995", "sex": "M", "team": "Nuoto Club", "timing": "58.45",
          "score": "770,22", "lap50": "28.10", "lap100": "58.45"
        }
      ]
    },
    {
      "title": "50 Farfalla - M30",
      "fin_sesso": "F",
      "rows": [
        {
          "pos": "1", "name": "BIANCHI LUCIA", "surname": "BIANCHI", "firstname": "LUCIA",
          "year": "1990", "sex": "F", "team": "Nuoto Club", "timing": "31.20"
        }
      ]
    },
    {
      "title": "4x50 m Misti - 100-119",
      "fin_sesso": "X",
      "rows": [
        {
          "pos": "2", "team": "Nuoto Club", "timing": "2'05.40",
          "swimmer1": "ROSSI MARIO", "year_of_birth1": "1995", "gender_type1": "M",
          "swimmer2": "", "year_of_birth2": ""
        }
      ]
    }
  ]
}`

func TestDecodeLT2(t *testing.T) {
	doc, err := Decode([]byte(lt2Source))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.LayoutType != DialectLT4 {
		t.Errorf("LayoutType = %d, want %d", doc.LayoutType, DialectLT4)
	}
	if len(doc.Events) != 3 {
		t.Fatalf("events = %d, want 3", len(doc.Events))
	}

	free := doc.Events[0]
	if free.Title != "100 Stile Libero" || free.Gender != "M" || free.Relay {
		t.Errorf("event 0 = %+v", free)
	}
	res := free.Results[0]
	if res.Category != "M25" {
		t.Errorf("category = %q, want M25", res.Category)
	}
	if want := "M|ROSSI|MARIO|1995|Nuoto Club"; res.Swimmer != want {
		t.Errorf("swimmer key = %q, want %q", res.Swimmer, want)
	}
	// Inline cumulative laps must come out as deltas.
	if len(res.Laps) != 2 {
		t.Fatalf("laps = %d, want 2", len(res.Laps))
	}
	if res.Laps[0].Delta != "28.10" || res.Laps[1].Delta != "30.35" {
		t.Errorf("lap deltas = %q, %q; want 28.10, 30.35", res.Laps[0].Delta, res.Laps[1].Delta)
	}

	// A single-length event carries no lap entries at all.
	fly := doc.Events[1]
	if len(fly.Results[0].Laps) != 0 {
		t.Errorf("50m event has %d laps, want none", len(fly.Results[0].Laps))
	}

	relay := doc.Events[2]
	if !relay.Relay || relay.Gender != "X" {
		t.Errorf("relay event = %+v", relay)
	}
	legs := relay.Results[0].Swimmers
	if len(legs) != 2 {
		t.Fatalf("relay legs = %d, want 2", len(legs))
	}
	if want := "M|ROSSI|MARIO|1995|Nuoto Club"; legs[0] != want {
		t.Errorf("leg 1 = %q, want %q", legs[0], want)
	}
	// The unprinted second leg stays blank, never defaulted.
	if legs[1] != "" {
		t.Errorf("leg 2 = %q, want blank", legs[1])
	}
}

func TestRoundTripLT4(t *testing.T) {
	orig := DocLT4{
		Header: Header{
			LayoutType: DialectLT4,
			Name:       "Campionato Regionale Master",
			Dates:      "2023-02-25",
		},
		Events: []Event{
			{
				Title:  "100 Stile Libero",
				Gender: "M",
				Results: []Result{
					{
						Ranking:  "1",
						Swimmer:  "M|ROSSI|MARIO|1995|Nuoto Club",
						Team:     "Nuoto Club",
						Category: "M25",
						Timing:   "58.45",
						Score:    "770,22",
						Laps: []Lap{
							{Distance: 50, Delta: "28.10"},
							{Distance: 100, Delta: "30.35"},
						},
					},
				},
			},
			{
				Title:  "4x50 m Misti",
				Gender: "X",
				Relay:  true,
				Results: []Result{
					{
						Ranking: "2",
						Team:    "Nuoto Club",
						Timing:  "2'05.40",
						Swimmers: []string{
							"M|ROSSI|MARIO|1995|Nuoto Club",
							"",
						},
					},
				},
			},
		},
	}

	lt2, err := ToLT2(orig)
	if err != nil {
		t.Fatalf("ToLT2: %v", err)
	}
	if lt2.LayoutType != DialectLT2 {
		t.Errorf("LT2 LayoutType = %d", lt2.LayoutType)
	}
	if len(lt2.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(lt2.Sections))
	}
	if got := lt2.Sections[0].Title; got != "100 Stile Libero - M25" {
		t.Errorf("section title = %q", got)
	}

	// A blank relay leg must not grow a gender on the way out.
	relayRow := lt2.Sections[1].Rows[0]
	if relayRow.Has("gender_type2") {
		t.Error("blank leg acquired a gender_type2 field")
	}
	if relayRow.String("swimmer2") != "" {
		t.Errorf("swimmer2 = %q, want blank", relayRow.String("swimmer2"))
	}

	back, err := ToLT4(lt2)
	if err != nil {
		t.Fatalf("ToLT4: %v", err)
	}
	if len(back.Events) != len(orig.Events) {
		t.Fatalf("round trip events = %d, want %d", len(back.Events), len(orig.Events))
	}
	for i, ev := range orig.Events {
		got := back.Events[i]
		if got.Title != ev.Title || got.Gender != ev.Gender || got.Relay != ev.Relay {
			t.Errorf("event %d header = %+v, want %+v", i, got, ev)
		}
		for j, res := range ev.Results {
			gr := got.Results[j]
			if gr.Swimmer != res.Swimmer || gr.Timing != res.Timing || gr.Ranking != res.Ranking {
				t.Errorf("event %d result %d = %+v, want %+v", i, j, gr, res)
			}
			if len(gr.Laps) != len(res.Laps) {
				t.Errorf("event %d result %d laps = %d, want %d", i, j, len(gr.Laps), len(res.Laps))
				continue
			}
			for k := range res.Laps {
				if gr.Laps[k].Distance != res.Laps[k].Distance || gr.Laps[k].Delta != res.Laps[k].Delta {
					t.Errorf("event %d lap %d = %+v, want %+v", i, k, gr.Laps[k], res.Laps[k])
				}
			}
			for k := range res.Swimmers {
				if gr.Swimmers[k] != res.Swimmers[k] {
					t.Errorf("event %d leg %d = %q, want %q", i, k, gr.Swimmers[k], res.Swimmers[k])
				}
			}
		}
	}
}

func TestToLT2WildcardCategory(t *testing.T) {
	doc := DocLT4{
		Header: Header{LayoutType: DialectLT4, Name: "x"},
		Events: []Event{{
			Title:  "100 Dorso",
			Gender: "F",
			Results: []Result{{
				Swimmer: "F|BIANCHI|LUCIA|1990|Club",
				Team:    "Club",
				Timing:  "1'16.30",
			}},
		}},
	}
	lt2, err := ToLT2(doc)
	if err != nil {
		t.Fatalf("ToLT2: %v", err)
	}
	if got := lt2.Sections[0].Category; got != WildcardCategory {
		t.Errorf("category = %q, want %q", got, WildcardCategory)
	}
}

func TestSwimmerKeyRoundTrip(t *testing.T) {
	key := SwimmerKey("m", " Rossi ", "Mario", 1995, "Nuoto  Club")
	if want := "M|Rossi|Mario|1995|Nuoto Club"; key != want {
		t.Fatalf("key = %q, want %q", key, want)
	}
	ident, err := ParseSwimmerKey(key)
	if err != nil {
		t.Fatalf("ParseSwimmerKey: %v", err)
	}
	if ident.Gender != "M" || ident.LastName != "Rossi" || ident.YearOfBirth != 1995 || ident.Team != "Nuoto Club" {
		t.Errorf("ident = %+v", ident)
	}
	if ident.IsBlank() {
		t.Error("populated ident reported blank")
	}

	blank, err := ParseSwimmerKey("||||")
	if err != nil {
		t.Fatalf("ParseSwimmerKey blank: %v", err)
	}
	if !blank.IsBlank() {
		t.Error("blank key not reported blank")
	}

	if _, err := ParseSwimmerKey("only|three|fields"); err == nil {
		t.Error("expected error for wrong field count")
	}
}
