package layout

import (
	"strconv"
	"strings"

	"swimpipe/internal/parse"
	"swimpipe/pkg/records"
)

// ToLT2 converts a canonical event-oriented LT4 document back into the
// section-oriented LT2 shape. The inverse of ToLT4 for every field both
// dialects represent: relay swimmer arrays flatten to per-leg inline fields,
// and a result without a category gets the wildcard sentinel range.
func ToLT2(doc DocLT4) (DocLT2, error) {
	out := DocLT2{Header: doc.Header}
	out.LayoutType = DialectLT2

	index := map[string]int{}
	for _, ev := range doc.Events {
		et, err := parse.ParseEventTitle(ev.Title)
		if err != nil {
			return DocLT2{}, formatErrf("event %q: %v", ev.Title, err)
		}
		for _, res := range ev.Results {
			category := strings.TrimSpace(res.Category)
			if category == "" {
				category = WildcardCategory
			}
			sig := ev.Title + "|" + category + "|" + ev.Gender
			i, ok := index[sig]
			if !ok {
				i = len(out.Sections)
				index[sig] = i
				out.Sections = append(out.Sections, Section{
					Title:    ev.Title + " - " + category,
					Category: category,
					Gender:   ev.Gender,
				})
			}
			row, err := resultToRow(res, et)
			if err != nil {
				return DocLT2{}, formatErrf("event %q: %v", ev.Title, err)
			}
			out.Sections[i].Rows = append(out.Sections[i].Rows, row)
		}
	}
	return out, nil
}

func resultToRow(res Result, et parse.EventType) (records.Record, error) {
	row := records.Record{
		"pos":    res.Ranking,
		"team":   res.Team,
		"timing": res.Timing,
	}
	if res.Score != "" {
		row["score"] = res.Score
	}
	if res.DSQ {
		row["dsq"] = true
		if res.DSQLabel != "" {
			row["dsq_label"] = res.DSQLabel
		}
	}

	if et.Relay {
		if err := flattenRelayLegs(row, res.Swimmers); err != nil {
			return nil, err
		}
		// Relay laps keep the array form so the per-lap swimmer key
		// survives the conversion.
		if len(res.Laps) > 0 {
			row["laps"] = relayLapArray(res.Laps)
		}
		return row, nil
	}

	ident, err := ParseSwimmerKey(res.Swimmer)
	if err != nil {
		return nil, err
	}
	row["surname"] = ident.LastName
	row["firstname"] = ident.FirstName
	row["name"] = parse.CollapseSpaces(ident.LastName + " " + ident.FirstName)
	row["sex"] = ident.Gender
	if ident.YearOfBirth > 0 {
		row["year"] = strconv.Itoa(ident.YearOfBirth)
	}

	// Single-length events have no breakdown: emit no lap keys at all.
	if et.Distance <= 50 || len(res.Laps) == 0 {
		return row, nil
	}
	var cum parse.Timing
	for _, lap := range res.Laps {
		d := strconv.Itoa(lap.Distance)
		cum = cum.Add(parse.ParseTiming(lap.Delta))
		row["delta"+d] = lap.Delta
		row["lap"+d] = cum.String()
	}
	return row, nil
}

// flattenRelayLegs writes swimmer1..N, year_of_birth1..N and gender_type1..N
// from the composite leg keys. A blank leg keeps a blank swimmer field and
// carries no gender at all: an unprinted gender is unknown, not guessable.
func flattenRelayLegs(row records.Record, swimmers []string) error {
	for i, key := range swimmers {
		n := strconv.Itoa(i + 1)
		if key == "" {
			row["swimmer"+n] = ""
			row["year_of_birth"+n] = ""
			continue
		}
		ident, err := ParseSwimmerKey(key)
		if err != nil {
			return err
		}
		row["swimmer"+n] = parse.CollapseSpaces(ident.LastName + " " + ident.FirstName)
		row["surname"+n] = ident.LastName
		row["firstname"+n] = ident.FirstName
		if ident.YearOfBirth > 0 {
			row["year_of_birth"+n] = strconv.Itoa(ident.YearOfBirth)
		} else {
			row["year_of_birth"+n] = ""
		}
		if ident.Gender != "" {
			row["gender_type"+n] = ident.Gender
		}
	}
	return nil
}

func relayLapArray(laps []Lap) []any {
	out := make([]any, 0, len(laps))
	for _, lap := range laps {
		m := map[string]any{
			"distance": lap.Distance,
			"delta":    lap.Delta,
		}
		if lap.Swimmer != "" {
			m["swimmer"] = lap.Swimmer
		}
		out = append(out, m)
	}
	return out
}
