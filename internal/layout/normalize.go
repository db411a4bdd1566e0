package layout

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"swimpipe/internal/parse"
	"swimpipe/pkg/records"
)

// WildcardCategory is the sentinel emitted by ToLT2 when a result carries no
// category: a full-span age range that matches any bucket.
const WildcardCategory = "000-999"

// inlineLapRx matches the LT2 inline lap field names: "lap50", "delta100", ...
var inlineLapRx = regexp.MustCompile(`^(lap|delta)(\d+)$`)

// ToLT4 converts a section-oriented LT2 document into the canonical
// event-oriented LT4 shape. The conversion is pure: the input document is not
// modified, and no timing or identity information is fabricated — absent laps
// stay absent, blank relay-leg genders stay blank.
func ToLT4(doc DocLT2) (DocLT4, error) {
	out := DocLT4{Header: doc.Header}
	out.LayoutType = DialectLT4

	// Events are keyed by title+gender; section order decides event order.
	index := map[string]int{}

	for _, sec := range doc.Sections {
		title, category := splitSectionTitle(sec.Title, sec.Category)
		et, err := parse.ParseEventTitle(title)
		if err != nil {
			return DocLT4{}, formatErrf("section %q: %v", sec.Title, err)
		}
		gender := strings.ToUpper(strings.TrimSpace(sec.Gender))
		sig := title + "|" + gender
		i, ok := index[sig]
		if !ok {
			i = len(out.Events)
			index[sig] = i
			out.Events = append(out.Events, Event{
				Title:  title,
				Gender: gender,
				Relay:  et.Relay,
			})
		}
		for _, row := range sec.Rows {
			res, err := rowToResult(row, sec, et, category)
			if err != nil {
				return DocLT4{}, formatErrf("section %q: %v", sec.Title, err)
			}
			out.Events[i].Results = append(out.Events[i].Results, res)
		}
	}
	return out, nil
}

// splitSectionTitle separates "100 Stile Libero - M25" into the event title
// and the category code. A category provided on the section itself wins.
func splitSectionTitle(title, sectionCategory string) (event, category string) {
	event = parse.CollapseSpaces(title)
	if i := strings.LastIndex(event, " - "); i > 0 {
		category = strings.TrimSpace(event[i+3:])
		event = strings.TrimSpace(event[:i])
	}
	if sectionCategory != "" {
		category = strings.TrimSpace(sectionCategory)
	}
	return event, category
}

func rowToResult(row records.Record, sec Section, et parse.EventType, category string) (Result, error) {
	res := Result{
		Ranking:  row.String("pos"),
		Team:     row.String("team"),
		Category: category,
		Timing:   row.String("timing"),
		Score:    row.String("score"),
		DSQ:      row.Bool("dsq") || row.String("timing") == "",
		DSQLabel: row.String("dsq_label"),
	}
	if et.Relay {
		res.Swimmers = relayLegKeys(row, sec)
	} else {
		last, first := parse.SplitSwimmerName(row.String("name"), row.String("surname"), row.String("firstname"))
		gender := strings.ToUpper(row.String("sex"))
		if gender == "" {
			gender = strings.ToUpper(strings.TrimSpace(sec.Gender))
		}
		res.Swimmer = SwimmerKey(gender, last, first, parse.ParseYear(row.String("year")), res.Team)
	}

	// Single-length events carry no lap breakdown at all: no keys, not
	// empty ones.
	if !et.Relay && et.Distance <= 50 {
		return res, nil
	}
	res.Laps = rowLaps(row, res)
	return res, nil
}

// relayLegKeys flattens the per-leg inline fields (swimmer1..N,
// year_of_birth1..N, gender_type1..N) into composite keys, one per leg in leg
// order. A leg whose gender was not printed keeps a blank gender segment.
func relayLegKeys(row records.Record, sec Section) []string {
	var keys []string
	for leg := 1; ; leg++ {
		n := strconv.Itoa(leg)
		if !row.Has("swimmer"+n) && !row.Has("year_of_birth"+n) {
			break
		}
		name := row.String("swimmer" + n)
		last, first := parse.SplitSwimmerName(name, row.String("surname"+n), row.String("firstname"+n))
		gender := strings.ToUpper(row.String("gender_type" + n))
		year := parse.ParseYear(row.String("year_of_birth" + n))
		if last == "" && first == "" && year == 0 {
			keys = append(keys, "")
			continue
		}
		keys = append(keys, SwimmerKey(gender, last, first, year, row.String("team")))
	}
	return keys
}

// rowLaps normalizes a row's lap data to the LT4 lap array. The source may
// provide a "laps" array or the older inline "lap<dist>"/"delta<dist>"
// fields; both collapse to {distance, delta} entries. Cumulative values in
// the input are used only to derive missing deltas, never carried over.
func rowLaps(row records.Record, res Result) []Lap {
	if arr := row.Records("laps"); arr != nil {
		out := make([]Lap, 0, len(arr))
		for _, l := range arr {
			out = append(out, Lap{
				Distance: l.Int("distance", 0),
				Delta:    l.String("delta"),
				Swimmer:  l.String("swimmer"),
			})
		}
		return out
	}

	type inline struct {
		distance   int
		delta      string
		cumulative string
	}
	byDist := map[int]*inline{}
	var dists []int
	for key := range row {
		m := inlineLapRx.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		d, _ := strconv.Atoi(m[2])
		entry, ok := byDist[d]
		if !ok {
			entry = &inline{distance: d}
			byDist[d] = entry
			dists = append(dists, d)
		}
		if m[1] == "delta" {
			entry.delta = row.String(key)
		} else {
			entry.cumulative = row.String(key)
		}
	}
	if len(dists) == 0 {
		return nil
	}
	sort.Ints(dists)

	out := make([]Lap, 0, len(dists))
	var prev parse.Timing
	for _, d := range dists {
		entry := byDist[d]
		delta := entry.delta
		if delta == "" && entry.cumulative != "" {
			cum := parse.ParseTiming(entry.cumulative)
			delta = cum.Sub(prev).String()
			prev = cum
		} else if entry.cumulative != "" {
			prev = parse.ParseTiming(entry.cumulative)
		} else {
			prev = prev.Add(parse.ParseTiming(delta))
		}
		out = append(out, Lap{Distance: d, Delta: delta})
	}
	return out
}
