package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Stroke codes as used by the permanent store.
const (
	StrokeFreestyle    = "SL"
	StrokeButterfly    = "FA"
	StrokeBackstroke   = "DO"
	StrokeBreaststroke = "RA"
	StrokeMedley       = "MI"
)

// strokeNames maps the Italian stroke spellings found in event titles to
// their canonical codes.
var strokeNames = map[string]string{
	"stile libero": StrokeFreestyle,
	"stile":        StrokeFreestyle,
	"sl":           StrokeFreestyle,
	"farfalla":     StrokeButterfly,
	"delfino":      StrokeButterfly,
	"fa":           StrokeButterfly,
	"dorso":        StrokeBackstroke,
	"do":           StrokeBackstroke,
	"rana":         StrokeBreaststroke,
	"ra":           StrokeBreaststroke,
	"misti":        StrokeMedley,
	"mistaffetta":  StrokeMedley,
	"mi":           StrokeMedley,
}

// MixedRelayStrokes is the canonical leg order for medley relays:
// backstroke, breaststroke, butterfly, freestyle.
var MixedRelayStrokes = [4]string{
	StrokeBackstroke, StrokeBreaststroke, StrokeButterfly, StrokeFreestyle,
}

// EventType is the parsed form of an event title such as "100 Stile Libero"
// or "4x50 m Misti".
type EventType struct {
	Relay       bool   `json:"relay"`
	Phases      int    `json:"phases"`       // 1 for individual events
	PhaseLength int    `json:"phase_length"` // meters per phase
	Distance    int    `json:"distance"`     // Phases * PhaseLength
	Stroke      string `json:"stroke"`       // stroke code
}

// relayTitleRx matches "4x50 m Misti", "4X100 Stile Libero", "4 x 50 SL".
var relayTitleRx = regexp.MustCompile(`(?i)^(\d)\s*x\s*(\d{2,4})\s*(?:m\.?\s*)?(.+)$`)

// individualTitleRx matches "50 Farfalla", "100 m Stile Libero", "200MI".
var individualTitleRx = regexp.MustCompile(`(?i)^(\d{2,4})\s*(?:m\.?\s*)?(.+)$`)

// ParseEventTitle parses a localized event title into its EventType.
// Titles are the only place the source encodes distance and stroke, so an
// unrecognized title is a structural error for the caller.
func ParseEventTitle(title string) (EventType, error) {
	s := strings.TrimSpace(title)
	if s == "" {
		return EventType{}, fmt.Errorf("event title: empty")
	}
	if m := relayTitleRx.FindStringSubmatch(s); m != nil {
		phases, _ := strconv.Atoi(m[1])
		length, _ := strconv.Atoi(m[2])
		stroke, ok := strokeName(m[3])
		if !ok {
			return EventType{}, fmt.Errorf("event title %q: unknown stroke %q", title, m[3])
		}
		return EventType{
			Relay:       true,
			Phases:      phases,
			PhaseLength: length,
			Distance:    phases * length,
			Stroke:      stroke,
		}, nil
	}
	if m := individualTitleRx.FindStringSubmatch(s); m != nil {
		dist, _ := strconv.Atoi(m[1])
		stroke, ok := strokeName(m[2])
		if !ok {
			return EventType{}, fmt.Errorf("event title %q: unknown stroke %q", title, m[2])
		}
		return EventType{
			Phases:      1,
			PhaseLength: dist,
			Distance:    dist,
			Stroke:      stroke,
		}, nil
	}
	return EventType{}, fmt.Errorf("event title %q: unrecognized format", title)
}

func strokeName(s string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.TrimSuffix(key, ".")
	code, ok := strokeNames[key]
	return code, ok
}

// Code returns the permanent-store event code for the parsed event, scoped by
// the gender composition of the program:
//
//   - individual events: "<distance><stroke>", e.g. "100SL"
//   - same-gender relays: "S<phases>X<length><stroke>", e.g. "S4X50MI"
//   - mixed-gender relays: "X<phases>X<length><stroke>", e.g. "X4X50SL"
//
// The prefix ("S" vs "X") discriminates the relay gender bucket so that the
// male, female and mixed variants of the same race stay distinct events.
func (e EventType) Code(gender string) string {
	if !e.Relay {
		return fmt.Sprintf("%d%s", e.Distance, e.Stroke)
	}
	prefix := "S"
	if strings.EqualFold(gender, "X") {
		prefix = "X"
	}
	return fmt.Sprintf("%s%dX%d%s", prefix, e.Phases, e.PhaseLength, e.Stroke)
}

// LegStroke returns the stroke swum by the given 1-based relay leg.
// Medley relays follow the canonical backstroke/breaststroke/butterfly/
// freestyle order; single-stroke relays share the one stroke on every leg.
func (e EventType) LegStroke(order int) string {
	if e.Stroke != StrokeMedley {
		return e.Stroke
	}
	if order < 1 || order > len(MixedRelayStrokes) {
		return StrokeFreestyle
	}
	return MixedRelayStrokes[order-1]
}
