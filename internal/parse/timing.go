// Package parse holds the shared leaf parsers used across the import
// pipeline: race timings, event titles, swimmer names, and dates.
//
// All parsers are pure and deliberately forgiving about the cosmetic variance
// found in converted result files (curly quotes, stray whitespace, missing
// minute markers); structural problems are still reported as errors by the
// callers that can judge them.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Timing is a race time split into minutes, seconds and hundredths.
// seconds is kept in [0,59] and hundredths in [0,99]; arithmetic carries
// across the boundaries.
type Timing struct {
	Minutes    int `json:"minutes"`
	Seconds    int `json:"seconds"`
	Hundredths int `json:"hundredths"`
}

// timingRx accepts "5'05.84", "5’05.84", "58.45", "5'05" and tolerates
// surrounding whitespace. The minute marker may be a straight or curly
// apostrophe or a colon; the hundredths separator a dot or comma.
var timingRx = regexp.MustCompile(`^(?:(\d+)\s*['’:])?\s*(\d{1,2})(?:[.,](\d{1,2}))?$`)

// ParseTiming parses a timing string. Blank or unparseable input yields the
// zero timing: downstream code treats a zero timing as a reportable sentinel,
// so swallowing the parse failure here is intentional.
func ParseTiming(s string) Timing {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timing{}
	}
	m := timingRx.FindStringSubmatch(s)
	if m == nil {
		return Timing{}
	}
	var t Timing
	if m[1] != "" {
		t.Minutes, _ = strconv.Atoi(m[1])
	}
	t.Seconds, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		h := m[3]
		// "5'05.8" means 80 hundredths, not 8
		if len(h) == 1 {
			h += "0"
		}
		t.Hundredths, _ = strconv.Atoi(h)
	}
	return t.normalize()
}

// normalize carries overflow from hundredths into seconds and from seconds
// into minutes.
func (t Timing) normalize() Timing {
	t.Seconds += t.Hundredths / 100
	t.Hundredths %= 100
	t.Minutes += t.Seconds / 60
	t.Seconds %= 60
	return t
}

// IsZero reports whether the timing is the zero sentinel.
func (t Timing) IsZero() bool {
	return t.Minutes == 0 && t.Seconds == 0 && t.Hundredths == 0
}

// ToHundredths returns the timing as a total count of hundredths.
func (t Timing) ToHundredths() int {
	return (t.Minutes*60+t.Seconds)*100 + t.Hundredths
}

// FromHundredths builds a Timing from a total count of hundredths.
// Negative input is clamped to zero.
func FromHundredths(h int) Timing {
	if h < 0 {
		h = 0
	}
	return Timing{Hundredths: h}.normalize()
}

// Add returns t + other with carry.
func (t Timing) Add(other Timing) Timing {
	return FromHundredths(t.ToHundredths() + other.ToHundredths())
}

// Sub returns t - other, clamped at zero.
func (t Timing) Sub(other Timing) Timing {
	return FromHundredths(t.ToHundredths() - other.ToHundredths())
}

// String renders the timing in the canonical source format: "1'16.30" when
// minutes are present, "58.45" otherwise.
func (t Timing) String() string {
	if t.Minutes > 0 {
		return fmt.Sprintf("%d'%02d.%02d", t.Minutes, t.Seconds, t.Hundredths)
	}
	return fmt.Sprintf("%d.%02d", t.Seconds, t.Hundredths)
}

// Cumulative folds a sequence of delta timings into their running from-start
// sums: out[0] = deltas[0], out[i] = deltas[i] + out[i-1].
//
// Source lap entries only ever carry deltas; the from-start value must always
// be derived here and never read (or defaulted) from the source document.
func Cumulative(deltas []Timing) []Timing {
	out := make([]Timing, len(deltas))
	var run Timing
	for i, d := range deltas {
		run = run.Add(d)
		out[i] = run
	}
	return out
}

// Deltas is the inverse of Cumulative: out[i] = cumulative[i] - cumulative[i-1].
func Deltas(cumulative []Timing) []Timing {
	out := make([]Timing, len(cumulative))
	var prev Timing
	for i, c := range cumulative {
		out[i] = c.Sub(prev)
		prev = c
	}
	return out
}
