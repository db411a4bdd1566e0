// Package layout models the two source-document dialects produced by the
// result-file converters and provides the normalizer that maps between them.
//
// Dialect LT2 is section-oriented: one section per event+category+gender
// slice, each holding flat result rows whose lap data may appear either as
// inline "lap50"/"delta50" style fields or as a "laps" array.
//
// Dialect LT4 is event-oriented: one event per event+gender (relay flag
// explicit), each holding results whose laps carry only split ("delta")
// values, plus a "swimmers" array identifying relay legs.
//
// Every downstream pipeline phase consumes LT4; LT2 input is normalized once
// at the boundary (ToLT4) so dialect branching never leaks into consumers.
package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"swimpipe/pkg/records"
)

// Dialect identifiers match the "layoutType" marker in source files.
const (
	DialectLT2 = 2
	DialectLT4 = 4
)

// FormatError reports a structural violation of the source-document contract
// (missing or unknown layout marker, unreadable file, malformed JSON). It is
// fatal to the phase invocation that encounters it.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string { return "format: " + e.Msg }

func formatErrf(format string, args ...any) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...)}
}

// Detect reads the layoutType marker from a decoded source document.
// A missing marker or an unsupported value is a FormatError; there is no
// default dialect.
func Detect(doc records.Record) (int, error) {
	if !doc.Has("layoutType") {
		return 0, &FormatError{Msg: "layoutType missing"}
	}
	switch v := doc.Int("layoutType", -1); v {
	case DialectLT2:
		return DialectLT2, nil
	case DialectLT4:
		return DialectLT4, nil
	default:
		return 0, formatErrf("unknown layoutType %d", v)
	}
}

// Header carries the meeting-level fields shared by both dialects.
type Header struct {
	LayoutType  int    `json:"layoutType"`
	Name        string `json:"name"`
	MeetingURL  string `json:"meetingURL,omitempty"`
	ManifestURL string `json:"manifestURL,omitempty"`
	Dates       string `json:"dates,omitempty"`
	Place       string `json:"place,omitempty"`
	Address     string `json:"address,omitempty"`
	PoolLength  string `json:"poolLength,omitempty"`
	Season      string `json:"season,omitempty"`
}

// DocLT4 is the canonical, event-oriented document shape.
type DocLT4 struct {
	Header
	Events []Event `json:"events"`
}

// Event is one event+gender slice of an LT4 document.
type Event struct {
	Title   string   `json:"eventTitle"`
	Gender  string   `json:"eventGender"`
	Relay   bool     `json:"relay,omitempty"`
	Results []Result `json:"results"`
}

// Result is one competitor's (or relay team's) outcome within an event.
// Swimmer is the composite identity key "<gender>|<last>|<first>|<year>|<team>";
// for relays it is empty and Swimmers lists one key per leg, in leg order.
// Blank entries in Swimmers mark legs whose identity was not printed.
type Result struct {
	Ranking  string   `json:"ranking,omitempty"`
	Swimmer  string   `json:"swimmer,omitempty"`
	Team     string   `json:"team"`
	Category string   `json:"category,omitempty"`
	Timing   string   `json:"timing,omitempty"`
	Score    string   `json:"score,omitempty"`
	DSQ      bool     `json:"dsq,omitempty"`
	DSQLabel string   `json:"dsqLabel,omitempty"`
	Laps     []Lap    `json:"laps,omitempty"`
	Swimmers []string `json:"swimmers,omitempty"`
}

// Lap is one split entry. Delta is the only timing value a source lap ever
// carries; from-start values are always derived downstream, never stored here.
type Lap struct {
	Distance int    `json:"distance"`
	Delta    string `json:"delta"`
	Swimmer  string `json:"swimmer,omitempty"`
}

// DocLT2 is the section-oriented document shape.
type DocLT2 struct {
	Header
	Sections []Section `json:"sections"`
}

// Section is one event+category+gender slice of an LT2 document. Rows stay
// loosely typed because lap data may appear under open-ended inline field
// names ("lap50", "delta50", "lap100", ...).
type Section struct {
	Title    string           `json:"title"`
	Category string           `json:"fin_sigla_categoria,omitempty"`
	Gender   string           `json:"fin_sesso,omitempty"`
	Rows     []records.Record `json:"rows"`
}

// Load reads and decodes a source file into its dialect-specific document,
// returning it in canonical LT4 form (LT2 input is normalized in memory).
// The raw bytes are also returned so callers can checksum the source.
func Load(path string) (DocLT4, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return DocLT4{}, nil, formatErrf("read %s: %v", path, err)
	}
	doc, err := Decode(raw)
	return doc, raw, err
}

// Decode parses raw source bytes into canonical LT4 form.
func Decode(raw []byte) (DocLT4, error) {
	var probe records.Record
	if err := json.Unmarshal(raw, (*map[string]any)(&probe)); err != nil {
		return DocLT4{}, formatErrf("decode source: %v", err)
	}
	dialect, err := Detect(probe)
	if err != nil {
		return DocLT4{}, err
	}
	switch dialect {
	case DialectLT4:
		var doc DocLT4
		if err := json.Unmarshal(raw, &doc); err != nil {
			return DocLT4{}, formatErrf("decode LT4 document: %v", err)
		}
		return doc, nil
	default:
		var doc DocLT2
		if err := json.Unmarshal(raw, &doc); err != nil {
			return DocLT4{}, formatErrf("decode LT2 document: %v", err)
		}
		return ToLT4(doc)
	}
}

// DecodeFrom is Decode over an io.Reader, for callers that stream.
func DecodeFrom(r io.Reader) (DocLT4, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return DocLT4{}, formatErrf("read source: %v", err)
	}
	return Decode(raw)
}
