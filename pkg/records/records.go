// Package records defines the loosely-typed record map exchanged between the
// layout parsers and the phase solvers, plus typed accessors that perform
// minimal coercion. Source files are semi-structured JSON, so values arrive as
// string, json.Number, bool, nested map, or nil; accessors hide that variance
// from call sites.
package records

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one logical row/object parsed from a source document.
type Record map[string]any

// String returns the string value for key, trimmed. Numbers are rendered with
// strconv so "2024" and 2024 read the same. Missing/nil yields "".
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

// Int returns the int value for key or def when missing/unparseable.
func (r Record) Int(key string, def int) int {
	v, ok := r[key]
	if !ok || v == nil {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return def
}

// Bool interprets the usual truthy spellings ("true", "1", true, 1).
func (r Record) Bool(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		s := strings.ToLower(strings.TrimSpace(b))
		return s == "true" || s == "1" || s == "t" || s == "yes"
	case float64:
		return b != 0
	case json.Number:
		return b.String() != "0"
	}
	return false
}

// Slice returns the []any value for key or nil.
func (r Record) Slice(key string) []any {
	if v, ok := r[key]; ok {
		if s, ok := v.([]any); ok {
			return s
		}
	}
	return nil
}

// Records returns the child objects under key as a []Record, skipping any
// non-object elements. Returns nil when key is absent or not an array.
func (r Record) Records(key string) []Record {
	raw := r.Slice(key)
	if raw == nil {
		return nil
	}
	out := make([]Record, 0, len(raw))
	for _, el := range raw {
		if m, ok := el.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

// Record returns the child object under key, or nil.
func (r Record) Record(key string) Record {
	if v, ok := r[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return Record(m)
		}
	}
	return nil
}

// Has reports whether key is present with a non-nil value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
