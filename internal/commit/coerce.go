package commit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"swimpipe/internal/store"
	"swimpipe/pkg/records"
)

// coerceAttrs keeps only the columns registered for kind and normalizes
// their values so that diffing new attrs against fetched rows compares
// like with like. Unknown keys are dropped, never committed.
func coerceAttrs(kind string, attrs records.Record) records.Record {
	spec, ok := store.Kinds[kind]
	if !ok {
		return attrs.Clone()
	}
	out := make(records.Record, len(attrs))
	for _, c := range spec.Columns {
		v, present := attrs[c]
		if !present {
			continue
		}
		if boolColumns[c] {
			out[c] = coerceBool(v)
		} else {
			out[c] = coerceValue(v)
		}
	}
	return out
}

// boolColumns names the registered columns backed by a boolean type.
// Sources spell flags as "1"/"0" as often as "true"/"false", so these
// coerce through coerceBool instead of the numeric fallbacks.
var boolColumns = map[string]bool{
	"cancelled":    true,
	"confirmed":    true,
	"disqualified": true,
	"year_guessed": true,
}

func coerceBool(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case bool:
		return x
	case int:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "1", "true", "t", "yes", "y":
			return true
		default:
			return false
		}
	default:
		return coerceValue(v)
	}
}

// coerceValue folds the driver-specific shapes a value can take (int32
// from the database, float64 from JSON, numeric strings from the source
// files) into a small canonical set: int64, float64, bool, string,
// time.Time or nil.
func coerceValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case bool:
		return x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case float32:
		return float64(x)
	case float64:
		if x == float64(int64(x)) {
			return int64(x)
		}
		return x
	case time.Time:
		return x.Truncate(24 * time.Hour)
	case string:
		s := strings.TrimSpace(x)
		switch strings.ToLower(s) {
		case "true":
			return true
		case "false":
			return false
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return s
	default:
		return fmt.Sprintf("%v", x)
	}
}

// diffAttrs returns the subset of want whose coerced values differ from
// the corresponding values in have. An empty result means the stored row
// already matches and no write is needed.
func diffAttrs(want, have records.Record) records.Record {
	out := records.Record{}
	for k, v := range want {
		hv, ok := have[k]
		if !ok {
			out[k] = v
			continue
		}
		if !sameValue(coerceValue(v), coerceValue(hv)) {
			out[k] = v
		}
	}
	return out
}

func sameValue(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		if tb, ok2 := b.(time.Time); ok2 {
			return ta.Equal(tb)
		}
	}
	if ia, ok := a.(int64); ok {
		if fb, ok2 := b.(float64); ok2 {
			return float64(ia) == fb
		}
	}
	if fa, ok := a.(float64); ok {
		if ib, ok2 := b.(int64); ok2 {
			return fa == float64(ib)
		}
	}
	return a == b
}
