package records

import (
	"encoding/json"
	"testing"
)

func TestStringCoercion(t *testing.T) {
	r := Record{
		"s": " padded ",
		"f": float64(2024),
		"d": 58.45,
		"i": 7,
		"b": true,
		"n": nil,
	}
	tests := []struct {
		key  string
		want string
	}{
		{"s", "padded"},
		{"f", "2024"},
		{"d", "58.45"},
		{"i", "7"},
		{"b", "true"},
		{"n", ""},
		{"missing", ""},
	}
	for _, tt := range tests {
		if got := r.String(tt.key); got != tt.want {
			t.Errorf("String(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestIntCoercion(t *testing.T) {
	r := Record{"a": 5, "b": float64(6), "c": "7", "d": "x"}
	tests := []struct {
		key, name string
		want      int
	}{
		{"a", "int", 5},
		{"b", "float", 6},
		{"c", "numeric string", 7},
		{"d", "garbage falls back", -1},
		{"missing", "absent falls back", -1},
	}
	for _, tt := range tests {
		if got := r.Int(tt.key, -1); got != tt.want {
			t.Errorf("%s: Int(%q) = %d, want %d", tt.name, tt.key, got, tt.want)
		}
	}
}

func TestBool(t *testing.T) {
	r := Record{"t": true, "one": "1", "yes": "yes", "f": false, "zero": "0"}
	for _, key := range []string{"t", "one", "yes"} {
		if !r.Bool(key) {
			t.Errorf("Bool(%q) = false, want true", key)
		}
	}
	for _, key := range []string{"f", "zero", "missing"} {
		if r.Bool(key) {
			t.Errorf("Bool(%q) = true, want false", key)
		}
	}
}

func TestNestedAccessFromJSON(t *testing.T) {
	var r Record
	raw := `{"laps": [{"distance": 50, "delta": "28.10"}, "not-an-object"], "header": {"name": "x"}}`
	if err := json.Unmarshal([]byte(raw), (*map[string]any)(&r)); err != nil {
		t.Fatal(err)
	}
	laps := r.Records("laps")
	if len(laps) != 1 {
		t.Fatalf("Records skipped wrong elements: %d", len(laps))
	}
	if laps[0].Int("distance", 0) != 50 || laps[0].String("delta") != "28.10" {
		t.Errorf("lap = %+v", laps[0])
	}
	if r.Record("header").String("name") != "x" {
		t.Error("Record(header) lookup failed")
	}
	if r.Record("laps") != nil {
		t.Error("Record over an array should be nil")
	}
}

func TestHasAndClone(t *testing.T) {
	r := Record{"a": 1, "nil": nil}
	if !r.Has("a") || r.Has("nil") || r.Has("missing") {
		t.Error("Has misreported presence")
	}
	c := r.Clone()
	c["a"] = 2
	if r.Int("a", 0) != 1 {
		t.Error("Clone shares storage with original")
	}
}
