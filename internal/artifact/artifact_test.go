package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type payload struct {
	Teams []string `json:"teams"`
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results-p2.json")
	source := []byte(`{"layoutType": 4}`)

	env, err := New("solver/team", "results.json", source, payload{Teams: []string{"Nuoto Club"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if env.Meta.RunID == "" || env.Meta.GeneratedAt == "" {
		t.Errorf("meta not stamped: %+v", env.Meta)
	}
	if err := Write(path, env); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got payload
	meta, err := Read(path, &got)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if meta.Generator != "solver/team" || meta.SourcePath != "results.json" {
		t.Errorf("meta = %+v", meta)
	}
	if len(got.Teams) != 1 || got.Teams[0] != "Nuoto Club" {
		t.Errorf("payload = %+v", got)
	}
	if meta.SourceChecksum != Checksum(source) {
		t.Error("checksum mismatch between write and read")
	}
}

func TestWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a-p1.json")
	env, err := New("solver/meeting", "a.json", []byte("{}"), map[string]int{"n": 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := Write(path, env); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestReadRejectsIncompleteEnvelope(t *testing.T) {
	dir := t.TempDir()

	noGen := filepath.Join(dir, "nogen.json")
	os.WriteFile(noGen, []byte(`{"_meta": {}, "data": {"x": 1}}`), 0o644)
	if _, err := Read(noGen, nil); err == nil {
		t.Error("missing generator accepted")
	}

	noData := filepath.Join(dir, "nodata.json")
	os.WriteFile(noData, []byte(`{"_meta": {"generator": "solver/team"}}`), 0o644)
	if _, err := Read(noData, nil); err == nil {
		t.Error("missing data payload accepted")
	}

	if _, err := Read(filepath.Join(dir, "absent.json"), nil); err == nil {
		t.Error("missing file accepted")
	}
}

func TestStale(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "b-p1.json")
	source := []byte(`{"layoutType": 2}`)
	env, err := New("solver/meeting", "b.json", source, map[string]int{})
	if err != nil {
		t.Fatal(err)
	}
	if err := Write(path, env); err != nil {
		t.Fatal(err)
	}

	if Stale(path, source) {
		t.Error("fresh artifact reported stale")
	}
	if !Stale(path, []byte(`{"layoutType": 2, "edited": true}`)) {
		t.Error("changed source not reported stale")
	}
	if !Stale(filepath.Join(dir, "missing.json"), source) {
		t.Error("missing artifact not reported stale")
	}
}
