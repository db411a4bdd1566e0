package config

import (
	"os"
	"path/filepath"
	"testing"

	"swimpipe/internal/match"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{"season": 222, "store": {"dsn": "postgres://localhost/x"}}`)
	run, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if run.Season != 222 {
		t.Errorf("season = %d", run.Season)
	}
	if run.ArtifactDir == "" {
		t.Error("artifact dir default missing")
	}
	if run.Staging.DSN == "" {
		t.Error("staging DSN default missing")
	}
	if run.Match.Threshold != match.DefaultThreshold {
		t.Errorf("threshold = %v, want default %v", run.Match.Threshold, match.DefaultThreshold)
	}
	if run.Match.MaxCandidates != match.DefaultLimit {
		t.Errorf("max candidates = %d, want default %d", run.Match.MaxCandidates, match.DefaultLimit)
	}
	if run.Commit.AuditLog == "" {
		t.Error("audit log default missing")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STORE_DSN", "postgres://override/db")
	t.Setenv("MATCH_THRESHOLD", "0.75")
	path := writeConfig(t, `{"season": 222, "store": {"dsn": "postgres://file/db"}, "match": {"threshold": 0.95}}`)
	run, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if run.Store.DSN != "postgres://override/db" {
		t.Errorf("store DSN = %q, env override lost", run.Store.DSN)
	}
	if run.Match.Threshold != 0.75 {
		t.Errorf("threshold = %v, env override lost", run.Match.Threshold)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file accepted")
	}
	if _, err := Load(writeConfig(t, `{not json`)); err == nil {
		t.Error("malformed JSON accepted")
	}
}

func TestValidate(t *testing.T) {
	valid := Run{Season: 222, Store: StoreConfig{DSN: "postgres://x"}}
	valid.Match.Threshold = 0.9
	if issues := Validate(valid); len(issues) != 0 {
		t.Errorf("valid config produced issues: %v", issues)
	}

	var bad Run
	issues := Validate(bad)
	paths := map[string]IssueSeverity{}
	for _, i := range issues {
		paths[i.Path] = i.Severity
	}
	if paths["season"] != SeverityError {
		t.Errorf("season issue = %v", paths["season"])
	}
	if paths["store.dsn"] != SeverityError {
		t.Errorf("store.dsn issue = %v", paths["store.dsn"])
	}
}

func TestRanker(t *testing.T) {
	run := Run{Match: MatchConfig{Threshold: 0.8, MaxCandidates: 5}}
	r := run.Ranker()
	if r.Threshold != 0.8 || r.Limit != 5 {
		t.Errorf("ranker = %+v", r)
	}
}
