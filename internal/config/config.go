// Package config defines the JSON-serializable configuration for an import
// run. Field names in Go mirror the JSON structure of run files; decoding is
// performed by the standard library, with env-file overrides layered on top
// for the credentials that never belong in a checked-in run file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"swimpipe/internal/match"
)

// Run is the top-level object decoded from a run configuration file.
type Run struct {
	// Season is the permanent-store season ID every match is scoped to.
	Season int64 `json:"season"`

	// ArtifactDir is where phase artifacts are written; one subdirectory
	// per source file.
	ArtifactDir string `json:"artifact_dir"`

	Store   StoreConfig   `json:"store"`
	Staging StagingConfig `json:"staging"`
	Match   MatchConfig   `json:"match"`
	Commit  CommitConfig  `json:"commit"`
}

// StoreConfig configures the permanent relational store.
type StoreConfig struct {
	// DSN is the pgx connection string. Overridable via STORE_DSN.
	DSN string `json:"dsn"`
}

// StagingConfig configures the Phase 5 staging database.
type StagingConfig struct {
	// DSN is the SQLite path/DSN for staged entities. Overridable via
	// STAGING_DSN. Defaults to a local file when empty.
	DSN string `json:"dsn"`
}

// MatchConfig tunes the fuzzy matcher.
type MatchConfig struct {
	// Threshold is the auto-assignment confidence bound. It was tuned
	// empirically (tightened, then loosened to cut review load), so it is
	// a config value rather than a constant. Zero selects the default.
	Threshold float64 `json:"threshold"`

	// MaxCandidates caps surfaced candidate lists. Zero selects the
	// default.
	MaxCandidates int `json:"max_candidates"`
}

// CommitConfig tunes Phase 6.
type CommitConfig struct {
	// Strict wraps the whole commit in one transaction rolled back on the
	// first error, instead of the default partial-success mode.
	Strict bool `json:"strict"`

	// AuditLog is the path of the append-only SQL audit log.
	AuditLog string `json:"audit_log"`
}

// Load reads a run configuration file, layers .env / process-env overrides,
// and applies defaults.
func Load(path string) (Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return Run{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	var run Run
	if err := json.NewDecoder(f).Decode(&run); err != nil {
		return Run{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	run.applyEnv()
	run.applyDefaults()
	return run, nil
}

// applyEnv loads .env if present (missing file is fine) and lets the
// environment override the secrets-bearing fields.
func (r *Run) applyEnv() {
	_ = godotenv.Load()
	if v := os.Getenv("STORE_DSN"); v != "" {
		r.Store.DSN = v
	}
	if v := os.Getenv("STAGING_DSN"); v != "" {
		r.Staging.DSN = v
	}
	if v := os.Getenv("MATCH_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			r.Match.Threshold = f
		}
	}
}

func (r *Run) applyDefaults() {
	if r.ArtifactDir == "" {
		r.ArtifactDir = "crawler/data/results.new"
	}
	if r.Staging.DSN == "" {
		r.Staging.DSN = "file:staging.db?cache=shared&_fk=1"
	}
	if r.Match.Threshold <= 0 {
		r.Match.Threshold = match.DefaultThreshold
	}
	if r.Match.MaxCandidates <= 0 {
		r.Match.MaxCandidates = match.DefaultLimit
	}
	if r.Commit.AuditLog == "" {
		r.Commit.AuditLog = "crawler/data/results.sql"
	}
}

// Ranker builds the configured fuzzy ranker.
func (r Run) Ranker() match.Ranker {
	return match.Ranker{Threshold: r.Match.Threshold, Limit: r.Match.MaxCandidates}
}
