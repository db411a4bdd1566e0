// Package solver implements pipeline phases 1 through 4: meeting/session,
// team, swimmer/badge and event resolution. Each solver extracts its slice of
// the source document, matches candidates against the permanent store scoped
// to one season, and writes an immutable phase artifact carrying resolved IDs
// where confidence allowed and null IDs (plus surfaced candidates) where it
// did not.
//
// A solver never fails on an unmatched candidate; it fails only on structural
// errors: unreadable source, unknown layout marker, missing required
// top-level fields.
package solver

import (
	"fmt"
	"path/filepath"
	"strings"

	"swimpipe/internal/artifact"
	"swimpipe/internal/layout"
	"swimpipe/internal/match"
	"swimpipe/internal/store"
)

// Request carries everything a solver needs for one build. Doc/Raw may be
// pre-loaded by the caller (the CLI loads once and runs all four phases);
// when Raw is nil the solver loads SourcePath itself.
type Request struct {
	SourcePath  string
	ArtifactDir string
	Doc         layout.DocLT4
	Raw         []byte
	Season      store.Season
	Store       store.Reader
	Ranker      match.Ranker
}

// load resolves the source document, reading from disk only when the caller
// did not pre-load it.
func (r *Request) load() error {
	if r.Raw != nil {
		return nil
	}
	doc, raw, err := layout.Load(r.SourcePath)
	if err != nil {
		return err
	}
	r.Doc, r.Raw = doc, raw
	return nil
}

// validate checks the structural preconditions shared by all solvers.
func (r *Request) validate() error {
	if strings.TrimSpace(r.Doc.Name) == "" {
		return &layout.FormatError{Msg: "meeting name missing from source header"}
	}
	if r.Season.ID == 0 {
		return fmt.Errorf("solver: season not resolved")
	}
	return nil
}

// ArtifactPath returns the conventional path of a phase artifact for a
// source file: "<dir>/<source base>-p<phase>.json".
func ArtifactPath(dir, sourcePath string, phase int) string {
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	return filepath.Join(dir, fmt.Sprintf("%s-p%d.json", base, phase))
}

// Candidate is one surfaced match for human review.
type Candidate struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// writeArtifact wraps the payload in its envelope and persists it.
func (r *Request) writeArtifact(generator string, phase int, payload any) (string, error) {
	env, err := artifact.New(generator, r.SourcePath, r.Raw, payload)
	if err != nil {
		return "", err
	}
	path := ArtifactPath(r.ArtifactDir, r.SourcePath, phase)
	if err := artifact.Write(path, env); err != nil {
		return "", err
	}
	return path, nil
}
