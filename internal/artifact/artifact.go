// Package artifact reads and writes the immutable JSON snapshots handed from
// one pipeline phase to the next. Every snapshot carries a _meta envelope
// (generating phase, source identity and checksum, timestamp, run ID) and a
// phase-specific data payload; the envelope is the only contract phases share.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

// Meta is the envelope written under the "_meta" key of every phase artifact.
type Meta struct {
	Generator      string `json:"generator"`       // phase identifier, e.g. "solver/team"
	SourcePath     string `json:"source_path"`     // original source document
	SourceChecksum string `json:"source_checksum"` // xxh3 of the source bytes
	GeneratedAt    string `json:"generated_at"`    // RFC3339
	RunID          string `json:"run_id"`
}

// Envelope is the full on-disk artifact shape.
type Envelope struct {
	Meta Meta            `json:"_meta"`
	Data json.RawMessage `json:"data"`
}

// Checksum returns the hex xxh3 hash of the given source bytes. Used both
// when generating an artifact and when a later phase wants to detect that the
// source changed under its feet.
func Checksum(raw []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(raw))
}

// New builds an envelope around the given payload. The payload is marshaled
// immediately so the artifact is a snapshot, not a live reference.
func New(generator, sourcePath string, sourceRaw []byte, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("artifact: marshal %s payload: %w", generator, err)
	}
	return Envelope{
		Meta: Meta{
			Generator:      generator,
			SourcePath:     sourcePath,
			SourceChecksum: Checksum(sourceRaw),
			GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
			RunID:          uuid.NewString(),
		},
		Data: data,
	}, nil
}

// Write persists the envelope at path. The file is written to a temp sibling
// and renamed so readers never observe a half-written artifact; once on disk
// an artifact is never modified, only superseded by a new write.
func Write(path string, env Envelope) error {
	raw, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("artifact: marshal envelope: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("artifact: mkdir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("artifact: write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("artifact: rename %s: %w", path, err)
	}
	return nil
}

// Read loads the envelope at path and unmarshals its data payload into out
// (a pointer to the phase-specific shape). Missing required envelope keys
// fail fast rather than propagating zero values downstream.
func Read(path string, out any) (Meta, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Meta{}, fmt.Errorf("artifact: read %s: %w", path, err)
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Meta{}, fmt.Errorf("artifact: decode %s: %w", path, err)
	}
	if env.Meta.Generator == "" {
		return Meta{}, fmt.Errorf("artifact: %s: _meta.generator missing", path)
	}
	if len(env.Data) == 0 {
		return Meta{}, fmt.Errorf("artifact: %s: data payload missing", path)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return Meta{}, fmt.Errorf("artifact: decode %s data: %w", path, err)
		}
	}
	return env.Meta, nil
}

// Stale reports whether the artifact at path was generated from source bytes
// different from sourceRaw. A missing artifact is stale by definition.
func Stale(path string, sourceRaw []byte) bool {
	meta, err := Read(path, nil)
	if err != nil {
		return true
	}
	return meta.SourceChecksum != Checksum(sourceRaw)
}
