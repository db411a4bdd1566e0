// Package stats accumulates the per-run counters and error list every phase
// returns. A non-empty error list combined with nonzero created/updated
// counters means partial success; callers must inspect Errors before treating
// a run as fully successful.
package stats

import (
	"fmt"
	"sort"
	"strings"
)

// Error is one recorded per-entity failure. Kind and Key carry enough
// context (entity kind plus natural or import key) to locate the offending
// source row.
type Error struct {
	Kind string `json:"kind"`
	Key  string `json:"key"`
	Msg  string `json:"msg"`
}

func (e Error) String() string {
	return fmt.Sprintf("%s[%s]: %s", e.Kind, e.Key, e.Msg)
}

// Stats is the running tally for one phase invocation.
type Stats struct {
	Counters map[string]int `json:"counters"`
	Errors   []Error        `json:"errors"`
}

func New() *Stats {
	return &Stats{Counters: map[string]int{}}
}

// Inc bumps the named counter by one.
func (s *Stats) Inc(name string) { s.Add(name, 1) }

// Add bumps the named counter by n.
func (s *Stats) Add(name string, n int) {
	if s.Counters == nil {
		s.Counters = map[string]int{}
	}
	s.Counters[name] += n
}

// Count returns the current value of the named counter.
func (s *Stats) Count(name string) int { return s.Counters[name] }

// AddError records a per-entity failure. It never aborts anything; the
// caller continues with the next row.
func (s *Stats) AddError(kind, key, format string, args ...any) {
	s.Errors = append(s.Errors, Error{Kind: kind, Key: key, Msg: fmt.Sprintf(format, args...)})
}

// OK reports whether the run finished without recorded errors.
func (s *Stats) OK() bool { return len(s.Errors) == 0 }

// Merge folds other into s.
func (s *Stats) Merge(other *Stats) {
	if other == nil {
		return
	}
	for name, n := range other.Counters {
		s.Add(name, n)
	}
	s.Errors = append(s.Errors, other.Errors...)
}

// Summary renders the counters (sorted by name) and errors as the final
// human-readable block appended to the audit log.
func (s *Stats) Summary() string {
	var b strings.Builder
	names := make([]string, 0, len(s.Counters))
	for name := range s.Counters {
		names = append(names, name)
	}
	sort.Strings(names)
	b.WriteString("-- summary\n")
	for _, name := range names {
		fmt.Fprintf(&b, "--   %-40s %d\n", name, s.Counters[name])
	}
	fmt.Fprintf(&b, "--   errors: %d\n", len(s.Errors))
	for _, e := range s.Errors {
		fmt.Fprintf(&b, "--     %s\n", e)
	}
	return b.String()
}
