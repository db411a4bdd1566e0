// Package match ranks permanent-store candidates against names extracted
// from a source document. Scores are Levenshtein-based similarities in [0,1]
// over accent-folded, case-folded names; the auto-assignment threshold is a
// tunable, not a constant, because it has only ever been validated
// empirically against real result files.
package match

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"swimpipe/internal/parse"
)

// DefaultThreshold is the starting point for the auto-assignment confidence
// bound. Matches scoring at or above it may be treated as confirmed; below
// it they are surfacing-only and require manual review.
const DefaultThreshold = 0.89

// DefaultLimit caps how many candidates are surfaced for human review.
const DefaultLimit = 10

// Result is one ranked candidate.
type Result struct {
	Index int     `json:"index"` // position in the candidate slice
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Score returns the similarity of a and b in [0,1]: 1 is an exact match
// after normalization, 0 shares nothing. Symmetric.
func Score(a, b string) float64 {
	na, nb := parse.NormalizeName(a), parse.NormalizeName(b)
	if na == nb {
		return 1
	}
	longest := len(na)
	if len(nb) > longest {
		longest = len(nb)
	}
	if longest == 0 {
		return 0
	}
	dist := fuzzy.LevenshteinDistance(na, nb)
	if dist >= longest {
		return 0
	}
	return 1 - float64(dist)/float64(longest)
}

// Ranker ranks candidates and decides auto-assignment.
type Ranker struct {
	// Threshold is the minimum score for auto-assignment.
	Threshold float64
	// Limit caps the surfaced candidate list; zero means DefaultLimit.
	Limit int
}

// NewRanker returns a Ranker with the given threshold (zero selects
// DefaultThreshold).
func NewRanker(threshold float64) Ranker {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Ranker{Threshold: threshold, Limit: DefaultLimit}
}

// Rank scores every candidate name against query and returns the non-zero
// scorers in descending score order, capped at Limit. Ties keep candidate
// order so repeated runs rank identically.
func (r Ranker) Rank(query string, names []string) []Result {
	limit := r.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	out := make([]Result, 0, len(names))
	for i, n := range names {
		s := Score(query, n)
		if s <= 0 {
			continue
		}
		out = append(out, Result{Index: i, Name: n, Score: s})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Best returns the top candidate and whether it clears the auto-assignment
// threshold. A sub-threshold best match is still returned so callers can
// surface it for manual confirmation.
func (r Ranker) Best(query string, names []string) (Result, bool) {
	ranked := r.Rank(query, names)
	if len(ranked) == 0 {
		return Result{Index: -1}, false
	}
	return ranked[0], ranked[0].Score >= r.Threshold
}
