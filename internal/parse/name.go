package parse

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransform strips accents: decompose, drop nonspacing marks, recompose.
var foldTransform = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeName canonicalizes a person or team name for matching purposes:
// accents folded, inner whitespace collapsed, upper-cased. The original
// spelling is always what gets persisted; this form exists only so that
// "PEREZ ALVAREZ" and "Pérez Álvarez " compare equal.
func NormalizeName(s string) string {
	folded, _, err := transform.String(foldTransform, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(CollapseSpaces(folded))
}

// CollapseSpaces reduces runs of whitespace to a single ASCII space and trims
// the ends.
func CollapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SplitSwimmerName splits a combined "LASTNAME FIRSTNAME" string on the given
// year-less convention used by the source files: everything up to the last
// token that looks like a first name is ambiguous, so the split point is the
// one recorded by the converter when available. When lastName is already
// provided this is a no-op passthrough.
func SplitSwimmerName(complete, last, first string) (lastName, firstName string) {
	last = CollapseSpaces(last)
	first = CollapseSpaces(first)
	if last != "" || first != "" {
		return last, first
	}
	// Fallback heuristic: first token is the last name.
	parts := strings.Fields(complete)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
