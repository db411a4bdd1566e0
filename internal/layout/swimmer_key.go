package layout

import (
	"fmt"
	"strconv"
	"strings"

	"swimpipe/internal/parse"
)

// SwimmerKey builds the composite identity key used by LT4 documents and by
// the swimmer solver: "<gender>|<lastname>|<firstname>|<birthyear>|<team>".
// Field order and separator are fixed; an unknown gender or year stays blank
// rather than being guessed.
func SwimmerKey(gender, lastName, firstName string, yearOfBirth int, team string) string {
	year := ""
	if yearOfBirth > 0 {
		year = strconv.Itoa(yearOfBirth)
	}
	return strings.Join([]string{
		strings.ToUpper(strings.TrimSpace(gender)),
		parse.CollapseSpaces(lastName),
		parse.CollapseSpaces(firstName),
		year,
		parse.CollapseSpaces(team),
	}, "|")
}

// SwimmerIdent is the parsed form of a composite swimmer key.
type SwimmerIdent struct {
	Gender      string
	LastName    string
	FirstName   string
	YearOfBirth int
	Team        string
}

// IsBlank reports whether the key carried no identity at all (an unprinted
// relay leg).
func (s SwimmerIdent) IsBlank() bool {
	return s.LastName == "" && s.FirstName == "" && s.YearOfBirth == 0
}

// ParseSwimmerKey splits a composite swimmer key back into its parts.
func ParseSwimmerKey(key string) (SwimmerIdent, error) {
	parts := strings.Split(key, "|")
	if len(parts) != 5 {
		return SwimmerIdent{}, fmt.Errorf("swimmer key %q: want 5 fields, got %d", key, len(parts))
	}
	year := 0
	if parts[3] != "" {
		year = parse.ParseYear(parts[3])
	}
	return SwimmerIdent{
		Gender:      parts[0],
		LastName:    parts[1],
		FirstName:   parts[2],
		YearOfBirth: year,
		Team:        parts[4],
	}, nil
}
