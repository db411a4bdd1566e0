// Package importkey builds the deterministic, human-auditable string keys
// that identify entities-to-be-matched within a single source file. Field
// order and the "|" separator are part of the contract: two rows colliding on
// the decisive attributes must produce the same key, and repeated runs over
// an unmodified source must produce identical keys.
package importkey

import (
	"strconv"
	"strings"

	"swimpipe/internal/parse"
)

const sep = "|"

// Program identifies one meeting program slice: event code + category +
// gender within a session.
func Program(sessionOrder int, eventCode, category, gender string) string {
	return join(
		strconv.Itoa(sessionOrder),
		eventCode,
		category,
		strings.ToUpper(gender),
	)
}

// Individual identifies one individual result: program plus swimmer identity.
func Individual(programKey, swimmerKey string) string {
	return join(programKey, swimmerKey)
}

// Relay identifies one relay result: program plus team plus the timing
// string. The timing is part of the key because two relay teams of the same
// club in the same program (re-swims, "B" squads) must stay distinguishable.
func Relay(programKey, team, timing string) string {
	return join(programKey, parse.CollapseSpaces(team), parse.CollapseSpaces(timing))
}

// Lap identifies one lap row under its parent result.
func Lap(resultKey string, distance int) string {
	return join(resultKey, strconv.Itoa(distance))
}

// RelaySwimmer identifies one relay leg under its parent relay result.
func RelaySwimmer(relayKey string, order int) string {
	return join(relayKey, strconv.Itoa(order))
}

// RelayLap identifies one sub-lap under its parent relay leg.
func RelayLap(swimmerKey string, distance int) string {
	return join(swimmerKey, strconv.Itoa(distance))
}

func join(parts ...string) string { return strings.Join(parts, sep) }
