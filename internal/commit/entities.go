package commit

import (
	"fmt"
	"os"

	"swimpipe/internal/artifact"
	"swimpipe/internal/parse"
	"swimpipe/internal/solver"
)

// strokeTypeIDs maps stroke codes onto the conventional stroke_types rows.
var strokeTypeIDs = map[string]int64{
	parse.StrokeFreestyle:    1,
	parse.StrokeButterfly:    2,
	parse.StrokeBackstroke:   3,
	parse.StrokeBreaststroke: 4,
	parse.StrokeMedley:       10,
}

// finalsHeatTypeID is the heat_types row for finals, the only heat kind the
// supported result files carry.
const finalsHeatTypeID int64 = 3

// phaseData bundles the four solver artifacts a commit run consumes.
type phaseData struct {
	meeting  solver.MeetingData
	teams    solver.TeamsData
	swimmers solver.SwimmersData
	events   solver.EventsData
}

// loadPhases reads the four phase artifacts for the source file. All four
// must exist and must have been generated from the source bytes currently on
// disk: committing stale resolutions against fresh staging rows is a usage
// error, not a per-entity one.
func loadPhases(dir, sourcePath string) (phaseData, error) {
	var pd phaseData
	raw, err := os.ReadFile(sourcePath)
	if err != nil {
		return pd, fmt.Errorf("commit: source: %w", err)
	}
	checksum := artifact.Checksum(raw)

	steps := []struct {
		phase int
		out   any
	}{
		{1, &pd.meeting},
		{2, &pd.teams},
		{3, &pd.swimmers},
		{4, &pd.events},
	}
	for _, s := range steps {
		path := solver.ArtifactPath(dir, sourcePath, s.phase)
		meta, err := artifact.Read(path, s.out)
		if err != nil {
			return pd, fmt.Errorf("commit: phase %d artifact: %w", s.phase, err)
		}
		if meta.SourceChecksum != checksum {
			return pd, fmt.Errorf("commit: phase %d artifact is stale for %s, re-run the solvers", s.phase, sourcePath)
		}
	}
	return pd, nil
}

// runState carries the entity IDs resolved while walking the dependency
// order, so children always address parents committed earlier in the same
// run.
type runState struct {
	meetingID    int64
	sessionIDs   map[int]int64    // session order -> id
	teamIDs      map[string]int64 // normalized team key -> id
	affiliations map[string]int64
	swimmerIDs   map[string]int64 // composite swimmer key -> id
	badgeIDs     map[string]int64
	categoryIDs  map[string]int64 // category code -> id
	eventIDs     map[string]int64 // event code -> meeting_event id
}

func newRunState() *runState {
	return &runState{
		sessionIDs:   map[int]int64{},
		teamIDs:      map[string]int64{},
		affiliations: map[string]int64{},
		swimmerIDs:   map[string]int64{},
		badgeIDs:     map[string]int64{},
		categoryIDs:  map[string]int64{},
		eventIDs:     map[string]int64{},
	}
}
