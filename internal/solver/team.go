package solver

import (
	"context"
	"sort"

	"swimpipe/internal/match"
	"swimpipe/internal/parse"
)

// TeamData is one resolved (or surfaced) team in the Phase 2 artifact.
// A present TeamAffiliationID means the affiliation already exists in the
// permanent store; null means Phase 6 creates it.
type TeamData struct {
	Key  string `json:"key"` // normalized name, unique within the file
	Name string `json:"name"`

	TeamID            *int64      `json:"team_id"`
	TeamAffiliationID *int64      `json:"team_affiliation_id"`
	Candidates        []Candidate `json:"candidates,omitempty"`
}

// TeamsData is the Phase 2 artifact payload.
type TeamsData struct {
	SeasonID int64      `json:"season_id"`
	Teams    []TeamData `json:"teams"`
}

// BuildTeams runs Phase 2: collects every distinct team named in the source,
// fuzzy-matches each against the permanent store, and pre-matches the
// season's team affiliation for every confirmed team.
func BuildTeams(ctx context.Context, req Request) (string, error) {
	if err := req.load(); err != nil {
		return "", err
	}
	if err := req.validate(); err != nil {
		return "", err
	}

	// Dedup by normalized name; keep the first spelling seen.
	seen := map[string]string{}
	var keys []string
	noteTeam := func(name string) {
		name = parse.CollapseSpaces(name)
		if name == "" {
			return
		}
		key := parse.NormalizeName(name)
		if _, ok := seen[key]; !ok {
			seen[key] = name
			keys = append(keys, key)
		}
	}
	for _, ev := range req.Doc.Events {
		for _, res := range ev.Results {
			noteTeam(res.Team)
		}
	}
	sort.Strings(keys)

	data := TeamsData{SeasonID: req.Season.ID}
	for _, key := range keys {
		td := TeamData{Key: key, Name: seen[key]}

		teams, err := req.Store.SearchTeams(ctx, td.Name)
		if err != nil {
			return "", err
		}
		// Rank against both the registered and the editable spelling;
		// a team matches on whichever scores better.
		names := make([]string, len(teams))
		for i, t := range teams {
			names[i] = t.Name
			if t.EditableName != "" && match.Score(td.Name, t.EditableName) > match.Score(td.Name, t.Name) {
				names[i] = t.EditableName
			}
		}
		ranked := req.Ranker.Rank(td.Name, names)
		for _, r := range ranked {
			td.Candidates = append(td.Candidates, Candidate{ID: teams[r.Index].ID, Name: r.Name, Score: r.Score})
		}
		if best, ok := req.Ranker.Best(td.Name, names); ok {
			id := teams[best.Index].ID
			td.TeamID = &id
			if aff, found, err := req.Store.AffiliationFor(ctx, id, req.Season.ID); err != nil {
				return "", err
			} else if found {
				affID := aff.ID
				td.TeamAffiliationID = &affID
			}
		}
		data.Teams = append(data.Teams, td)
	}
	return req.writeArtifact("solver/team", 2, data)
}
