package solver

import (
	"context"
	"sort"

	"swimpipe/internal/layout"
	"swimpipe/internal/parse"
)

// SwimmerData is one resolved (or surfaced) swimmer in the Phase 3 artifact,
// keyed by the composite identity key from the source document.
type SwimmerData struct {
	Key         string `json:"key"`
	LastName    string `json:"last_name"`
	FirstName   string `json:"first_name"`
	YearOfBirth int    `json:"year_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Team        string `json:"team,omitempty"`

	SwimmerID      *int64      `json:"swimmer_id"`
	BadgeID        *int64      `json:"badge_id"`
	CategoryTypeID *int64      `json:"category_type_id"`
	CategoryCode   string      `json:"category_code,omitempty"`
	Candidates     []Candidate `json:"candidates,omitempty"`
}

// SwimmersData is the Phase 3 artifact payload.
type SwimmersData struct {
	SeasonID int64         `json:"season_id"`
	Swimmers []SwimmerData `json:"swimmers"`
}

// BuildSwimmers runs Phase 3: collects every swimmer identity in the source
// (individual results plus relay legs), resolves each exactly when the full
// key matches and fuzzily otherwise, then pre-matches the season badge and
// computes the category assignment through the run-scoped cache.
func BuildSwimmers(ctx context.Context, req Request) (string, error) {
	if err := req.load(); err != nil {
		return "", err
	}
	if err := req.validate(); err != nil {
		return "", err
	}

	idents := map[string]layout.SwimmerIdent{}
	var keys []string
	note := func(key string) {
		if key == "" {
			return
		}
		if _, ok := idents[key]; ok {
			return
		}
		ident, err := layout.ParseSwimmerKey(key)
		if err != nil || ident.IsBlank() {
			return
		}
		idents[key] = ident
		keys = append(keys, key)
	}
	for _, ev := range req.Doc.Events {
		for _, res := range ev.Results {
			note(res.Swimmer)
			for _, leg := range res.Swimmers {
				note(leg)
			}
			for _, lap := range res.Laps {
				note(lap.Swimmer)
			}
		}
	}
	sort.Strings(keys)

	cache := NewCategoryCache(req.Season, req.Store)
	data := SwimmersData{SeasonID: req.Season.ID}
	for _, key := range keys {
		ident := idents[key]
		sd := SwimmerData{
			Key:         key,
			LastName:    ident.LastName,
			FirstName:   ident.FirstName,
			YearOfBirth: ident.YearOfBirth,
			Gender:      ident.Gender,
			Team:        ident.Team,
		}

		if err := resolveSwimmer(ctx, req, &sd); err != nil {
			return "", err
		}

		// Badge and category pre-match only make sense once the
		// swimmer identity is settled.
		if sd.SwimmerID != nil {
			if badge, found, err := req.Store.BadgeFor(ctx, *sd.SwimmerID, req.Season.ID); err != nil {
				return "", err
			} else if found {
				id := badge.ID
				sd.BadgeID = &id
				if badge.CategoryTypeID != 0 {
					ct := badge.CategoryTypeID
					sd.CategoryTypeID = &ct
				}
			}
		}
		if sd.CategoryTypeID == nil {
			if ct, found, err := cache.ForYearOfBirth(ctx, ident.YearOfBirth); err != nil {
				return "", err
			} else if found {
				id := ct.ID
				sd.CategoryTypeID = &id
				sd.CategoryCode = ct.Code
			}
		}
		data.Swimmers = append(data.Swimmers, sd)
	}
	return req.writeArtifact("solver/swimmer", 3, data)
}

// resolveSwimmer tries the exact composite-key lookup first, then falls back
// to fuzzy ranking over same-year candidates. Sub-threshold best matches are
// surfaced, not auto-assigned.
func resolveSwimmer(ctx context.Context, req Request, sd *SwimmerData) error {
	if sd.Gender != "" && sd.YearOfBirth > 0 {
		if sw, found, err := req.Store.SwimmerByKey(ctx, sd.LastName, sd.FirstName, sd.YearOfBirth, sd.Gender); err != nil {
			return err
		} else if found {
			id := sw.ID
			sd.SwimmerID = &id
			return nil
		}
	}

	candidates, err := req.Store.SearchSwimmers(ctx, sd.LastName, sd.YearOfBirth)
	if err != nil {
		return err
	}
	complete := parse.CollapseSpaces(sd.LastName + " " + sd.FirstName)
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.CompleteName
	}
	for _, r := range req.Ranker.Rank(complete, names) {
		sd.Candidates = append(sd.Candidates, Candidate{ID: candidates[r.Index].ID, Name: r.Name, Score: r.Score})
	}
	if best, ok := req.Ranker.Best(complete, names); ok {
		// A fuzzy hit still has to agree on gender when both sides
		// know it; a name-perfect match of the wrong gender is a
		// different person.
		c := candidates[best.Index]
		if sd.Gender == "" || c.Gender == "" || equalFold(c.Gender, sd.Gender) {
			id := c.ID
			sd.SwimmerID = &id
		}
	}
	return nil
}

func equalFold(a, b string) bool {
	return parse.NormalizeName(a) == parse.NormalizeName(b)
}
