package solver

import (
	"context"
	"strconv"
	"strings"
	"time"

	"swimpipe/internal/parse"
)

// MeetingData is the Phase 1 artifact payload.
type MeetingData struct {
	Description string `json:"description"`
	DatesRaw    string `json:"dates_raw,omitempty"`
	HeaderDate  string `json:"header_date,omitempty"` // ISO, first meeting day
	Venue       string `json:"venue,omitempty"`
	Address     string `json:"address,omitempty"`
	PoolLength  int    `json:"pool_length,omitempty"`
	SeasonID    int64  `json:"season_id"`

	// MeetingID is set only on an exact match; fuzzy meeting matches are
	// surfaced in Candidates for human review, never auto-applied.
	MeetingID  *int64      `json:"meeting_id"`
	Candidates []Candidate `json:"candidates,omitempty"`

	Sessions []SessionData `json:"sessions"`
}

// SessionData is one meeting session extracted from the header dates.
type SessionData struct {
	SessionOrder   int    `json:"session_order"`
	ScheduledDate  string `json:"scheduled_date,omitempty"` // ISO
	PoolName       string `json:"pool_name,omitempty"`
	SwimmingPoolID *int64 `json:"swimming_pool_id"`
}

// BuildMeeting runs Phase 1: extracts the meeting header, fuzzy-matches the
// meeting against the season's existing meetings, pre-matches the venue pool,
// and writes the phase artifact. Returns the artifact path.
func BuildMeeting(ctx context.Context, req Request) (string, error) {
	if err := req.load(); err != nil {
		return "", err
	}
	if err := req.validate(); err != nil {
		return "", err
	}

	data := MeetingData{
		Description: parse.CollapseSpaces(req.Doc.Name),
		DatesRaw:    req.Doc.Dates,
		Venue:       parse.CollapseSpaces(req.Doc.Place),
		Address:     parse.CollapseSpaces(req.Doc.Address),
		SeasonID:    req.Season.ID,
	}
	if n, err := strconv.Atoi(strings.TrimSpace(req.Doc.PoolLength)); err == nil {
		data.PoolLength = n
	}
	if d, err := parse.ParseDate(req.Doc.Dates); err == nil {
		data.HeaderDate = d.Format("2006-01-02")
	}

	// Candidate meetings restricted to the same season, ranked by
	// description similarity, capped for review.
	meetings, err := req.Store.SearchMeetings(ctx, req.Season.ID, data.Description)
	if err != nil {
		return "", err
	}
	names := make([]string, len(meetings))
	for i, m := range meetings {
		names[i] = m.Description
	}
	for _, r := range req.Ranker.Rank(data.Description, names) {
		c := Candidate{ID: meetings[r.Index].ID, Name: r.Name, Score: r.Score}
		data.Candidates = append(data.Candidates, c)
		if r.Score == 1 && data.MeetingID == nil {
			id := c.ID
			data.MeetingID = &id
		}
	}

	data.Sessions = extractSessions(ctx, req, data)
	return req.writeArtifact("solver/meeting", 1, data)
}

// extractSessions derives one session per distinct meeting day. Sources that
// carry no parseable dates still yield a single session so downstream phases
// always have a session to attach events to.
func extractSessions(ctx context.Context, req Request, data MeetingData) []SessionData {
	var days []time.Time
	if data.HeaderDate != "" {
		first, _ := time.Parse("2006-01-02", data.HeaderDate)
		days = append(days, first)
		// Spans like "25/26 Febbraio 2023" list extra day numbers before
		// the month; each becomes its own session.
		for _, extra := range extraDays(req.Doc.Dates) {
			days = append(days, time.Date(first.Year(), first.Month(), extra, 0, 0, 0, 0, time.UTC))
		}
	}
	if len(days) == 0 {
		days = append(days, time.Time{})
	}

	poolName := parse.CollapseSpaces(req.Doc.Place)
	var poolID *int64
	if poolName != "" {
		if pool, found, err := req.Store.PoolByNickName(ctx, poolNickName(poolName)); err == nil && found {
			id := pool.ID
			poolID = &id
		}
	}

	out := make([]SessionData, 0, len(days))
	for i, day := range days {
		s := SessionData{SessionOrder: i + 1, PoolName: poolName, SwimmingPoolID: poolID}
		if !day.IsZero() {
			s.ScheduledDate = day.Format("2006-01-02")
		}
		out = append(out, s)
	}
	return out
}

// extraDays pulls the additional day numbers out of a span like
// "25/26 Febbraio 2023" (everything after the first day, before the month).
func extraDays(dates string) []int {
	fields := strings.Fields(parse.CollapseSpaces(dates))
	if len(fields) == 0 {
		return nil
	}
	parts := strings.FieldsFunc(fields[0], func(r rune) bool {
		return r == '/' || r == '-' || r == ',' || r == '&'
	})
	var out []int
	for _, p := range parts[1:] {
		if d, err := strconv.Atoi(p); err == nil && d > 0 && d <= 31 {
			out = append(out, d)
		}
	}
	return out
}

// poolNickName derives the conventional pool nickname from the venue name:
// lower-cased, spaces dropped.
func poolNickName(venue string) string {
	return strings.ToLower(strings.ReplaceAll(venue, " ", ""))
}
