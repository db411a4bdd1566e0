package solver

import (
	"context"

	"swimpipe/internal/artifact"
	"swimpipe/internal/parse"
)

// EventData is one deduplicated event in the Phase 4 artifact.
type EventData struct {
	Title      string `json:"title"`
	Code       string `json:"code"`
	Gender     string `json:"gender"`
	Distance   int    `json:"distance"`
	Stroke     string `json:"stroke"`
	Relay      bool   `json:"relay,omitempty"`
	EventOrder int    `json:"event_order"`

	MeetingEventID *int64 `json:"meeting_event_id"`
}

// SessionEvents groups the events of one session.
type SessionEvents struct {
	SessionOrder int         `json:"session_order"`
	Events       []EventData `json:"events"`
}

// EventsData is the Phase 4 artifact payload.
type EventsData struct {
	SeasonID int64           `json:"season_id"`
	Sessions []SessionEvents `json:"sessions"`
}

// BuildEvents runs Phase 4: deduplicates the source's events within their
// session by (code, gender), parses each title deterministically, and
// pre-matches existing meeting events when Phase 1 resolved the meeting.
// A relay-only source still yields one session holding one event per gender
// group.
func BuildEvents(ctx context.Context, req Request) (string, error) {
	if err := req.load(); err != nil {
		return "", err
	}
	if err := req.validate(); err != nil {
		return "", err
	}

	// Existing events, keyed by code, available only when Phase 1 already
	// confirmed the meeting.
	existing := map[string]int64{}
	if meetingID, ok := resolvedMeetingID(req); ok {
		events, err := req.Store.MeetingEvents(ctx, meetingID)
		if err != nil {
			return "", err
		}
		for _, e := range events {
			existing[e.EventCode] = e.ID
		}
	}

	session := SessionEvents{SessionOrder: 1}
	seen := map[string]bool{}
	for _, ev := range req.Doc.Events {
		et, err := parse.ParseEventTitle(ev.Title)
		if err != nil {
			return "", err
		}
		code := et.Code(ev.Gender)
		sig := code + "|" + ev.Gender
		if seen[sig] {
			continue
		}
		seen[sig] = true

		ed := EventData{
			Title:      parse.CollapseSpaces(ev.Title),
			Code:       code,
			Gender:     ev.Gender,
			Distance:   et.Distance,
			Stroke:     et.Stroke,
			Relay:      et.Relay,
			EventOrder: len(session.Events) + 1,
		}
		if id, ok := existing[code]; ok {
			ed.MeetingEventID = &id
		}
		session.Events = append(session.Events, ed)
	}

	data := EventsData{
		SeasonID: req.Season.ID,
		Sessions: []SessionEvents{session},
	}
	return req.writeArtifact("solver/event", 4, data)
}

// resolvedMeetingID reads the Phase 1 artifact, when present, and returns the
// confirmed meeting ID. A missing, stale or unresolved artifact simply means
// no pre-matching: not an error.
func resolvedMeetingID(req Request) (int64, bool) {
	path := ArtifactPath(req.ArtifactDir, req.SourcePath, 1)
	if artifact.Stale(path, req.Raw) {
		return 0, false
	}
	var data MeetingData
	if _, err := artifact.Read(path, &data); err != nil {
		return 0, false
	}
	if data.MeetingID == nil {
		return 0, false
	}
	return *data.MeetingID, true
}
