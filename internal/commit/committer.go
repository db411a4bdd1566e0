// Package commit implements Phase 6: replaying the resolved entities and the
// staged results into the permanent store. Every write goes through a
// find-or-create-or-update cycle keyed on the entity's natural attributes, so
// re-running a commit over an unchanged source produces zero new rows, and a
// row whose persisted attributes already match produces neither a write nor
// an audit entry.
//
// Entities pre-matched by the solvers (a confirmed team or swimmer ID in a
// phase artifact) are taken as authoritative and never updated: the curated
// spelling in the permanent store wins over whatever the source file says.
package commit

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"swimpipe/internal/parse"
	"swimpipe/internal/solver"
	"swimpipe/internal/staging"
	"swimpipe/internal/stats"
	"swimpipe/internal/store"
	"swimpipe/pkg/records"
)

// Committer replays one solved and populated source file into the permanent
// store.
type Committer struct {
	SourcePath  string
	ArtifactDir string
	Season      store.Season
	Store       store.Store
	Staging     *staging.Store
	Audit       *AuditLog

	// Strict wraps the whole run in one transaction and rolls everything
	// back when any per-entity error is recorded.
	Strict bool
}

// view is the store surface a commit run works against: the plain store or a
// transactional scope.
type view interface {
	store.Reader
	store.Writer
}

// Commit runs the phase. Per-entity failures are recorded in the returned
// stats and, outside strict mode, never abort the run; the error return is
// reserved for structural problems (missing artifacts, failed transaction
// handling) and for strict-mode rollbacks.
func (c *Committer) Commit(ctx context.Context) (*stats.Stats, error) {
	pd, err := loadPhases(c.ArtifactDir, c.SourcePath)
	if err != nil {
		return nil, err
	}
	if c.Audit == nil {
		c.Audit = &AuditLog{}
	}

	st := stats.New()
	var v view = c.Store
	var tx store.Tx
	if c.Strict {
		tx, err = c.Store.Begin(ctx)
		if err != nil {
			return nil, err
		}
		v = tx
	}

	c.Audit.Begin(c.SourcePath)
	rs := newRunState()
	c.loadCategories(ctx, v, st, rs)
	c.commitMeeting(ctx, v, st, rs, pd.meeting)
	c.commitTeams(ctx, v, st, rs, pd.teams)
	c.commitSwimmers(ctx, v, st, rs, pd.swimmers)
	c.commitEvents(ctx, v, st, rs, pd.events)
	c.commitPrograms(ctx, v, st, rs)
	c.Audit.Summary(st)

	if c.Strict {
		if !st.OK() {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				return st, fmt.Errorf("commit: rollback: %w", rbErr)
			}
			return st, fmt.Errorf("commit: %d errors, transaction rolled back", len(st.Errors))
		}
		if err := tx.Commit(ctx); err != nil {
			return st, fmt.Errorf("commit: %w", err)
		}
	}
	return st, nil
}

// upsert is the shared find-or-create-or-update cycle. existing short-cuts
// the natural-key lookup with an ID already resolved by a solver; findBy is
// the natural key used otherwise. A found row is fetched and diffed: a no-op
// diff counts as skipped and writes nothing.
func (c *Committer) upsert(ctx context.Context, v view, st *stats.Stats, kind, key string, existing *int64, findBy, attrs records.Record) (int64, bool) {
	attrs = coerceAttrs(kind, attrs)

	id, found := int64(0), false
	if existing != nil {
		id, found = *existing, true
	} else if len(findBy) > 0 {
		var err error
		id, found, err = v.FindID(ctx, kind, coerceAttrs(kind, findBy))
		if err != nil {
			st.AddError(kind, key, "find: %v", err)
			return 0, false
		}
	}

	if found {
		have, err := v.Fetch(ctx, kind, id)
		if err != nil {
			st.AddError(kind, key, "fetch: %v", err)
			return 0, false
		}
		diff := diffAttrs(attrs, have)
		if len(diff) == 0 {
			st.Inc(kind + "_skipped")
			return id, true
		}
		if err := v.Update(ctx, kind, id, diff); err != nil {
			st.AddError(kind, key, "update: %v", err)
			return 0, false
		}
		c.Audit.Update(kind, id, diff)
		st.Inc(kind + "_updated")
		return id, true
	}

	id, err := v.Create(ctx, kind, attrs)
	if err != nil {
		st.AddError(kind, key, "create: %v", err)
		return 0, false
	}
	c.Audit.Insert(kind, id, attrs)
	st.Inc(kind + "_created")
	return id, true
}

// skipped records a pre-matched entity that the run takes as-is.
func skipped(st *stats.Stats, kind string) { st.Inc(kind + "_skipped") }

func (c *Committer) loadCategories(ctx context.Context, v view, st *stats.Stats, rs *runState) {
	cats, err := v.CategoryTypes(ctx, c.Season.ID)
	if err != nil {
		st.AddError("category_type", strconv.FormatInt(c.Season.ID, 10), "load: %v", err)
		return
	}
	for _, ct := range cats {
		rs.categoryIDs[ct.Code] = ct.ID
	}
}

// commitMeeting writes the venue city and pool, the meeting itself, its
// calendar row and its sessions.
func (c *Committer) commitMeeting(ctx context.Context, v view, st *stats.Stats, rs *runState, md solver.MeetingData) {
	var cityID *int64
	if name := cityName(md.Address); name != "" {
		if city, found, err := v.CityByName(ctx, name); err != nil {
			st.AddError(store.KindCity, name, "lookup: %v", err)
		} else if found {
			cityID = &city.ID
		} else if id, ok := c.upsert(ctx, v, st, store.KindCity, name, nil,
			records.Record{"name": name},
			records.Record{"name": name}); ok {
			cityID = &id
		}
	}

	// One pool per distinct name across the sessions.
	poolIDs := map[string]int64{}
	for _, s := range md.Sessions {
		if s.SwimmingPoolID != nil {
			poolIDs[s.PoolName] = *s.SwimmingPoolID
			skipped(st, store.KindSwimmingPool)
			continue
		}
		if s.PoolName == "" {
			continue
		}
		if _, done := poolIDs[s.PoolName]; done {
			continue
		}
		nick := strings.ToLower(strings.ReplaceAll(s.PoolName, " ", ""))
		attrs := records.Record{"name": s.PoolName, "nick_name": nick}
		if cityID != nil {
			attrs["city_id"] = *cityID
		}
		if md.PoolLength > 0 {
			attrs["length"] = md.PoolLength
		}
		if id, ok := c.upsert(ctx, v, st, store.KindSwimmingPool, nick, nil,
			records.Record{"nick_name": nick}, attrs); ok {
			poolIDs[s.PoolName] = id
		}
	}

	attrs := records.Record{
		"season_id":   c.Season.ID,
		"code":        meetingCode(md.Description),
		"description": md.Description,
		"cancelled":   false,
		"confirmed":   true,
	}
	if md.HeaderDate != "" {
		attrs["header_date"] = md.HeaderDate
		attrs["header_year"] = md.HeaderDate[:4]
	}
	meetingID, ok := c.upsert(ctx, v, st, store.KindMeeting, md.Description, md.MeetingID,
		records.Record{"season_id": c.Season.ID, "code": meetingCode(md.Description)}, attrs)
	if !ok {
		st.AddError(store.KindMeetingSession, md.Description, "meeting not committed")
		return
	}
	rs.meetingID = meetingID

	calAttrs := records.Record{
		"season_id":     c.Season.ID,
		"meeting_id":    meetingID,
		"meeting_name":  md.Description,
		"meeting_place": md.Venue,
	}
	if md.HeaderDate != "" {
		calAttrs["scheduled_date"] = md.HeaderDate
	}
	c.upsert(ctx, v, st, store.KindCalendar, md.Description, nil,
		records.Record{"meeting_id": meetingID}, calAttrs)

	for _, s := range md.Sessions {
		attrs := records.Record{
			"meeting_id":    meetingID,
			"session_order": s.SessionOrder,
			"description":   fmt.Sprintf("Sessione %d", s.SessionOrder),
		}
		if s.ScheduledDate != "" {
			attrs["scheduled_date"] = s.ScheduledDate
		}
		if id, found := poolIDs[s.PoolName]; found {
			attrs["swimming_pool_id"] = id
		}
		key := fmt.Sprintf("%d/%d", meetingID, s.SessionOrder)
		if id, ok := c.upsert(ctx, v, st, store.KindMeetingSession, key, nil,
			records.Record{"meeting_id": meetingID, "session_order": s.SessionOrder}, attrs); ok {
			rs.sessionIDs[s.SessionOrder] = id
		}
	}
}

// commitTeams writes the unresolved teams and their season affiliations.
// A team the solver confirmed keeps its stored spelling untouched.
func (c *Committer) commitTeams(ctx context.Context, v view, st *stats.Stats, rs *runState, td solver.TeamsData) {
	for _, t := range td.Teams {
		var teamID int64
		if t.TeamID != nil {
			teamID = *t.TeamID
			skipped(st, store.KindTeam)
		} else {
			id, ok := c.upsert(ctx, v, st, store.KindTeam, t.Key, nil,
				records.Record{"name": t.Name},
				records.Record{"name": t.Name, "editable_name": t.Name})
			if !ok {
				continue
			}
			teamID = id
		}
		rs.teamIDs[t.Key] = teamID

		if t.TeamAffiliationID != nil {
			rs.affiliations[t.Key] = *t.TeamAffiliationID
			skipped(st, store.KindTeamAffiliation)
			continue
		}
		if id, ok := c.upsert(ctx, v, st, store.KindTeamAffiliation, t.Key, nil,
			records.Record{"team_id": teamID, "season_id": c.Season.ID},
			records.Record{"team_id": teamID, "season_id": c.Season.ID, "name": t.Name}); ok {
			rs.affiliations[t.Key] = id
		}
	}
}

// commitSwimmers writes the unresolved swimmers and a season badge for every
// swimmer whose team resolved.
func (c *Committer) commitSwimmers(ctx context.Context, v view, st *stats.Stats, rs *runState, sd solver.SwimmersData) {
	for _, s := range sd.Swimmers {
		var swimmerID int64
		if s.SwimmerID != nil {
			swimmerID = *s.SwimmerID
			skipped(st, store.KindSwimmer)
		} else {
			attrs := records.Record{
				"complete_name": parse.CollapseSpaces(s.LastName + " " + s.FirstName),
				"last_name":     s.LastName,
				"first_name":    s.FirstName,
				"year_of_birth": s.YearOfBirth,
				"year_guessed":  s.YearOfBirth == 0,
			}
			findBy := records.Record{
				"last_name":     s.LastName,
				"first_name":    s.FirstName,
				"year_of_birth": s.YearOfBirth,
			}
			if gid, ok := store.GenderTypeID(s.Gender); ok {
				attrs["gender_type_id"] = gid
				findBy["gender_type_id"] = gid
			}
			id, ok := c.upsert(ctx, v, st, store.KindSwimmer, s.Key, nil, findBy, attrs)
			if !ok {
				continue
			}
			swimmerID = id
		}
		rs.swimmerIDs[s.Key] = swimmerID

		if s.BadgeID != nil {
			rs.badgeIDs[s.Key] = *s.BadgeID
			skipped(st, store.KindBadge)
			continue
		}
		teamKey := parse.NormalizeName(s.Team)
		teamID, found := rs.teamIDs[teamKey]
		if !found {
			st.AddError(store.KindBadge, s.Key, "team %q not committed", s.Team)
			continue
		}
		attrs := records.Record{
			"swimmer_id": swimmerID,
			"team_id":    teamID,
			"season_id":  c.Season.ID,
			"number":     "?",
		}
		if affID, ok := rs.affiliations[teamKey]; ok {
			attrs["team_affiliation_id"] = affID
		}
		if s.CategoryTypeID != nil {
			attrs["category_type_id"] = *s.CategoryTypeID
		}
		if id, ok := c.upsert(ctx, v, st, store.KindBadge, s.Key, nil,
			records.Record{"swimmer_id": swimmerID, "season_id": c.Season.ID}, attrs); ok {
			rs.badgeIDs[s.Key] = id
		}
	}
}

// commitEvents writes the meeting events, resolving each event code to its
// event_types row. An unknown code is a per-event error; its programs cascade.
func (c *Committer) commitEvents(ctx context.Context, v view, st *stats.Stats, rs *runState, ed solver.EventsData) {
	for _, session := range ed.Sessions {
		sessionID, found := rs.sessionIDs[session.SessionOrder]
		if !found {
			st.AddError(store.KindMeetingEvent, strconv.Itoa(session.SessionOrder), "session not committed")
			continue
		}
		for _, ev := range session.Events {
			if ev.MeetingEventID != nil {
				rs.eventIDs[ev.Code] = *ev.MeetingEventID
				skipped(st, store.KindMeetingEvent)
				continue
			}
			etID, found, err := v.EventTypeIDByCode(ctx, ev.Code)
			if err != nil {
				st.AddError(store.KindMeetingEvent, ev.Code, "event type lookup: %v", err)
				continue
			}
			if !found {
				st.AddError(store.KindMeetingEvent, ev.Code, "unknown event type code")
				continue
			}
			// One meeting_events row serves every gender group swimming
			// the same code; gender lives on the programs. An existing
			// row keeps its event_order, so re-runs and the second
			// gender group never rewrite it.
			findBy := records.Record{"meeting_session_id": sessionID, "event_type_id": etID}
			if id, ok, err := v.FindID(ctx, store.KindMeetingEvent, coerceAttrs(store.KindMeetingEvent, findBy)); err != nil {
				st.AddError(store.KindMeetingEvent, ev.Code, "find: %v", err)
				continue
			} else if ok {
				rs.eventIDs[ev.Code] = id
				skipped(st, store.KindMeetingEvent)
				continue
			}
			attrs := records.Record{
				"meeting_session_id": sessionID,
				"event_type_id":      etID,
				"event_order":        ev.EventOrder,
				"heat_type_id":       finalsHeatTypeID,
			}
			if id, ok := c.upsert(ctx, v, st, store.KindMeetingEvent, ev.Code, nil, nil, attrs); ok {
				rs.eventIDs[ev.Code] = id
			}
		}
	}
}

// commitPrograms replays the staged programs and everything under them:
// individual results with laps, relay results with legs and sub-laps. A
// missing parent records one error and skips the subtree.
func (c *Committer) commitPrograms(ctx context.Context, v view, st *stats.Stats, rs *runState) {
	programs, err := c.Staging.Programs(ctx)
	if err != nil {
		st.AddError(store.KindMeetingProgram, "-", "staging: %v", err)
		return
	}
	for _, p := range programs {
		eventID, found := rs.eventIDs[p.EventCode]
		if !found {
			st.AddError(store.KindMeetingProgram, p.ImportKey, "event %s not committed", p.EventCode)
			continue
		}
		attrs := records.Record{"meeting_event_id": eventID, "event_order": 1}
		findBy := records.Record{"meeting_event_id": eventID}
		if gid, ok := store.GenderTypeID(p.Gender); ok {
			attrs["gender_type_id"] = gid
			findBy["gender_type_id"] = gid
		}
		if catID, ok := rs.categoryIDs[p.Category]; ok {
			attrs["category_type_id"] = catID
			findBy["category_type_id"] = catID
		}
		programID, ok := c.upsert(ctx, v, st, store.KindMeetingProgram, p.ImportKey, nil, findBy, attrs)
		if !ok {
			continue
		}
		if p.Relay {
			c.commitRelays(ctx, v, st, rs, p.ImportKey, programID)
		} else {
			c.commitResults(ctx, v, st, rs, p.ImportKey, programID)
		}
	}
}

func (c *Committer) commitResults(ctx context.Context, v view, st *stats.Stats, rs *runState, programKey string, programID int64) {
	results, err := c.Staging.ResultsForProgram(ctx, programKey)
	if err != nil {
		st.AddError(store.KindIndividualResult, programKey, "staging: %v", err)
		return
	}
	for _, r := range results {
		swimmerID, found := rs.swimmerIDs[r.SwimmerKey]
		if !found {
			st.AddError(store.KindIndividualResult, r.ImportKey, "swimmer not committed")
			continue
		}
		attrs := records.Record{
			"meeting_program_id": programID,
			"swimmer_id":         swimmerID,
			"rank":               r.Rank,
			"disqualified":       r.DSQ,
			"minutes":            r.Timing.Minutes,
			"seconds":            r.Timing.Seconds,
			"hundredths":         r.Timing.Hundredths,
		}
		teamID, hasTeam := rs.teamIDs[r.TeamKey]
		if hasTeam {
			attrs["team_id"] = teamID
			if affID, ok := rs.affiliations[r.TeamKey]; ok {
				attrs["team_affiliation_id"] = affID
			}
		}
		if badgeID, ok := rs.badgeIDs[r.SwimmerKey]; ok {
			attrs["badge_id"] = badgeID
		}
		if pts, ok := scorePoints(r.Score); ok {
			attrs["standard_points"] = pts
		}
		resultID, ok := c.upsert(ctx, v, st, store.KindIndividualResult, r.ImportKey, nil,
			records.Record{"meeting_program_id": programID, "swimmer_id": swimmerID}, attrs)
		if !ok {
			continue
		}

		laps, err := c.Staging.LapsForResult(ctx, r.ImportKey)
		if err != nil {
			st.AddError(store.KindLap, r.ImportKey, "staging: %v", err)
			continue
		}
		for _, l := range laps {
			attrs := records.Record{
				"meeting_individual_result_id": resultID,
				"meeting_program_id":           programID,
				"swimmer_id":                   swimmerID,
				"length_in_meters":             l.Length,
				"minutes":                      l.Delta.Minutes,
				"seconds":                      l.Delta.Seconds,
				"hundredths":                   l.Delta.Hundredths,
				"minutes_from_start":           l.FromStart.Minutes,
				"seconds_from_start":           l.FromStart.Seconds,
				"hundredths_from_start":        l.FromStart.Hundredths,
			}
			if hasTeam {
				attrs["team_id"] = teamID
			}
			c.upsert(ctx, v, st, store.KindLap, l.ImportKey, nil,
				records.Record{"meeting_individual_result_id": resultID, "length_in_meters": l.Length}, attrs)
		}
	}
}

func (c *Committer) commitRelays(ctx context.Context, v view, st *stats.Stats, rs *runState, programKey string, programID int64) {
	relays, err := c.Staging.RelaysForProgram(ctx, programKey)
	if err != nil {
		st.AddError(store.KindRelayResult, programKey, "staging: %v", err)
		return
	}
	for _, r := range relays {
		teamID, found := rs.teamIDs[r.TeamKey]
		if !found {
			st.AddError(store.KindRelayResult, r.ImportKey, "team not committed")
			continue
		}
		attrs := records.Record{
			"meeting_program_id": programID,
			"team_id":            teamID,
			"rank":               r.Rank,
			"disqualified":       r.DSQ,
			"minutes":            r.Timing.Minutes,
			"seconds":            r.Timing.Seconds,
			"hundredths":         r.Timing.Hundredths,
		}
		if affID, ok := rs.affiliations[r.TeamKey]; ok {
			attrs["team_affiliation_id"] = affID
		}
		if pts, ok := scorePoints(r.Score); ok {
			attrs["standard_points"] = pts
		}
		relayID, ok := c.upsert(ctx, v, st, store.KindRelayResult, r.ImportKey, nil,
			records.Record{
				"meeting_program_id": programID,
				"team_id":            teamID,
				"minutes":            r.Timing.Minutes,
				"seconds":            r.Timing.Seconds,
				"hundredths":         r.Timing.Hundredths,
			}, attrs)
		if !ok {
			continue
		}
		c.commitRelayLegs(ctx, v, st, rs, r.ImportKey, relayID, teamID)
	}
}

func (c *Committer) commitRelayLegs(ctx context.Context, v view, st *stats.Stats, rs *runState, relayKey string, relayID, teamID int64) {
	legs, err := c.Staging.SwimmersForRelay(ctx, relayKey)
	if err != nil {
		st.AddError(store.KindRelaySwimmer, relayKey, "staging: %v", err)
		return
	}
	for _, leg := range legs {
		attrs := records.Record{
			"meeting_relay_result_id": relayID,
			"relay_order":             leg.Order,
			"length_in_meters":        leg.Length,
			"minutes":                 leg.Delta.Minutes,
			"seconds":                 leg.Delta.Seconds,
			"hundredths":              leg.Delta.Hundredths,
		}
		if sid, ok := strokeTypeIDs[leg.Stroke]; ok {
			attrs["stroke_type_id"] = sid
		}
		// Blank legs (sources without relay rosters) still commit the
		// slot; only the swimmer reference stays unset.
		legSwimmerID, hasSwimmer := rs.swimmerIDs[leg.SwimmerKey]
		if hasSwimmer {
			attrs["swimmer_id"] = legSwimmerID
			if badgeID, ok := rs.badgeIDs[leg.SwimmerKey]; ok {
				attrs["badge_id"] = badgeID
			}
		}
		legID, ok := c.upsert(ctx, v, st, store.KindRelaySwimmer, leg.ImportKey, nil,
			records.Record{"meeting_relay_result_id": relayID, "relay_order": leg.Order}, attrs)
		if !ok {
			continue
		}

		laps, err := c.Staging.LapsForRelaySwimmer(ctx, leg.ImportKey)
		if err != nil {
			st.AddError(store.KindRelayLap, leg.ImportKey, "staging: %v", err)
			continue
		}
		for _, l := range laps {
			attrs := records.Record{
				"meeting_relay_result_id":  relayID,
				"meeting_relay_swimmer_id": legID,
				"team_id":                  teamID,
				"length_in_meters":         l.Length,
				"minutes":                  l.Delta.Minutes,
				"seconds":                  l.Delta.Seconds,
				"hundredths":               l.Delta.Hundredths,
				"minutes_from_start":       l.FromStart.Minutes,
				"seconds_from_start":       l.FromStart.Seconds,
				"hundredths_from_start":    l.FromStart.Hundredths,
			}
			if hasSwimmer {
				attrs["swimmer_id"] = legSwimmerID
			}
			c.upsert(ctx, v, st, store.KindRelayLap, l.ImportKey, nil,
				records.Record{"meeting_relay_swimmer_id": legID, "length_in_meters": l.Length}, attrs)
		}
	}
}

// meetingCode derives the conventional lowercase alphanumeric code from a
// meeting description.
func meetingCode(description string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(parse.NormalizeName(description)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// cityName extracts the trailing city token from a venue address such as
// "Viale Monterosa, 60 - Riccione". Addresses without the dash separator
// carry no usable city.
func cityName(address string) string {
	addr := parse.CollapseSpaces(address)
	i := strings.LastIndex(addr, " - ")
	if i < 0 {
		return ""
	}
	name := strings.TrimSpace(addr[i+3:])
	if name == "" || strings.ContainsAny(name, "0123456789") {
		return ""
	}
	return name
}

// scorePoints parses a score string ("770,22" or "770.22") as standard
// points.
func scorePoints(score string) (float64, bool) {
	score = strings.TrimSpace(strings.ReplaceAll(score, ",", "."))
	if score == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(score, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
