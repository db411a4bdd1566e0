package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"swimpipe/internal/store"
	"swimpipe/pkg/records"
)

// ops carries the shared Reader/Writer implementation over a querier.
type ops struct {
	q querier
}

func (o ops) SeasonByID(ctx context.Context, id int64) (store.Season, error) {
	var s store.Season
	err := o.q.QueryRow(ctx,
		`SELECT id, description, begin_date, end_date FROM seasons WHERE id = $1`, id,
	).Scan(&s.ID, &s.Description, &s.BeginDate, &s.EndDate)
	if err != nil {
		return store.Season{}, fmt.Errorf("postgres: season %d: %w", id, err)
	}
	return s, nil
}

// SearchMeetings prefilters by season plus a loose ILIKE on the first
// meaningful token of the name; fuzzy ranking happens in-process.
func (o ops) SearchMeetings(ctx context.Context, seasonID int64, name string) ([]store.Meeting, error) {
	rows, err := o.q.Query(ctx,
		`SELECT id, season_id, code, description, header_date
		   FROM meetings
		  WHERE season_id = $1 AND description ILIKE '%' || $2 || '%'`,
		seasonID, firstToken(name),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: search meetings: %w", err)
	}
	defer rows.Close()
	var out []store.Meeting
	for rows.Next() {
		var m store.Meeting
		if err := rows.Scan(&m.ID, &m.SeasonID, &m.Code, &m.Description, &m.HeaderDate); err != nil {
			return nil, fmt.Errorf("postgres: scan meeting: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (o ops) SearchTeams(ctx context.Context, name string) ([]store.Team, error) {
	rows, err := o.q.Query(ctx,
		`SELECT id, name, COALESCE(editable_name, ''), COALESCE(city_id, 0)
		   FROM teams
		  WHERE name ILIKE '%' || $1 || '%' OR editable_name ILIKE '%' || $1 || '%'`,
		firstToken(name),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: search teams: %w", err)
	}
	defer rows.Close()
	var out []store.Team
	for rows.Next() {
		var t store.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.EditableName, &t.CityID); err != nil {
			return nil, fmt.Errorf("postgres: scan team: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (o ops) AffiliationFor(ctx context.Context, teamID, seasonID int64) (store.TeamAffiliation, bool, error) {
	var a store.TeamAffiliation
	err := o.q.QueryRow(ctx,
		`SELECT id, team_id, season_id, COALESCE(name, '')
		   FROM team_affiliations WHERE team_id = $1 AND season_id = $2`,
		teamID, seasonID,
	).Scan(&a.ID, &a.TeamID, &a.SeasonID, &a.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.TeamAffiliation{}, false, nil
	}
	if err != nil {
		return store.TeamAffiliation{}, false, fmt.Errorf("postgres: affiliation: %w", err)
	}
	return a, true, nil
}

func (o ops) SwimmerByKey(ctx context.Context, lastName, firstName string, yearOfBirth int, gender string) (store.Swimmer, bool, error) {
	gtid, ok := store.GenderTypeID(gender)
	if !ok {
		return store.Swimmer{}, false, nil
	}
	var s store.Swimmer
	err := o.q.QueryRow(ctx,
		`SELECT id, complete_name, last_name, first_name, year_of_birth, COALESCE(gender_type_id, 0)
		   FROM swimmers
		  WHERE UPPER(last_name) = UPPER($1) AND UPPER(first_name) = UPPER($2)
		    AND year_of_birth = $3 AND gender_type_id = $4
		  LIMIT 1`,
		lastName, firstName, yearOfBirth, gtid,
	).Scan(&s.ID, &s.CompleteName, &s.LastName, &s.FirstName, &s.YearOfBirth, &gtid)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Swimmer{}, false, nil
	}
	if err != nil {
		return store.Swimmer{}, false, fmt.Errorf("postgres: swimmer by key: %w", err)
	}
	s.Gender = store.GenderCode(gtid)
	return s, true, nil
}

func (o ops) SearchSwimmers(ctx context.Context, lastName string, yearOfBirth int) ([]store.Swimmer, error) {
	rows, err := o.q.Query(ctx,
		`SELECT id, complete_name, last_name, first_name, year_of_birth, COALESCE(gender_type_id, 0)
		   FROM swimmers
		  WHERE last_name ILIKE '%' || $1 || '%'
		    AND ($2 = 0 OR year_of_birth = $2)`,
		firstToken(lastName), yearOfBirth,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: search swimmers: %w", err)
	}
	defer rows.Close()
	var out []store.Swimmer
	for rows.Next() {
		var s store.Swimmer
		var gtid int64
		if err := rows.Scan(&s.ID, &s.CompleteName, &s.LastName, &s.FirstName, &s.YearOfBirth, &gtid); err != nil {
			return nil, fmt.Errorf("postgres: scan swimmer: %w", err)
		}
		s.Gender = store.GenderCode(gtid)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (o ops) BadgeFor(ctx context.Context, swimmerID, seasonID int64) (store.Badge, bool, error) {
	var b store.Badge
	err := o.q.QueryRow(ctx,
		`SELECT id, swimmer_id, team_id, season_id, team_affiliation_id, category_type_id
		   FROM badges WHERE swimmer_id = $1 AND season_id = $2 LIMIT 1`,
		swimmerID, seasonID,
	).Scan(&b.ID, &b.SwimmerID, &b.TeamID, &b.SeasonID, &b.TeamAffiliationID, &b.CategoryTypeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Badge{}, false, nil
	}
	if err != nil {
		return store.Badge{}, false, fmt.Errorf("postgres: badge: %w", err)
	}
	return b, true, nil
}

func (o ops) CategoryTypes(ctx context.Context, seasonID int64) ([]store.CategoryType, error) {
	rows, err := o.q.Query(ctx,
		`SELECT id, season_id, code, age_begin, age_end, relay
		   FROM category_types WHERE season_id = $1`,
		seasonID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: category types: %w", err)
	}
	defer rows.Close()
	var out []store.CategoryType
	for rows.Next() {
		var c store.CategoryType
		if err := rows.Scan(&c.ID, &c.SeasonID, &c.Code, &c.AgeBegin, &c.AgeEnd, &c.Relay); err != nil {
			return nil, fmt.Errorf("postgres: scan category type: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (o ops) MeetingEvents(ctx context.Context, meetingID int64) ([]store.MeetingEvent, error) {
	rows, err := o.q.Query(ctx,
		`SELECT me.id, me.meeting_session_id, et.code, me.event_order, et.relay
		   FROM meeting_events me
		   JOIN meeting_sessions ms ON ms.id = me.meeting_session_id
		   JOIN event_types et ON et.id = me.event_type_id
		  WHERE ms.meeting_id = $1
		  ORDER BY me.event_order`,
		meetingID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: meeting events: %w", err)
	}
	defer rows.Close()
	var out []store.MeetingEvent
	for rows.Next() {
		var e store.MeetingEvent
		if err := rows.Scan(&e.ID, &e.MeetingSessionID, &e.EventCode, &e.EventOrder, &e.Relay); err != nil {
			return nil, fmt.Errorf("postgres: scan meeting event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (o ops) EventTypeIDByCode(ctx context.Context, code string) (int64, bool, error) {
	var id int64
	err := o.q.QueryRow(ctx,
		`SELECT id FROM event_types WHERE code = $1 LIMIT 1`, code,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("postgres: event type: %w", err)
	}
	return id, true, nil
}

func (o ops) CityByName(ctx context.Context, name string) (store.City, bool, error) {
	var c store.City
	err := o.q.QueryRow(ctx,
		`SELECT id, name FROM cities WHERE UPPER(name) = UPPER($1) LIMIT 1`, name,
	).Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.City{}, false, nil
	}
	if err != nil {
		return store.City{}, false, fmt.Errorf("postgres: city: %w", err)
	}
	return c, true, nil
}

func (o ops) PoolByNickName(ctx context.Context, nickName string) (store.SwimmingPool, bool, error) {
	var p store.SwimmingPool
	err := o.q.QueryRow(ctx,
		`SELECT id, name, nick_name, COALESCE(city_id, 0), COALESCE(lanes_number, 0), COALESCE(length, 0)
		   FROM swimming_pools WHERE UPPER(nick_name) = UPPER($1) LIMIT 1`,
		nickName,
	).Scan(&p.ID, &p.Name, &p.NickName, &p.CityID, &p.Lanes, &p.Length)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.SwimmingPool{}, false, nil
	}
	if err != nil {
		return store.SwimmingPool{}, false, fmt.Errorf("postgres: pool: %w", err)
	}
	return p, true, nil
}

// Writer.

func (o ops) FindID(ctx context.Context, kind string, by records.Record) (int64, bool, error) {
	spec, ok := store.Kinds[kind]
	if !ok {
		return 0, false, fmt.Errorf("postgres: unknown kind %q", kind)
	}
	var conds []string
	var args []any
	for _, c := range spec.Columns {
		if v, present := by[c]; present {
			args = append(args, v)
			conds = append(conds, fmt.Sprintf("%s = $%d", c, len(args)))
		}
	}
	if len(conds) == 0 {
		return 0, false, fmt.Errorf("postgres: find %s: no key attributes", kind)
	}
	var id int64
	err := o.q.QueryRow(ctx,
		fmt.Sprintf("SELECT id FROM %s WHERE %s LIMIT 1", spec.Table, strings.Join(conds, " AND ")),
		args...,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("postgres: find %s: %w", kind, err)
	}
	return id, true, nil
}

func (o ops) Fetch(ctx context.Context, kind string, id int64) (records.Record, error) {
	spec, ok := store.Kinds[kind]
	if !ok {
		return nil, fmt.Errorf("postgres: unknown kind %q", kind)
	}
	cols := strings.Join(spec.Columns, ", ")
	rows, err := o.q.Query(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", cols, spec.Table), id,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch %s %d: %w", kind, id, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("postgres: fetch %s %d: %w", kind, id, err)
		}
		return nil, fmt.Errorf("postgres: fetch %s %d: not found", kind, id)
	}
	vals, err := rows.Values()
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch %s %d values: %w", kind, id, err)
	}
	out := records.Record{}
	for i, c := range spec.Columns {
		out[c] = vals[i]
	}
	return out, nil
}

func (o ops) Create(ctx context.Context, kind string, attrs records.Record) (int64, error) {
	spec, ok := store.Kinds[kind]
	if !ok {
		return 0, fmt.Errorf("postgres: unknown kind %q", kind)
	}
	var cols []string
	var args []any
	for _, c := range spec.Columns {
		if v, present := attrs[c]; present {
			cols = append(cols, c)
			args = append(args, v)
		}
	}
	if len(cols) == 0 {
		return 0, fmt.Errorf("postgres: create %s: no writable attributes", kind)
	}
	ph := make([]string, len(cols))
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	var id int64
	err := o.q.QueryRow(ctx,
		fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
			spec.Table, strings.Join(cols, ", "), strings.Join(ph, ", ")),
		args...,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("postgres: create %s: %w", kind, err)
	}
	return id, nil
}

func (o ops) Update(ctx context.Context, kind string, id int64, attrs records.Record) error {
	spec, ok := store.Kinds[kind]
	if !ok {
		return fmt.Errorf("postgres: unknown kind %q", kind)
	}
	var sets []string
	var args []any
	for _, c := range spec.Columns {
		if v, present := attrs[c]; present {
			args = append(args, v)
			sets = append(sets, fmt.Sprintf("%s = $%d", c, len(args)))
		}
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := o.q.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", spec.Table, strings.Join(sets, ", "), len(args)),
		args...,
	)
	if err != nil {
		return fmt.Errorf("postgres: update %s %d: %w", kind, id, err)
	}
	return nil
}

// firstToken returns the first word of a name for crude ILIKE prefiltering;
// empty input yields empty, which matches everything.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
