// Package memstore is an in-memory store.Store used by tests and by dry-run
// commits. Reader fixtures are loaded through the Add* helpers; Writer state
// lives in per-kind attribute maps so the committer exercises exactly the
// same code path it uses against a real backend.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"swimpipe/internal/parse"
	"swimpipe/internal/store"
	"swimpipe/pkg/records"
)

type Mem struct {
	mu sync.Mutex

	seasons      map[int64]store.Season
	meetings     []store.Meeting
	teams        []store.Team
	affiliations []store.TeamAffiliation
	swimmers     []store.Swimmer
	badges       []store.Badge
	categories   []store.CategoryType
	events       []store.MeetingEvent
	cities       []store.City
	pools        []store.SwimmingPool

	eventTypes map[string]int64

	rows   map[string]map[int64]records.Record
	nextID int64
}

func New() *Mem {
	return &Mem{
		seasons:    map[int64]store.Season{},
		eventTypes: map[string]int64{},
		rows:       map[string]map[int64]records.Record{},
		nextID:     1000,
	}
}

// Fixture loaders.

func (m *Mem) AddSeason(s store.Season) { m.seasons[s.ID] = s }

func (m *Mem) AddMeeting(v store.Meeting)             { m.meetings = append(m.meetings, v) }
func (m *Mem) AddTeam(v store.Team)                   { m.teams = append(m.teams, v) }
func (m *Mem) AddAffiliation(v store.TeamAffiliation) { m.affiliations = append(m.affiliations, v) }
func (m *Mem) AddSwimmer(v store.Swimmer)             { m.swimmers = append(m.swimmers, v) }
func (m *Mem) AddBadge(v store.Badge)                 { m.badges = append(m.badges, v) }
func (m *Mem) AddCategoryType(v store.CategoryType)   { m.categories = append(m.categories, v) }
func (m *Mem) AddMeetingEvent(v store.MeetingEvent)   { m.events = append(m.events, v) }
func (m *Mem) AddCity(v store.City)                   { m.cities = append(m.cities, v) }
func (m *Mem) AddEventType(code string, id int64)     { m.eventTypes[code] = id }
func (m *Mem) AddPool(v store.SwimmingPool)           { m.pools = append(m.pools, v) }

// SeedRow installs persisted attributes for an existing entity so commit
// diffing has something to compare against.
func (m *Mem) SeedRow(kind string, id int64, attrs records.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows[kind] == nil {
		m.rows[kind] = map[int64]records.Record{}
	}
	m.rows[kind][id] = attrs.Clone()
}

// Rows returns the committed rows for a kind (test inspection).
func (m *Mem) Rows(kind string) map[int64]records.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[int64]records.Record{}
	for id, r := range m.rows[kind] {
		out[id] = r.Clone()
	}
	return out
}

// Reader.

func (m *Mem) SeasonByID(_ context.Context, id int64) (store.Season, error) {
	s, ok := m.seasons[id]
	if !ok {
		return store.Season{}, fmt.Errorf("memstore: season %d not found", id)
	}
	return s, nil
}

func (m *Mem) SearchMeetings(_ context.Context, seasonID int64, _ string) ([]store.Meeting, error) {
	var out []store.Meeting
	for _, mt := range m.meetings {
		if mt.SeasonID == seasonID {
			out = append(out, mt)
		}
	}
	return out, nil
}

func (m *Mem) SearchTeams(_ context.Context, _ string) ([]store.Team, error) {
	return append([]store.Team(nil), m.teams...), nil
}

func (m *Mem) AffiliationFor(_ context.Context, teamID, seasonID int64) (store.TeamAffiliation, bool, error) {
	for _, a := range m.affiliations {
		if a.TeamID == teamID && a.SeasonID == seasonID {
			return a, true, nil
		}
	}
	return store.TeamAffiliation{}, false, nil
}

func (m *Mem) SwimmerByKey(_ context.Context, lastName, firstName string, yearOfBirth int, gender string) (store.Swimmer, bool, error) {
	for _, s := range m.swimmers {
		if parse.NormalizeName(s.LastName) == parse.NormalizeName(lastName) &&
			parse.NormalizeName(s.FirstName) == parse.NormalizeName(firstName) &&
			s.YearOfBirth == yearOfBirth &&
			strings.EqualFold(s.Gender, gender) {
			return s, true, nil
		}
	}
	return store.Swimmer{}, false, nil
}

func (m *Mem) SearchSwimmers(_ context.Context, lastName string, yearOfBirth int) ([]store.Swimmer, error) {
	var out []store.Swimmer
	for _, s := range m.swimmers {
		if yearOfBirth != 0 && s.YearOfBirth != 0 && s.YearOfBirth != yearOfBirth {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *Mem) BadgeFor(_ context.Context, swimmerID, seasonID int64) (store.Badge, bool, error) {
	for _, b := range m.badges {
		if b.SwimmerID == swimmerID && b.SeasonID == seasonID {
			return b, true, nil
		}
	}
	return store.Badge{}, false, nil
}

func (m *Mem) CategoryTypes(_ context.Context, seasonID int64) ([]store.CategoryType, error) {
	var out []store.CategoryType
	for _, c := range m.categories {
		if c.SeasonID == seasonID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *Mem) MeetingEvents(_ context.Context, meetingID int64) ([]store.MeetingEvent, error) {
	return append([]store.MeetingEvent(nil), m.events...), nil
}

func (m *Mem) EventTypeIDByCode(_ context.Context, code string) (int64, bool, error) {
	id, ok := m.eventTypes[code]
	return id, ok, nil
}

func (m *Mem) CityByName(_ context.Context, name string) (store.City, bool, error) {
	for _, c := range m.cities {
		if parse.NormalizeName(c.Name) == parse.NormalizeName(name) {
			return c, true, nil
		}
	}
	return store.City{}, false, nil
}

func (m *Mem) PoolByNickName(_ context.Context, nickName string) (store.SwimmingPool, bool, error) {
	for _, p := range m.pools {
		if strings.EqualFold(p.NickName, nickName) {
			return p, true, nil
		}
	}
	return store.SwimmingPool{}, false, nil
}

// Writer.

func (m *Mem) FindID(_ context.Context, kind string, by records.Record) (int64, bool, error) {
	if _, ok := store.Kinds[kind]; !ok {
		return 0, false, fmt.Errorf("memstore: unknown kind %q", kind)
	}
	if len(by) == 0 {
		return 0, false, fmt.Errorf("memstore: find %s: no key attributes", kind)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.rows[kind]))
	for id := range m.rows[kind] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		row := m.rows[kind][id]
		matched := true
		for k, want := range by {
			if fmt.Sprintf("%v", row[k]) != fmt.Sprintf("%v", want) {
				matched = false
				break
			}
		}
		if matched {
			return id, true, nil
		}
	}
	return 0, false, nil
}

func (m *Mem) Fetch(_ context.Context, kind string, id int64) (records.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[kind][id]
	if !ok {
		return nil, fmt.Errorf("memstore: %s %d not found", kind, id)
	}
	return r.Clone(), nil
}

func (m *Mem) Create(_ context.Context, kind string, attrs records.Record) (int64, error) {
	if _, ok := store.Kinds[kind]; !ok {
		return 0, fmt.Errorf("memstore: unknown kind %q", kind)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	if m.rows[kind] == nil {
		m.rows[kind] = map[int64]records.Record{}
	}
	m.rows[kind][id] = attrs.Clone()
	return id, nil
}

func (m *Mem) Update(_ context.Context, kind string, id int64, attrs records.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[kind][id]
	if !ok {
		return fmt.Errorf("memstore: update %s %d: not found", kind, id)
	}
	for k, v := range attrs {
		row[k] = v
	}
	return nil
}

// Begin returns a transactional view backed by a snapshot of the writer
// state; Rollback restores the snapshot, Commit discards it.
func (m *Mem) Begin(_ context.Context) (store.Tx, error) {
	m.mu.Lock()
	snap := map[string]map[int64]records.Record{}
	for kind, rows := range m.rows {
		snap[kind] = map[int64]records.Record{}
		for id, r := range rows {
			snap[kind][id] = r.Clone()
		}
	}
	m.mu.Unlock()
	return &memTx{Mem: m, snapshot: snap}, nil
}

type memTx struct {
	*Mem
	snapshot map[string]map[int64]records.Record
	done     bool
}

func (t *memTx) Commit(context.Context) error {
	t.done = true
	return nil
}

func (t *memTx) Rollback(context.Context) error {
	if t.done {
		return nil
	}
	t.mu.Lock()
	t.Mem.rows = t.snapshot
	t.mu.Unlock()
	t.done = true
	return nil
}

var _ store.Store = (*Mem)(nil)
