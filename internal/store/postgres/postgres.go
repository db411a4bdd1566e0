// Package postgres implements store.Store on pgx v5. Reader lookups use
// coarse ILIKE prefiltering; similarity ranking stays in-process on the
// caller's side. Writer statements are built from the kind registry so only
// registered columns ever reach the database.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"swimpipe/internal/store"
	"swimpipe/pkg/records"
)

// Config holds connection settings for the permanent store.
type Config struct {
	DSN string
}

// Store is a Postgres-backed implementation of store.Store.
type Store struct {
	pool *pgxpool.Pool
}

// New constructs a Store and returns a close function for cleanup.
func New(ctx context.Context, cfg Config) (*Store, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: pgxpool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Store{pool: pool}, func() { pool.Close() }, nil
}

// querier abstracts pool vs transaction so Reader/Writer code is shared.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (s *Store) q() querier { return s.pool }

// Begin opens a transactional view for a strict-mode commit run.
func (s *Store) Begin(ctx context.Context) (store.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: begin: %w", err)
	}
	return &storeTx{ops: ops{q: tx}, tx: tx}, nil
}

type storeTx struct {
	ops
	tx pgx.Tx
}

func (t *storeTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *storeTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

var _ store.Store = (*Store)(nil)
var _ store.Tx = (*storeTx)(nil)

// Reader/Writer delegation: the pool-backed Store shares the ops methods.

func (s *Store) SeasonByID(ctx context.Context, id int64) (store.Season, error) {
	return ops{q: s.q()}.SeasonByID(ctx, id)
}
func (s *Store) SearchMeetings(ctx context.Context, seasonID int64, name string) ([]store.Meeting, error) {
	return ops{q: s.q()}.SearchMeetings(ctx, seasonID, name)
}
func (s *Store) SearchTeams(ctx context.Context, name string) ([]store.Team, error) {
	return ops{q: s.q()}.SearchTeams(ctx, name)
}
func (s *Store) AffiliationFor(ctx context.Context, teamID, seasonID int64) (store.TeamAffiliation, bool, error) {
	return ops{q: s.q()}.AffiliationFor(ctx, teamID, seasonID)
}
func (s *Store) SwimmerByKey(ctx context.Context, lastName, firstName string, yearOfBirth int, gender string) (store.Swimmer, bool, error) {
	return ops{q: s.q()}.SwimmerByKey(ctx, lastName, firstName, yearOfBirth, gender)
}
func (s *Store) SearchSwimmers(ctx context.Context, lastName string, yearOfBirth int) ([]store.Swimmer, error) {
	return ops{q: s.q()}.SearchSwimmers(ctx, lastName, yearOfBirth)
}
func (s *Store) BadgeFor(ctx context.Context, swimmerID, seasonID int64) (store.Badge, bool, error) {
	return ops{q: s.q()}.BadgeFor(ctx, swimmerID, seasonID)
}
func (s *Store) CategoryTypes(ctx context.Context, seasonID int64) ([]store.CategoryType, error) {
	return ops{q: s.q()}.CategoryTypes(ctx, seasonID)
}
func (s *Store) MeetingEvents(ctx context.Context, meetingID int64) ([]store.MeetingEvent, error) {
	return ops{q: s.q()}.MeetingEvents(ctx, meetingID)
}
func (s *Store) EventTypeIDByCode(ctx context.Context, code string) (int64, bool, error) {
	return ops{q: s.q()}.EventTypeIDByCode(ctx, code)
}
func (s *Store) CityByName(ctx context.Context, name string) (store.City, bool, error) {
	return ops{q: s.q()}.CityByName(ctx, name)
}
func (s *Store) PoolByNickName(ctx context.Context, nickName string) (store.SwimmingPool, bool, error) {
	return ops{q: s.q()}.PoolByNickName(ctx, nickName)
}
func (s *Store) FindID(ctx context.Context, kind string, by records.Record) (int64, bool, error) {
	return ops{q: s.q()}.FindID(ctx, kind, by)
}
func (s *Store) Fetch(ctx context.Context, kind string, id int64) (records.Record, error) {
	return ops{q: s.q()}.Fetch(ctx, kind, id)
}
func (s *Store) Create(ctx context.Context, kind string, attrs records.Record) (int64, error) {
	return ops{q: s.q()}.Create(ctx, kind, attrs)
}
func (s *Store) Update(ctx context.Context, kind string, id int64, attrs records.Record) error {
	return ops{q: s.q()}.Update(ctx, kind, id, attrs)
}
