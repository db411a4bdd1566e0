package store

import (
	"context"

	"swimpipe/pkg/records"
)

// Reader exposes the lookups the phase solvers need: exact finds by natural
// key and season-scoped candidate searches for fuzzy ranking. Search methods
// return a prefiltered candidate slice; similarity ranking is the caller's
// concern, not the store's.
type Reader interface {
	SeasonByID(ctx context.Context, id int64) (Season, error)

	// SearchMeetings returns meetings of the season whose description
	// loosely resembles name (backend prefilter only).
	SearchMeetings(ctx context.Context, seasonID int64, name string) ([]Meeting, error)

	// SearchTeams returns teams resembling name. Teams are not
	// season-scoped themselves; affiliations are.
	SearchTeams(ctx context.Context, name string) ([]Team, error)
	AffiliationFor(ctx context.Context, teamID, seasonID int64) (TeamAffiliation, bool, error)

	// SwimmerByKey is the exact lookup (last, first, year of birth,
	// gender); SearchSwimmers is the fuzzy fallback on names only.
	SwimmerByKey(ctx context.Context, lastName, firstName string, yearOfBirth int, gender string) (Swimmer, bool, error)
	SearchSwimmers(ctx context.Context, lastName string, yearOfBirth int) ([]Swimmer, error)
	BadgeFor(ctx context.Context, swimmerID, seasonID int64) (Badge, bool, error)

	CategoryTypes(ctx context.Context, seasonID int64) ([]CategoryType, error)
	MeetingEvents(ctx context.Context, meetingID int64) ([]MeetingEvent, error)
	EventTypeIDByCode(ctx context.Context, code string) (int64, bool, error)

	CityByName(ctx context.Context, name string) (City, bool, error)
	PoolByNickName(ctx context.Context, nickName string) (SwimmingPool, bool, error)
}

// Writer is the generic create/update surface used by the committer. Every
// permanent entity kind is addressed by its registered kind name; attributes
// travel as loosely-typed records and are coerced/pruned against the kind's
// column registry before they reach the backend.
type Writer interface {
	// FindID resolves an existing row by equality on the given natural-key
	// attributes. Repeat commit runs depend on it: a row found here is
	// diffed instead of re-created.
	FindID(ctx context.Context, kind string, by records.Record) (int64, bool, error)

	// Fetch returns the persisted attributes for diffing, keyed by column.
	Fetch(ctx context.Context, kind string, id int64) (records.Record, error)

	// Create inserts a new row and returns its ID.
	Create(ctx context.Context, kind string, attrs records.Record) (int64, error)

	// Update applies attrs to the row. Callers only invoke it when at
	// least one attribute differs from the persisted row.
	Update(ctx context.Context, kind string, id int64, attrs records.Record) error
}

// Store is the full permanent-store boundary.
type Store interface {
	Reader
	Writer

	// Begin starts a transactional scope for a commit run and returns a
	// Store whose writes are confined to the transaction. Rollback is for
	// strict-mode runs; Commit finalizes.
	Begin(ctx context.Context) (Tx, error)
}

// Tx is a transactional view of the store.
type Tx interface {
	Reader
	Writer
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
