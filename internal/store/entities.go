// Package store defines the boundary to the permanent relational dataset the
// pipeline matches against and commits into. The pipeline depends only on the
// operations declared here, never on the store's schema or query language;
// concrete backends live in subpackages (postgres) with an in-memory
// implementation for tests and dry runs.
package store

import "time"

// genderTypeIDs maps the source gender markers onto the conventional
// gender_types rows: 1 male, 2 female, 3 intermixed. The rows are seeded
// with the schema and never vary per deployment.
var genderTypeIDs = map[string]int64{
	"M": 1,
	"F": 2,
	"X": 3,
}

// GenderTypeID resolves a gender marker to its gender_types row.
func GenderTypeID(code string) (int64, bool) {
	id, ok := genderTypeIDs[code]
	return id, ok
}

// GenderCode is the inverse of GenderTypeID; unknown ids yield "".
func GenderCode(id int64) string {
	for code, v := range genderTypeIDs {
		if v == id {
			return code
		}
	}
	return ""
}

// Season scopes every match: candidates from other seasons are never
// considered.
type Season struct {
	ID          int64
	Description string
	BeginDate   time.Time
	EndDate     time.Time
}

// Age returns a swimmer's conventional age within the season given a year of
// birth (season begin year minus YOB).
func (s Season) Age(yearOfBirth int) int {
	if yearOfBirth <= 0 {
		return 0
	}
	return s.BeginDate.Year() - yearOfBirth
}

type Meeting struct {
	ID          int64
	SeasonID    int64
	Code        string
	Description string
	HeaderDate  time.Time
	VenueCity   string
}

type MeetingSession struct {
	ID             int64
	MeetingID      int64
	SessionOrder   int
	ScheduledDate  time.Time
	SwimmingPoolID int64
}

type Team struct {
	ID           int64
	Name         string
	EditableName string
	CityID       int64
}

type TeamAffiliation struct {
	ID       int64
	TeamID   int64
	SeasonID int64
	Name     string
}

type Swimmer struct {
	ID           int64
	CompleteName string
	LastName     string
	FirstName    string
	YearOfBirth  int
	Gender       string
}

type Badge struct {
	ID                int64
	SwimmerID         int64
	TeamID            int64
	SeasonID          int64
	TeamAffiliationID int64
	CategoryTypeID    int64
}

// CategoryType is a season-scoped age bracket ("M25", "M30", relay ranges).
type CategoryType struct {
	ID       int64
	SeasonID int64
	Code     string
	AgeBegin int
	AgeEnd   int
	Relay    bool
}

// Contains reports whether the given age falls inside the bracket.
func (c CategoryType) Contains(age int) bool {
	return age >= c.AgeBegin && age <= c.AgeEnd
}

type MeetingEvent struct {
	ID               int64
	MeetingSessionID int64
	EventCode        string
	EventOrder       int
	Relay            bool
}

type City struct {
	ID   int64
	Name string
}

type SwimmingPool struct {
	ID       int64
	Name     string
	NickName string
	CityID   int64
	Lanes    int
	Length   int
}
