package staging

import "swimpipe/internal/parse"

// Program is one staged meeting-program slice (event x category x gender).
type Program struct {
	ImportKey    string
	SessionOrder int
	EventCode    string
	Category     string
	Gender       string
	Relay        bool
}

// Result is one staged individual result.
type Result struct {
	ImportKey  string
	ProgramKey string
	SwimmerKey string
	TeamKey    string
	Rank       int
	DSQ        bool
	DSQLabel   string
	Score      string
	Timing     parse.Timing
}

// Lap is one staged lap of an individual result. Delta is the split swum for
// this length; FromStart the running cumulative on the race clock.
type Lap struct {
	ImportKey string
	ResultKey string
	Length    int
	Delta     parse.Timing
	FromStart parse.Timing
}

// Relay is one staged relay result.
type Relay struct {
	ImportKey  string
	ProgramKey string
	TeamKey    string
	Rank       int
	DSQ        bool
	DSQLabel   string
	Score      string
	TimingRaw  string
	Timing     parse.Timing
}

// RelaySwimmer is one staged relay leg: the swimmer, their 1-based order,
// the stroke swum and the leg's own split.
type RelaySwimmer struct {
	ImportKey  string
	RelayKey   string
	SwimmerKey string
	Order      int
	Stroke     string
	Length     int
	Delta      parse.Timing
}

// RelayLap is one staged sub-lap within a relay leg. FromStart continues the
// whole-relay clock; it never restarts at zero on a leg boundary.
type RelayLap struct {
	ImportKey  string
	SwimmerKey string
	RelayKey   string
	Length     int
	Delta      parse.Timing
	FromStart  parse.Timing
}
