package store

// Kind names used by the committer when addressing the generic Writer.
// Dependency order matters: CommitOrder lists parents before children so a
// created parent ID is available when its dependents are written.
const (
	KindCity             = "city"
	KindSwimmingPool     = "swimming_pool"
	KindCalendar         = "calendar"
	KindMeeting          = "meeting"
	KindMeetingSession   = "meeting_session"
	KindTeam             = "team"
	KindTeamAffiliation  = "team_affiliation"
	KindSwimmer          = "swimmer"
	KindBadge            = "badge"
	KindMeetingEvent     = "meeting_event"
	KindMeetingProgram   = "meeting_program"
	KindIndividualResult = "meeting_individual_result"
	KindLap              = "lap"
	KindRelayResult      = "meeting_relay_result"
	KindRelaySwimmer     = "meeting_relay_swimmer"
	KindRelayLap         = "relay_lap"
)

// CommitOrder is the dependency order Phase 6 walks the kinds in.
var CommitOrder = []string{
	KindCity,
	KindSwimmingPool,
	KindCalendar,
	KindMeeting,
	KindMeetingSession,
	KindTeam,
	KindTeamAffiliation,
	KindSwimmer,
	KindBadge,
	KindMeetingEvent,
	KindMeetingProgram,
	KindIndividualResult,
	KindLap,
	KindRelayResult,
	KindRelaySwimmer,
	KindRelayLap,
}

// KindSpec describes how a kind maps onto the backing table: its name and the
// set of writable columns. Attributes outside Columns are silently dropped by
// the committer before they reach a backend.
type KindSpec struct {
	Table   string
	Columns []string
}

// Kinds is the registry of every permanent entity kind the pipeline writes.
var Kinds = map[string]KindSpec{
	KindCity: {Table: "cities", Columns: []string{
		"name", "area", "country_code",
	}},
	KindSwimmingPool: {Table: "swimming_pools", Columns: []string{
		"name", "nick_name", "city_id", "pool_type_id", "lanes_number", "length",
	}},
	KindCalendar: {Table: "calendars", Columns: []string{
		"season_id", "meeting_id", "scheduled_date", "meeting_name", "meeting_place",
	}},
	KindMeeting: {Table: "meetings", Columns: []string{
		"season_id", "code", "description", "header_date", "header_year",
		"edition", "edition_type_id", "timing_type_id", "cancelled", "confirmed",
	}},
	KindMeetingSession: {Table: "meeting_sessions", Columns: []string{
		"meeting_id", "session_order", "scheduled_date", "swimming_pool_id",
		"description", "day_part_type_id",
	}},
	KindTeam: {Table: "teams", Columns: []string{
		"name", "editable_name", "city_id",
	}},
	KindTeamAffiliation: {Table: "team_affiliations", Columns: []string{
		"team_id", "season_id", "name", "number",
	}},
	KindSwimmer: {Table: "swimmers", Columns: []string{
		"complete_name", "last_name", "first_name", "year_of_birth",
		"gender_type_id", "year_guessed",
	}},
	KindBadge: {Table: "badges", Columns: []string{
		"swimmer_id", "team_id", "season_id", "team_affiliation_id",
		"category_type_id", "entry_time_type_id", "number",
	}},
	KindMeetingEvent: {Table: "meeting_events", Columns: []string{
		"meeting_session_id", "event_type_id", "event_order", "heat_type_id",
	}},
	KindMeetingProgram: {Table: "meeting_programs", Columns: []string{
		"meeting_event_id", "category_type_id", "gender_type_id", "event_order",
		"pool_type_id",
	}},
	KindIndividualResult: {Table: "meeting_individual_results", Columns: []string{
		"meeting_program_id", "swimmer_id", "team_id", "team_affiliation_id",
		"badge_id", "rank", "disqualified", "disqualification_code_type_id",
		"minutes", "seconds", "hundredths", "standard_points", "meeting_points",
	}},
	KindLap: {Table: "laps", Columns: []string{
		"meeting_individual_result_id", "meeting_program_id", "swimmer_id",
		"team_id", "length_in_meters", "minutes", "seconds", "hundredths",
		"minutes_from_start", "seconds_from_start", "hundredths_from_start",
	}},
	KindRelayResult: {Table: "meeting_relay_results", Columns: []string{
		"meeting_program_id", "team_id", "team_affiliation_id", "rank",
		"disqualified", "disqualification_code_type_id",
		"minutes", "seconds", "hundredths", "standard_points",
	}},
	KindRelaySwimmer: {Table: "meeting_relay_swimmers", Columns: []string{
		"meeting_relay_result_id", "swimmer_id", "badge_id", "stroke_type_id",
		"relay_order", "length_in_meters", "minutes", "seconds", "hundredths",
	}},
	KindRelayLap: {Table: "relay_laps", Columns: []string{
		"meeting_relay_result_id", "meeting_relay_swimmer_id", "swimmer_id",
		"team_id", "length_in_meters", "minutes", "seconds", "hundredths",
		"minutes_from_start", "seconds_from_start", "hundredths_from_start",
	}},
}
