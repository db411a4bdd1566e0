package staging

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// upsert runs the find-or-create pattern shared by every staged kind:
// a row that already exists under its import key is updated in place and
// reported as not-created, so repeat runs never re-increment creation counts.
func (s *Store) upsert(ctx context.Context, table, key, insert string, insertArgs []any, update string, updateArgs []any) (created bool, err error) {
	var one int
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT 1 FROM %s WHERE import_key = ?", table), key,
	).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.ExecContext(ctx, insert, insertArgs...); err != nil {
			return false, fmt.Errorf("staging: insert %s: %w", table, err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("staging: find %s: %w", table, err)
	default:
		if _, err := s.db.ExecContext(ctx, update, updateArgs...); err != nil {
			return false, fmt.Errorf("staging: update %s: %w", table, err)
		}
		return false, nil
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// UpsertProgram stages a program slice; returns whether it was created.
func (s *Store) UpsertProgram(ctx context.Context, p Program) (bool, error) {
	return s.upsert(ctx, "staged_programs", p.ImportKey,
		`INSERT INTO staged_programs (import_key, session_order, event_code, category, gender, relay)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		[]any{p.ImportKey, p.SessionOrder, p.EventCode, p.Category, p.Gender, boolInt(p.Relay)},
		`UPDATE staged_programs SET session_order = ?, event_code = ?, category = ?, gender = ?, relay = ?
		 WHERE import_key = ?`,
		[]any{p.SessionOrder, p.EventCode, p.Category, p.Gender, boolInt(p.Relay), p.ImportKey},
	)
}

// UpsertResult stages an individual result.
func (s *Store) UpsertResult(ctx context.Context, r Result) (bool, error) {
	return s.upsert(ctx, "staged_results", r.ImportKey,
		`INSERT INTO staged_results
		   (import_key, program_key, swimmer_key, team_key, rank, dsq, dsq_label, score, minutes, seconds, hundredths)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		[]any{r.ImportKey, r.ProgramKey, r.SwimmerKey, r.TeamKey, r.Rank, boolInt(r.DSQ), r.DSQLabel, r.Score,
			r.Timing.Minutes, r.Timing.Seconds, r.Timing.Hundredths},
		`UPDATE staged_results SET program_key = ?, swimmer_key = ?, team_key = ?, rank = ?, dsq = ?,
		   dsq_label = ?, score = ?, minutes = ?, seconds = ?, hundredths = ?
		 WHERE import_key = ?`,
		[]any{r.ProgramKey, r.SwimmerKey, r.TeamKey, r.Rank, boolInt(r.DSQ), r.DSQLabel, r.Score,
			r.Timing.Minutes, r.Timing.Seconds, r.Timing.Hundredths, r.ImportKey},
	)
}

// UpsertLap stages a lap of an individual result.
func (s *Store) UpsertLap(ctx context.Context, l Lap) (bool, error) {
	return s.upsert(ctx, "staged_laps", l.ImportKey,
		`INSERT INTO staged_laps
		   (import_key, result_key, length_in_meters, minutes, seconds, hundredths,
		    minutes_from_start, seconds_from_start, hundredths_from_start)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		[]any{l.ImportKey, l.ResultKey, l.Length,
			l.Delta.Minutes, l.Delta.Seconds, l.Delta.Hundredths,
			l.FromStart.Minutes, l.FromStart.Seconds, l.FromStart.Hundredths},
		`UPDATE staged_laps SET result_key = ?, length_in_meters = ?, minutes = ?, seconds = ?, hundredths = ?,
		   minutes_from_start = ?, seconds_from_start = ?, hundredths_from_start = ?
		 WHERE import_key = ?`,
		[]any{l.ResultKey, l.Length,
			l.Delta.Minutes, l.Delta.Seconds, l.Delta.Hundredths,
			l.FromStart.Minutes, l.FromStart.Seconds, l.FromStart.Hundredths, l.ImportKey},
	)
}

// UpsertRelay stages a relay result.
func (s *Store) UpsertRelay(ctx context.Context, r Relay) (bool, error) {
	return s.upsert(ctx, "staged_relays", r.ImportKey,
		`INSERT INTO staged_relays
		   (import_key, program_key, team_key, rank, dsq, dsq_label, score, timing, minutes, seconds, hundredths)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		[]any{r.ImportKey, r.ProgramKey, r.TeamKey, r.Rank, boolInt(r.DSQ), r.DSQLabel, r.Score, r.TimingRaw,
			r.Timing.Minutes, r.Timing.Seconds, r.Timing.Hundredths},
		`UPDATE staged_relays SET program_key = ?, team_key = ?, rank = ?, dsq = ?, dsq_label = ?,
		   score = ?, timing = ?, minutes = ?, seconds = ?, hundredths = ?
		 WHERE import_key = ?`,
		[]any{r.ProgramKey, r.TeamKey, r.Rank, boolInt(r.DSQ), r.DSQLabel, r.Score, r.TimingRaw,
			r.Timing.Minutes, r.Timing.Seconds, r.Timing.Hundredths, r.ImportKey},
	)
}

// UpsertRelaySwimmer stages a relay leg.
func (s *Store) UpsertRelaySwimmer(ctx context.Context, rs RelaySwimmer) (bool, error) {
	return s.upsert(ctx, "staged_relay_swimmers", rs.ImportKey,
		`INSERT INTO staged_relay_swimmers
		   (import_key, relay_key, swimmer_key, relay_order, stroke, length_in_meters, minutes, seconds, hundredths)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		[]any{rs.ImportKey, rs.RelayKey, rs.SwimmerKey, rs.Order, rs.Stroke, rs.Length,
			rs.Delta.Minutes, rs.Delta.Seconds, rs.Delta.Hundredths},
		`UPDATE staged_relay_swimmers SET relay_key = ?, swimmer_key = ?, relay_order = ?, stroke = ?,
		   length_in_meters = ?, minutes = ?, seconds = ?, hundredths = ?
		 WHERE import_key = ?`,
		[]any{rs.RelayKey, rs.SwimmerKey, rs.Order, rs.Stroke, rs.Length,
			rs.Delta.Minutes, rs.Delta.Seconds, rs.Delta.Hundredths, rs.ImportKey},
	)
}

// UpsertRelayLap stages a sub-lap within a relay leg.
func (s *Store) UpsertRelayLap(ctx context.Context, rl RelayLap) (bool, error) {
	return s.upsert(ctx, "staged_relay_laps", rl.ImportKey,
		`INSERT INTO staged_relay_laps
		   (import_key, relay_swimmer_key, relay_key, length_in_meters, minutes, seconds, hundredths,
		    minutes_from_start, seconds_from_start, hundredths_from_start)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		[]any{rl.ImportKey, rl.SwimmerKey, rl.RelayKey, rl.Length,
			rl.Delta.Minutes, rl.Delta.Seconds, rl.Delta.Hundredths,
			rl.FromStart.Minutes, rl.FromStart.Seconds, rl.FromStart.Hundredths},
		`UPDATE staged_relay_laps SET relay_swimmer_key = ?, relay_key = ?, length_in_meters = ?,
		   minutes = ?, seconds = ?, hundredths = ?,
		   minutes_from_start = ?, seconds_from_start = ?, hundredths_from_start = ?
		 WHERE import_key = ?`,
		[]any{rl.SwimmerKey, rl.RelayKey, rl.Length,
			rl.Delta.Minutes, rl.Delta.Seconds, rl.Delta.Hundredths,
			rl.FromStart.Minutes, rl.FromStart.Seconds, rl.FromStart.Hundredths, rl.ImportKey},
	)
}

// Queries used by the committer.

// Programs returns every staged program in import-key order.
func (s *Store) Programs(ctx context.Context) ([]Program, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT import_key, session_order, event_code, COALESCE(category, ''), COALESCE(gender, ''), relay
		   FROM staged_programs ORDER BY import_key`)
	if err != nil {
		return nil, fmt.Errorf("staging: programs: %w", err)
	}
	defer rows.Close()
	var out []Program
	for rows.Next() {
		var p Program
		var relay int
		if err := rows.Scan(&p.ImportKey, &p.SessionOrder, &p.EventCode, &p.Category, &p.Gender, &relay); err != nil {
			return nil, fmt.Errorf("staging: scan program: %w", err)
		}
		p.Relay = relay != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

// ResultsForProgram returns the staged individual results of one program.
func (s *Store) ResultsForProgram(ctx context.Context, programKey string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT import_key, program_key, swimmer_key, COALESCE(team_key, ''), COALESCE(rank, 0),
		        dsq, COALESCE(dsq_label, ''), COALESCE(score, ''), minutes, seconds, hundredths
		   FROM staged_results WHERE program_key = ? ORDER BY import_key`, programKey)
	if err != nil {
		return nil, fmt.Errorf("staging: results: %w", err)
	}
	defer rows.Close()
	var out []Result
	for rows.Next() {
		var r Result
		var dsq int
		if err := rows.Scan(&r.ImportKey, &r.ProgramKey, &r.SwimmerKey, &r.TeamKey, &r.Rank,
			&dsq, &r.DSQLabel, &r.Score, &r.Timing.Minutes, &r.Timing.Seconds, &r.Timing.Hundredths); err != nil {
			return nil, fmt.Errorf("staging: scan result: %w", err)
		}
		r.DSQ = dsq != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// LapsForResult returns the staged laps of one individual result in length
// order.
func (s *Store) LapsForResult(ctx context.Context, resultKey string) ([]Lap, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT import_key, result_key, length_in_meters, minutes, seconds, hundredths,
		        minutes_from_start, seconds_from_start, hundredths_from_start
		   FROM staged_laps WHERE result_key = ? ORDER BY length_in_meters`, resultKey)
	if err != nil {
		return nil, fmt.Errorf("staging: laps: %w", err)
	}
	defer rows.Close()
	var out []Lap
	for rows.Next() {
		var l Lap
		if err := rows.Scan(&l.ImportKey, &l.ResultKey, &l.Length,
			&l.Delta.Minutes, &l.Delta.Seconds, &l.Delta.Hundredths,
			&l.FromStart.Minutes, &l.FromStart.Seconds, &l.FromStart.Hundredths); err != nil {
			return nil, fmt.Errorf("staging: scan lap: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// RelaysForProgram returns the staged relay results of one program.
func (s *Store) RelaysForProgram(ctx context.Context, programKey string) ([]Relay, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT import_key, program_key, team_key, COALESCE(rank, 0), dsq, COALESCE(dsq_label, ''),
		        COALESCE(score, ''), COALESCE(timing, ''), minutes, seconds, hundredths
		   FROM staged_relays WHERE program_key = ? ORDER BY import_key`, programKey)
	if err != nil {
		return nil, fmt.Errorf("staging: relays: %w", err)
	}
	defer rows.Close()
	var out []Relay
	for rows.Next() {
		var r Relay
		var dsq int
		if err := rows.Scan(&r.ImportKey, &r.ProgramKey, &r.TeamKey, &r.Rank, &dsq, &r.DSQLabel,
			&r.Score, &r.TimingRaw, &r.Timing.Minutes, &r.Timing.Seconds, &r.Timing.Hundredths); err != nil {
			return nil, fmt.Errorf("staging: scan relay: %w", err)
		}
		r.DSQ = dsq != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// SwimmersForRelay returns the staged legs of one relay in leg order.
func (s *Store) SwimmersForRelay(ctx context.Context, relayKey string) ([]RelaySwimmer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT import_key, relay_key, COALESCE(swimmer_key, ''), relay_order, stroke, length_in_meters,
		        minutes, seconds, hundredths
		   FROM staged_relay_swimmers WHERE relay_key = ? ORDER BY relay_order`, relayKey)
	if err != nil {
		return nil, fmt.Errorf("staging: relay swimmers: %w", err)
	}
	defer rows.Close()
	var out []RelaySwimmer
	for rows.Next() {
		var rs RelaySwimmer
		if err := rows.Scan(&rs.ImportKey, &rs.RelayKey, &rs.SwimmerKey, &rs.Order, &rs.Stroke, &rs.Length,
			&rs.Delta.Minutes, &rs.Delta.Seconds, &rs.Delta.Hundredths); err != nil {
			return nil, fmt.Errorf("staging: scan relay swimmer: %w", err)
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

// LapsForRelaySwimmer returns the staged sub-laps of one relay leg in length
// order.
func (s *Store) LapsForRelaySwimmer(ctx context.Context, swimmerKey string) ([]RelayLap, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT import_key, relay_swimmer_key, relay_key, length_in_meters, minutes, seconds, hundredths,
		        minutes_from_start, seconds_from_start, hundredths_from_start
		   FROM staged_relay_laps WHERE relay_swimmer_key = ? ORDER BY length_in_meters`, swimmerKey)
	if err != nil {
		return nil, fmt.Errorf("staging: relay laps: %w", err)
	}
	defer rows.Close()
	var out []RelayLap
	for rows.Next() {
		var rl RelayLap
		if err := rows.Scan(&rl.ImportKey, &rl.SwimmerKey, &rl.RelayKey, &rl.Length,
			&rl.Delta.Minutes, &rl.Delta.Seconds, &rl.Delta.Hundredths,
			&rl.FromStart.Minutes, &rl.FromStart.Seconds, &rl.FromStart.Hundredths); err != nil {
			return nil, fmt.Errorf("staging: scan relay lap: %w", err)
		}
		out = append(out, rl)
	}
	return out, rows.Err()
}
