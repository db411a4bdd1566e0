// Package populate implements Phase 5: materializing individual and relay
// results, laps, relay legs and relay sub-laps from the original source file
// into the staging store, with all cumulative timings derived from deltas.
//
// The populator reads the original source (lap-level detail lives only
// there), normalizes LT2 input to LT4 in memory, and walks every event and
// result. A single bad row records a structured error and the run continues;
// only structural source errors (unknown dialect marker, unreadable file)
// abort the invocation.
package populate

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"swimpipe/internal/importkey"
	"swimpipe/internal/layout"
	"swimpipe/internal/parse"
	"swimpipe/internal/staging"
	"swimpipe/internal/stats"
)

// Populator materializes one source file into the staging store.
type Populator struct {
	SourcePath string
	Staging    *staging.Store
}

// Populate runs the phase and returns its statistics. The error return is
// reserved for structural failures; per-row problems land in Stats.Errors.
func (p *Populator) Populate(ctx context.Context) (*stats.Stats, error) {
	doc, _, err := layout.Load(p.SourcePath)
	if err != nil {
		return nil, err
	}
	return p.populateDoc(ctx, doc)
}

func (p *Populator) populateDoc(ctx context.Context, doc layout.DocLT4) (*stats.Stats, error) {
	st := stats.New()
	for _, ev := range doc.Events {
		et, err := parse.ParseEventTitle(ev.Title)
		if err != nil {
			st.AddError("event", ev.Title, "%v", err)
			continue
		}
		for _, res := range ev.Results {
			programKey := importkey.Program(1, et.Code(ev.Gender), res.Category, ev.Gender)
			created, err := p.Staging.UpsertProgram(ctx, staging.Program{
				ImportKey:    programKey,
				SessionOrder: 1,
				EventCode:    et.Code(ev.Gender),
				Category:     res.Category,
				Gender:       ev.Gender,
				Relay:        et.Relay,
			})
			if err != nil {
				return st, err
			}
			if created {
				st.Inc("programs_created")
			}

			if et.Relay {
				if err := p.stageRelay(ctx, st, programKey, et, res); err != nil {
					return st, err
				}
			} else {
				if err := p.stageIndividual(ctx, st, programKey, et, res); err != nil {
					return st, err
				}
			}
		}
	}
	return st, nil
}

// stageIndividual stages one individual result and its laps. The from-start
// value of lap i is delta[i] + from-start[i-1]; the first lap's from-start
// equals its own delta. Deltas are the only timing read from the source.
func (p *Populator) stageIndividual(ctx context.Context, st *stats.Stats, programKey string, et parse.EventType, res layout.Result) error {
	if res.Swimmer == "" {
		st.AddError("result", programKey, "individual result without swimmer identity")
		return nil
	}
	key := importkey.Individual(programKey, res.Swimmer)
	created, err := p.Staging.UpsertResult(ctx, staging.Result{
		ImportKey:  key,
		ProgramKey: programKey,
		SwimmerKey: res.Swimmer,
		TeamKey:    parse.NormalizeName(res.Team),
		Rank:       parseRank(res.Ranking),
		DSQ:        res.DSQ,
		DSQLabel:   res.DSQLabel,
		Score:      res.Score,
		Timing:     parse.ParseTiming(res.Timing),
	})
	if err != nil {
		return err
	}
	if created {
		st.Inc("results_created")
	}

	var fromStart parse.Timing
	for _, lap := range res.Laps {
		delta := parse.ParseTiming(lap.Delta)
		fromStart = fromStart.Add(delta)
		lapCreated, err := p.Staging.UpsertLap(ctx, staging.Lap{
			ImportKey: importkey.Lap(key, lap.Distance),
			ResultKey: key,
			Length:    lap.Distance,
			Delta:     delta,
			FromStart: fromStart,
		})
		if err != nil {
			return err
		}
		if lapCreated {
			st.Inc("laps_created")
		}
	}
	return nil
}

// stageRelay stages one relay result, its legs and their sub-laps. The
// running cumulative continues on the whole-relay clock across leg
// boundaries: each leg's sub-laps start from the previous leg's final
// cumulative, never from zero.
func (p *Populator) stageRelay(ctx context.Context, st *stats.Stats, programKey string, et parse.EventType, res layout.Result) error {
	if strings.TrimSpace(res.Team) == "" {
		st.AddError("relay", programKey, "relay result without team")
		return nil
	}
	// The timing string is part of the key: two relay squads of the same
	// team in the same program stay distinguishable.
	key := importkey.Relay(programKey, res.Team, res.Timing)
	created, err := p.Staging.UpsertRelay(ctx, staging.Relay{
		ImportKey:  key,
		ProgramKey: programKey,
		TeamKey:    parse.NormalizeName(res.Team),
		Rank:       parseRank(res.Ranking),
		DSQ:        res.DSQ,
		DSQLabel:   res.DSQLabel,
		Score:      res.Score,
		TimingRaw:  res.Timing,
		Timing:     parse.ParseTiming(res.Timing),
	})
	if err != nil {
		return err
	}
	if created {
		st.Inc("relays_created")
	}

	legs := et.Phases
	if len(res.Swimmers) > legs {
		legs = len(res.Swimmers)
	}
	var fromStart parse.Timing
	for order := 1; order <= legs; order++ {
		swimmerKey := ""
		if order-1 < len(res.Swimmers) {
			swimmerKey = res.Swimmers[order-1]
		}
		legKey := importkey.RelaySwimmer(key, order)
		legLaps := lapsForLeg(res.Laps, et, order)

		var legDelta parse.Timing
		type stagedSub struct {
			lap       layout.Lap
			delta     parse.Timing
			fromStart parse.Timing
		}
		subs := make([]stagedSub, 0, len(legLaps))
		for _, lap := range legLaps {
			delta := parse.ParseTiming(lap.Delta)
			fromStart = fromStart.Add(delta)
			legDelta = legDelta.Add(delta)
			subs = append(subs, stagedSub{lap: lap, delta: delta, fromStart: fromStart})
		}

		legCreated, err := p.Staging.UpsertRelaySwimmer(ctx, staging.RelaySwimmer{
			ImportKey:  legKey,
			RelayKey:   key,
			SwimmerKey: swimmerKey,
			Order:      order,
			Stroke:     et.LegStroke(order),
			Length:     et.PhaseLength,
			Delta:      legDelta,
		})
		if err != nil {
			return err
		}
		if legCreated {
			st.Inc("relay_swimmers_created")
		}

		for _, sub := range subs {
			subCreated, err := p.Staging.UpsertRelayLap(ctx, staging.RelayLap{
				ImportKey:  importkey.RelayLap(legKey, sub.lap.Distance),
				SwimmerKey: legKey,
				RelayKey:   key,
				Length:     sub.lap.Distance,
				Delta:      sub.delta,
				FromStart:  sub.fromStart,
			})
			if err != nil {
				return err
			}
			if subCreated {
				st.Inc("relay_laps_created")
			}
		}
	}
	return nil
}

// lapsForLeg selects the source laps belonging to the given 1-based leg:
// absolute race distances in ((order-1)*phaseLength, order*phaseLength].
func lapsForLeg(laps []layout.Lap, et parse.EventType, order int) []layout.Lap {
	lo := (order - 1) * et.PhaseLength
	hi := order * et.PhaseLength
	var out []layout.Lap
	for _, lap := range laps {
		if lap.Distance > lo && lap.Distance <= hi {
			out = append(out, lap)
		}
	}
	return out
}

// parseRank reads a ranking field, tolerating decorations like "1)" or
// "1°"; a non-numeric ranking (withdrawn, disqualified) yields zero.
func parseRank(s string) int {
	digits := strings.TrimFunc(strings.TrimSpace(s), func(r rune) bool {
		return r < '0' || r > '9'
	})
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// String implements fmt.Stringer for logging.
func (p *Populator) String() string {
	return fmt.Sprintf("populate(%s)", p.SourcePath)
}
