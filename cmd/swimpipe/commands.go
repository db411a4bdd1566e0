package main

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"swimpipe/internal/commit"
	"swimpipe/internal/config"
	"swimpipe/internal/metrics"
	"swimpipe/internal/populate"
	"swimpipe/internal/solver"
	"swimpipe/internal/staging"
	"swimpipe/internal/stats"
)

// solveWorkers caps concurrent solver runs; solving is read-only against the
// permanent store so files are independent.
const solveWorkers = 4

func newSolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solve <file>...",
		Short: "Run resolution phases 1-4 over the given source files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFiles(args); err != nil {
				return err
			}
			ctx := cmd.Context()
			e, err := setup(ctx)
			if err != nil {
				return err
			}
			defer e.close()
			return solveAll(ctx, e, args)
		},
	}
}

func solveAll(ctx context.Context, e *env, files []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(solveWorkers)
	for _, path := range files {
		path := path
		g.Go(func() error {
			return solveFile(ctx, e, path)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return metrics.Flush()
}

func solveFile(ctx context.Context, e *env, path string) error {
	req := solver.Request{
		SourcePath:  path,
		ArtifactDir: e.cfg.ArtifactDir,
		Season:      e.season,
		Store:       e.store,
		Ranker:      e.cfg.Ranker(),
	}
	phases := []struct {
		name  string
		build func(context.Context, solver.Request) (string, error)
	}{
		{"meeting", solver.BuildMeeting},
		{"team", solver.BuildTeams},
		{"swimmer", solver.BuildSwimmers},
		{"event", solver.BuildEvents},
	}
	for _, p := range phases {
		start := time.Now()
		out, err := p.build(ctx, req)
		metrics.RecordPhase(path, p.name, err, time.Since(start))
		if err != nil {
			return fmt.Errorf("%s: solve %s: %w", path, p.name, err)
		}
		log.Printf("%s: %s solved -> %s", path, p.name, out)
	}
	return nil
}

func newPopulateCmd() *cobra.Command {
	var fresh bool
	cmd := &cobra.Command{
		Use:   "populate <file>...",
		Short: "Run phase 5: stage results, laps and relays from the source files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFiles(args); err != nil {
				return err
			}
			ctx := cmd.Context()
			cfg, err := loadConfigOnly()
			if err != nil {
				return err
			}
			stg, closeStg, err := staging.Open(ctx, cfg.Staging.DSN)
			if err != nil {
				return err
			}
			defer closeStg()
			if fresh {
				if err := stg.Truncate(ctx); err != nil {
					return err
				}
			}
			return populateAll(ctx, stg, args)
		},
	}
	cmd.Flags().BoolVar(&fresh, "fresh", false, "empty the staging tables before populating")
	return cmd
}

func populateAll(ctx context.Context, stg *staging.Store, files []string) error {
	total := stats.New()
	for _, path := range files {
		p := populate.Populator{SourcePath: path, Staging: stg}
		start := time.Now()
		st, err := p.Populate(ctx)
		metrics.RecordPhase(path, "populate", err, time.Since(start))
		if st != nil {
			reportStats(path, st)
			total.Merge(st)
		}
		if err != nil {
			return fmt.Errorf("%s: populate: %w", path, err)
		}
	}
	if !total.OK() {
		log.Printf("populate finished with %d row errors", len(total.Errors))
	}
	return metrics.Flush()
}

func newCommitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commit <file>...",
		Short: "Run phase 6: replay solved and staged entities into the permanent store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFiles(args); err != nil {
				return err
			}
			ctx := cmd.Context()
			e, err := setup(ctx)
			if err != nil {
				return err
			}
			defer e.close()
			stg, closeStg, err := staging.Open(ctx, e.cfg.Staging.DSN)
			if err != nil {
				return err
			}
			defer closeStg()
			return commitAll(ctx, e, stg, args)
		},
	}
}

func commitAll(ctx context.Context, e *env, stg *staging.Store, files []string) error {
	audit, err := commit.OpenAudit(e.cfg.Commit.AuditLog)
	if err != nil {
		return err
	}
	defer audit.Close()

	for _, path := range files {
		c := commit.Committer{
			SourcePath:  path,
			ArtifactDir: e.cfg.ArtifactDir,
			Season:      e.season,
			Store:       e.store,
			Staging:     stg,
			Audit:       audit,
			Strict:      e.cfg.Commit.Strict,
		}
		start := time.Now()
		st, err := c.Commit(ctx)
		metrics.RecordPhase(path, "commit", err, time.Since(start))
		if st != nil {
			reportStats(path, st)
		}
		if err != nil {
			return fmt.Errorf("%s: commit: %w", path, err)
		}
	}
	return metrics.Flush()
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>...",
		Short: "Run the full pipeline: solve, populate and commit the source files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFiles(args); err != nil {
				return err
			}
			ctx := cmd.Context()
			e, err := setup(ctx)
			if err != nil {
				return err
			}
			defer e.close()
			stg, closeStg, err := staging.Open(ctx, e.cfg.Staging.DSN)
			if err != nil {
				return err
			}
			defer closeStg()

			if err := solveAll(ctx, e, args); err != nil {
				return err
			}
			if err := populateAll(ctx, stg, args); err != nil {
				return err
			}
			return commitAll(ctx, e, stg, args)
		},
	}
}

// loadConfigOnly is setup without the permanent-store connection, for the
// commands that only touch local files and the staging database.
func loadConfigOnly() (config.Run, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Run{}, err
	}
	for _, issue := range config.Validate(cfg) {
		if issue.Severity == config.SeverityWarning {
			log.Printf("config: %v", issue)
		}
	}
	return cfg, nil
}

// reportStats logs the per-file counters (sorted) and every recorded row
// error, and mirrors the counters into the metrics backend.
func reportStats(source string, st *stats.Stats) {
	names := make([]string, 0, len(st.Counters))
	for name := range st.Counters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		log.Printf("%s: %s=%d", source, name, st.Counters[name])
		if kind, outcome, ok := splitCounter(name); ok {
			metrics.RecordEntities(source, kind, outcome, st.Counters[name])
		}
	}
	for _, e := range st.Errors {
		log.Printf("%s: error: %s", source, e)
	}
}

// splitCounter splits "<kind>_<outcome>" counter names on the last
// underscore.
func splitCounter(name string) (kind, outcome string, ok bool) {
	i := strings.LastIndex(name, "_")
	if i <= 0 || i == len(name)-1 {
		return "", "", false
	}
	return name[:i], name[i+1:], true
}
