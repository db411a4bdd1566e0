// Command swimpipe drives the results-import pipeline: solving a source file
// against the permanent store (phases 1-4), populating the staging database
// (phase 5) and committing the run (phase 6).
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"swimpipe/internal/config"
	"swimpipe/internal/store"
	"swimpipe/internal/store/postgres"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:           "swimpipe",
		Short:         "Swimming competition results import pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.json", "run configuration file")

	root.AddCommand(
		newSolveCmd(),
		newPopulateCmd(),
		newCommitCmd(),
		newRunCmd(),
		newConvertCmd(),
	)

	if err := root.Execute(); err != nil {
		log.Fatalf("swimpipe: %v", err)
	}
}

// env bundles the loaded configuration and the permanent-store connection
// shared by the phase commands.
type env struct {
	cfg    config.Run
	store  *postgres.Store
	season store.Season
	close  func()
}

// setup loads and validates the configuration, connects to the permanent
// store and resolves the configured season. Validation errors abort;
// warnings are logged and the run continues.
func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	fatal := false
	for _, issue := range config.Validate(cfg) {
		log.Printf("config: %v", issue)
		if issue.Severity == config.SeverityError {
			fatal = true
		}
	}
	if fatal {
		return nil, fmt.Errorf("invalid configuration %s", cfgPath)
	}

	st, closeStore, err := postgres.New(ctx, postgres.Config{DSN: cfg.Store.DSN})
	if err != nil {
		return nil, err
	}
	season, err := st.SeasonByID(ctx, cfg.Season)
	if err != nil {
		closeStore()
		return nil, err
	}
	return &env{cfg: cfg, store: st, season: season, close: closeStore}, nil
}

func requireFiles(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("at least one source file required")
	}
	for _, path := range args {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("source %s: %w", path, err)
		}
	}
	return nil
}
