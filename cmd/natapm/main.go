package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Latif080790/NataCarePM-sub017/internal/engine"
	"github.com/Latif080790/NataCarePM-sub017/internal/storage"
)

// Version is the natapm version, stamped into the exclusive lock file so a
// stale lock names the binary that left it behind.
const Version = "0.1.0"

var (
	dbPath     string
	projectID  string
	actor      string
	configPath string

	store storage.Storage
	svc   *engine.Service

	// resolvedDBPath is the database path openService actually opened, after
	// discovery. Long-running commands lock on it.
	resolvedDBPath string
)

var rootCmd = &cobra.Command{
	Use:   "natapm",
	Short: "Task dependency and critical-path scheduling for project plans",
	Long: `NataPM schedules project plans: tasks with calendar dates, typed
dependency edges between them (finish-to-start and friends, with lag),
critical path computation, schedule change propagation, and resource
allocation with capacity and cost checks.

All state lives in a local SQLite database under .natapm/. Every mutation
is recorded in an audit event log.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init creates the database; help and completion never touch it.
		switch cmd.Name() {
		case "init", "help", "completion", "version":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}
		return openService(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
	},
}

// openService connects the global store and engine service used by all
// subcommands. The database path comes from --db, falling back to discovery.
func openService(ctx context.Context) error {
	path := dbPath
	if path == "" {
		discovered, err := storage.DiscoverDatabase()
		if err != nil {
			return err
		}
		path = discovered
	}
	resolvedDBPath = path

	var err error
	store, err = storage.NewStorage(ctx, &storage.Config{Path: path})
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", path, err)
	}

	cfg, err := loadServiceConfig()
	if err != nil {
		_ = store.Close()
		return err
	}
	svc, err = engine.NewService(store, cfg)
	if err != nil {
		_ = store.Close()
		return err
	}
	return nil
}

// loadServiceConfig reads the engine configuration from --config when given,
// otherwise from the NATAPM_* environment variables.
func loadServiceConfig() (engine.ServiceConfig, error) {
	if configPath != "" {
		return engine.LoadServiceConfig(configPath)
	}
	return engine.ServiceConfigFromEnv()
}

func defaultActor() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "user"
}

// parseDateArg parses a YYYY-MM-DD flag value.
func parseDateArg(flag, value string) (time.Time, error) {
	ts, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: expected YYYY-MM-DD", flag, value)
	}
	return ts, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to plan database (default: discover .natapm/*.db)")
	rootCmd.PersistentFlags().StringVarP(&projectID, "project", "p", "default", "Project ID to operate on")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", defaultActor(), "Actor recorded on audit events")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to engine YAML config (default: NATAPM_* environment)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
