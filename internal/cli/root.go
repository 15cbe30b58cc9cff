package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rustyeddy/smartfolio/config"
	"github.com/rustyeddy/smartfolio/portfolio"
	"github.com/rustyeddy/smartfolio/store"
	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// RootConfig holds the persistent flags.
type RootConfig struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
	EnvFile    string
	Memory     bool
}

// skipStore marks commands that run without opening the portfolio.
const skipStore = "skip-store"

// app is what PersistentPreRunE hands to the subcommands.
type app struct {
	rc    *RootConfig
	cfg   *config.Config
	log   *slog.Logger
	kv    store.KV
	store *portfolio.Store
}

func (a *app) open(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.rc.ConfigPath != "" {
		loaded, err := config.LoadFromFile(a.rc.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(a.rc.EnvFile)

	if cmd.Flags().Changed("db") {
		cfg.Storage.Driver = "sqlite"
		cfg.Storage.Path = a.rc.DBPath
	}
	if a.rc.Memory {
		cfg.Storage.Driver = "memory"
	}

	lvl, err := parseLevel(a.rc.LogLevel)
	if err != nil {
		return err
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
	a.cfg = cfg

	if cmd.Annotations[skipStore] != "" {
		return nil
	}

	switch cfg.Storage.Driver {
	case "memory":
		a.kv = store.NewMemory()
	default:
		db, err := store.NewSQLite(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		a.kv = db
	}

	st, err := portfolio.Open(cmd.Context(), a.kv, cfg, portfolio.WithLogger(a.log))
	if err != nil {
		a.close()
		return fmt.Errorf("open portfolio: %w", err)
	}
	a.store = st
	return nil
}

func (a *app) close() {
	if c, ok := a.kv.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.log.Warn("close db", "err", err)
		}
	}
	a.kv = nil
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q", s)
	}
	return lvl, nil
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}
	a := &app{rc: rc}

	cmd := &cobra.Command{
		Use:           "smartfolio",
		Short:         "Crypto portfolio books with pending orders and a trade journal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "./smartfolio.sqlite", "SQLite state database")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "warn", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().StringVar(&rc.EnvFile, "env", ".env", "Environment file with SMARTFOLIO_* overrides")
	cmd.PersistentFlags().BoolVar(&rc.Memory, "memory", false, "Keep state in memory only")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.open(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		a.close()
		return nil
	}

	cmd.AddCommand(
		newShowCmd(a),
		newHealthCmd(a),
		newStressCmd(a),
		newReportCmd(a),
		newOrderCmd(a),
		newJournalCmd(a),
		newSyncCmd(a),
		newRecycleCmd(a),
		newAccountsCmd(a),
		newSwitchCmd(a),
		newTargetCmd(a),
		newResetCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newStateCmd(a),
		newSimulateCmd(a),
		newServeCmd(a),
		newConfigCmd(),
	)

	cmd.AddCommand(&cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{skipStore: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "smartfolio (%s)\n", Version)
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
