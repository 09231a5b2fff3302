// Package main is the entry point for the coc-sheet command
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/config"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/logging"
)

func main() {
	if err := newRootCmd(nil).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.GetCode(err).ExitCode())
	}
}

// rootOptions carries the settings shared by every subcommand
type rootOptions struct {
	// env replaces the process environment when not nil
	env map[string]string

	storage    string
	redisURL   string
	sqlitePath string
	playerID   string
	locale     string
	logLevel   string
	logFormat  string

	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
}

func newRootCmd(env map[string]string) *cobra.Command {
	opts := &rootOptions{env: env}

	cmd := &cobra.Command{
		Use:   "coc-sheet",
		Short: "Call of Cthulhu character generator",
		Long: `coc-sheet builds Call of Cthulhu investigators step by step, stores them,
exports them as YAML documents and prints them as PDF sheets.

Settings are read from COC_SHEET_* environment variables; flags override them.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.load,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return opts.close()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.storage, "storage", config.StorageRedis, "character storage backend (redis or sqlite)")
	flags.StringVar(&opts.redisURL, "redis-url", "", "redis URL of the draft and character store")
	flags.StringVar(&opts.sqlitePath, "sqlite-path", "", "sqlite database file for characters")
	flags.StringVar(&opts.playerID, "player", "", "player owning new drafts and characters")
	flags.StringVar(&opts.locale, "locale", "", "language of names and sheet labels")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")
	flags.StringVar(&opts.logFormat, "log-format", "", "console log format (text or json)")

	cmd.AddCommand(
		newOccupationsCmd(opts),
		newSkillsCmd(opts),
		newGenerateCmd(opts),
		newShowCmd(opts),
		newListCmd(opts),
		newDeleteCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newSheetCmd(opts),
		newServeCmd(opts),
		newRepairCmd(opts),
	)

	return cmd
}

// load reads the environment, applies the flags that were set and builds
// the process logger
func (o *rootOptions) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadFrom(o.env)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	overrides := []struct {
		flag   string
		value  string
		target *string
	}{
		{"storage", o.storage, &cfg.Storage.Backend},
		{"redis-url", o.redisURL, &cfg.Storage.RedisURL},
		{"sqlite-path", o.sqlitePath, &cfg.Storage.SQLitePath},
		{"player", o.playerID, &cfg.PlayerID},
		{"locale", o.locale, &cfg.Locale},
		{"log-level", o.logLevel, &cfg.Log.Level},
		{"log-format", o.logFormat, &cfg.Log.Format},
	}
	for _, ov := range overrides {
		if flags.Changed(ov.flag) {
			*ov.target = ov.value
		}
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid flags")
	}

	logger, closer := logging.New(cfg.Log, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	o.cfg = cfg
	o.logger = logger
	o.logCloser = closer
	return nil
}

func (o *rootOptions) close() error {
	if o.logCloser == nil {
		return nil
	}
	return o.logCloser.Close()
}
