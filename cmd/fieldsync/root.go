package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/homemade/fieldsync/sync"
)

// app is populated by the root command before any subcommand runs.
type app struct {
	configPath string
	envFiles   []string
	logLevel   string

	config sync.Config
	logger zerolog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "fieldsync",
		Short: "Sync recently updated units to FieldWork HQ",
		Long: `fieldsync reads the Unit Info sheet, finds units updated within the freshness
window that are not yet listed on the FieldWork sheet, and creates them in FieldWork HQ.

Configuration is layered: embedded defaults, then --config (or FIELDSYNC_CONFIG),
with ${VAR:default} placeholders expanded from the FIELDSYNC JSON env var and the environment.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file layered over the defaults")
	cmd.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files to load (default .env if present)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCommand(a),
		newRunCommand(a),
		newFieldsCommand(a),
	)
	return cmd
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	if len(a.envFiles) > 0 {
		if err := godotenv.Load(a.envFiles...); err != nil {
			return fmt.Errorf("loading env files: %w", err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	config, err := sync.LoadConfigFromEnvironment(sync.ConfigWithFile(a.configPath))
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		config.Log.Level = a.logLevel
	}
	a.config = config
	a.logger = sync.NewLogger(config.Log, cmd.ErrOrStderr())
	return nil
}

// newSyncer wires the production source and sink.
func (a *app) newSyncer(cmd *cobra.Command) (*sync.Syncer, error) {
	if err := a.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	sc := sync.NewSyncContext(a.config, &a.logger)
	fetcher, err := sync.NewSheetsFetcher(cmd.Context(), sc)
	if err != nil {
		return nil, err
	}
	return sync.NewSyncer(sc, fetcher, sync.NewFieldWorkUpdater(sc)), nil
}
