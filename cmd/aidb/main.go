package main

import (
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Prayag-01/ai-project/config"
	"github.com/Prayag-01/ai-project/database"
	"github.com/Prayag-01/ai-project/db"
	"github.com/Prayag-01/ai-project/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

// app carries the state shared by every subcommand once flags are parsed.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     *zap.Logger
	out        io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	rootCmd := &cobra.Command{
		Use:           "aidb",
		Short:         "Build and verify the AI analytics SQLite database",
		Long:          "aidb rebuilds the AI analytics database from its schema and sample data scripts,\nprints summary statistics, then verifies the result with the top product/model report.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAll(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Path to a config file (yaml, json or toml)")
	flags.String("db", a.v.GetString(config.KeyDB), "Path to SQLite database file")
	flags.String("schema", a.v.GetString(config.KeySchema), "Path to the schema script")
	flags.String("data", a.v.GetString(config.KeyData), "Path to the sample data script")
	flags.Bool("embedded", false, "Use the scripts compiled into the binary instead of --schema/--data")
	flags.Bool("seed", true, "Whether to load the sample data after the schema")
	flags.Bool("backup", false, "Whether to back up an existing database before it is replaced")
	flags.Int("max-backups", db.DefaultMaxBackups, "Maximum number of backups to retain")
	flags.Bool("verify-on-failure", false, "Run verification even when the build failed")
	flags.Int("top-limit", db.DefaultTopLimit, "Number of product/model combinations to report")
	flags.String("addr", a.v.GetString(config.KeyAddr), "Listen address for serve")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console or json)")

	for _, key := range []string{
		config.KeyDB, config.KeySchema, config.KeyData, config.KeyEmbedded, config.KeySeed,
		config.KeyBackup, config.KeyMaxBackups, config.KeyVerifyOnFailure, config.KeyTopLimit,
		config.KeyAddr, config.KeyLogLevel, config.KeyLogFormat,
	} {
		if err := a.v.BindPFlag(key, flags.Lookup(strings.ReplaceAll(key, "_", "-"))); err != nil {
			log.Fatalf("bind flag %s: %v", key, err)
		}
	}

	rootCmd.AddCommand(
		newRunCmd(a),
		newBuildCmd(a),
		newVerifyCmd(a),
		newServeCmd(a),
		newScriptsCmd(a),
	)
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.out = cmd.OutOrStdout()
	return nil
}

func (a *app) sugar() *zap.SugaredLogger {
	return a.logger.Sugar()
}

func (a *app) buildOptions() db.BuildOptions {
	opts := db.BuildOptions{
		DBPath:     a.cfg.DBPath,
		SchemaPath: a.cfg.SchemaPath,
		DataPath:   a.cfg.DataPath,
		Seed:       a.cfg.Seed,
		Backup:     a.cfg.Backup,
		MaxBackups: a.cfg.MaxBackups,
		Logger:     a.sugar(),
		SQLLogMode: logging.SQLLogMode(a.cfg.LogLevel),
	}
	if a.cfg.Embedded {
		opts.SchemaSQL = database.Schema
		opts.DataSQL = database.SampleData
	}
	return opts
}

func (a *app) verifyOptions() db.VerifyOptions {
	return db.VerifyOptions{
		DBPath:     a.cfg.DBPath,
		Limit:      a.cfg.TopLimit,
		Logger:     a.sugar(),
		SQLLogMode: logging.SQLLogMode(a.cfg.LogLevel),
	}
}
