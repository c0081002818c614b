package main

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// app is the state shared by the subcommands once the root command has
// resolved its configuration.
type app struct {
	cfg    Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	v := newViper()
	var configPath, envFile string

	cmd := &cobra.Command{
		Use:   "shardgraph",
		Short: "Repository bucket hashing and commit graph tools",
		Long: `shardgraph computes the gitserver bucket of repository names and turns
"git rev-list --parents" output into commit graph edges.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("loading env file %s: %w", envFile, err)
				}
			}

			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}

			cfg, err := loadConfig(v, configPath)
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = logger
			return nil
		},
	}

	defaults := defaultConfig()
	flags := cmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (yaml, json or toml)")
	flags.StringVar(&envFile, "env-file", "", "File of SHARDGRAPH_* variables to load before reading the environment")
	flags.String("log-level", defaults.LogLevel, "Log level: debug, info, warn or error")
	flags.String("log-format", defaults.LogFormat, "Log format: text or json")
	flags.Duration("git-timeout", defaults.GitTimeout, "Timeout of a single git invocation")

	cmd.AddCommand(
		newBucketCmd(),
		newFlattenCmd(),
		newNearestCmd(a),
	)

	return cmd
}
