package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mickamy/heroes/internal/config"
	"github.com/mickamy/heroes/internal/logging"
	"github.com/mickamy/heroes/internal/runner"
)

var version = "dev"

// newRootCmd builds the `heroes` command tree. Rows go to stdout, logs to
// stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "heroes",
		Short:         "Query the hero and team tables",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: heroes.yaml in the user config dir or .)")
	pf.String("url", config.DefaultURL, "database URL, dialect[+driver]://user:pass@host:port/db")
	pf.String("format", "text", "output format: text, json or yaml")
	pf.String("log-level", "info", "log level")
	pf.Bool("debug", false, "log every SQL statement")
	pf.Int("limit", 0, "return at most this many heroes (0: no limit)")
	pf.Int("offset", 0, "skip this many heroes; needs --limit")

	// build loads the config for cmd and returns a runner wired to it.
	build := func(cmd *cobra.Command) (*runner.Runner, error) {
		cfg, err := config.Load(cmd, cfgFile)
		if err != nil {
			return nil, err
		}
		level := cfg.Log.Level
		if cfg.Log.Queries {
			level = "debug"
		}
		logger, err := logging.New(stderr, level)
		if err != nil {
			logger.Warn().Err(err).Msg("falling back to info level")
		}
		return runner.New(cfg, stdout, logger), nil
	}

	variant := func(v runner.Variant, short string) *cobra.Command {
		return &cobra.Command{
			Use:   string(v),
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				r, err := build(cmd)
				if err != nil {
					return err
				}
				return r.Run(cmd.Context(), v)
			},
		}
	}

	in := variant(runner.In, "Print heroes whose id is in --ids")
	in.Flags().IntSlice("ids", []int{31, 32}, "hero ids to select")

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Create the tables and upsert the demo rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := build(cmd)
			if err != nil {
				return err
			}
			return r.Seed(cmd.Context())
		},
	}

	root.AddCommand(
		variant(runner.Join, "Left-join hero to team and print (hero, team) pairs"),
		in,
		variant(runner.Navigate, "Left-join hero to team and load each team's heroes"),
		seed,
	)
	return root
}
