// Package cli implements patentctl, the offline companion of the
// patentcompass service: corpus inspection, cache warm-up and one-off
// searches from the terminal.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/patentcompass/internal/config"
	logpkg "github.com/kailas-cloud/patentcompass/internal/logger"
)

// state is shared by every subcommand; Before fills cfg and logger.
type state struct {
	env        string
	configPath string
	corpusPath string
	sheet      string

	cfg    config.Config
	logger *zap.Logger
	out    io.Writer
}

// Run executes patentctl with args (args[0] is the program name).
// Command output goes to out; logs go to the zap logger.
func Run(ctx context.Context, args []string, version string, out io.Writer) error {
	st := &state{out: out}

	app := &cli.Command{
		Name:    "patentctl",
		Usage:   "Inspect, warm and query a patentcompass corpus",
		Version: version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "env",
				Usage:       "environment name selecting config/<env>.yaml",
				Value:       "local",
				Sources:     cli.EnvVars("ENV"),
				Destination: &st.env,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "explicit config file (overrides --env lookup)",
				Sources:     cli.EnvVars("PATENTCOMPASS_CONFIG"),
				Destination: &st.configPath,
			},
			&cli.StringFlag{
				Name:        "corpus",
				Usage:       "corpus file (.xlsx, .xlsm, .csv, .parquet); overrides corpus.path",
				Destination: &st.corpusPath,
			},
			&cli.StringFlag{
				Name:        "sheet",
				Usage:       "worksheet of an Excel corpus; overrides corpus.sheet",
				Destination: &st.sheet,
			},
		},
		Before: func(ctx context.Context, _ *cli.Command) (context.Context, error) {
			return ctx, st.configure()
		},
		After: func(context.Context, *cli.Command) error {
			if st.logger != nil {
				_ = st.logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdInspect(st),
			cmdWarm(st),
			cmdSearch(st),
		},
	}

	return app.Run(ctx, args)
}

func (st *state) configure() error {
	cfg, err := st.loadConfig()
	if err != nil {
		return err
	}
	if st.corpusPath != "" {
		cfg.Corpus.Path = st.corpusPath
	}
	if st.sheet != "" {
		cfg.Corpus.Sheet = st.sheet
	}
	st.cfg = cfg

	logger, err := logpkg.NewLogger(st.env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	st.logger = logger
	return nil
}

func (st *state) loadConfig() (config.Config, error) {
	if st.configPath == "" {
		return config.Load(st.env)
	}
	data, err := os.ReadFile(filepath.Clean(st.configPath))
	if err != nil {
		return config.Config{}, fmt.Errorf("read config %s: %w", st.configPath, err)
	}
	return config.Parse(data)
}

func (st *state) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(st.out, format, args...)
}
