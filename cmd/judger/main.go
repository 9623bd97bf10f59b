package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/programme-lv/judger/internal/config"
	"github.com/programme-lv/judger/internal/environment"
	"github.com/programme-lv/judger/internal/logging"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "judger",
		Usage: "compile and grade submissions against configured problems",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.toml",
				Usage:   "path to the TOML (or legacy JSON) config file",
				Sources: cli.EnvVars("JUDGER_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "workspace",
				Usage: "directory holding the problem/ scratch tree (default $JUDGER_WORKSPACE or .)",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file loaded when present",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			gradeCommand(),
			checkCommand(),
			behaveCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app bundles what every subcommand needs.
type app struct {
	env    *environment.EnvConfig
	logger *slog.Logger
}

func newApp(cmd *cli.Command) (*app, error) {
	env, err := environment.ReadEnvConfig(cmd.String("env-file"))
	if err != nil {
		return nil, err
	}
	if ws := cmd.String("workspace"); ws != "" {
		env.WorkspaceRoot = ws
	}
	logger, err := logging.New(env.LogLevel, env.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}
	return &app{env: env, logger: logger}, nil
}

func (a *app) loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	a.logger.Debug("Loading config...", "path", path)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Loaded config", "path", path, "problems", len(cfg.Problems), "languages", len(cfg.Languages))
	return cfg, nil
}

func parseUint32(s, what string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return uint32(v), nil
}
