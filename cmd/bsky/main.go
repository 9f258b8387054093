package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bsky-cli/bsky/internal/prompt"
	"github.com/bsky-cli/bsky/internal/session"
	"github.com/bsky-cli/bsky/internal/state"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(-1)
	}
}

func run(ctx context.Context, args []string) error {

	app := cli.App{
		Name:    "bsky",
		Usage:   "post to bluesky from the command line",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the account and history file (default ~/.bsky-cli)",
				EnvVars: []string{"BSKY_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "pds-host",
				Usage:   "method, hostname, and port of PDS instance",
				Value:   session.DefaultHost,
				EnvVars: []string{"BSKY_PDS_HOST", "ATP_PDS_HOST"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log verbosity level (eg: warn, info, debug)",
				Value:   "warn",
				EnvVars: []string{"BSKY_LOG_LEVEL", "LOG_LEVEL"},
			},
		},
		Before: func(cctx *cli.Context) error {
			configLogger(cctx, os.Stderr)
			return nil
		},
	}
	app.Commands = []*cli.Command{
		cmdPost,
		cmdAppend,
		cmdQuote,
		cmdInit,
		cmdSwap,
		cmdWhoami,
	}
	return app.RunContext(ctx, args)
}

func configLogger(cctx *cli.Context, writer io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cctx.String("log-level")) {
	case "error":
		level = slog.LevelError
	case "warn":
		level = slog.LevelWarn
	case "info":
		level = slog.LevelInfo
	case "debug":
		level = slog.LevelDebug
	default:
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

func stateStore(cctx *cli.Context) *state.Store {
	if p := cctx.String("config"); p != "" {
		return state.NewStore(state.ConfigAt(p))
	}
	return state.NewStore(state.DefaultConfig())
}

func sessionConfig(cctx *cli.Context) session.Config {
	return session.Config{
		Host:   cctx.String("pds-host"),
		Logger: slog.Default(),
	}
}

func prompter() *prompt.Prompter {
	return prompt.Stdio()
}
