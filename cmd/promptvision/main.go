package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ironsheep/promptvision/internal/activity"
	"github.com/ironsheep/promptvision/internal/config"
	"github.com/ironsheep/promptvision/internal/engine"
	"github.com/ironsheep/promptvision/internal/logging"
	"github.com/ironsheep/promptvision/internal/presets"
	"github.com/ironsheep/promptvision/internal/repl"
	"github.com/ironsheep/promptvision/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	flagConfig   string
	flagEnvFile  string
	flagLogLevel string
)

type App struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func DefaultApp() *App {
	return &App{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return newRootCmd(DefaultApp()).ExecuteContext(ctx)
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promptvision",
		Short: "Adjust photos with Italian or English prompts",
		Long: `promptvision edits photos non-destructively from natural-language commands
such as "molto più luminosa ma meno satura" or "a bit warmer".

Five parameters (brightness, contrast, saturation, sharpness, warmth) range
from 0.0 to 3.0 with 1.0 as neutral. Every change can be undone.

Examples:
  promptvision serve                       # MCP server on stdin/stdout
  promptvision repl photo.jpg              # interactive session
  promptvision apply photo.jpg -p "più calda" -p "meno contrasto" -o out.jpg`,
		Version:       fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetIn(app.In)
	cmd.SetOut(app.Out)
	cmd.SetErr(app.Err)

	cmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file (defaults to $"+config.EnvConfigPath+")")
	cmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file loaded before the config")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level override (debug, info, warn, error, disabled)")

	cmd.AddCommand(newServeCmd(app), newReplCmd(app), newApplyCmd(app))
	return cmd
}

// session holds everything one command needs to edit an image.
type session struct {
	cfg    *config.Config
	logger *logging.Logger
	store  presets.Store
	engine *engine.Engine
}

func newSession() (*session, error) {
	if err := godotenv.Load(flagEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", flagEnvFile, err)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	logger := logging.New(cfg.Log)
	logger.Global()

	store, err := presets.Open(cfg.Presets.Backend, cfg.Presets.Path, logger.Component("presets"))
	if err != nil {
		logger.Close()
		return nil, err
	}

	eng := engine.New(engine.Options{
		Presets:      store,
		Activity:     activity.New(cfg.Activity.Capacity),
		HistoryLimit: cfg.History.Limit,
		JPEGQuality:  cfg.Export.JPEGQuality,
		Logger:       logger.Zerolog(),
	})

	logger.Debug().
		Str("version", Version).
		Str("presets_backend", cfg.Presets.Backend).
		Str("presets_path", cfg.Presets.Path).
		Msg("session ready")

	return &session{cfg: cfg, logger: logger, store: store, engine: eng}, nil
}

func (s *session) Close() error {
	err := s.store.Close()
	if cerr := s.logger.Close(); err == nil {
		err = cerr
	}
	return err
}

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdin/stdout",
		Long: `Run the MCP (Model Context Protocol) server. Requests are read from stdin
and responses written to stdout, one JSON-RPC message per line.
Configure it in your MCP client (e.g., Claude Desktop).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), app)
		},
	}
}

func runServe(ctx context.Context, app *App) error {
	sess, err := newSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	if sess.cfg.Log.Output == "stdout" {
		return fmt.Errorf("log.output cannot be stdout in serve mode: stdout carries the MCP protocol")
	}

	sess.logger.Info().Str("version", Version).Msg("MCP server starting")
	srv := server.New(sess.engine, sess.logger.Component("server"), Version)
	err = srv.Serve(ctx, app.In, app.Out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newReplCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "repl [image]",
		Short: "Start an interactive editing session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd.Context(), app, args)
		},
	}
}

func runRepl(ctx context.Context, app *App, args []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	if len(args) == 1 {
		if err := sess.engine.LoadImage(args[0]); err != nil {
			return err
		}
	}

	r := repl.New(&repl.Config{
		In:     app.In,
		Out:    app.Out,
		Err:    app.Err,
		Engine: sess.engine,
		Logger: sess.logger.Component("repl"),
	})
	err = r.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
