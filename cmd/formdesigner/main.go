// Package main provides the formdesigner binary: a headless form designer
// that edits a JSON Schema and its UI Schema together.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gravio-la/forms-designer-sub000/internal/config"
	"github.com/gravio-la/forms-designer-sub000/internal/store"
	"github.com/gravio-la/forms-designer-sub000/pkg/editor"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "formdesigner"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	storePath  string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Edit JSON Schema and UI Schema designs",
		Long: `formdesigner keeps a form design (a JSON Schema plus a JSON Forms UI
Schema) consistent while it is edited. Designs are stored as snapshots and
edited through action envelopes, either over HTTP, from action scripts or
from an interactive shell.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.storePath, "store", "", "Session snapshot path (overrides store.path)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		serveCmd(flags),
		applyCmd(flags),
		exportCmd(flags),
		importCmd(flags),
		importOpenAPICmd(flags),
		gcCmd(flags),
		shellCmd(flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

// app is the resolved runtime of one command invocation.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
}

func setup(flags *globalFlags) (*app, error) {
	bootLevel, err := config.ParseLevel(flags.logLevel)
	if err != nil {
		return nil, err
	}
	bootLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: bootLevel}))

	cfg, err := config.NewLoader(bootLogger).Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.storePath != "" {
		cfg.Store.Path = flags.storePath
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &app{cfg: cfg, logger: logger, store: st}, nil
}

func (a *app) sessionOptions() []editor.Option {
	return []editor.Option{
		editor.WithDefinitionsKey(a.cfg.DefinitionsKey),
		editor.WithDefaultBlockIcon(a.cfg.Blocks.DefaultIcon),
	}
}

func (a *app) loadSession(ctx context.Context) (*editor.Session, error) {
	session, err := a.store.LoadSession(ctx, a.sessionOptions()...)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	a.logger.Debug("session loaded",
		slog.String("path", a.store.Path()),
		slog.String("definition", session.ActiveDefinition()))
	return session, nil
}

func (a *app) saveSession(ctx context.Context, session *editor.Session) error {
	if err := a.store.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	a.logger.Debug("session saved", slog.String("path", a.store.Path()))
	return nil
}
