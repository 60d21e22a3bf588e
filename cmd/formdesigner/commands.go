package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gravio-la/forms-designer-sub000/internal/loader"
	"github.com/gravio-la/forms-designer-sub000/internal/server"
	"github.com/gravio-la/forms-designer-sub000/internal/shell"
	"github.com/gravio-la/forms-designer-sub000/pkg/editor"
	"github.com/gravio-la/forms-designer-sub000/pkg/openapi"
	"github.com/gravio-la/forms-designer-sub000/pkg/source"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the session over HTTP and websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	session, err := a.loadSession(ctx)
	if err != nil {
		return err
	}

	srv := server.New(session,
		server.WithPersister(a.store),
		server.WithLogger(a.logger),
		server.WithAllowedOrigins(a.cfg.Server.AllowedOrigins...),
	)
	httpServer := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", slog.String("addr", a.cfg.Server.Addr), slog.String("store", a.store.Path()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func applyCmd(flags *globalFlags) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply <actions.json|actions.yaml>",
		Short: "Apply an action script to the stored session",
		Long: `Apply decodes a list of action envelopes ({type, payload}) and applies
them in order. The script is all or nothing: when any action fails the
stored session is left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(flags)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read actions: %w", err)
			}
			actions, err := parseActions(data, args[0])
			if err != nil {
				return err
			}
			session, err := a.loadSession(cmd.Context())
			if err != nil {
				return err
			}
			next, err := session.Apply(actions...)
			if err != nil {
				return err
			}
			if dryRun {
				return writeJSON(cmd.OutOrStdout(), next.View())
			}
			if err := a.saveSession(cmd.Context(), next); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d actions\n", len(actions))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the resulting state instead of saving it")
	return cmd
}

func exportCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the design as schema plus UI schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(flags)
			if err != nil {
				return err
			}
			session, err := a.loadSession(cmd.Context())
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return writeJSON(cmd.OutOrStdout(), session.Export())
			}
			return writeJSONFile(output, session.Export())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func importCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <export.json|export.yaml>",
		Short: "Replace the design with an exported document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(flags)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read export: %w", err)
			}
			var ex editor.Exchange
			if err := decodeDocument(data, args[0], &ex); err != nil {
				return err
			}
			session, err := a.loadSession(cmd.Context())
			if err != nil {
				return err
			}
			next := session.Import(ex)
			if err := a.saveSession(cmd.Context(), next); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d definitions\n", len(next.Definitions()))
			return nil
		},
	}
}

func importOpenAPICmd(flags *globalFlags) *cobra.Command {
	var (
		validate bool
		uiDir    string
	)

	cmd := &cobra.Command{
		Use:   "import-openapi <file|url>",
		Short: "Add OpenAPI component schemas as definitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			src, err := source.Parse(args[0])
			if err != nil {
				return err
			}
			docLoader := loader.New(source.LoaderOptions{
				AllowHTTPFallback: a.cfg.Loader.AllowHTTP,
				RequestTimeout:    a.cfg.Loader.Timeout,
			})
			doc, err := docLoader.Load(ctx, src)
			if err != nil {
				return err
			}

			uis, err := loadUISchemaDir(uiDir)
			if err != nil {
				return err
			}

			session, err := a.loadSession(ctx)
			if err != nil {
				return err
			}
			defs, err := openapi.ImportComponents(ctx, doc.Raw(),
				openapi.WithDefinitionsKey(session.DefinitionsKey()),
				openapi.WithValidation(validate),
			)
			if err != nil {
				return err
			}
			next, added := session.ImportDefinitionsWithUISchemas(defs, uis)
			if err := a.saveSession(ctx, next); err != nil {
				return err
			}

			skipped := len(defs) - len(added)
			a.logger.Info("openapi imported",
				slog.String("source", doc.Location()),
				slog.Int("added", len(added)),
				slog.Int("skipped", skipped),
				slog.Int("uiSchemas", len(uis)))
			sort.Strings(added)
			if len(added) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "added: %s\n", strings.Join(added, ", "))
			}
			if skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "kept %d existing definitions\n", skipped)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&validate, "validate", false, "Validate the OpenAPI document before importing")
	cmd.Flags().StringVar(&uiDir, "ui-dir", "", "Directory of UI schema files named after the components they lay out")
	return cmd
}

func gcCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "gc",
		Short: "Drop schema properties no UI element refers to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(flags)
			if err != nil {
				return err
			}
			session, err := a.loadSession(cmd.Context())
			if err != nil {
				return err
			}
			next, err := session.CollectGarbage()
			if err != nil {
				return err
			}
			return a.saveSession(cmd.Context(), next)
		},
	}
}

func shellCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Edit the stored session interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(flags)
			if err != nil {
				return err
			}
			session, err := a.loadSession(cmd.Context())
			if err != nil {
				return err
			}
			sh := shell.New(shell.NewSurveyDriver(cmd.OutOrStdout()), session,
				shell.WithSave(a.saveSession),
				shell.WithLogger(a.logger),
			)
			return sh.Run(cmd.Context())
		},
	}
}
