package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/brick/gearlist/internal/scheduler"
	"github.com/brick/gearlist/internal/server/handlers"
	"github.com/brick/gearlist/internal/server/router"
	"github.com/brick/gearlist/pkg/logger"
)

// readPassword is swapped in tests to avoid touching the terminal.
var readPassword = term.ReadPassword

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the checklist HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServer(ctx)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Reconcile the equipment list once and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		items := a.checklist.FetchEquipment(cmd.Context())
		printItems(cmd.OutOrStdout(), items, a.checklist.Progress(cmd.Context()))
		printNotices(cmd.ErrOrStderr(), a.inbox.Drain())
		return nil
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Manage exported checklist logs",
}

var logsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an exported log (asks for the admin password)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid log id %q", args[0])
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		password, err := promptPassword(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		token, err := a.gate.RequireElevatedAccess(password)
		if err != nil {
			return err
		}
		if err := a.history.Delete(cmd.Context(), token, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Log %d deleted\n", id)
		return nil
	},
}

var logsArchivedCmd = &cobra.Command{
	Use:   "archived [submitter]",
	Short: "List logs kept in the MongoDB archive",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		if a.archive == nil {
			return errors.New("log archive is not configured (set MONGODB_URI)")
		}
		var submitter string
		if len(args) == 1 {
			submitter = args[0]
		}
		entries, err := a.archive.ArchivedLogs(cmd.Context(), submitter)
		if err != nil {
			return err
		}
		printLogs(cmd.OutOrStdout(), entries)
		return nil
	},
}

func runServer(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			a.logger.Error("failed to close storage", zap.Error(err))
		}
	}()

	items := a.checklist.FetchEquipment(ctx)
	a.logger.Info("initial equipment list ready",
		zap.Int("items", len(items)),
		zap.Bool("offline", a.checklist.Offline()),
	)

	sched := scheduler.NewScheduler(a.cfg.Refresh.CronSchedule, a.checklist, logger.Named(a.logger, "scheduler"))
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	engine := router.New(router.Handlers{
		Checklist: handlers.NewChecklistHandler(a.checklist, a.inbox, logger.Named(a.logger, "handlers.checklist")),
		History:   handlers.NewHistoryHandler(a.history, a.inbox, logger.Named(a.logger, "handlers.history")),
		Admin:     handlers.NewAdminHandler(a.admin, a.gate, a.inbox, logger.Named(a.logger, "handlers.admin")),
	}, logger.Named(a.logger, "router"))

	srv := &http.Server{
		Addr:         ":" + a.cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", zap.String("port", a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}

func promptPassword(w io.Writer) (string, error) {
	fmt.Fprint(w, "Admin password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}
