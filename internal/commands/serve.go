package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bankentry-dev/bankentry/internal/config"
	"github.com/bankentry-dev/bankentry/internal/dates"
	"github.com/bankentry-dev/bankentry/internal/server"
	"github.com/bankentry-dev/bankentry/internal/store"
)

func newServeCommand() *cobra.Command {
	var port, storeKind, dbPath string

	env := config.LoadServer()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local transaction API",
		Long: `Serve the transaction CRUD API for the browser UI. Rows live in the
selected backend: sqlite (durable, default), json (durable snapshot
file), or memory (lost on exit).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newServerLogger(env.LogJSON)

			st, err := openServeStore(storeKind, dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := server.New(st, dates.Default(), log)
			httpServer := &http.Server{
				Addr:              ":" + port,
				Handler:           srv.Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", httpServer.Addr).Str("store", storeKind).Msg("listening")
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", env.Port, "port to listen on")
	cmd.Flags().StringVar(&storeKind, "store", env.Store, "backend: sqlite|json|memory")
	cmd.Flags().StringVar(&dbPath, "db", env.DBPath, "database or snapshot file path")

	return cmd
}

func openServeStore(kind, path string) (store.Store, error) {
	switch kind {
	case "sqlite":
		return store.OpenSQLite(path)
	case "json":
		return store.OpenJSONFile(path)
	case "memory":
		return store.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store %q (want sqlite, json, or memory)", kind)
}

func newServerLogger(json bool) zerolog.Logger {
	if json {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return zerolog.New(output).With().Timestamp().Logger()
}
