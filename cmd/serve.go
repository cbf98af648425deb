package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/grounder-ai/grounder/internal/api"
)

// Server timeout configuration.
const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 3 * time.Minute // model completions can be slow
	idleTimeout       = 2 * time.Minute
	shutdownTimeout   = 30 * time.Second
)

var trustProxy bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&trustProxy, "trust-proxy", false,
		"trust X-Real-IP/X-Forwarded-For headers (behind a reverse proxy)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	a.Logger.Info("starting HTTP API server", "version", AppVersion)

	apiServer, err := api.NewServer(api.ServerConfig{
		Logger:       a.Logger,
		Agent:        a.Agent,
		Tools:        a.Tools,
		Sessions:     a.Sessions,
		Knowledge:    a.Knowledge,
		KnowledgeDir: a.Config.KnowledgeDir,
		TrustProxy:   trustProxy,
		RateBurst:    a.Config.RateBurst,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	srv := &http.Server{
		Addr:              a.Config.ListenAddr,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	a.Logger.Info("HTTP server ready",
		"addr", a.Config.ListenAddr,
		"api", "/api/v1/*",
		"health", "/healthz",
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		a.Logger.Info("shutting down HTTP server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server: %w", err)
	}
}
