// Package cmd contains the grounder CLI commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/grounder-ai/grounder/internal/app"
	"github.com/grounder-ai/grounder/internal/config"
	"github.com/grounder-ai/grounder/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "grounder",
	Short: "Grounder - a retrieval-augmented terminal AI agent",
	Long: `Grounder answers questions grounded in a local knowledge base.

Documents dropped into the knowledge directory are embedded and stored in
PostgreSQL with pgvector; each query retrieves the most relevant documents
and hands them to a local Ollama model, which may call registered tools.

Running grounder with no arguments starts the interactive chat mode.`,
	SilenceUsage: true,
	RunE:         runChat,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads configuration, installs the default logger, and wires the
// application. Callers own the returned App and must Close it.
func setup(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: level, JSON: cfg.LogJSON})
	slog.SetDefault(logger)

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing application: %w", err)
	}
	return a, nil
}
