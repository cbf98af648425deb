// Package app provides application initialization and dependency wiring.
//
// Setup builds the full component graph from configuration: database pool,
// knowledge store, model invoker, tool registry, orchestrator and session
// store. Construction is the only place configuration failures are fatal.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grounder-ai/grounder/internal/agent"
	"github.com/grounder-ai/grounder/internal/config"
	"github.com/grounder-ai/grounder/internal/database"
	"github.com/grounder-ai/grounder/internal/knowledge"
	"github.com/grounder-ai/grounder/internal/model"
	"github.com/grounder-ai/grounder/internal/ollama"
	"github.com/grounder-ai/grounder/internal/session"
	"github.com/grounder-ai/grounder/internal/tools"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Pool      *pgxpool.Pool
	Knowledge *knowledge.Store
	Invoker   *model.Invoker
	Tools     *tools.Registry
	Agent     *agent.Orchestrator
	Sessions  *session.Store

	dbCleanup func()
}

// Setup creates and initializes the application. On success the persisted
// session, if any, is already loaded into the orchestrator. Call Close to
// release resources.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, retErr error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	// On error, clean up everything already initialized.
	defer func() {
		if retErr != nil {
			a.Close()
		}
	}()

	pool, dbCleanup, err := database.Connect(ctx, cfg.PostgresURL())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	a.Pool = pool
	a.dbCleanup = dbCleanup

	client := ollama.NewClient(ollama.Config{
		Host:       cfg.OllamaHost,
		Model:      cfg.ModelName,
		EmbedModel: cfg.EmbedderModel,
	}, logger)

	a.Knowledge = knowledge.NewStore(
		knowledge.NewPgxQuerier(pool), client, cfg.Collection, logger)
	created, err := a.Knowledge.EnsureCollection(ctx, cfg.KnowledgeDir)
	if err != nil {
		return nil, fmt.Errorf("initializing collection: %w", err)
	}
	if created {
		logger.Info("created collection", "collection", cfg.Collection)
	}

	a.Invoker = model.NewInvoker(client,
		time.Duration(cfg.TimeoutSeconds)*time.Second, logger)

	a.Tools = tools.NewRegistry(logger)
	tools.RegisterBuiltins(a.Tools)

	a.Agent = agent.New(agent.Config{
		Retriever: a.Knowledge,
		Invoker:   a.Invoker,
		Tools:     a.Tools,
		TopK:      cfg.TopK,
		Logger:    logger,
	})

	a.Sessions = session.NewStore(cfg.SessionFile, logger)
	a.Agent.SetHistory(a.Sessions.Load())

	return a, nil
}

// Close releases all resources.
func (a *App) Close() {
	if a.dbCleanup != nil {
		a.dbCleanup()
		a.Logger.Info("database pool closed")
	}
}

// SaveSession persists the current conversation history.
func (a *App) SaveSession() error {
	return a.Sessions.Save(a.Agent.History())
}
