package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/mealmind-inc/mealmind-engine/pkg/config"
	"github.com/mealmind-inc/mealmind-engine/pkg/database"
	"github.com/mealmind-inc/mealmind-engine/pkg/events"
	"github.com/mealmind-inc/mealmind-engine/pkg/handlers"
	"github.com/mealmind-inc/mealmind-engine/pkg/llm"
	"github.com/mealmind-inc/mealmind-engine/pkg/logging"
	enginemcp "github.com/mealmind-inc/mealmind-engine/pkg/mcp"
	"github.com/mealmind-inc/mealmind-engine/pkg/mcp/tools"
	"github.com/mealmind-inc/mealmind-engine/pkg/middleware"
	"github.com/mealmind-inc/mealmind-engine/pkg/repositories"
	"github.com/mealmind-inc/mealmind-engine/pkg/search"
	"github.com/mealmind-inc/mealmind-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.URL())),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.Bool("search_enabled", cfg.Search.APIKey != ""))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, cfg.DatabaseConfig())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := runMigrations(cfg, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	entries := repositories.NewEntryRepository(db)
	weights := repositories.NewWeightRepository(db)

	var fallback repositories.EntryRepository
	if cfg.LocalLedgerPath != "" {
		fallback, err = repositories.NewLocalEntryRepository(cfg.LocalLedgerPath)
		if err != nil {
			logger.Warn("Failed to open local fallback ledger, continuing without it", zap.Error(err))
			fallback = nil
		}
	}

	chatClient, err := llm.NewChatClient(cfg.LLMClientConfig(), logger)
	if err != nil {
		logger.Fatal("Failed to build chat client", zap.Error(err))
	}

	emitter := events.NewZapEmitter(logger)
	searcher := search.NewClient(cfg.SearchClientConfig(), logger)
	augmentor := search.NewAugmentor(searcher, cfg.Search.Region, emitter, logger)

	chatService := services.NewChatService(augmentor, chatClient, entries, fallback, weights, emitter, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewChatHandler(chatService, logger).RegisterRoutes(mux)
	handlers.NewEntriesHandler(entries, weights, logger).RegisterRoutes(mux)

	mcpServer := enginemcp.NewServer("mealmind-engine", cfg.Version, logger)
	tools.RegisterHealthTool(mcpServer.MCP(), cfg.Version)
	tools.RegisterChatTools(mcpServer.MCP(), &tools.ChatToolDeps{Chat: chatService, Logger: logger})
	mux.Handle("/mcp", mcpServer.NewStreamableHTTPServer())

	server := &http.Server{
		Addr:    cfg.BindAddr + ":" + cfg.Port,
		Handler: middleware.RequestLogger(logger)(mux),
	}

	go func() {
		logger.Info("Starting mealmind-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
}

// runMigrations applies ledger migrations over a short-lived database/sql
// connection, as golang-migrate requires.
func runMigrations(cfg *config.Config, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return database.RunMigrations(sqlDB, cfg.MigrationsPath, logger)
}
