package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/Ankita1800/chatdb-engine/pkg/auth"
	"github.com/Ankita1800/chatdb-engine/pkg/config"
	"github.com/Ankita1800/chatdb-engine/pkg/database"
	"github.com/Ankita1800/chatdb-engine/pkg/handlers"
	"github.com/Ankita1800/chatdb-engine/pkg/llm"
	"github.com/Ankita1800/chatdb-engine/pkg/logging"
	"github.com/Ankita1800/chatdb-engine/pkg/middleware"
	"github.com/Ankita1800/chatdb-engine/pkg/provisioner"
	"github.com/Ankita1800/chatdb-engine/pkg/repositories"
	"github.com/Ankita1800/chatdb-engine/pkg/services"
	"github.com/Ankita1800/chatdb-engine/pkg/storage"
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

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Env),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("llm_provider", cfg.LLM.Provider))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database.ConnectionString(), cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	store, err := storage.NewMinioStore(ctx, &cfg.ObjectStore, logger)
	if err != nil {
		logger.Fatal("failed to connect to object store", zap.Error(err))
	}

	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
		Audience:           cfg.Auth.Audience,
	})
	if err != nil {
		logger.Fatal("failed to create JWKS client", zap.Error(err))
	}
	defer jwksClient.Close()

	authService := auth.NewAuthService(jwksClient, logger)
	authMiddleware := auth.NewMiddleware(authService, logger)

	translator, err := llm.NewTranslator(cfg.LLM, logger)
	if err != nil {
		logger.Fatal("failed to create translator", zap.Error(err))
	}

	datasetRepo := repositories.NewDatasetRepository(db)
	historyRepo := repositories.NewQueryHistoryRepository(db)
	prov := provisioner.New(db, logger)
	executor := services.NewQueryExecutor(db)

	datasetService := services.NewDatasetService(datasetRepo, historyRepo, prov, store, logger)
	askService := services.NewAskService(datasetRepo, historyRepo, translator, executor, cfg.LLM.Timeout(), logger)

	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	handlers.NewDatasetsHandler(datasetService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewAskHandler(askService, logger).RegisterRoutes(mux, authMiddleware)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("starting chatdb-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
