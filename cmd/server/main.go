package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"promptdesk/internal/auth"
	"promptdesk/internal/config"
	"promptdesk/internal/handler"
	"promptdesk/internal/middleware"
	"promptdesk/internal/repository/postgres"
	"promptdesk/internal/service"
	"promptdesk/internal/service/access"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Apply schema migrations
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	promptRepo := postgres.NewPromptRepository(repoConfig)
	grantRepo := postgres.NewGrantRepository(repoConfig)
	auditRepo := postgres.NewAuditRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Session tokens
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	// Create services
	evaluator := access.NewEvaluator(access.SubfolderTrustParent, folderRepo)
	identity := service.NewIdentityService(userRepo, grantRepo, logger)
	auditService := service.NewAuditService(auditRepo, userRepo, logger)
	browserService := service.NewBrowserService(identity, folderRepo, promptRepo, evaluator, auditService, txManager, logger)
	promptService := service.NewPromptService(identity, promptRepo, folderRepo, evaluator, auditService, txManager, logger)
	trashService := service.NewTrashService(identity, folderRepo, promptRepo, auditService, txManager, logger)
	userService := service.NewUserAdminService(identity, userRepo, folderRepo, grantRepo, auditService, txManager, logger)

	logger.Info("services initialized")

	// Create handlers
	authHandler := handler.NewAuthHandler(identity, tokens, logger)
	browserHandler := handler.NewBrowserHandler(browserService, logger)
	promptHandler := handler.NewPromptHandler(promptService, logger)
	trashHandler := handler.NewTrashHandler(trashService, logger)
	auditHandler := handler.NewAuditHandler(auditService, logger)
	userHandler := handler.NewUserHandler(userService, logger)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Auth routes (outside the auth middleware)
	loginMux := http.NewServeMux()
	loginMux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Browser routes
	mux.HandleFunc("GET /api/browser", browserHandler.ResolveFolder)
	mux.HandleFunc("GET /api/browser/{ref}", browserHandler.ResolveFolder)
	mux.HandleFunc("GET /api/sidebar", browserHandler.ListSidebar)

	// Folder routes
	mux.HandleFunc("POST /api/folders", browserHandler.CreateFolder)
	mux.HandleFunc("POST /api/departments", browserHandler.CreateDepartment)
	mux.HandleFunc("POST /api/folders/{id}/active", browserHandler.ToggleFolderActive)

	// Item mutation routes (folders and prompts share the item vocabulary)
	mux.HandleFunc("POST /api/items/{id}/rename", browserHandler.RenameItem)
	mux.HandleFunc("POST /api/items/{id}/move", browserHandler.MoveItem)
	mux.HandleFunc("DELETE /api/items/{id}", browserHandler.DeleteItem)
	mux.HandleFunc("POST /api/items/{id}/restore", trashHandler.Restore)
	mux.HandleFunc("DELETE /api/items/{id}/purge", trashHandler.Purge)

	// Prompt routes
	mux.HandleFunc("POST /api/prompts", promptHandler.Save)
	mux.HandleFunc("GET /api/prompts", promptHandler.ListOwn)
	mux.HandleFunc("GET /api/prompts/folders", promptHandler.ListFolders) // Must come before {id} route
	mux.HandleFunc("GET /api/prompts/{id}/versions", promptHandler.ListVersions)

	// Trash and audit routes
	mux.HandleFunc("GET /api/trash", trashHandler.List)
	mux.HandleFunc("GET /api/audit", auditHandler.ListRecent)

	// User administration routes
	mux.HandleFunc("GET /api/users", userHandler.List)
	mux.HandleFunc("POST /api/users", userHandler.Create)
	mux.HandleFunc("GET /api/users/departments", userHandler.ListDepartments) // Must come before {id} route
	mux.HandleFunc("PATCH /api/users/{id}", userHandler.Update)
	mux.HandleFunc("POST /api/users/{id}/active", userHandler.ToggleActive)
	mux.HandleFunc("DELETE /api/users/{id}", userHandler.Delete)

	// Build middleware chain
	// Order: CORS → Recovery → (login | Auth → routes)
	var apiHandler http.Handler = mux
	apiHandler = middleware.Auth(tokens)(apiHandler)

	root := http.NewServeMux()
	root.HandleFunc("GET /health", handler.HealthCheck)
	root.Handle("/api/auth/", loginMux)
	root.Handle("/api/", apiHandler)

	var rootHandler http.Handler = root
	rootHandler = middleware.Recovery(logger)(rootHandler)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	rootHandler = corsHandler.Handler(rootHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}
