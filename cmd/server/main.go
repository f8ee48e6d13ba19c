// Package main is the entry point for the yahveh API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yahveh/internal/config"
	"yahveh/internal/domain/auth"
	"yahveh/internal/domain/catalogs/article"
	"yahveh/internal/domain/catalogs/client"
	"yahveh/internal/domain/deliverynote"
	v1 "yahveh/internal/infrastructure/http/v1"
	"yahveh/internal/infrastructure/storage/postgres"
	"yahveh/internal/infrastructure/storage/postgres/auth_repo"
	"yahveh/internal/infrastructure/storage/postgres/catalog_repo"
	"yahveh/internal/infrastructure/storage/postgres/deliverynote_repo"
	"yahveh/pkg/logger"
)

func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Environment == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	log.Infow("starting yahveh server", "environment", cfg.Environment)

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)
	gateway := postgres.NewGateway(txManager)

	noteService := deliverynote.NewService(
		deliverynote_repo.NewNoteRepository(gateway),
		deliverynote_repo.NewDetailRepository(gateway),
		txManager,
	)
	clientService := client.NewService(catalog_repo.NewClientRepository(gateway))
	articleService := article.NewService(catalog_repo.NewArticleRepository(gateway))

	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TokenTTL)
	authService := auth.NewService(auth_repo.NewUserRepository(gateway), tokenManager)

	router := v1.NewRouter(v1.RouterConfig{
		Logger:         log,
		TokenValidator: tokenManager,
		AuthService:    authService,
		NoteService:    noteService,
		ClientService:  clientService,
		ArticleService: articleService,
		Pool:           pool,
	})

	server := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.Infow("http server listening", "address", cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("http server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
