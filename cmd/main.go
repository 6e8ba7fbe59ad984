// @title Profiles Backend API
// @version 1.0
// @description CRUD API over profile records stored in a JSON file

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5002
// @BasePath /
// @schemes http

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "PROFILES_BACK-END/docs" // This is required for swagger
	"PROFILES_BACK-END/internal/config"
	"PROFILES_BACK-END/internal/handlers"
	"PROFILES_BACK-END/internal/logger"
	"PROFILES_BACK-END/internal/routes"
	"PROFILES_BACK-END/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer lg.Sync()

	if cfg.EnvFile == "" {
		lg.Warn(".env file not found, using environment only")
	} else {
		lg.Info("loaded env file", zap.String("path", cfg.EnvFile))
	}

	// --- Storage ---
	store := storage.NewFileStore(cfg.Storage.DataFile, lg)
	if err := store.Init(); err != nil {
		lg.Fatal("init data file", zap.Error(err))
	}
	repo := storage.NewRepository(store)

	// --- HTTP Handlers ---
	profileHandler := handlers.NewProfileHandler(repo, lg)
	healthHandler := handlers.NewHealthHandler(store)

	router := routes.SetupRoutes(profileHandler, healthHandler, lg, routes.Options{
		Swagger: cfg.Server.SwaggerEnabled,
	})

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           c.Handler(router),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// --- HTTP Server + Graceful Shutdown ---
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("server running",
			zap.String("addr", "http://localhost"+cfg.Addr()),
			zap.String("data_file", store.Path()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		lg.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		lg.Error("server stopped with error", zap.Error(err))
		return
	}
	lg.Info("server stopped")
}
