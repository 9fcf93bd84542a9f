package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sitepay/internal/config"
	"sitepay/internal/database"
	"sitepay/internal/models"
	"sitepay/internal/server"
	"sitepay/internal/storage"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	db, err := models.NewDB(cfg.DatabaseURL, cfg.SettleDelay, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.RunMigrations {
		if err := models.NewMigrateAdapter(db.DB).RunMigrations(); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		log.Info("migrations applied")
	}

	sqlService, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to open database pool", zap.Error(err))
	}
	defer sqlService.Close()

	s3Service, err := storage.NewS3Service(cfg)
	if err != nil {
		log.Fatal("failed to initialize S3 service", zap.Error(err))
	}

	srv := server.NewServer(cfg, db, sqlService, s3Service, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
