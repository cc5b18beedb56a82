package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/product_inventory/internal/devapi/config"
	"github.com/Skotchmaster/product_inventory/internal/devapi/httpserver"
	"github.com/Skotchmaster/product_inventory/internal/devapi/repo"
	"github.com/Skotchmaster/product_inventory/internal/devapi/service"
	"github.com/Skotchmaster/product_inventory/internal/logging"
	"github.com/Skotchmaster/product_inventory/internal/mykafka"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	db, err := repo.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	var prod mykafka.Publisher = mykafka.Nop{}
	if len(cfg.KafkaBroker) > 0 {
		p, err := mykafka.NewProducer(cfg.KafkaBroker)
		if err != nil {
			log.Fatal(err)
		}
		prod = p
	}

	store := &repo.GormRepo{DB: db}
	e := httpserver.New(&httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: store, JWTSecret: cfg.JWTSecret, TokenTTL: cfg.TokenTTL}},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: store, Publisher: prod}},
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("devapi_listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db_close_error", "error", err)
		}
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}

	logger.Info("shutdown_complete")
}
