// Command server exposes the persisted consultation metrics over a
// read-only HTTP API for the admin portal.
package main

import (
	"fmt"

	"github.com/joho/godotenv"

	"consult-transcript-eval/internal/apigateway"
	"consult-transcript-eval/internal/config"
	"consult-transcript-eval/internal/datastore"
	"consult-transcript-eval/internal/logger"
	"consult-transcript-eval/internal/reportmanagement"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("configuration error")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN must be set for the metrics server")
	}

	store, err := datastore.Open(cfg.DatabaseDSN)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize metrics database")
	}
	defer store.Close()

	if err := store.EnsureSchema(); err != nil {
		log.WithError(err).Fatal("failed to ensure metrics schema")
	}

	handlers := reportmanagement.NewHandlers(store)
	router := apigateway.SetupRouter(handlers)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.WithField("addr", addr).Info("starting metrics server")
	if err := router.Run(addr); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}
