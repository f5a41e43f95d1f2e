package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"eventscout/internal/logging"
	"eventscout/internal/store"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logging.Fatal(err, "load config")
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logging.SetGlobalLogger(logger)

	db, err := openDatabase(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal(err, "connect to database")
	}
	defer db.Close()

	dataStore := store.New(db)
	handler := newHTTPHandler(cfg, dataStore)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info(fmt.Sprintf("API listening on %s", cfg.Addr))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal(err, "server error")
	}
}
