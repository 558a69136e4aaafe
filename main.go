package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"bazaar-flipper/internal/api"
	"bazaar-flipper/internal/bazaar"
	"bazaar-flipper/internal/config"
	"bazaar-flipper/internal/db"
	"bazaar-flipper/internal/engine"
	"bazaar-flipper/internal/logger"
)

var version = "dev"

func main() {
	port := flag.Int("port", 13380, "HTTP server port")
	configPath := flag.String("config", "bazaar.toml", "path to config file")
	flag.Parse()

	logger.Banner(version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Config", fmt.Sprintf("Load failed: %v", err))
		os.Exit(1)
	}

	database, err := db.Open()
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()
	database.SetPersistLimit(cfg.TopResultsPersisted)

	client := bazaar.NewClient(cfg.BazaarAPIURL, cfg.APIKey, cfg.SnapshotTTL())

	svc := engine.NewService(cfg, client)
	svc.Recorder = database

	// Warm the snapshot so the first query doesn't pay the fetch.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if _, err := client.CurrentSnapshot(ctx); err != nil {
			logger.Warn("Bazaar", fmt.Sprintf("Warm-up fetch failed: %v", err))
			return
		}
		logger.Success("Bazaar", "Snapshot ready")
	}()

	srv := api.NewServer(cfg, svc, client, database)

	addr := fmt.Sprintf("127.0.0.1:%d", *port)
	logger.Server(addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.Error("Server", fmt.Sprintf("Failed: %v", err))
		os.Exit(1)
	}
}
