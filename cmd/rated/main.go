package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/olegsv/finkurs/core/bootstrap"
	coreconfig "github.com/olegsv/finkurs/core/config"
	"github.com/olegsv/finkurs/core/logger"
	"github.com/olegsv/finkurs/internal/httpapi"
	"github.com/olegsv/finkurs/internal/rated"
)

const defaultListen = ":8082"

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		log.Fatalf("rated: config load failed: %v", err)
	}

	// The quotation table is static, so the service keeps no database.
	if _, err := bootstrap.Run(bootstrap.Options{Config: cfg, SkipDatabase: true}); err != nil {
		log.Fatalf("rated: bootstrap failed: %v", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	router := httpapi.NewRouter("rated", rated.NewHandler().Routes)

	addr := cfg.Rated.Listen
	if addr == "" {
		addr = defaultListen
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := httpapi.Serve(ctx, "rated", addr, router); err != nil {
		log.Fatalf("rated terminated: %v", err)
	}
}
