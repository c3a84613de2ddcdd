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
	"github.com/olegsv/finkurs/internal/currencyd"
	"github.com/olegsv/finkurs/internal/httpapi"
	"github.com/olegsv/finkurs/internal/storage"
)

const defaultListen = ":8081"

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		log.Fatalf("currencyd: config load failed: %v", err)
	}

	res, err := bootstrap.Run(bootstrap.Options{Config: cfg})
	if err != nil {
		log.Fatalf("currencyd: bootstrap failed: %v", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()
	defer res.DB.Close()

	handler := currencyd.NewHandler(storage.NewCurrencyRepo(res.DB))
	router := httpapi.NewRouter("currencyd", handler.Routes)

	addr := cfg.Currencyd.Listen
	if addr == "" {
		addr = defaultListen
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := httpapi.Serve(ctx, "currencyd", addr, router); err != nil {
		log.Fatalf("currencyd terminated: %v", err)
	}
}
