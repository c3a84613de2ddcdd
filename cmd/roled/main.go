package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/olegsv/finkurs/core/bootstrap"
	coreconfig "github.com/olegsv/finkurs/core/config"
	"github.com/olegsv/finkurs/core/logger"
	"github.com/olegsv/finkurs/internal/domain"
	"github.com/olegsv/finkurs/internal/httpapi"
	"github.com/olegsv/finkurs/internal/roled"
	"github.com/olegsv/finkurs/internal/storage"
)

const defaultListen = ":8083"

// adminSeeder grants the statically configured admin its role row, so the
// lookup service agrees with the bot even on a fresh database.
func adminSeeder(adminID int64) bootstrap.Seeder {
	return bootstrap.SeederFunc(func(ctx context.Context, st bootstrap.Storage) error {
		repo, ok := st.(*storage.RoleRepo)
		if !ok {
			return fmt.Errorf("roled: unexpected storage %T", st)
		}
		if adminID == 0 {
			return nil
		}
		return repo.Set(ctx, adminID, domain.RoleAdmin)
	})
}

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		log.Fatalf("roled: config load failed: %v", err)
	}

	res, err := bootstrap.Run(bootstrap.Options{Config: cfg})
	if err != nil {
		log.Fatalf("roled: bootstrap failed: %v", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()
	defer res.DB.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	repo := storage.NewRoleRepo(res.DB)
	if err := adminSeeder(cfg.Telegram.AdminID).Seed(ctx, repo); err != nil {
		log.Fatalf("roled: admin seed failed: %v", err)
	}

	router := httpapi.NewRouter("roled", roled.NewHandler(repo).Routes)

	addr := cfg.Roled.Listen
	if addr == "" {
		addr = defaultListen
	}

	if err := httpapi.Serve(ctx, "roled", addr, router); err != nil {
		log.Fatalf("roled terminated: %v", err)
	}
}
