package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/olegsv/finkurs/core/bootstrap"
	"github.com/olegsv/finkurs/core/cmd"
	coreconfig "github.com/olegsv/finkurs/core/config"
	"github.com/olegsv/finkurs/internal/botapp"
)

type configCarrier struct {
	cfg *coreconfig.Config
}

func (c configCarrier) CoreConfig() *coreconfig.Config { return c.cfg }

func main() {
	_ = godotenv.Load()

	err := cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			cfg, err := coreconfig.Load(path)
			if err != nil {
				return nil, err
			}
			if err := coreconfig.NormalizeBot(cfg); err != nil {
				return nil, err
			}
			return configCarrier{cfg: cfg}, nil
		},
		Bootstrap: func(carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
			cfg := carrier.CoreConfig()
			res, err := bootstrap.Run(bootstrap.Options{Config: cfg})
			if err != nil {
				return nil, err
			}
			return botapp.New(cfg, res.DB)
		},
	})
	if err != nil {
		log.Fatalf("bot terminated: %v", err)
	}
}
