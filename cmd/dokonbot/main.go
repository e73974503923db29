package main

import (
	"log"

	"dokonbot/app"
	"dokonbot/core/cmd"
)

func main() {
	err := cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: func(carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
			cfg, ok := carrier.(*app.Config)
			if !ok {
				return nil, cmd.ErrInvalidConfigType
			}
			return app.Bootstrap(cfg)
		},
	})
	if err != nil {
		log.Fatalf("dokonbot: %v", err)
	}
}
