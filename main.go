package main

import (
	"context"
	"log"
	"os"

	"github.com/High-Desert-Practical/match-sync/app"
	"github.com/High-Desert-Practical/match-sync/config"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	if err := application.Start(ctx); err != nil {
		log.Fatalf("Application exited with error: %v", err)
	}

	log.Println("Application shut down gracefully.")
}
