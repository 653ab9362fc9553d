package main

import (
	"log"

	"github.com/joho/godotenv"

	"datalens/internal/config"
	"datalens/internal/engine"
	"datalens/ui"
)

func main() {
	// Load .env file if present (ignore error in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	eng, err := engine.New(cfg.Analysis)
	if err != nil {
		log.Fatalf("Failed to build analysis engine: %v", err)
	}

	app := ui.NewApp(eng)
	if err := app.Start(ui.Config{Port: cfg.Server.Port}); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
