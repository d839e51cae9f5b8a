package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/eventhive/mediakit/internal/logging"
	"github.com/eventhive/mediakit/internal/server/config"
	"github.com/eventhive/mediakit/internal/server/uploadhttp"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := uploadhttp.Run(cfg, logger); err != nil {
		log.Fatalf("%v", err)
	}
}
