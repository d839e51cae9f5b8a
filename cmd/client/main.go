package main

import (
	"context"

	"github.com/eventhive/mediakit/internal/client/cli"
	"github.com/eventhive/mediakit/internal/client/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)
	app.Run(ctx)
}
