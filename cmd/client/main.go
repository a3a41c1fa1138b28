package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/tavernauth/internal/buildinfo"
	"github.com/dmitrijs2005/tavernauth/internal/client/cli"
	"github.com/dmitrijs2005/tavernauth/internal/client/config"
	"github.com/dmitrijs2005/tavernauth/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(os.Stderr, level)

	ctx := context.Background()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
