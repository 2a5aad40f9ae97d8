package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/rentdesk/internal/buildinfo"
	"github.com/dmitrijs2005/rentdesk/internal/client/cli"
	"github.com/dmitrijs2005/rentdesk/internal/client/config"
	"github.com/dmitrijs2005/rentdesk/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

	if err := app.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
