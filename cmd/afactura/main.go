package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/afactura/internal/buildinfo"
	"github.com/dmitrijs2005/afactura/internal/cli"
	"github.com/dmitrijs2005/afactura/internal/config"
	"github.com/dmitrijs2005/afactura/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.AuditWriteTimeout+time.Second)
	defer cancel()
	if err := app.Close(closeCtx); err != nil {
		logger.Error(closeCtx, "shutdown", "error", err)
	}
}
