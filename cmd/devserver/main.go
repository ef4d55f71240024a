package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/voicedesk/internal/buildinfo"
	"github.com/dmitrijs2005/voicedesk/internal/devserver"
	"github.com/dmitrijs2005/voicedesk/internal/devserver/config"
	"github.com/dmitrijs2005/voicedesk/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	logger := logging.New(os.Stdout, cfg.LogLevel)

	app, err := devserver.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}

}
