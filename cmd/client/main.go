package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-church-sync/internal/client"
	"github.com/MKhiriev/go-church-sync/internal/config"
	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/internal/tui"
	"github.com/MKhiriev/go-church-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("church-sync-console", "")
	cfg, err := config.GetClientConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	engine, err := client.NewEngine(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create sync engine")
	}

	ui, err := tui.New(engine.Services, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating ui")
	}

	app, err := client.NewApp(engine, ui, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
