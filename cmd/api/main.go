package main

import (
	"context"
	"flag"

	"github.com/institut/vitrine/internal/pkg/logger"
	"github.com/institut/vitrine/internal/server"
)

// @title Vitrine API
// @version 1.0
// @description Formation catalog and photo gallery of the institute.

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
	flag.Parse()

	srv, err := server.NewServer(context.Background(), *configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize server")
	}

	if err := srv.Run(); err != nil {
		logger.Fatal().Err(err).Msg("Server execution failed or shutdown encountered errors")
	}

	logger.Info().Msg("Application finished gracefully.")
}
