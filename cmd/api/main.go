package main

import (
	"os"

	"github.com/yigit/learnhub/internal/pkg/logger"
	"github.com/yigit/learnhub/internal/server"
)

// @title LearnHub API
// @version 1.0
// @description Course storefront API: catalogue, accounts, checkout and payment webhooks

// @contact.name API Support
// @contact.email support@learnhub.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
// @description Session token set by /user/login

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
