// Package main implements a cross-platform GUI utility that watches a
// folder for new photos and pops up a QR code linking to the shared
// Google Drive folder, using the Fyne framework.
package main

import (
	"errors"
	"os"

	"github.com/rs/zerolog"

	"github.com/Akaiko1/photobooth-qr/internal/config"
	"github.com/Akaiko1/photobooth-qr/internal/ui"
)

func main() {
	logger := setupLogger()
	logger.Info().Msg("starting Photobooth QR automation")

	settings, err := config.Load(config.DefaultFileName)
	if err != nil {
		if !errors.Is(err, config.ErrAbsent) {
			logger.Error().Err(err).Msg("failed to load configuration")
			os.Exit(1)
		}
		logger.Warn().Msg("no configuration found, first-time setup will run")
		settings = config.Default()
	}

	app := ui.NewPhotoboothApp(settings, config.DefaultFileName, logger)
	app.Run()

	logger.Info().Msg("Photobooth QR automation stopped")
}

func setupLogger() zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().
		Timestamp().
		Logger()
}
