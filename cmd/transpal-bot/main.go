package main

import (
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/transpal/transpal-bot/core/cli"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// handle loading environment variables from .env files
	envFiles := []string{".env", "transpal.env"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		envFiles = append(envFiles, filepath.Join(homeDir, ".config/transpal.env"))
	}
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			log.Debug().Str("envFile", envFile).Msg("env file found, loading environment variables from file")
			if err := godotenv.Load(envFile); err != nil {
				log.Error().Err(err).Str("envFile", envFile).Msg("failed to load environment variables from file")
			}
		}
	}

	ctx := kong.Parse(&cli.CLI,
		kong.Description("transpal-bot turns media files shared in a chat channel into speaker-attributed transcripts."),
		kong.UsageOnError(),
	)

	logLevel := "info"
	if cli.CLI.Debug && cli.CLI.LogLevel == nil {
		logLevel = "debug"
	}
	if cli.CLI.LogLevel != nil {
		logLevel = *cli.CLI.LogLevel
	}
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if err := ctx.Run(&cli.CLI.Context); err != nil {
		log.Fatal().Err(err).Msg("error running the application")
	}
}
