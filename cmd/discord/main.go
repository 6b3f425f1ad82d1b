// cmd/discord/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/matiasvelizb/pepe-grillo/internal/config"
	"github.com/matiasvelizb/pepe-grillo/internal/discord"
	"github.com/matiasvelizb/pepe-grillo/internal/logging"
	"github.com/matiasvelizb/pepe-grillo/internal/soundcache"
	"github.com/matiasvelizb/pepe-grillo/internal/storage"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Setup(cfg.LogLevel, cfg.LogFile)
	log.Info().Msg("Starting pepe-grillo bot")

	store, err := storage.New(cfg.StoragePath, cfg.MaxSoundsPerGuild)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open sound storage")
	}
	defer store.Close()

	cache, err := soundcache.New(cfg.CachePath, cfg.CacheTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open audio cache")
	}
	defer cache.Close()

	errCh := make(chan error, 1)
	go func() {
		if err := discord.StartBot(ctx, cfg, store, cache); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("Received signal, shutting down")
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("Discord bot error")
		}
		cancel()
	case <-ctx.Done():
	}

	log.Info().Msg("Discord bot exited cleanly")
}
