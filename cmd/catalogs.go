package main

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ymx/internal/services"
	"github.com/desertthunder/ymx/internal/shared"
)

// yandexSource verifies the user's Yandex token and returns the client.
func yandexSource(ctx context.Context, config *shared.Config, user *shared.UserConfig) (services.SourceCatalog, error) {
	svc := services.NewYandexService(config.Yandex.BaseURL, user.YandexAccessToken, config.Yandex.RateLimit, nil)
	if err := svc.Authenticate(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// spotifyDestination builds a Spotify client from the user's cached token and checks it with a profile request.
//
// The possibly refreshed token is written back to the cache.
func spotifyDestination(ctx context.Context, config *shared.Config, user *shared.UserConfig, logger *log.Logger) (services.DestinationCatalog, error) {
	auth, err := services.NewSpotifyAuth(user, services.NewTokenCache(config.TokenPath(user.Name)))
	if err != nil {
		return nil, err
	}

	client, err := auth.Client(ctx)
	if err != nil {
		return nil, err
	}

	svc := services.NewSpotifyService(client)
	id, err := svc.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("spotify session ready", "spotify_user", id)

	if err := auth.Persist(client); err != nil {
		logger.Warn("failed to persist refreshed token", "error", err)
	}
	return svc, nil
}
