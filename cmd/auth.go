package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/ymx/internal/server"
	"github.com/desertthunder/ymx/internal/services"
	"github.com/desertthunder/ymx/internal/shared"
	"github.com/desertthunder/ymx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Auth performs the Spotify authorization-code flow for the selected user.
//
// Starts a loopback server on the user's redirect URI, opens the consent page and caches the exchanged token.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	user, err := r.chooseUser(config, cmd.String("user"))
	if err != nil {
		return quietEOF(err)
	}

	cache := services.NewTokenCache(config.TokenPath(user.Name))
	auth, err := services.NewSpotifyAuth(user, cache)
	if err != nil {
		return err
	}

	addr, path, err := server.CallbackAddr(auth.RedirectURI())
	if err != nil {
		return err
	}

	state, err := shared.GenerateState()
	if err != nil {
		return fmt.Errorf("failed to generate state token: %w", err)
	}

	logger := shared.WithLogger(r.logger, "user", user.Name)
	handler := server.NewOAuthHandler(auth, state, path)
	router := server.NewBasicRouter()
	router.Use(server.Logging(logger))
	router.Handler(handler)

	srv, err := server.Listen(addr, router)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("error shutting down server", "error", err)
		}
	}()
	logger.Info("started OAuth callback server", "addr", srv.Addr(), "path", path)

	authURL := auth.AuthURL(state)
	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := r.openBrowser(authURL); err != nil {
		logger.Warn("failed to open browser automatically", "error", err)
		r.writePlain("%s\n", ui.Styles.Warn("Could not open browser automatically."))
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	timeout := cmd.Duration("timeout")
	r.writePlain("→ Waiting for authorization (%v timeout)...\n", timeout)

	if _, err := server.WaitForToken(ctx, handler, srv, timeout); err != nil {
		return err
	}

	r.writePlain("%s\n", ui.Styles.OK("✓ Authorization successful"))
	r.writePlain("✓ Token saved to %s\n", cache.Path())
	return nil
}
