package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/desertthunder/sp2yt/internal/server"
	"github.com/desertthunder/sp2yt/internal/services"
	"github.com/desertthunder/sp2yt/internal/shared"
)

// spotifySource returns the injected source or builds one from the Spotify credentials.
func (r *Runner) spotifySource(ctx context.Context) (services.Source, error) {
	if r.source != nil {
		return r.source, nil
	}

	cfg := r.cfg().Credentials.Spotify
	if cfg.AuthMode == shared.AuthModeClientCredentials {
		client, err := services.SpotifyClientCredentials(ctx, cfg, "")
		if err != nil {
			return nil, err
		}
		return services.NewSpotifyService(client), nil
	}

	oauthConfig, err := services.SpotifyOAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	client, err := services.TokenClient(ctx, oauthConfig, shared.NewTokenStore(cfg.TokenPath), r.authorizer("Spotify"), r.logger)
	if err != nil {
		return nil, err
	}
	return services.NewSpotifyService(client), nil
}

// youtubeDestination returns the injected destination or builds one from client_secret.json.
func (r *Runner) youtubeDestination(ctx context.Context) (services.Destination, error) {
	if r.dest != nil {
		return r.dest, nil
	}

	cfg := r.cfg().Credentials.YouTube
	oauthConfig, err := services.YouTubeOAuthConfig(cfg.ClientSecretsPath, r.youtubeRedirectURL())
	if err != nil {
		return nil, err
	}

	client, err := services.TokenClient(ctx, oauthConfig, shared.NewTokenStore(cfg.TokenPath), r.authorizer("YouTube"), r.logger)
	if err != nil {
		return nil, err
	}
	return services.NewYouTubeService(ctx, option.WithHTTPClient(client))
}

func (r *Runner) youtubeRedirectURL() string {
	return fmt.Sprintf("http://%s/callback", r.cfg().Server.Addr())
}

// authorizer returns a [services.Authorizer] running the local callback flow for provider.
func (r *Runner) authorizer(provider string) services.Authorizer {
	return func(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
		return r.doOAuth(ctx, provider, cfg)
	}
}

// printClientSecretsHelp explains where client_secret.json comes from.
func (r *Runner) printClientSecretsHelp() {
	path := r.cfg().Credentials.YouTube.ClientSecretsPath
	r.writePlainln("ERROR: Missing '%s' file!", path)
	r.writePlain("Download it from Google Cloud Console:\n")
	r.writePlain("1. Go to https://console.cloud.google.com\n")
	r.writePlain("2. APIs & Services > Credentials\n")
	r.writePlain("3. Download OAuth 2.0 Client ID as 'client_secret.json'\n")
	r.writePlain("4. Save it as %s (or set YOUTUBE_CLIENT_SECRETS)\n\n", path)
}

// AuthSpotify runs the Spotify authorization flow and caches the token.
func (r *Runner) AuthSpotify(ctx context.Context, cmd *cli.Command) error {
	cfg := r.cfg().Credentials.Spotify

	if cfg.AuthMode == shared.AuthModeClientCredentials {
		if _, err := services.SpotifyClientCredentials(ctx, cfg, ""); err != nil {
			return err
		}
		return r.writePlain("✓ Spotify client credentials verified (public playlists only)\n")
	}

	oauthConfig, err := services.SpotifyOAuthConfig(cfg)
	if err != nil {
		return err
	}

	token, err := r.doOAuth(ctx, "Spotify", oauthConfig)
	if err != nil {
		return err
	}

	store := shared.NewTokenStore(cfg.TokenPath)
	if err := store.Save(token); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Token saved to %s\n", store.Path())
	return nil
}

// AuthYouTube runs the Google authorization flow and caches the token.
func (r *Runner) AuthYouTube(ctx context.Context, cmd *cli.Command) error {
	cfg := r.cfg().Credentials.YouTube

	oauthConfig, err := services.YouTubeOAuthConfig(cfg.ClientSecretsPath, r.youtubeRedirectURL())
	if errors.Is(err, shared.ErrMissingClientSecrets) {
		r.printClientSecretsHelp()
	}
	if err != nil {
		return err
	}

	token, err := r.doOAuth(ctx, "YouTube", oauthConfig)
	if err != nil {
		return err
	}

	store := shared.NewTokenStore(cfg.TokenPath)
	if err := store.Save(token); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Token saved to %s\n", store.Path())
	return nil
}

// callbackAddr is the host:port the browser is sent back to. It falls back to the
// configured server address when the redirect URL carries no port.
func (r *Runner) callbackAddr(config *oauth2.Config) string {
	u, err := url.Parse(config.RedirectURL)
	if err != nil || u.Port() == "" {
		return r.cfg().Server.Addr()
	}
	return u.Host
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context, provider string, config *oauth2.Config) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	logger := shared.WithLogger(r.logger, "provider", provider)
	oauthHandler := server.NewOAuthHandler(provider, config, state)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(logger))
	router.Handler(oauthHandler)

	serverAddr := r.callbackAddr(config)
	listener, err := net.Listen("tcp", serverAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", serverAddr, err)
	}

	httpServer := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Infof("starting OAuth server at %v", serverAddr)
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("error shutting down server", "error", err)
		}
	}()

	authURL := oauthHandler.AuthURL()
	r.writePlain("→ Opening browser for %s authorization...\n", provider)
	if err := r.openBrowser(authURL); err != nil {
		logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (%s timeout)...\n", r.authTimeout)

	timeout := time.NewTimer(r.authTimeout)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, r.authTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return result.Token, nil
}
