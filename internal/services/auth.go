package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"

	"github.com/desertthunder/sp2yt/internal/shared"
)

// Authorizer obtains a fresh token for cfg, normally by sending the user through the consent screen.
type Authorizer func(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)

// SpotifyScopes are the scopes needed to read private and collaborative playlists.
var SpotifyScopes = []string{
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
}

// SpotifyOAuthConfig builds the authorization code configuration for Spotify.
func SpotifyOAuthConfig(cfg shared.SpotifyConfig) (*oauth2.Config, error) {
	if !cfg.HasCredentials() {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       SpotifyScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyauth.AuthURL,
			TokenURL: spotifyauth.TokenURL,
		},
	}, nil
}

// SpotifyClientCredentials returns an HTTP client authorized with the client credentials grant.
// Only public playlists are readable with it.
func SpotifyClientCredentials(ctx context.Context, cfg shared.SpotifyConfig, tokenURL string) (*http.Client, error) {
	if !cfg.HasCredentials() {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
	}

	if _, err := cc.Token(ctx); err != nil {
		return nil, fmt.Errorf("%w: spotify client credentials: %v", shared.ErrAuthFailed, err)
	}
	return cc.Client(ctx), nil
}

// YouTubeOAuthConfig reads a Google client_secret.json and returns a config for the youtube.force-ssl scope.
//
// redirectURL replaces the loopback address from the file so the local callback server receives the code.
func YouTubeOAuthConfig(secretsPath, redirectURL string) (*oauth2.Config, error) {
	data, err := os.ReadFile(secretsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", shared.ErrMissingClientSecrets, secretsPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read client secrets: %w", err)
	}

	cfg, err := google.ConfigFromJSON(data, youtube.YoutubeForceSslScope)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid client secrets file %s: %v", shared.ErrInvalidConfig, secretsPath, err)
	}

	if redirectURL != "" {
		cfg.RedirectURL = redirectURL
	}
	return cfg, nil
}

// TokenClient returns an HTTP client for cfg backed by the token in store.
//
// A stored token is reused when valid and refreshed when expired. When there is no token, or the
// refresh fails, authorize is called and its token is saved. A nil authorize turns those cases into
// [shared.ErrNotAuthenticated].
func TokenClient(ctx context.Context, cfg *oauth2.Config, store *shared.TokenStore, authorize Authorizer, logger *log.Logger) (*http.Client, error) {
	token, err := store.Load()
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		token = nil
		logger.Debug("no cached token", "path", store.Path())
	case err != nil:
		return nil, err
	}

	if token != nil {
		source := shared.NewSavingTokenSource(cfg.TokenSource(ctx, token), store, token)
		_, err := source.Token()
		if err == nil {
			return oauth2.NewClient(ctx, source), nil
		}
		logger.Warn("cached token could not be refreshed", "path", store.Path(), "error", err)
	}

	if authorize == nil {
		return nil, fmt.Errorf("%w: no usable token at %s", shared.ErrNotAuthenticated, store.Path())
	}

	token, err = authorize(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := store.Save(token); err != nil {
		return nil, err
	}
	logger.Info("saved token", "path", store.Path())

	source := shared.NewSavingTokenSource(cfg.TokenSource(ctx, token), store, token)
	return oauth2.NewClient(ctx, source), nil
}
