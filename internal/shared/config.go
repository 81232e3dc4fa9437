package shared

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Spotify authorization modes.
const (
	AuthModeAuthorizationCode = "authorization_code"
	AuthModeClientCredentials = "client_credentials"
)

// Privacy statuses accepted by the YouTube playlists endpoint.
var privacyStatuses = []string{"private", "public", "unlisted"}

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Convert     ConvertConfig     `toml:"convert"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	YouTube YouTubeConfig `toml:"youtube"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	AuthMode     string `toml:"auth_mode"`
	TokenPath    string `toml:"token_path"`
}

// YouTubeConfig contains YouTube Data API credentials.
type YouTubeConfig struct {
	ClientSecretsPath string `toml:"client_secrets_path"`
	TokenPath         string `toml:"token_path"`
}

// ConvertConfig tunes the conversion pipeline.
type ConvertConfig struct {
	MaxResults       int    `toml:"max_results"`
	SearchIntervalMS int    `toml:"search_interval_ms"`
	InsertIntervalMS int    `toml:"insert_interval_ms"`
	Privacy          string `toml:"privacy"`
	CacheSize        int    `toml:"cache_size"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains the OAuth callback server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port for the callback listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// HasCredentials reports whether both the client ID and secret are set to non-placeholder values.
func (s SpotifyConfig) HasCredentials() bool {
	if s.ClientID == "" || s.ClientSecret == "" {
		return false
	}
	return s.ClientID != "your_spotify_client_id" && s.ClientSecret != "your_spotify_client_secret"
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Resolve builds the effective configuration.
//
// Order: embedded defaults, the TOML file at path (if it exists), the .env file at envPath
// (if it exists), then OS environment variables.
func Resolve(path, envPath string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	if envPath != "" {
		if err := loadEnvFile(envPath); err != nil {
			return nil, err
		}
	}

	config.ApplyEnv()
	return config, nil
}

// loadEnvFile loads variables from a dotenv file without overriding variables already present in the environment.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%w: failed to load %s: %v", ErrInvalidConfig, path, err)
	}
	return nil
}

// ApplyEnv overrides credentials with any of the supported environment variables that are set.
func (c *Config) ApplyEnv() {
	overrides := []struct {
		key    string
		target *string
	}{
		{"SPOTIFY_CLIENT_ID", &c.Credentials.Spotify.ClientID},
		{"SPOTIFY_CLIENT_SECRET", &c.Credentials.Spotify.ClientSecret},
		{"SPOTIFY_REDIRECT_URI", &c.Credentials.Spotify.RedirectURI},
		{"YOUTUBE_CLIENT_SECRETS", &c.Credentials.YouTube.ClientSecretsPath},
	}

	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			*o.target = v
		}
	}
}

// Validate checks the values the conversion pipeline depends on.
func (c *Config) Validate() error {
	switch c.Credentials.Spotify.AuthMode {
	case "", AuthModeAuthorizationCode, AuthModeClientCredentials:
	default:
		return fmt.Errorf("%w: unknown spotify auth_mode %q", ErrInvalidConfig, c.Credentials.Spotify.AuthMode)
	}

	if err := ValidatePrivacy(c.Convert.Privacy); err != nil {
		return err
	}

	if c.Convert.MaxResults < 1 || c.Convert.MaxResults > 50 {
		return fmt.Errorf("%w: convert.max_results must be between 1 and 50", ErrInvalidConfig)
	}

	if c.Convert.SearchIntervalMS < 0 || c.Convert.InsertIntervalMS < 0 {
		return fmt.Errorf("%w: convert intervals must not be negative", ErrInvalidConfig)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port out of range", ErrInvalidConfig)
	}
	return nil
}

// ValidatePrivacy checks a YouTube playlist privacy status.
func ValidatePrivacy(privacy string) error {
	if !slices.Contains(privacyStatuses, privacy) {
		return fmt.Errorf("%w: privacy must be one of private, public, unlisted (got %q)", ErrInvalidArgument, privacy)
	}
	return nil
}

// SaveConfig writes config to path as TOML.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
