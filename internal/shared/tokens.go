package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// TokenStore persists an [oauth2.Token] as JSON at a fixed path.
type TokenStore struct {
	path string
}

// NewTokenStore creates a [TokenStore] for path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Path returns the file backing the store.
func (s *TokenStore) Path() string {
	return s.path
}

// Load reads the stored token. Returns [ErrNotAuthenticated] when no token has been saved yet.
func (s *TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: corrupt token file %s: %v", ErrNotAuthenticated, s.path, err)
	}
	return &token, nil
}

// Save writes token with owner-only permissions.
func (s *TokenStore) Save(token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("%w: nil token", ErrInvalidInput)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// SavingTokenSource wraps an [oauth2.TokenSource] and writes every new access token back to a [TokenStore].
type SavingTokenSource struct {
	base  oauth2.TokenSource
	store *TokenStore
	mu    sync.Mutex
	last  string
}

// NewSavingTokenSource creates a [SavingTokenSource]. current is the token the base source was seeded with.
func NewSavingTokenSource(base oauth2.TokenSource, store *TokenStore, current *oauth2.Token) *SavingTokenSource {
	ts := &SavingTokenSource{base: base, store: store}
	if current != nil {
		ts.last = current.AccessToken
	}
	return ts
}

// Token implements [oauth2.TokenSource].
func (s *SavingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if token.AccessToken != s.last {
		if err := s.store.Save(token); err != nil {
			return nil, err
		}
		s.last = token.AccessToken
	}
	return token, nil
}
