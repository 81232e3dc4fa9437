package shared

import "errors"

var (
	// Configuration errors
	ErrMissingConfig        = errors.New("configuration not found")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrMissingCredentials   = errors.New("missing credentials")
	ErrMissingClientSecrets = errors.New("missing client secrets file")

	// Authentication errors
	ErrAuthFailed       = errors.New("authentication failed")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrTimeout          = errors.New("operation timed out")

	// API and service errors
	ErrAPIRequest         = errors.New("API request failed")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrPlaylistNotFound   = errors.New("playlist not found")
	ErrQuotaExceeded      = errors.New("API quota exceeded")

	// Conversion errors
	ErrNoTracks  = errors.New("playlist has no tracks")
	ErrNoMatches = errors.New("no matches found")
	ErrCanceled  = errors.New("canceled by user")

	// History errors
	ErrRunNotFound  = errors.New("run not found")
	ErrAmbiguousRun = errors.New("run id prefix matches more than one run")

	// Input validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
)
