// package tasks implements the conversion pipeline from a Spotify playlist to a YouTube playlist.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/desertthunder/sp2yt/internal/models"
	"github.com/desertthunder/sp2yt/internal/services"
	"github.com/desertthunder/sp2yt/internal/shared"
)

const (
	DefaultMaxResults     = 5
	DefaultSearchInterval = 500 * time.Millisecond
	DefaultInsertInterval = 300 * time.Millisecond
	DefaultCacheSize      = 256
)

// Options tunes a [ConversionEngine].
type Options struct {
	MaxResults     int           // Search results requested per track
	SearchInterval time.Duration // Minimum gap between searches
	InsertInterval time.Duration // Minimum gap between playlist insertions
	CacheSize      int           // Distinct queries remembered per run
	SkipUncertain  bool          // Treat low confidence matches as not found
}

// OptionsFromConfig builds [Options] from the convert section of the config.
func OptionsFromConfig(cfg shared.ConvertConfig) Options {
	return Options{
		MaxResults:     cfg.MaxResults,
		SearchInterval: time.Duration(cfg.SearchIntervalMS) * time.Millisecond,
		InsertInterval: time.Duration(cfg.InsertIntervalMS) * time.Millisecond,
		CacheSize:      cfg.CacheSize,
	}
}

// MatchResult holds the outcome of the search phase.
type MatchResult struct {
	Matches       []models.Match // Accepted matches in source order
	Skipped       []models.Match // Low confidence matches dropped by SkipUncertain
	NotFound      []models.Track // Tracks with no search results
	QuotaExceeded bool           // Searching stopped early on quota exhaustion
}

// VideoIDs returns the matched video IDs in order, duplicates included.
func (r *MatchResult) VideoIDs() []string {
	ids := make([]string, len(r.Matches))
	for i, m := range r.Matches {
		ids[i] = m.Video.ID
	}
	return ids
}

// InsertError records one failed insertion.
type InsertError struct {
	Match models.Match
	Err   error
}

// InsertResult holds the outcome of the insert phase.
type InsertResult struct {
	Added         int
	Failed        int
	Errors        []InsertError
	QuotaExceeded bool
}

// ConversionEngine runs the fetch, match, create and insert phases.
//
// Each phase reports progress on an optional channel. Sends block until the update is received or
// ctx is done, so a consumer must drain the channel while a phase runs.
type ConversionEngine struct {
	source        services.Source
	dest          services.Destination
	opts          Options
	searchLimiter *rate.Limiter
	insertLimiter *rate.Limiter
	cache         *lru.Cache[string, []models.Video]
	logger        *log.Logger
}

// NewConversionEngine creates a [ConversionEngine]. Zero options fall back to the defaults.
func NewConversionEngine(source services.Source, dest services.Destination, opts Options, logger *log.Logger) (*ConversionEngine, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.SearchInterval < 0 || opts.InsertInterval < 0 {
		return nil, fmt.Errorf("%w: intervals must not be negative", shared.ErrInvalidArgument)
	}

	cache, err := lru.New[string, []models.Video](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create search cache: %w", err)
	}

	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &ConversionEngine{
		source:        source,
		dest:          dest,
		opts:          opts,
		searchLimiter: newLimiter(opts.SearchInterval),
		insertLimiter: newLimiter(opts.InsertInterval),
		cache:         cache,
		logger:        logger,
	}, nil
}

// SetDestination attaches dest. The CLI fetches the source before authenticating with YouTube.
func (e *ConversionEngine) SetDestination(dest services.Destination) {
	e.dest = dest
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval == 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// sendProgress delivers an update unless progress is nil or ctx is done.
func (e *ConversionEngine) sendProgress(ctx context.Context, progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	case <-ctx.Done():
	}
}

// Fetch resolves ref (URL, URI or ID) and exports the playlist. A playlist without playable tracks is an error.
func (e *ConversionEngine) Fetch(ctx context.Context, ref string, progress chan<- ProgressUpdate) (*models.PlaylistExport, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: source service not initialized", shared.ErrServiceUnavailable)
	}

	id := services.ExtractPlaylistID(ref)
	if id == "" {
		return nil, fmt.Errorf("%w: playlist URL or ID", shared.ErrMissingArgument)
	}

	e.sendProgress(ctx, progress, fetchSourceUpdate(id))

	export, err := e.source.ExportPlaylist(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(export.Tracks) == 0 {
		return export, fmt.Errorf("%w: %s", shared.ErrNoTracks, export.Playlist.Name)
	}

	e.logger.Debug("fetched playlist", "id", id, "name", export.Playlist.Name, "tracks", len(export.Tracks))
	e.sendProgress(ctx, progress, sourceFetchedUpdate(export))
	return export, nil
}

// Match searches YouTube for each track in order and grades the first result.
//
// Search failures count as not found. Once YouTube reports quota exhaustion the remaining tracks
// are marked not found without further requests.
func (e *ConversionEngine) Match(ctx context.Context, tracks []models.Track, progress chan<- ProgressUpdate) (*MatchResult, error) {
	if e.dest == nil {
		return nil, fmt.Errorf("%w: destination service not initialized", shared.ErrServiceUnavailable)
	}

	result := &MatchResult{}
	total := len(tracks)

	for i, track := range tracks {
		step := i + 1
		e.sendProgress(ctx, progress, searchTrackUpdate(step, total, track))

		if result.QuotaExceeded {
			result.NotFound = append(result.NotFound, track)
			e.sendProgress(ctx, progress, notFoundUpdate(step, total, track))
			continue
		}

		videos, err := e.search(ctx, track.SearchQuery())
		switch {
		case ctx.Err() != nil:
			return result, ctx.Err()
		case errors.Is(err, shared.ErrQuotaExceeded):
			e.logger.Warn("search quota exhausted", "track", track.Label(), "error", err)
			result.QuotaExceeded = true
			e.sendProgress(ctx, progress, quotaUpdate(step, total, err))
		case err != nil:
			e.logger.Warn("search failed", "track", track.Label(), "error", err)
		}

		match, ok := BestMatch(track, videos)
		if !ok {
			result.NotFound = append(result.NotFound, track)
			e.sendProgress(ctx, progress, notFoundUpdate(step, total, track))
			continue
		}

		skip := e.opts.SkipUncertain && match.Uncertain()
		if skip {
			result.Skipped = append(result.Skipped, match)
		} else {
			result.Matches = append(result.Matches, match)
		}
		e.sendProgress(ctx, progress, matchUpdate(step, total, match, skip))
	}

	return result, nil
}

// Search runs a single rate limited, cached search.
func (e *ConversionEngine) Search(ctx context.Context, query string) ([]models.Video, error) {
	if e.dest == nil {
		return nil, fmt.Errorf("%w: destination service not initialized", shared.ErrServiceUnavailable)
	}
	return e.search(ctx, query)
}

func (e *ConversionEngine) search(ctx context.Context, query string) ([]models.Video, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if videos, ok := e.cache.Get(key); ok {
		e.logger.Debug("search cache hit", "query", query)
		return videos, nil
	}

	if err := e.searchLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	videos, err := e.dest.Search(ctx, query, e.opts.MaxResults)
	if err != nil {
		return nil, err
	}

	e.cache.Add(key, videos)
	return videos, nil
}

// PlaylistTitle returns the destination title for a source playlist name.
func PlaylistTitle(name string) string {
	return name + " (from Spotify)"
}

// PlaylistDescription returns the destination description for a source playlist name.
func PlaylistDescription(name string) string {
	return "Converted from Spotify playlist: " + name
}

// Create makes the destination playlist for a source playlist name.
func (e *ConversionEngine) Create(ctx context.Context, sourceName, privacy string, progress chan<- ProgressUpdate) (*models.Playlist, error) {
	if e.dest == nil {
		return nil, fmt.Errorf("%w: destination service not initialized", shared.ErrServiceUnavailable)
	}

	title := PlaylistTitle(sourceName)
	e.sendProgress(ctx, progress, createPlaylistUpdate(title))

	playlist, err := e.dest.CreatePlaylist(ctx, title, PlaylistDescription(sourceName), privacy)
	if err != nil {
		return nil, err
	}

	e.logger.Info("created playlist", "id", playlist.ID, "privacy", privacy)
	e.sendProgress(ctx, progress, playlistCreatedUpdate(playlist))
	return playlist, nil
}

// Insert adds every matched video to the playlist in order.
//
// A failed insertion is counted and the next one attempted. After a quota error the remaining
// items are counted as failed without further requests.
func (e *ConversionEngine) Insert(ctx context.Context, playlistID string, matches []models.Match, progress chan<- ProgressUpdate) (*InsertResult, error) {
	if e.dest == nil {
		return nil, fmt.Errorf("%w: destination service not initialized", shared.ErrServiceUnavailable)
	}

	result := &InsertResult{}
	total := len(matches)
	var quotaErr error

	for i, m := range matches {
		step := i + 1

		err := quotaErr
		if err == nil {
			if err = e.insertLimiter.Wait(ctx); err != nil {
				return result, err
			}
			err = e.dest.AddVideo(ctx, playlistID, m.Video.ID)
		}

		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		if err != nil {
			if quotaErr == nil && errors.Is(err, shared.ErrQuotaExceeded) {
				quotaErr = err
				result.QuotaExceeded = true
			}
			e.logger.Warn("failed to add video", "video", m.Video.ID, "track", m.Track.Label(), "error", err)
			result.Failed++
			result.Errors = append(result.Errors, InsertError{Match: m, Err: err})
			e.sendProgress(ctx, progress, insertFailedUpdate(step, total, m, err))
			continue
		}

		result.Added++
		e.sendProgress(ctx, progress, insertUpdate(step, total, m))
	}

	return result, nil
}
