package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/sp2yt/internal/models"
	"github.com/desertthunder/sp2yt/internal/shared"
)

const runColumns = `id, source_id, source_name, source_owner, source_total, playlist_id, playlist_url,
	privacy, status, matched, not_found, added, failed, created_at`

// RunRepository implements models.Repository[*models.Run].
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

var _ models.Repository[*models.Run] = (*RunRepository)(nil)

// Create inserts run and its matches. A missing ID or timestamp is filled in.
func (r *RunRepository) Create(ctx context.Context, run *models.Run) error {
	if run.RunID == "" {
		run.RunID = shared.GenerateID()
	}
	if run.Created.IsZero() {
		run.Created = time.Now()
	}
	run.Created = run.Created.UTC()

	if err := run.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.SourceID, run.SourceName, run.SourceOwner, run.SourceTotal,
			run.PlaylistID, run.PlaylistURL, run.Privacy, string(run.Status),
			run.Matched, run.NotFound, run.Added, run.Failed, run.Created,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO run_matches (run_id, position, track_number, track_title, track_artist, video_id, video_title, confidence)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare match insert: %w", err)
		}
		defer stmt.Close()

		for i, m := range run.Matches {
			position := m.Position
			if position == 0 {
				position = i + 1
			}
			_, err := stmt.ExecContext(ctx, run.RunID, position, m.TrackNumber, m.TrackTitle, m.TrackArtist,
				m.VideoID, m.VideoTitle, string(m.Confidence))
			if err != nil {
				return fmt.Errorf("failed to insert match %d: %w", position, err)
			}
		}
		return nil
	})
}

// Get retrieves a run and its matches. id may be a unique prefix of the full ID.
func (r *RunRepository) Get(ctx context.Context, id string) (*models.Run, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: run id", shared.ErrMissingArgument)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ORDER BY id = ? DESC LIMIT 2`,
		id, stripWildcards(id)+"%", id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	defer rows.Close()

	var found []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	switch {
	case len(found) == 0:
		return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	case len(found) > 1 && found[0].RunID != id:
		return nil, fmt.Errorf("%w: %s", shared.ErrAmbiguousRun, id)
	}

	run := found[0]
	if run.Matches, err = r.matches(ctx, run.RunID); err != nil {
		return nil, err
	}
	return run, nil
}

// List returns the most recent runs, newest first, without their matches. limit <= 0 returns all runs.
func (r *RunRepository) List(ctx context.Context, limit int) ([]*models.Run, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// Delete removes a run and its matches.
func (r *RunRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	return nil
}

func (r *RunRepository) matches(ctx context.Context, runID string) ([]models.RunMatch, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT position, track_number, track_title, track_artist, video_id, video_title, confidence
		FROM run_matches WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []models.RunMatch
	for rows.Next() {
		var m models.RunMatch
		var confidence string
		if err := rows.Scan(&m.Position, &m.TrackNumber, &m.TrackTitle, &m.TrackArtist,
			&m.VideoID, &m.VideoTitle, &confidence); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		m.Confidence = models.Confidence(confidence)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func scanRun(row scanner) (*models.Run, error) {
	var run models.Run
	var status string
	err := row.Scan(&run.RunID, &run.SourceID, &run.SourceName, &run.SourceOwner, &run.SourceTotal,
		&run.PlaylistID, &run.PlaylistURL, &run.Privacy, &status,
		&run.Matched, &run.NotFound, &run.Added, &run.Failed, &run.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	run.Status = models.RunStatus(status)
	return &run, nil
}

// stripWildcards drops LIKE wildcards from a prefix. Run IDs never contain them.
func stripWildcards(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
