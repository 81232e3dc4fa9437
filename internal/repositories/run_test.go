package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/sp2yt/internal/models"
	"github.com/desertthunder/sp2yt/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenDatabase(context.Background(), shared.DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRun(id string, created time.Time) *models.Run {
	return &models.Run{
		RunID:       id,
		SourceID:    "sp123",
		SourceName:  "Road Trip",
		SourceOwner: "Alex",
		SourceTotal: 3,
		PlaylistID:  "PL1",
		PlaylistURL: models.PlaylistURL("PL1"),
		Privacy:     "private",
		Status:      models.RunCompleted,
		Matched:     2,
		NotFound:    1,
		Added:       2,
		Created:     created,
		Matches: []models.RunMatch{
			{TrackNumber: 1, TrackTitle: "Get Lucky", TrackArtist: "Daft Punk", VideoID: "v1", VideoTitle: "Daft Punk - Get Lucky", Confidence: models.ConfidenceHigh},
			{TrackNumber: 2, TrackTitle: "Obscure", TrackArtist: "Nobody"},
			{TrackNumber: 3, TrackTitle: "Midnight City", TrackArtist: "M83", VideoID: "v3", VideoTitle: "compilation", Confidence: models.ConfidenceLow},
		},
	}
}

func TestRunRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create and Get", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		require.NoError(t, repo.Create(ctx, sampleRun("11111111-aaaa", created)))

		run, err := repo.Get(ctx, "11111111-aaaa")
		require.NoError(t, err)
		assert.Equal(t, "Road Trip", run.SourceName)
		assert.Equal(t, models.RunCompleted, run.Status)
		assert.Equal(t, 2, run.Added)
		assert.True(t, run.Created.Equal(created))

		require.Len(t, run.Matches, 3)
		assert.Equal(t, 1, run.Matches[0].Position)
		assert.Equal(t, models.ConfidenceHigh, run.Matches[0].Confidence)
		assert.False(t, run.Matches[1].Found())
		assert.Equal(t, "v3", run.Matches[2].VideoID)
	})

	t.Run("Create fills id and time", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		run := sampleRun("", time.Time{})

		require.NoError(t, repo.Create(ctx, run))
		assert.NotEmpty(t, run.RunID)
		assert.False(t, run.Created.IsZero())
	})

	t.Run("Create invalid", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		run := sampleRun("r1", time.Now())
		run.SourceID = ""

		assert.ErrorIs(t, repo.Create(ctx, run), shared.ErrInvalidInput)
	})

	t.Run("Get by prefix", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		now := time.Now()
		require.NoError(t, repo.Create(ctx, sampleRun("abc-111", now)))
		require.NoError(t, repo.Create(ctx, sampleRun("abd-222", now)))

		run, err := repo.Get(ctx, "abd")
		require.NoError(t, err)
		assert.Equal(t, "abd-222", run.RunID)

		_, err = repo.Get(ctx, "ab")
		assert.ErrorIs(t, err, shared.ErrAmbiguousRun)

		_, err = repo.Get(ctx, "zzz")
		assert.ErrorIs(t, err, shared.ErrRunNotFound)

		_, err = repo.Get(ctx, "a_")
		assert.ErrorIs(t, err, shared.ErrAmbiguousRun, "wildcards are not interpreted")

		_, err = repo.Get(ctx, "")
		assert.ErrorIs(t, err, shared.ErrMissingArgument)
	})

	t.Run("List newest first", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i, id := range []string{"old", "mid", "new"} {
			require.NoError(t, repo.Create(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Hour))))
		}

		runs, err := repo.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, []string{"new", "mid", "old"}, []string{runs[0].RunID, runs[1].RunID, runs[2].RunID})
		assert.Empty(t, runs[0].Matches)

		limited, err := repo.List(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, limited, 2)
	})

	t.Run("Delete cascades", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRunRepository(db)
		require.NoError(t, repo.Create(ctx, sampleRun("gone", time.Now())))

		require.NoError(t, repo.Delete(ctx, "gone"))

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM run_matches WHERE run_id = 'gone'").Scan(&count))
		assert.Zero(t, count)

		assert.ErrorIs(t, repo.Delete(ctx, "gone"), shared.ErrRunNotFound)
	})
}
