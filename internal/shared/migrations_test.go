package shared

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationRunner(t *testing.T) {
	ctx := context.Background()

	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations(migrationFiles)
		require.NoError(t, err)
		require.NotEmpty(t, migrations)

		for i := 1; i < len(migrations); i++ {
			assert.Greater(t, migrations[i].Version, migrations[i-1].Version)
		}
		for _, m := range migrations {
			assert.NotEmpty(t, m.Up, "migration %d missing up SQL", m.Version)
			assert.NotEmpty(t, m.Down, "migration %d missing down SQL", m.Version)
		}
		assert.Equal(t, "create_runs", migrations[0].Name)
	})

	t.Run("loadMigrations incomplete pair", func(t *testing.T) {
		fsys := fstest.MapFS{
			"sql/0001_things_up.sql": {Data: []byte("CREATE TABLE things (id INTEGER);")},
			"sql/README.md":          {Data: []byte("ignored")},
		}
		_, err := loadMigrations(fsys)
		assert.ErrorContains(t, err, "incomplete migration for version 1")
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		require.NoError(t, err)
		defer db.Close()
		db.SetMaxOpenConns(1)

		require.NoError(t, RunMigrations(ctx, db))

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
		assert.NotZero(t, count)

		_, err = db.Exec("SELECT 1 FROM runs LIMIT 1")
		assert.NoError(t, err, "runs table should exist after migrations")
		_, err = db.Exec("SELECT 1 FROM run_matches LIMIT 1")
		assert.NoError(t, err, "run_matches table should exist after migrations")

		require.NoError(t, RollbackMigration(ctx, db))

		var after int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&after))
		assert.Less(t, after, count)

		_, err = db.Exec("SELECT 1 FROM runs LIMIT 1")
		assert.Error(t, err, "runs table should be dropped after rollback")

		assert.ErrorIs(t, RollbackMigration(ctx, db), ErrNoMigrations)
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := OpenDatabase(ctx, DatabaseConfig{Path: ":memory:"})
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, RunMigrations(ctx, db))

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))

		migrations, err := loadMigrations(migrationFiles)
		require.NoError(t, err)
		assert.Equal(t, len(migrations), count)
	})
}

func TestSplitStatements(t *testing.T) {
	script := `
-- header
CREATE TABLE a (id INTEGER); -- trailing
CREATE TABLE b (
    id INTEGER
);
`
	got := splitStatements(script)
	require.Len(t, got, 2)
	assert.Equal(t, "CREATE TABLE a (id INTEGER)", got[0])
	assert.Equal(t, "CREATE TABLE b (\nid INTEGER\n)", got[1])
}
