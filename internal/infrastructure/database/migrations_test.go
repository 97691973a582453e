package database

import (
	"context"
	"embed"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testMigrationsDir is the directory containing test migration files.
const testMigrationsDir = "testdata"

//go:embed testdata/*.sql
var testMigrationsFS embed.FS

// useMigrations swaps the package migration source for the test.
func useMigrations(t *testing.T, fsys embed.FS, dir string) {
	t.Helper()
	origFS, origDir := MigrationsFS, MigrationsDir
	t.Cleanup(func() {
		MigrationsFS, MigrationsDir = origFS, origDir
	})
	MigrationsFS, MigrationsDir = fsys, dir
}

func tableExists(t *testing.T, db *DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE name = ?", name,
	).Scan(&n)
	require.NoError(t, err, "sqlite_master query")
	return n > 0
}

// TestMigrate verifies migration application.
func TestMigrate(t *testing.T) {
	useMigrations(t, testMigrationsFS, testMigrationsDir)
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, db.Migrate(ctx))

	assert.True(t, tableExists(t, db, "test_codes"), "table test_codes not created")
	assert.True(t, tableExists(t, db, "idx_test_codes_lang"), "index idx_test_codes_lang not created")

	applied, pending, err := db.GetMigrationStatus(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Empty(t, pending)
	assert.Equal(t, "20260101_000000", applied[0].Version)
	assert.False(t, applied[0].AppliedAt.IsZero())

	// Running again is idempotent.
	require.NoError(t, db.Migrate(ctx), "second Migrate()")
}

// TestMigrateDown verifies rollback of the latest migration only.
func TestMigrateDown(t *testing.T) {
	useMigrations(t, testMigrationsFS, testMigrationsDir)
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx))

	require.NoError(t, db.MigrateDown(ctx))
	assert.False(t, tableExists(t, db, "idx_test_codes_lang"), "index should have been dropped")
	assert.True(t, tableExists(t, db, "test_codes"), "table test_codes should survive a single rollback")

	require.NoError(t, db.MigrateDown(ctx), "second MigrateDown()")
	assert.False(t, tableExists(t, db, "test_codes"), "table test_codes should have been dropped")

	applied, _, err := db.GetMigrationStatus(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	// Nothing left to roll back.
	assert.NoError(t, db.MigrateDown(ctx))
}

func TestMigrateDown_UnknownVersion(t *testing.T) {
	useMigrations(t, testMigrationsFS, testMigrationsDir)
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	require.NoError(t, db.createMigrationsTable(ctx))
	_, err := db.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, applied_at) VALUES ('29990101_000000', '2999-01-01T00:00:00Z')",
	)
	require.NoError(t, err)

	assert.Error(t, db.MigrateDown(ctx), "version missing from the filesystem")
}

// TestMigrateNoMigrations verifies behaviour with no migrations.
func TestMigrateNoMigrations(t *testing.T) {
	var emptyFS embed.FS
	useMigrations(t, emptyFS, ".")

	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	assert.NoError(t, db.Migrate(context.Background()))
}

// TestGetMigrationStatus verifies status reporting before migrating.
func TestGetMigrationStatus(t *testing.T) {
	useMigrations(t, testMigrationsFS, testMigrationsDir)
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	applied, pending, err := db.GetMigrationStatus(context.Background())
	require.NoError(t, err)
	assert.Empty(t, applied)
	require.Len(t, pending, 2)
	assert.Equal(t, "create_codes", pending[0].Name)
	assert.Equal(t, "add_codes_index", pending[1].Name)
	assert.NotEmpty(t, pending[0].DownSQL)
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	useMigrations(t, testMigrationsFS, "nope")

	migrations, err := loadMigrations()
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

// TestParseMigrationFilename verifies filename parsing.
func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantVersion string
		wantIsUp    bool
		wantOk      bool
	}{
		{
			name:        "valid up migration",
			filename:    "20260301_090000_machine_master.up.sql",
			wantVersion: "20260301_090000",
			wantIsUp:    true,
			wantOk:      true,
		},
		{
			name:        "valid down migration",
			filename:    "20260301_090000_machine_master.down.sql",
			wantVersion: "20260301_090000",
			wantIsUp:    false,
			wantOk:      true,
		},
		{name: "not sql file", filename: "readme.txt", wantOk: false},
		{name: "missing direction", filename: "20260301_090000_machine_master.sql", wantOk: false},
		{name: "invalid format", filename: "invalid.up.sql", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, isUp, ok := parseMigrationFilename(tt.filename)
			require.Equal(t, tt.wantOk, ok)
			if ok {
				assert.Equal(t, tt.wantVersion, version)
				assert.Equal(t, tt.wantIsUp, isUp)
			}
		})
	}
}

// TestExtractMigrationName verifies name extraction.
func TestExtractMigrationName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"20260301_090000_machine_master.up.sql", "machine_master"},
		{"20260118_120000_initial_schema.down.sql", "initial_schema"},
		{"20260118_120000.up.sql", "20260118_120000"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, extractMigrationName(tt.filename))
		})
	}
}
