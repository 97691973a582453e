package main

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/masterdata-core/internal/infrastructure/config"
	"github.com/nerrad567/masterdata-core/internal/infrastructure/logging"
)

// writeConfig writes a minimal config.yaml into a temp dir and returns its path.
func writeConfig(t *testing.T, database string, port int) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := fmt.Sprintf(`
service:
  id: test-service

database:
%s

logging:
  level: error
  format: text
  output: stderr

api:
  host: "127.0.0.1"
  port: %d
`, database, port)

	require.NoError(t, os.WriteFile(path, []byte(content), 0600), "failed to write test config")
	return path
}

func sqliteSection(t *testing.T) string {
	return fmt.Sprintf("  driver: sqlite\n  path: %q\n  wal_mode: true\n  busy_timeout: 5", filepath.Join(t.TempDir(), "md.db"))
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv(configEnvVar, "")

	assert.Equal(t, defaultConfigPath, getConfigPath())
}

func TestGetConfigPath_EnvOverride(t *testing.T) {
	expected := "/custom/path/config.yaml"
	t.Setenv(configEnvVar, expected)

	assert.Equal(t, expected, getConfigPath())
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCommand()

	for _, path := range [][]string{{"serve"}, {"migrate"}, {"migrate", "up"}, {"migrate", "down"}, {"migrate", "status"}} {
		sub, _, err := cmd.Find(path)
		if assert.NoError(t, err, "subcommand %v", path) {
			assert.Equal(t, path[len(path)-1], sub.Name())
		}
	}
}

func TestMigrate_Lifecycle(t *testing.T) {
	cfgPath := writeConfig(t, sqliteSection(t), 8080)

	out, err := execute(t, "--config", cfgPath, "migrate", "status")
	require.NoError(t, err, "migrate status")
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "machine_master")

	out, err = execute(t, "--config", cfgPath, "migrate", "up")
	require.NoError(t, err, "migrate up")
	assert.Contains(t, out, "migrations applied")

	out, err = execute(t, "--config", cfgPath, "migrate", "status")
	require.NoError(t, err, "migrate status")
	assert.Contains(t, out, "applied")
	assert.NotContains(t, out, "pending")

	out, err = execute(t, "--config", cfgPath, "migrate", "down")
	require.NoError(t, err, "migrate down")
	assert.Contains(t, out, "rolled back")
}

func TestMigrate_RequiresSQLite(t *testing.T) {
	cfgPath := writeConfig(t, "  driver: memory", 8080)

	_, err := execute(t, "--config", cfgPath, "migrate", "up")
	assert.Error(t, err, "migrate up with the memory driver")
}

func TestServe_InvalidConfig(t *testing.T) {
	_, err := execute(t, "--config", "/nonexistent/path/config.yaml", "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestOpenStore(t *testing.T) {
	log := logging.NewWithWriter(config.LoggingConfig{Level: "error"}, "test", &bytes.Buffer{})

	tests := []struct {
		name       string
		cfg        config.DatabaseConfig
		wantHealth bool
		wantErr    bool
	}{
		{
			name:       "sqlite",
			cfg:        config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "md.db"), BusyTimeout: 5},
			wantHealth: true,
		},
		{name: "badger in memory", cfg: config.DatabaseConfig{Driver: config.DriverBadger}},
		{name: "memory", cfg: config.DatabaseConfig{Driver: config.DriverMemory}},
		{name: "unknown", cfg: config.DatabaseConfig{Driver: "postgres"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := openStore(context.Background(), tt.cfg, log)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer store.close()

			assert.Equal(t, tt.wantHealth, store.health != nil, "health checker present")

			// Freshly opened stores hold no machines.
			rows, err := store.records.FindAllActive(context.Background())
			assert.NoError(t, err)
			assert.Empty(t, rows)
		})
	}
}

func TestRunServe_MemoryDriver(t *testing.T) {
	port := freePort(t)
	cfgPath := writeConfig(t, "  driver: memory", port)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, cfgPath) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/api/v1/health", port)
	deadline := time.Now().Add(5 * time.Second)
	var status int
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			status = resp.StatusCode
			resp.Body.Close()
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	assert.Equal(t, http.StatusOK, status, "health status")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err, "runServe() on shutdown")
	case <-time.After(15 * time.Second):
		t.Fatal("runServe() did not return after cancel")
	}
}
