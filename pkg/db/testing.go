package db

import (
	"context"
	"testing"

	"github.com/smallbiznis/cadastro/internal/config"
	"go.uber.org/zap"
)

// TestConfig returns a Config rooted at dir.
func TestConfig(dir string) config.Config {
	return config.Config{
		AppName: "cadastro",
		AppDir:  dir,
		Database: config.DatabaseConfig{
			Driver:      config.DriverSQLite,
			Filename:    "cadastro_test.sqlite",
			ForeignKeys: true,
		},
		Logger: config.LoggerConfig{Level: "error"},
	}
}

// NewTest returns an open Manager on a fresh database file under t.TempDir().
// The connection is closed when the test ends.
func NewTest(t testing.TB) *Manager {
	t.Helper()

	m, err := NewManager(TestConfig(t.TempDir()), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create db manager: %v", err)
	}
	if err := m.Open(context.Background()); err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}
