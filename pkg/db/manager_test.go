package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewManagerResolvesPathAndCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(TestConfig(dir), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data", "cadastro_test.sqlite"), m.Path())
	assert.DirExists(t, filepath.Join(dir, "data"))
	assert.DirExists(t, filepath.Join(dir, "resources", "oft"))
	assert.False(t, m.IsOpen())
	assert.Nil(t, m.Conn())
}

func TestOpenCreatesFileAndSchema(t *testing.T) {
	m := NewTest(t)

	assert.FileExists(t, m.Path())

	var tables []string
	err := m.Conn().Raw(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('registrations', 'delivery_log') ORDER BY name`,
	).Scan(&tables).Error
	require.NoError(t, err)
	assert.Equal(t, []string{"delivery_log", "registrations"}, tables)
}

func TestOpenIsIdempotent(t *testing.T) {
	m := NewTest(t)
	first := m.Conn()

	require.NoError(t, m.Open(context.Background()))
	assert.Same(t, first, m.Conn())
}

func TestCloseIsIdempotent(t *testing.T) {
	m := NewTest(t)

	require.NoError(t, m.Close())
	assert.False(t, m.IsOpen())
	require.NoError(t, m.Close())
}

func TestReopenKeepsData(t *testing.T) {
	m := NewTest(t)
	ctx := context.Background()

	err := m.Conn().Exec(`INSERT INTO registrations (code, name) VALUES (?, ?)`, "AC-0001", "Ana").Error
	require.NoError(t, err)
	require.NoError(t, m.Close())
	require.NoError(t, m.Open(ctx))

	var count int64
	require.NoError(t, m.Conn().Raw(`SELECT COUNT(*) FROM registrations`).Scan(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMigrateOnClosedManagerFails(t *testing.T) {
	m, err := NewManager(TestConfig(t.TempDir()), zap.NewNop())
	require.NoError(t, err)

	err = m.Migrate(context.Background())
	assert.True(t, errors.Is(err, ErrConnection), "expected ErrConnection, got %v", err)
}

func TestOpenFailureReturnsConnectionError(t *testing.T) {
	dir := t.TempDir()
	cfg := TestConfig(dir)
	// A directory cannot be opened as a database file.
	cfg.Database.Path = filepath.Join(dir, "not-a-file")
	require.NoError(t, os.MkdirAll(cfg.Database.Path, 0o755))

	m, err := NewManager(cfg, zap.NewNop())
	require.NoError(t, err)

	err = m.Open(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnection)
	assert.False(t, m.IsOpen())
}

func TestOpenUnsupportedDriver(t *testing.T) {
	cfg := TestConfig(t.TempDir())
	cfg.Database.Driver = "postgres"

	m, err := NewManager(cfg, zap.NewNop())
	require.NoError(t, err)

	assert.ErrorIs(t, m.Open(context.Background()), ErrConnection)
}

func TestIsDuplicateKeyErr(t *testing.T) {
	m := NewTest(t)

	insert := `INSERT INTO registrations (code, name) VALUES (?, ?)`
	require.NoError(t, m.Conn().Exec(insert, "AC-0001", "Ana").Error)
	err := m.Conn().Exec(insert, "AC-0001", "Bruno").Error

	assert.True(t, IsDuplicateKeyErr(err))
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.False(t, IsDuplicateKeyErr(errors.New("boom")))
}

func TestIsForeignKeyErr(t *testing.T) {
	m := NewTest(t)

	err := m.Conn().Exec(
		`INSERT INTO delivery_log (owning_code, template_name, delivery_status) VALUES (?, ?, ?)`,
		"AC-9999", "welcome.oft", "Success",
	).Error

	assert.True(t, IsForeignKeyErr(err))
	assert.False(t, IsForeignKeyErr(nil))
}
