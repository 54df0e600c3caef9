package db

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/smallbiznis/cadastro/internal/config"
	"github.com/smallbiznis/cadastro/internal/migration"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Manager owns the single connection to the database file. It is built once
// per process and handed to everything that talks to the store.
type Manager struct {
	mu          sync.Mutex
	log         *zap.Logger
	driver      string
	path        string
	templateDir string
	foreignKeys bool
	gormCfg     GormLoggerConfig
	conn        *gorm.DB
}

// NewManager resolves the database location and makes sure the data and
// template directories exist. It does not open the database.
func NewManager(cfg config.Config, log *zap.Logger) (*Manager, error) {
	if log == nil {
		log = zap.NewNop()
	}

	m := &Manager{
		log:         log.Named("db.manager"),
		driver:      cfg.Database.Driver,
		path:        cfg.DatabasePath(),
		templateDir: cfg.TemplateDir(),
		foreignKeys: cfg.Database.ForeignKeys,
		gormCfg:     DefaultGormLoggerConfig(),
	}
	if cfg.Database.SlowThreshold > 0 {
		m.gormCfg.SlowThreshold = cfg.Database.SlowThreshold
	}
	if cfg.Debug() {
		m.gormCfg.Level = gormlogger.Info
	}

	for _, dir := range []string{cfg.DataDir(), m.templateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return m, nil
}

// Open opens the database file, creating it when absent, and applies the
// schema on a fresh open. Calling Open on an open Manager is a no-op.
func (m *Manager) Open(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil {
		return nil
	}

	dialector, err := Dialect(m.driver, m.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 NewGormLogger(m.log, m.gormCfg),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		m.log.Error("failed to open database", zap.String("path", m.path), zap.Error(err))
		return fmt.Errorf("%w: open %s: %v", ErrConnection, m.path, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		m.log.Error("failed to access database handle", zap.String("path", m.path), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		m.log.Error("failed to open database", zap.String("path", m.path), zap.Error(err))
		return fmt.Errorf("%w: open %s: %v", ErrConnection, m.path, err)
	}

	if m.foreignKeys {
		if err := conn.WithContext(ctx).Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			_ = sqlDB.Close()
			m.log.Error("failed to enable foreign keys", zap.Error(err))
			return fmt.Errorf("%w: %v", ErrConnection, err)
		}
	}

	if err := migration.Apply(ctx, conn); err != nil {
		_ = sqlDB.Close()
		m.log.Error("failed to apply initial migrations", zap.String("path", m.path), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	m.conn = conn
	m.log.Debug("database opened", zap.String("path", m.path), zap.String("driver", m.driver))
	return nil
}

// Migrate re-applies the schema on the open connection.
func (m *Manager) Migrate(ctx context.Context) error {
	conn := m.Conn()
	if conn == nil {
		return fmt.Errorf("%w: database is not open", ErrConnection)
	}
	if err := migration.Apply(ctx, conn); err != nil {
		m.log.Error("failed to apply migrations", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Close closes the connection. Closing a closed Manager is a no-op.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return nil
	}

	sqlDB, err := m.conn.DB()
	m.conn = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Path is the absolute path of the database file.
func (m *Manager) Path() string {
	return m.path
}

// TemplateDir is the directory created next to the data directory for templates.
func (m *Manager) TemplateDir() string {
	return m.templateDir
}

// Conn returns the live handle, or nil when the database is not open.
func (m *Manager) Conn() *gorm.DB {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn
}

func (m *Manager) IsOpen() bool {
	return m.Conn() != nil
}
