package migration

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// The schema is forward-only and additive: every statement is idempotent, so
// re-applying the whole list on each fresh open is safe.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS registrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		email TEXT,
		income REAL DEFAULT 0,
		status TEXT DEFAULT 'Pending',
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS delivery_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owning_code TEXT NOT NULL,
		template_name TEXT NOT NULL,
		delivery_status TEXT NOT NULL,
		message TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(owning_code) REFERENCES registrations(code) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_registrations_code ON registrations(code)`,
	`CREATE INDEX IF NOT EXISTS idx_delivery_log_owning_code ON delivery_log(owning_code)`,
}

// Statements returns the ordered schema DDL.
func Statements() []string {
	out := make([]string, len(statements))
	copy(out, statements)
	return out
}

// Apply runs each statement on its own, in order. The first failure stops the
// run; statements already applied are kept.
func Apply(ctx context.Context, conn *gorm.DB) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	for i, ddl := range statements {
		if err := conn.WithContext(ctx).Exec(ddl).Error; err != nil {
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
	}

	return nil
}
