package migration

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "migration.sqlite")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func countObjects(t *testing.T, conn *gorm.DB, kind string) int64 {
	t.Helper()

	var count int64
	err := conn.Raw(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = ? AND name NOT LIKE 'sqlite_%'`, kind,
	).Scan(&count).Error
	if err != nil {
		t.Fatalf("failed to count %s: %v", kind, err)
	}
	return count
}

func TestApplyCreatesSchema(t *testing.T) {
	conn := openTestDB(t)

	if err := Apply(context.Background(), conn); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if got := countObjects(t, conn, "table"); got != 2 {
		t.Fatalf("expected 2 tables, got %d", got)
	}
	if got := countObjects(t, conn, "index"); got != 2 {
		t.Fatalf("expected 2 indexes, got %d", got)
	}
}

func TestApplyTwiceIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	if err := Apply(ctx, conn); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	if err := Apply(ctx, conn); err != nil {
		t.Fatalf("second apply failed: %v", err)
	}

	if got := countObjects(t, conn, "table"); got != 2 {
		t.Fatalf("expected 2 tables after re-apply, got %d", got)
	}
	if got := countObjects(t, conn, "index"); got != 2 {
		t.Fatalf("expected 2 indexes after re-apply, got %d", got)
	}
}

func TestApplyDefaults(t *testing.T) {
	conn := openTestDB(t)
	if err := Apply(context.Background(), conn); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if err := conn.Exec(`INSERT INTO registrations (code, name) VALUES ('AC-0001', 'Ana')`).Error; err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	var row struct {
		Income float64
		Status string
	}
	if err := conn.Raw(`SELECT income, status FROM registrations WHERE code = 'AC-0001'`).Scan(&row).Error; err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if row.Income != 0 {
		t.Fatalf("expected default income 0, got %v", row.Income)
	}
	if row.Status != "Pending" {
		t.Fatalf("expected default status Pending, got %q", row.Status)
	}
}

func TestApplyStopsAtFirstFailure(t *testing.T) {
	conn := openTestDB(t)

	// CREATE TABLE IF NOT EXISTS skips over a view of the same name, so the
	// index on registrations(code) is the first statement to fail.
	if err := conn.Exec(`CREATE VIEW registrations AS SELECT 1 AS code`).Error; err != nil {
		t.Fatalf("failed to create blocking view: %v", err)
	}

	err := Apply(context.Background(), conn)
	if err == nil {
		t.Fatal("expected apply to fail")
	}
	if !strings.Contains(err.Error(), "apply migration 3") {
		t.Fatalf("expected failure on statement 3, got %v", err)
	}

	// delivery_log was created before the failure and is kept.
	if got := countObjects(t, conn, "table"); got != 1 {
		t.Fatalf("expected 1 table after aborted apply, got %d", got)
	}
	if got := countObjects(t, conn, "index"); got != 0 {
		t.Fatalf("expected no indexes after aborted apply, got %d", got)
	}
}

func TestApplyRequiresHandle(t *testing.T) {
	if err := Apply(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil handle")
	}
}

func TestStatementsReturnsCopy(t *testing.T) {
	list := Statements()
	if len(list) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(list))
	}
	list[0] = "DROP TABLE registrations"
	if Statements()[0] == list[0] {
		t.Fatal("expected Statements to return a copy")
	}
}
