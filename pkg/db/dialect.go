package db

import (
	"fmt"

	glebarez "github.com/glebarez/sqlite"
	"github.com/smallbiznis/cadastro/internal/config"
	cgosqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Dialect picks the SQLite driver for the database file at path.
func Dialect(driver, path string) (gorm.Dialector, error) {
	switch driver {
	case "", config.DriverSQLite:
		return glebarez.Open(path), nil
	case config.DriverSQLiteCGO:
		return cgosqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("unsupported %s type", driver)
	}
}
