package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrConnection reports that the store could not be opened or migrated.
var ErrConnection = errors.New("connection_error")

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// SQLite (extended code 2067)
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func IsForeignKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	// SQLite (extended code 787)
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
