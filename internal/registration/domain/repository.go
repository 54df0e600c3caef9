package domain

import (
	"context"

	"gorm.io/gorm"
)

// Repository holds the SQL for registrations and delivery logs. It keeps no
// state; every call runs on the handle it is given, which may be a transaction.
type Repository interface {
	LastCode(ctx context.Context, db *gorm.DB) (string, bool, error)
	Insert(ctx context.Context, db *gorm.DB, registration *Registration) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Registration, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Registration, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Registration, error)
	InsertLog(ctx context.Context, db *gorm.DB, entry *DeliveryLog) error
	ListLogs(ctx context.Context, db *gorm.DB, code string) ([]DeliveryLog, error)
}

type ListFilter struct {
	Text string
}
