package domain

import (
	"context"
	"errors"
)

type CreateRequest struct {
	Name   string
	Email  string
	Income float64
	Status string
	Notes  string
}

type RecordDeliveryRequest struct {
	Code         string
	TemplateName string
	Status       string
	Message      string
}

// Service is the read/write boundary for registrations and their delivery
// logs. Storage failures never escape as panics: Create reports which step
// failed, the listing calls degrade to empty results and RecordDelivery only
// logs.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (Registration, error)
	List(ctx context.Context, filter string) []Registration
	GetByCode(ctx context.Context, code string) (Registration, error)
	RecordDelivery(ctx context.Context, req RecordDeliveryRequest)
	ListDeliveryLogs(ctx context.Context, code string) []DeliveryLog
}

var (
	ErrConnectionInvalid = errors.New("connection_invalid")
	ErrInsertFailed      = errors.New("insert_failed")
	ErrCommitFailed      = errors.New("commit_failed")
	ErrReadbackFailed    = errors.New("readback_failed")

	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidIncome = errors.New("invalid_income")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrInvalidCode   = errors.New("invalid_code")
	ErrNotFound      = errors.New("not_found")
)

// IsPersistenceError reports whether err comes from a failed step of the
// create protocol.
func IsPersistenceError(err error) bool {
	return errors.Is(err, ErrConnectionInvalid) ||
		errors.Is(err, ErrInsertFailed) ||
		errors.Is(err, ErrCommitFailed) ||
		errors.Is(err, ErrReadbackFailed)
}
