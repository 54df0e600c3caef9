package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Status is the review state of a registration. It is persisted as text.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

var statusAliases = map[string]Status{
	"pending":   StatusPending,
	"pendente":  StatusPending,
	"approved":  StatusApproved,
	"aprovado":  StatusApproved,
	"rejected":  StatusRejected,
	"rejeitado": StatusRejected,
}

// Statuses lists the accepted values in display order.
func Statuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusRejected}
}

// ParseStatus accepts the three status names case-insensitively, plus their
// Portuguese labels. An empty value means Pending.
func ParseStatus(value string) (Status, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return StatusPending, nil
	}
	if status, ok := statusAliases[value]; ok {
		return status, nil
	}
	return "", ErrInvalidStatus
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// Value stores the status as plain text.
func (s Status) Value() (driver.Value, error) {
	return string(s), nil
}

// Scan reads the stored text as is. Rows written outside this application
// may hold values other than the three known ones.
func (s *Status) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = ""
	case string:
		*s = Status(v)
	case []byte:
		*s = Status(v)
	default:
		return fmt.Errorf("unsupported status type %T", src)
	}
	return nil
}
