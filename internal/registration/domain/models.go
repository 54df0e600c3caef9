package domain

import "time"

// Registration is one client record. ID, Code and CreatedAt are assigned on
// creation and never change.
type Registration struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Code      string    `gorm:"column:code;not null" json:"code"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Email     string    `gorm:"column:email" json:"email,omitempty"`
	Income    float64   `gorm:"column:income" json:"income"`
	Status    Status    `gorm:"column:status" json:"status"`
	Notes     string    `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;->" json:"created_at"`
}

func (Registration) TableName() string {
	return "registrations"
}

// DeliveryLog records one attempt to prepare a template email for a
// registration. Entries are append-only.
type DeliveryLog struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OwningCode     string    `gorm:"column:owning_code;not null" json:"owning_code"`
	TemplateName   string    `gorm:"column:template_name;not null" json:"template_name"`
	DeliveryStatus string    `gorm:"column:delivery_status;not null" json:"delivery_status"`
	Message        string    `gorm:"column:message" json:"message,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;->" json:"created_at"`
}

func (DeliveryLog) TableName() string {
	return "delivery_log"
}

const (
	DeliverySuccess = "Success"
	DeliveryFailure = "Failure"
)
