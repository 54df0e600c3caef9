package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/cadastro/internal/registration/domain"
	"gorm.io/gorm"
)

const registrationColumns = `id, code, name, email, income, status, notes, created_at`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// LastCode returns the code of the most recently inserted registration, by
// insertion order rather than by code.
func (r *repo) LastCode(ctx context.Context, db *gorm.DB) (string, bool, error) {
	var codes []string
	err := db.WithContext(ctx).Raw(
		`SELECT code FROM registrations ORDER BY id DESC LIMIT 1`,
	).Scan(&codes).Error
	if err != nil {
		return "", false, err
	}
	if len(codes) == 0 {
		return "", false, nil
	}
	return codes[0], true, nil
}

// Insert writes the row and fills in the store-assigned id. created_at is
// left to the column default.
func (r *repo) Insert(ctx context.Context, db *gorm.DB, registration *domain.Registration) error {
	return db.WithContext(ctx).
		Select("code", "name", "email", "income", "status", "notes").
		Create(registration).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Registration, error) {
	var registration domain.Registration
	err := db.WithContext(ctx).
		Select(registrationColumns).
		Where("id = ?", id).
		Take(&registration).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &registration, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Registration, error) {
	var registration domain.Registration
	err := db.WithContext(ctx).
		Select(registrationColumns).
		Where("code = ?", code).
		Take(&registration).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &registration, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Registration, error) {
	registrations := []domain.Registration{}
	stmt := db.WithContext(ctx).
		Model(&domain.Registration{}).
		Select(registrationColumns)

	if text := strings.TrimSpace(filter.Text); text != "" {
		pattern := "%" + text + "%"
		stmt = stmt.Where("code LIKE ? OR name LIKE ? OR email LIKE ?", pattern, pattern, pattern)
	}

	err := stmt.
		Order("created_at DESC, id DESC").
		Find(&registrations).Error
	if err != nil {
		return nil, err
	}
	return registrations, nil
}

func (r *repo) InsertLog(ctx context.Context, db *gorm.DB, entry *domain.DeliveryLog) error {
	return db.WithContext(ctx).
		Select("owning_code", "template_name", "delivery_status", "message").
		Create(entry).Error
}

func (r *repo) ListLogs(ctx context.Context, db *gorm.DB, code string) ([]domain.DeliveryLog, error) {
	logs := []domain.DeliveryLog{}
	err := db.WithContext(ctx).
		Model(&domain.DeliveryLog{}).
		Select("id, owning_code, template_name, delivery_status, message, created_at").
		Where("owning_code = ?", code).
		Order("created_at DESC, id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
