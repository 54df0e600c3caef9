package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/smallbiznis/cadastro/internal/registration/domain"
	"github.com/smallbiznis/cadastro/internal/registration/sequence"
	"github.com/smallbiznis/cadastro/pkg/db"
	"github.com/smallbiznis/cadastro/pkg/log/ctxlogger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	DB   *db.Manager
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db    *db.Manager
	log   *zap.Logger
	repo  domain.Repository
	codes *sequence.Generator
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("registration.service"),
		repo:  p.Repo,
		codes: sequence.NewGenerator(p.Repo),
	}
}

// Create generates the next code and inserts the registration in one
// transaction, then reads the row back so the caller gets the stored values,
// created_at included. A failed readback is reported even though the row was
// committed.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Registration, error) {
	log := ctxlogger.WithContext(ctx, s.log)

	conn := s.db.Conn()
	if conn == nil {
		log.Error("database connection is not open")
		return domain.Registration{}, domain.ErrConnectionInvalid
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Registration{}, domain.ErrInvalidName
	}

	if math.IsNaN(req.Income) || math.IsInf(req.Income, 0) || req.Income < 0 {
		return domain.Registration{}, domain.ErrInvalidIncome
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return domain.Registration{}, err
	}

	tx := conn.WithContext(ctx).Begin()
	if tx.Error != nil {
		log.Error("failed to begin transaction", zap.Error(tx.Error))
		return domain.Registration{}, fmt.Errorf("%w: %w", domain.ErrInsertFailed, tx.Error)
	}

	code, err := s.codes.Next(ctx, tx)
	if err != nil {
		tx.Rollback()
		log.Error("failed to generate registration code", zap.Error(err))
		return domain.Registration{}, fmt.Errorf("%w: %w", domain.ErrInsertFailed, err)
	}

	registration := domain.Registration{
		Code:   code,
		Name:   name,
		Email:  strings.TrimSpace(req.Email),
		Income: req.Income,
		Status: status,
		Notes:  strings.TrimSpace(req.Notes),
	}

	if err := s.repo.Insert(ctx, tx, &registration); err != nil {
		tx.Rollback()
		log.Error("failed to save registration",
			zap.String("code", code),
			zap.Bool("duplicate_code", db.IsDuplicateKeyErr(err)),
			zap.Error(err),
		)
		return domain.Registration{}, fmt.Errorf("%w: %w", domain.ErrInsertFailed, err)
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		log.Error("failed to commit registration", zap.String("code", code), zap.Error(err))
		return domain.Registration{}, fmt.Errorf("%w: %w", domain.ErrCommitFailed, err)
	}

	created, err := s.repo.FindByID(ctx, conn, registration.ID)
	if err != nil {
		log.Error("failed to read back registration",
			zap.Int64("id", registration.ID),
			zap.String("code", code),
			zap.Error(err),
		)
		return domain.Registration{}, fmt.Errorf("%w: %w", domain.ErrReadbackFailed, err)
	}
	if created == nil {
		log.Error("registration vanished after commit",
			zap.Int64("id", registration.ID),
			zap.String("code", code),
		)
		return domain.Registration{}, domain.ErrReadbackFailed
	}

	log.Info("registration created", zap.Int64("id", created.ID), zap.String("code", created.Code))
	return *created, nil
}

// List returns registrations newest first, optionally narrowed to those whose
// code, name or email contains filter. Failures yield an empty list.
func (s *Service) List(ctx context.Context, filter string) []domain.Registration {
	conn := s.db.Conn()
	if conn == nil {
		s.log.Error("database connection is not open")
		return []domain.Registration{}
	}

	items, err := s.repo.List(ctx, conn, domain.ListFilter{Text: strings.TrimSpace(filter)})
	if err != nil {
		s.log.Error("failed to list registrations", zap.String("filter", filter), zap.Error(err))
		return []domain.Registration{}
	}

	return items
}

func (s *Service) GetByCode(ctx context.Context, code string) (domain.Registration, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Registration{}, domain.ErrInvalidCode
	}

	conn := s.db.Conn()
	if conn == nil {
		s.log.Error("database connection is not open")
		return domain.Registration{}, domain.ErrConnectionInvalid
	}

	item, err := s.repo.FindByCode(ctx, conn, code)
	if err != nil {
		s.log.Error("failed to load registration", zap.String("code", code), zap.Error(err))
		return domain.Registration{}, err
	}
	if item == nil {
		return domain.Registration{}, domain.ErrNotFound
	}

	return *item, nil
}

// RecordDelivery appends a delivery log entry. It does not check that the
// code exists and never fails the caller: errors are logged and dropped.
func (s *Service) RecordDelivery(ctx context.Context, req domain.RecordDeliveryRequest) {
	conn := s.db.Conn()
	if conn == nil {
		s.log.Error("database connection is not open; delivery not recorded", zap.String("code", req.Code))
		return
	}

	entry := domain.DeliveryLog{
		OwningCode:     req.Code,
		TemplateName:   req.TemplateName,
		DeliveryStatus: req.Status,
		Message:        req.Message,
	}

	if err := s.repo.InsertLog(ctx, conn, &entry); err != nil {
		s.log.Error("failed to record delivery",
			zap.String("code", req.Code),
			zap.String("template", req.TemplateName),
			zap.Bool("unknown_code", db.IsForeignKeyErr(err)),
			zap.Error(err),
		)
	}
}

func (s *Service) ListDeliveryLogs(ctx context.Context, code string) []domain.DeliveryLog {
	conn := s.db.Conn()
	if conn == nil {
		s.log.Error("database connection is not open")
		return []domain.DeliveryLog{}
	}

	logs, err := s.repo.ListLogs(ctx, conn, code)
	if err != nil {
		s.log.Error("failed to list delivery logs", zap.String("code", code), zap.Error(err))
		return []domain.DeliveryLog{}
	}

	return logs
}
