package delivery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/cadastro/internal/config"
	"github.com/smallbiznis/cadastro/internal/dispatch"
	"github.com/smallbiznis/cadastro/internal/registration/domain"
	"github.com/smallbiznis/cadastro/pkg/log/ctxlogger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	TokenCode      = "{{CODE}}"
	TokenName      = "{{NAME}}"
	TokenEmail     = "{{EMAIL}}"
	TokenIncome    = "{{INCOME}}"
	TokenStatus    = "{{STATUS}}"
	TokenCreatedAt = "{{CREATED_AT}}"
)

// Result is what the user sees after a send attempt.
type Result struct {
	OK      bool
	Message string
}

type Params struct {
	fx.In

	Config        config.Config
	Log           *zap.Logger
	Registrations domain.Service
	Dispatcher    dispatch.Dispatcher
}

type Service struct {
	log             *zap.Logger
	registrations   domain.Service
	dispatcher      dispatch.Dispatcher
	defaultTemplate string
}

func New(p Params) *Service {
	return &Service{
		log:             p.Log.Named("delivery.service"),
		registrations:   p.Registrations,
		dispatcher:      p.Dispatcher,
		defaultTemplate: p.Config.DefaultTemplate(),
	}
}

// Send opens templateName filled with the registration's fields and records
// the outcome in the delivery log. A failed dispatch is reported through
// Result, not as an error; errors are only returned when the registration
// cannot be loaded.
func (s *Service) Send(ctx context.Context, code, templateName string) (Result, error) {
	reg, err := s.registrations.GetByCode(ctx, code)
	if err != nil {
		return Result{}, err
	}

	log := ctxlogger.WithContext(ctxlogger.ContextWithSubject(ctx, reg.Code), s.log)

	templateName = strings.TrimSpace(templateName)
	if templateName == "" {
		templateName = s.defaultTemplate
	}

	result := Result{OK: true, Message: fmt.Sprintf("Template %s opened for review", templateName)}
	status := domain.DeliverySuccess

	if err := s.dispatcher.Dispatch(ctx, templateName, Placeholders(reg)); err != nil {
		result = Result{OK: false, Message: fmt.Sprintf("Failed to open template %s: %v", templateName, err)}
		status = domain.DeliveryFailure
		log.Warn("dispatch failed",
			zap.String("template", templateName),
			zap.Error(err),
		)
	}

	log.Debug("recording delivery", zap.String("template", templateName), zap.String("status", status))
	s.registrations.RecordDelivery(ctx, domain.RecordDeliveryRequest{
		Code:         reg.Code,
		TemplateName: templateName,
		Status:       status,
		Message:      result.Message,
	})

	return result, nil
}

// Placeholders maps each template token to the registration's value.
func Placeholders(reg domain.Registration) map[string]string {
	return map[string]string{
		TokenCode:      reg.Code,
		TokenName:      reg.Name,
		TokenEmail:     reg.Email,
		TokenIncome:    fmt.Sprintf("%.2f", reg.Income),
		TokenStatus:    reg.Status.String(),
		TokenCreatedAt: reg.CreatedAt.Format(time.RFC3339),
	}
}
