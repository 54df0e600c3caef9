package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smallbiznis/cadastro/internal/config"
	"github.com/smallbiznis/cadastro/internal/dispatch"
	"github.com/smallbiznis/cadastro/internal/registration/domain"
	"github.com/smallbiznis/cadastro/internal/registration/repository"
	regservice "github.com/smallbiznis/cadastro/internal/registration/service"
	"github.com/smallbiznis/cadastro/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Dispatch(ctx context.Context, templateName string, placeholders map[string]string) error {
	args := m.Called(ctx, templateName, placeholders)
	return args.Error(0)
}

func newTestDelivery(t *testing.T, d dispatch.Dispatcher) (*Service, domain.Service) {
	t.Helper()

	manager := db.NewTest(t)
	registrations := regservice.New(regservice.Params{
		DB:   manager,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})

	svc := New(Params{
		Config:        config.Config{},
		Log:           zap.NewNop(),
		Registrations: registrations,
		Dispatcher:    d,
	})
	return svc, registrations
}

func TestSendRecordsSuccess(t *testing.T) {
	d := new(mockDispatcher)
	svc, registrations := newTestDelivery(t, d)
	ctx := context.Background()

	reg, err := registrations.Create(ctx, domain.CreateRequest{Name: "Ana", Email: "ana@x.com", Income: 1500.5})
	require.NoError(t, err)

	d.On("Dispatch", mock.Anything, "welcome.oft", Placeholders(reg)).Return(nil).Once()

	result, err := svc.Send(ctx, reg.Code, "welcome.oft")
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Contains(t, result.Message, "welcome.oft")
	d.AssertExpectations(t)

	logs := registrations.ListDeliveryLogs(ctx, reg.Code)
	require.Len(t, logs, 1)
	assert.Equal(t, reg.Code, logs[0].OwningCode)
	assert.Equal(t, "welcome.oft", logs[0].TemplateName)
	assert.Equal(t, domain.DeliverySuccess, logs[0].DeliveryStatus)
	assert.Equal(t, result.Message, logs[0].Message)
}

func TestSendRecordsFailure(t *testing.T) {
	d := new(mockDispatcher)
	svc, registrations := newTestDelivery(t, d)
	ctx := context.Background()

	reg, err := registrations.Create(ctx, domain.CreateRequest{Name: "Bruno"})
	require.NoError(t, err)

	d.On("Dispatch", mock.Anything, "registration_default.oft", mock.Anything).
		Return(dispatch.ErrPlatformUnavailable).Once()

	result, err := svc.Send(ctx, reg.Code, "   ")
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "platform_unavailable")

	logs := registrations.ListDeliveryLogs(ctx, reg.Code)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.DeliveryFailure, logs[0].DeliveryStatus)
	assert.Equal(t, "registration_default.oft", logs[0].TemplateName)
}

func TestSendUnknownCode(t *testing.T) {
	d := new(mockDispatcher)
	svc, registrations := newTestDelivery(t, d)

	_, err := svc.Send(context.Background(), "AC-9999", "welcome.oft")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	d.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, registrations.ListDeliveryLogs(context.Background(), "AC-9999"))
}

func TestSendWithFileDispatcherMissingTemplate(t *testing.T) {
	d := dispatch.NewFile(t.TempDir(), t.TempDir(), zap.NewNop())
	svc, registrations := newTestDelivery(t, d)
	ctx := context.Background()

	reg, err := registrations.Create(ctx, domain.CreateRequest{Name: "Carla"})
	require.NoError(t, err)

	result, err := svc.Send(ctx, reg.Code, "missing.html")
	require.NoError(t, err)
	assert.False(t, result.OK)

	logs := registrations.ListDeliveryLogs(ctx, reg.Code)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.DeliveryFailure, logs[0].DeliveryStatus)
}

func TestPlaceholders(t *testing.T) {
	created := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	got := Placeholders(domain.Registration{
		Code:      "AC-0007",
		Name:      "Ana",
		Email:     "ana@x.com",
		Income:    1234.5,
		Status:    domain.StatusApproved,
		CreatedAt: created,
	})

	assert.Equal(t, map[string]string{
		"{{CODE}}":       "AC-0007",
		"{{NAME}}":       "Ana",
		"{{EMAIL}}":      "ana@x.com",
		"{{INCOME}}":     "1234.50",
		"{{STATUS}}":     "Approved",
		"{{CREATED_AT}}": "2024-03-09T14:05:00Z",
	}, got)
}
