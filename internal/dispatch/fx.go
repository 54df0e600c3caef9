package dispatch

import (
	"fmt"
	"runtime"

	"github.com/smallbiznis/cadastro/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("dispatch",
	fx.Provide(New),
)

// New picks the dispatcher named by dispatch.driver. An empty driver means
// Outlook on Windows and the file outbox everywhere else.
func New(cfg config.Config, log *zap.Logger) (Dispatcher, error) {
	driver := cfg.Dispatch.Driver
	if driver == "" {
		driver = config.DispatchFile
		if runtime.GOOS == "windows" {
			driver = config.DispatchOutlook
		}
	}

	switch driver {
	case config.DispatchOutlook:
		return NewOutlook(cfg.TemplateDir(), log), nil
	case config.DispatchFile:
		return NewFile(cfg.TemplateDir(), cfg.OutboxDir(), log), nil
	case config.DispatchNoop:
		return NoopDispatcher{}, nil
	default:
		return nil, fmt.Errorf("unsupported dispatch driver %q", driver)
	}
}
