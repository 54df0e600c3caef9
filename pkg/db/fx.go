package db

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the Manager and ties the connection to the application
// lifecycle: opened on start, closed on stop.
var Module = fx.Module("db",
	fx.Provide(NewManager),
	fx.Invoke(registerHooks),
)

func registerHooks(lc fx.Lifecycle, m *Manager) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return m.Open(ctx)
		},
		OnStop: func(ctx context.Context) error {
			_ = ctx
			return m.Close()
		},
	})
}
