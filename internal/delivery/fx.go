package delivery

import "go.uber.org/fx"

var Module = fx.Module("delivery.service",
	fx.Provide(New),
)
