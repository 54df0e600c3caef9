package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/smallbiznis/cadastro/internal/config"
	"github.com/smallbiznis/cadastro/internal/delivery"
	"github.com/smallbiznis/cadastro/internal/dispatch"
	"github.com/smallbiznis/cadastro/internal/logger"
	"github.com/smallbiznis/cadastro/internal/registration"
	"github.com/smallbiznis/cadastro/internal/registration/domain"
	"github.com/smallbiznis/cadastro/pkg/db"
	"github.com/smallbiznis/cadastro/pkg/log/ctxlogger"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type env struct {
	fx.In

	Config        config.Config
	Log           *zap.Logger
	DB            *db.Manager
	Registrations domain.Service
	Delivery      *delivery.Service
}

func (o *options) load() (config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return config.Config{}, err
	}
	if o.debug {
		cfg.Logger.Level = "debug"
	}
	return cfg, nil
}

// run starts the application, hands the wired services to fn and stops the
// application afterwards. A start failure means the database could not be
// opened.
func (o *options) run(cmd *cobra.Command, fn func(ctx context.Context, e env) error) (err error) {
	cfg, err := o.load()
	if err != nil {
		return err
	}

	var e env
	app := fx.New(
		fx.Supply(cfg),
		logger.Module,
		db.Module,
		registration.Module,
		dispatch.Module,
		delivery.Module,
		fx.WithLogger(logger.EventLogger),
		fx.Invoke(func(in env) { e = in }),
	)
	if err := app.Err(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = ctxlogger.ContextWithOperationID(ctx, uuid.NewString())

	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
		defer cancel()
		if stopErr := app.Stop(stopCtx); stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	return fn(ctx, e)
}
