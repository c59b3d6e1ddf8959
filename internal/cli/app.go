package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/smallbiznis/billium/internal/clock"
	"github.com/smallbiznis/billium/internal/config"
	"github.com/smallbiznis/billium/internal/export"
	"github.com/smallbiznis/billium/internal/invoice"
	"github.com/smallbiznis/billium/internal/invoice/render"
	invoiceservice "github.com/smallbiznis/billium/internal/invoice/service"
	"github.com/smallbiznis/billium/internal/invoicetemplate"
	templatedomain "github.com/smallbiznis/billium/internal/invoicetemplate/domain"
	"github.com/smallbiznis/billium/internal/observability"
	"github.com/smallbiznis/billium/internal/providers"
)

// Deps are the components a command works with.
type Deps struct {
	fx.In

	Cfg       config.Config
	Invoices  *invoiceservice.Service
	Templates templatedomain.Registry
	HTML      *render.HTMLRenderer
	Exports   *export.Pipeline
	Log       *zap.Logger
}

// Modules is the application graph shared by every command.
func Modules() fx.Option {
	return fx.Options(
		config.Module,
		observability.Module,
		clock.Module,
		invoicetemplate.Module,
		invoice.Module,
		providers.Module,
		export.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: log.Named("fx")}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
	)
}

// run starts the graph, restores the persisted document and hands the
// components to fn. The graph is stopped when fn returns.
func run(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, d Deps) error) error {
	var deps Deps
	app := fx.New(
		Modules(),
		fx.Decorate(opts.apply),
		fx.Options(opts.extra...),
		fx.Invoke(func(d Deps) { deps = d }),
	)
	if err := app.Err(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
		defer cancel()
		if err := app.Stop(stopCtx); err != nil {
			deps.Log.Warn("shutdown incomplete", zap.Error(err))
		}
	}()

	deps.Invoices.OnPersistError(func(operation string, err error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s was not persisted: %v\n", operation, err)
	})
	if deps.Invoices.Open(ctx) {
		deps.Log.Debug("document restored")
	}
	return fn(ctx, deps)
}
