package invoice

import (
	"github.com/smallbiznis/billium/internal/invoice/domain"
	"github.com/smallbiznis/billium/internal/invoice/format"
	"github.com/smallbiznis/billium/internal/invoice/render"
	"github.com/smallbiznis/billium/internal/invoice/repository"
	"github.com/smallbiznis/billium/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(func() *format.NumberGenerator { return format.NewNumberGenerator(nil) }),
	fx.Provide(repository.NewStore),
	fx.Provide(repository.NewAdapter),
	fx.Provide(func(a *repository.Adapter) domain.Repository { return a }),
	fx.Provide(service.NewService),
	fx.Provide(func(s *service.Service) domain.Source { return s }),
	fx.Provide(render.NewHTMLRenderer),
	fx.Provide(render.NewRasterizer),
)
