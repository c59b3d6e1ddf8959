package invoicetemplate

import (
	templatedomain "github.com/smallbiznis/billium/internal/invoicetemplate/domain"
	"github.com/smallbiznis/billium/internal/invoicetemplate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoicetemplate.service",
	fx.Provide(service.NewService),
	fx.Provide(func(s *service.Service) templatedomain.Registry { return s }),
)
