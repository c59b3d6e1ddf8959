package export

import (
	"github.com/smallbiznis/billium/internal/config"
	"github.com/smallbiznis/billium/internal/invoice/render"
	"github.com/smallbiznis/billium/internal/providers/pdf"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("export.pipeline",
	fx.Provide(NewNode),
	fx.Provide(func(r *render.Rasterizer) Rasterizer { return r }),
	fx.Provide(func(p pdf.Provider) Encoder { return p }),
	fx.Provide(func(cfg config.Config, log *zap.Logger) Sink { return NewFileSink(cfg.ExportDir, log) }),
	fx.Provide(NewPipeline),
)
