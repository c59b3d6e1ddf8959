package export

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/billium/internal/clock"
	"github.com/smallbiznis/billium/internal/config"
	"github.com/smallbiznis/billium/internal/invoice/domain"
	"github.com/smallbiznis/billium/internal/invoice/format"
	templatedomain "github.com/smallbiznis/billium/internal/invoicetemplate/domain"
	"github.com/smallbiznis/billium/internal/observability/logger"
	"github.com/smallbiznis/billium/internal/observability/metrics"
	"github.com/smallbiznis/billium/internal/observability/tracing"
)

var ErrExportFailed = errors.New("export_failed")

// Rasterizer draws a resolved surface into PNG bytes.
type Rasterizer interface {
	Rasterize(ctx context.Context, surface templatedomain.RenderPlan) ([]byte, error)
}

// Encoder produces PDF bytes, either from a raster page or from the plan itself.
type Encoder interface {
	EncodePage(ctx context.Context, png []byte) ([]byte, error)
	GenerateDocument(ctx context.Context, surface templatedomain.RenderPlan) ([]byte, error)
}

// Sink receives finished PDFs. Deliver returns where the file ended up.
type Sink interface {
	Deliver(ctx context.Context, filename string, pdf []byte) (string, error)
}

// Result describes one export call. Skipped is set when another export was
// already running; nothing else is filled in that case.
type Result struct {
	Skipped  bool
	JobID    string
	FileName string
	Location string
	Bytes    int
}

type Params struct {
	fx.In

	Rasterizer Rasterizer
	Encoder    Encoder
	Sink       Sink
	Cfg        config.Config
	Clock      clock.Clock
	Node       *snowflake.Node  `optional:"true"`
	Metrics    *metrics.Metrics `optional:"true"`
	Log        *zap.Logger
}

// Pipeline runs at most one export at a time.
type Pipeline struct {
	busy atomic.Bool

	rasterizer Rasterizer
	encoder    Encoder
	sink       Sink
	mode       string
	clock      clock.Clock
	node       *snowflake.Node
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	log        *zap.Logger
}

func NewPipeline(p Params) (*Pipeline, error) {
	node := p.Node
	if node == nil {
		var err error
		if node, err = NewNode(); err != nil {
			return nil, err
		}
	}
	c := p.Clock
	if c == nil {
		c = clock.System{}
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	mode := p.Cfg.ExportMode
	if mode != config.ExportModeDocument {
		mode = config.ExportModeRaster
	}
	return &Pipeline{
		rasterizer: p.Rasterizer,
		encoder:    p.Encoder,
		sink:       p.Sink,
		mode:       mode,
		clock:      c,
		node:       node,
		metrics:    p.Metrics,
		tracer:     otel.Tracer("billium/export"),
		log:        log.Named("export.pipeline"),
	}, nil
}

// Mode reports whether exports are rasterized pages or vector documents.
func (p *Pipeline) Mode() string {
	return p.mode
}

// Busy reports whether an export is in flight.
func (p *Pipeline) Busy() bool {
	return p.busy.Load()
}

// Export renders surface to a PDF and hands it to the sink. The file name is
// derived from a snapshot of source taken once encoding has succeeded.
func (p *Pipeline) Export(ctx context.Context, surface templatedomain.RenderPlan, source domain.Source, templateID int) (Result, error) {
	if !p.busy.CompareAndSwap(false, true) {
		p.metrics.RecordExport(metrics.ExportResultSkipped, p.mode, 0)
		p.log.Info("export already running, request skipped", zap.Int("template_id", templateID))
		return Result{Skipped: true}, nil
	}
	defer p.busy.Store(false)

	jobID := p.node.Generate().String()
	ctx, span := p.tracer.Start(ctx, "export",
		trace.WithAttributes(
			attribute.String("export.job_id", jobID),
			attribute.String("export.mode", p.mode),
			attribute.Int("export.template_id", templateID),
		),
	)
	log := logger.WithContext(ctx, logger.WithJob(p.log, jobID))
	start := p.clock.Now()

	result, err := p.run(ctx, surface, source, templateID)
	result.JobID = jobID
	tracing.End(span, err)

	elapsed := p.clock.Now().Sub(start)
	if err != nil {
		p.metrics.RecordExport(metrics.ExportResultFailure, p.mode, elapsed)
		log.Error("export failed", zap.Int("template_id", templateID), zap.Error(err))
		return Result{JobID: jobID}, err
	}

	p.metrics.RecordExport(metrics.ExportResultSuccess, p.mode, elapsed)
	log.Info("export delivered",
		zap.String("file", result.FileName),
		zap.String("location", result.Location),
		zap.Int("bytes", result.Bytes),
		zap.Duration("elapsed", elapsed),
	)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, surface templatedomain.RenderPlan, source domain.Source, templateID int) (Result, error) {
	var pdf []byte
	if p.mode == config.ExportModeDocument {
		err := p.stage(ctx, metrics.ExportStageEncode, func(ctx context.Context) (err error) {
			pdf, err = p.encoder.GenerateDocument(ctx, surface)
			return err
		})
		if err != nil {
			return Result{}, err
		}
	} else {
		var png []byte
		err := p.stage(ctx, metrics.ExportStageRasterize, func(ctx context.Context) (err error) {
			png, err = p.rasterizer.Rasterize(ctx, surface)
			return err
		})
		if err != nil {
			return Result{}, err
		}
		err = p.stage(ctx, metrics.ExportStageEncode, func(ctx context.Context) (err error) {
			pdf, err = p.encoder.EncodePage(ctx, png)
			return err
		})
		if err != nil {
			return Result{}, err
		}
	}

	// Edits made while rendering still count towards the name.
	name := format.FileName(source.Snapshot(), templateID, p.clock.Now())

	var location string
	err := p.stage(ctx, metrics.ExportStageDeliver, func(ctx context.Context) (err error) {
		location, err = p.sink.Deliver(ctx, name, pdf)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return Result{FileName: name, Location: location, Bytes: len(pdf)}, nil
}

func (p *Pipeline) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, "export."+name)
	err := fn(ctx)
	tracing.End(span, err)
	if err != nil {
		p.metrics.RecordExportError(name, err)
		return fmt.Errorf("%w: %s: %w", ErrExportFailed, name, err)
	}
	return nil
}

// NewNode returns the id generator used for export job ids.
func NewNode() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("snowflake node: %w", err)
	}
	return node, nil
}
