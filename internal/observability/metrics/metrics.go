package metrics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/billium/internal/invoice/domain"
)

// Config carries the constant labels applied to every series.
type Config struct {
	ServiceName string
	Environment string
}

const (
	ExportResultSuccess = "success"
	ExportResultFailure = "failure"
	ExportResultSkipped = "skipped"
)

const (
	ExportStageRasterize = "rasterize"
	ExportStageEncode    = "encode"
	ExportStageDeliver   = "deliver"
	ExportStageResolve   = "resolve"
)

const (
	ReasonDeadlineExceeded = "deadline_exceeded"
	ReasonCanceled         = "canceled"
	ReasonPersistence      = "persistence"
	ReasonUnknown          = "unknown"
)

const (
	StorageLoad   = "load"
	StorageSave   = "save"
	StorageClear  = "clear"
	StorageDecode = "decode"
)

// Metrics captures export and storage health signals.
type Metrics struct {
	exports        *prometheus.CounterVec
	exportDuration *prometheus.HistogramVec
	exportErrors   *prometheus.CounterVec
	storageOps     *prometheus.CounterVec
	mutations      *prometheus.CounterVec
}

// New registers the instruments on registerer. A nil registerer uses the
// default registry.
func New(cfg Config, registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "billium"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "billium_exports_total",
		Help:        "PDF export attempts by result.",
		ConstLabels: constLabels,
	}, []string{"result"})
	exportDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "billium_export_duration_seconds",
		Help:        "PDF export latency from rasterization to delivery.",
		Buckets:     []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		ConstLabels: constLabels,
	}, []string{"mode"})
	exportErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "billium_export_errors_total",
		Help:        "PDF export failures by stage and low-cardinality reason.",
		ConstLabels: constLabels,
	}, []string{"stage", "reason"})
	storageOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "billium_storage_operations_total",
		Help:        "Document store operations by result.",
		ConstLabels: constLabels,
	}, []string{"operation", "result"})
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "billium_document_mutations_total",
		Help:        "Document mutations applied by operation.",
		ConstLabels: constLabels,
	}, []string{"operation"})

	registerer.MustRegister(exports, exportDuration, exportErrors, storageOps, mutations)

	return &Metrics{
		exports:        exports,
		exportDuration: exportDuration,
		exportErrors:   exportErrors,
		storageOps:     storageOps,
		mutations:      mutations,
	}
}

// RecordExport counts one export attempt and, unless skipped, its latency.
func (m *Metrics) RecordExport(result, mode string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(result).Inc()
	if result == ExportResultSkipped {
		return
	}
	m.exportDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// RecordExportError counts a failed export stage.
func (m *Metrics) RecordExportError(stage string, err error) {
	if m == nil || err == nil {
		return
	}
	m.exportErrors.WithLabelValues(stage, ClassifyReason(err)).Inc()
}

// RecordStorage counts a store operation.
func (m *Metrics) RecordStorage(operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storageOps.WithLabelValues(operation, result).Inc()
}

// RecordMutation counts an applied document mutation.
func (m *Metrics) RecordMutation(operation string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(strings.TrimSpace(operation)).Inc()
}

// ClassifyReason maps an error to a low-cardinality reason label.
func ClassifyReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	case errors.Is(err, domain.ErrPersistence):
		return ReasonPersistence
	default:
		return ReasonUnknown
	}
}
