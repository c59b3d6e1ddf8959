package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smallbiznis/billium/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassifyReason(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "deadline", err: fmt.Errorf("write: %w", context.DeadlineExceeded), want: ReasonDeadlineExceeded},
		{name: "canceled", err: context.Canceled, want: ReasonCanceled},
		{name: "persistence", err: fmt.Errorf("save: %w", domain.ErrPersistence), want: ReasonPersistence},
		{name: "unknown", err: errors.New("boom"), want: ReasonUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyReason(tc.err))
		})
	}
}

func TestRecordExport(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(Config{ServiceName: "billium", Environment: "test"}, registry)

	m.RecordExport(ExportResultSuccess, "raster", 250*time.Millisecond)
	m.RecordExport(ExportResultSuccess, "raster", time.Second)
	m.RecordExport(ExportResultSkipped, "raster", 0)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.exports.WithLabelValues(ExportResultSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.exports.WithLabelValues(ExportResultSkipped)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.exportDuration))
}

func TestRecordStorageAndErrors(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(Config{}, registry)

	m.RecordStorage(StorageSave, nil)
	m.RecordStorage(StorageSave, errors.New("disk full"))
	m.RecordExportError(ExportStageDeliver, context.DeadlineExceeded)
	m.RecordExportError(ExportStageDeliver, nil)
	m.RecordMutation("set_tax_percentage")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.storageOps.WithLabelValues(StorageSave, "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.storageOps.WithLabelValues(StorageSave, "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.exportErrors.WithLabelValues(ExportStageDeliver, ReasonDeadlineExceeded)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.mutations.WithLabelValues("set_tax_percentage")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordExport(ExportResultFailure, "raster", time.Second)
		m.RecordExportError(ExportStageEncode, errors.New("boom"))
		m.RecordStorage(StorageLoad, nil)
		m.RecordMutation("clear")
	})
}
