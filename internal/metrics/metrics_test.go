package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/cosmogony-cities/internal/domain"
)

func TestObserveImport_Success(t *testing.T) {
	runs := testutil.ToFloat64(ImportRunsTotal.WithLabelValues(StatusSuccess))
	rows := testutil.ToFloat64(ImportRowsTotal)

	ObserveImport(&domain.ImportResult{Cities: 120, Rows: 120, Batches: 2, Duration: 3 * time.Second}, nil)

	assert.Equal(t, runs+1, testutil.ToFloat64(ImportRunsTotal.WithLabelValues(StatusSuccess)))
	assert.Equal(t, rows+120, testutil.ToFloat64(ImportRowsTotal))
	assert.Equal(t, float64(120), testutil.ToFloat64(ImportCities))
	assert.Positive(t, testutil.ToFloat64(ImportLastSuccess))
}

func TestObserveImport_FailureDoesNotCountRows(t *testing.T) {
	failed := testutil.ToFloat64(ImportRunsTotal.WithLabelValues(StatusFailed))
	rows := testutil.ToFloat64(ImportRowsTotal)
	skipped := testutil.ToFloat64(ImportSkippedTotal)

	ObserveImport(&domain.ImportResult{Cities: 50, Rows: 0, Skipped: 2}, errors.New("boom"))

	assert.Equal(t, failed+1, testutil.ToFloat64(ImportRunsTotal.WithLabelValues(StatusFailed)))
	assert.Equal(t, rows, testutil.ToFloat64(ImportRowsTotal))
	assert.Equal(t, skipped+2, testutil.ToFloat64(ImportSkippedTotal))
}

func TestObserveImport_DryRunAndNilResult(t *testing.T) {
	dry := testutil.ToFloat64(ImportRunsTotal.WithLabelValues(StatusDryRun))
	failed := testutil.ToFloat64(ImportRunsTotal.WithLabelValues(StatusFailed))

	ObserveImport(&domain.ImportResult{DryRun: true, Cities: 10}, nil)
	ObserveImport(nil, errors.New("bad options"))

	assert.Equal(t, dry+1, testutil.ToFloat64(ImportRunsTotal.WithLabelValues(StatusDryRun)))
	assert.Equal(t, failed+1, testutil.ToFloat64(ImportRunsTotal.WithLabelValues(StatusFailed)))
}
