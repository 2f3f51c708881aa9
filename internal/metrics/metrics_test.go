package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecorders(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordCollectionRun("success", 1.2)
		RecordCollectionRun("partial", 0.8)
		RecordSnapshotsStored("EPL", 12)
		RecordEventSkipped("EPL")
		RecordFetchError("La Liga")
		UpdateAPIQuota(480)
		UpdateTrackedMarkets(37)
		MarkCollectionTime(1756500000)
		RecordMoversCompute(0.02)
	})
}

func TestHandlerServesMetrics(t *testing.T) {
	InitRegistry()
	RecordCollectionRun("success", 0.5)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "odds_tracker_collection_runs_total")
}
