package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.AssessmentCompleted("likert", "V2", false)
	m.AssessmentCompleted("open_text", "C1", true)
	m.AssessmentCompleted("likert", "V2", true)
	m.TeamAnalyzed("excellent", 6)
	m.SessionStep("email", "reprompt")
	m.ReportCache(true)
	m.ReportCache(false)
	m.ReportCache(false)
	m.LexiconReloaded(nil)
	m.LexiconReloaded(errors.New("bad yaml"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.assessments.WithLabelValues("likert", "V2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lowConfidence.WithLabelValues("open_text")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.teamAnalyses.WithLabelValues("excellent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionSteps.WithLabelValues("email", "reprompt")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.reportCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lexiconReload.WithLabelValues("error")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", "/api/compatibility", 200, 15*time.Millisecond)
	m.ObserveHTTP("GET", "", 404, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `hugo_http_request_duration_seconds_count{method="GET",route="/api/compatibility",status="200"} 1`)
	assert.Contains(t, string(body), `route="unmatched"`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AssessmentCompleted("likert", "V1", true)
		m.TeamAnalyzed("good", 3)
		m.SessionStep("name", "ok")
		m.ReportCache(true)
		m.LexiconReloaded(nil)
		m.ObserveHTTP("GET", "/", 200, time.Second)
	})
	assert.Nil(t, m.Registry())
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)
}
