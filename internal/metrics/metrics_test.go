package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionOutcome(t *testing.T) {
	m, err := New("site")
	require.NoError(t, err)

	m.SubmissionOutcome(OutcomeAccepted)
	m.SubmissionOutcome(OutcomeAccepted)
	m.SubmissionOutcome(OutcomeNotifyFailed)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.submissions.WithLabelValues(OutcomeAccepted)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.submissions.WithLabelValues(OutcomeNotifyFailed)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.SubmissionOutcome(OutcomeAccepted)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, err := New("site")
	require.NoError(t, err)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `site_http_request_duration_seconds_count{method="GET",route="/ping",status="204"} 1`)
}
