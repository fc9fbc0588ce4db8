package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.CascadeDeleted(map[string]int64{"customers": 1, "projects": 3})
	m.CascadeDeleted(map[string]int64{"projects": 2})
	m.LeadConverted()
	m.LeadSubmitted("Website Contact Form")
	m.NotificationFailed()
	m.ObserveHTTP("GET", "/customers", 200, 15*time.Millisecond)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.cascadeRows.WithLabelValues("projects")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cascadeRows.WithLabelValues("customers")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.leadConversions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.leadsSubmitted.WithLabelValues("Website Contact Form")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationFailure))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/customers", "200")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.CascadeDeleted(map[string]int64{"customers": 1})
	m.LeadConverted()
	m.LeadSubmitted("x")
	m.NotificationFailed()
	m.ObserveHTTP("GET", "/", 200, time.Second)
	assert.Nil(t, m.Registry())
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.LeadConverted()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "buildcrm_lead_conversions_total 1"))
}
