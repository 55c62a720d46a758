package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordInconsistency(t *testing.T) {
	m := New()

	m.RecordInconsistency(KindInstructorWithoutCourse, 2)
	m.RecordInconsistency(KindInstructorWithoutCourse, 0)
	m.RecordInconsistency(KindInstructorWithoutCourse, 1)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Inconsistencies(KindInstructorWithoutCourse)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Inconsistencies(KindStudentWithoutRecord)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordInconsistency(KindInstructorWithoutCourse, 1)
		m.ObserveRequest(http.MethodGet, "/health", 200, time.Millisecond)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New()
	m.RecordInconsistency(KindInstructorWithoutCourse, 1)
	m.ObserveRequest(http.MethodGet, "/api/v1/courses/:id", 200, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	text := string(body)
	assert.True(t, strings.Contains(text, `roster_inconsistencies_total{kind="instructor_without_course"} 1`))
	assert.True(t, strings.Contains(text, `roster_http_requests_total{method="GET",route="/api/v1/courses/:id",status="200"} 1`))
	assert.True(t, strings.Contains(text, "roster_http_request_duration_seconds_bucket"))
}
