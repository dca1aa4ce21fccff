package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/messmate/internal/queue"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/v1/owner/students", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/v1/owner/students", "200"))
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/owner/students", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/v1/owner/students", "200"))
	assert.Equal(t, 2.0, after-before)
}

func TestEventCounter(t *testing.T) {
	c := activityEvents.WithLabelValues(queue.EventStudentAdded)
	before := testutil.ToFloat64(c)
	require.NoError(t, EventCounter{}.Publish(context.Background(), queue.ActivityEvent{Type: queue.EventStudentAdded}))
	assert.Equal(t, 1.0, testutil.ToFloat64(c)-before)
}

func TestHandlerExposesRegistry(t *testing.T) {
	require.NoError(t, EventCounter{}.Publish(context.Background(), queue.ActivityEvent{Type: queue.EventRateChanged}))
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "messmate_activity_events_total"))
}
