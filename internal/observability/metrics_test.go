package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/hr/tickets", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/hr/tickets", "GET", 200, 30*time.Millisecond)
	m.RecordError("/hr/tickets/:id/status", "POST", "INVALID_TRANSITION")
	m.RecordTransition("forward_ticket_emp", "ok")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/hr/tickets|GET|200"])
	assert.Equal(t, int64(20), snap.AvgLatencyMillis["/hr/tickets|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/hr/tickets/:id/status|POST|INVALID_TRANSITION"])
	assert.Equal(t, int64(1), snap.Transitions["forward_ticket_emp|ok"])
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordTransition("create", "ok")
	assert.Empty(t, m.Snapshot().Requests)
}

func TestRequestLoggerRecordsRoutePattern(t *testing.T) {
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Get("/tickets/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/tickets/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, int64(1), metrics.Snapshot().Requests["/tickets/:id|GET|204"])
}
