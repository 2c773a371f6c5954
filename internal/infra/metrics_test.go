package infra

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ExposedOnHandler(t *testing.T) {
	m := NewMetrics()
	m.OrderSubmitted("buying", 20*time.Millisecond)
	m.OrderRejected("insufficient_stock")
	m.SetDrift(2)
	m.JobDone("order_notification", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `retailing_orders_submitted_total{operation="buying"} 1`)
	assert.Contains(t, text, `retailing_orders_rejected_total{reason="insufficient_stock"} 1`)
	assert.Contains(t, text, "retailing_warehouse_drift_rows 2")
	assert.Contains(t, text, `retailing_jobs_processed_total{outcome="ok",type="order_notification"} 1`)
	assert.Contains(t, text, "retailing_order_tx_seconds_count 1")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OrderSubmitted("addition", time.Millisecond)
		m.OrderRejected("unauthorized")
		m.SetDrift(1)
		m.JobDone("x", "dead")
	})
}
