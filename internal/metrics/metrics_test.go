package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New(nil)
	m.CyclesTotal.WithLabelValues("rsi", ResultOK).Inc()
	m.CyclesTotal.WithLabelValues("rsi", ResultOK).Inc()
	m.SignalsTotal.WithLabelValues("donchian", "bullish_breakout").Inc()
	m.ActiveMonitors.Set(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `monitor_cycles_total{result="ok",strategy="rsi"} 2`)
	assert.Contains(t, rec.Body.String(), `monitor_signals_total{kind="bullish_breakout",strategy="donchian"} 1`)
	assert.Contains(t, rec.Body.String(), "monitor_active 3")
}
