package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("fee_type", "flat"),
		attribute.String("product_id", "456"),
		attribute.String("priority", "high"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "fee_type" && attrs[1].Key != "fee_type" {
		t.Fatalf("expected fee_type to be retained")
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordFeeConfigured(ctx, "flat", "insert")
	m.RecordDefaultDemotions(ctx, 2)
	m.RecordTicketCreated(ctx, "medium")
	m.RecordTicketTransition(ctx, "open", "closed")
	m.RecordTicketNumberCollision(ctx)
	m.RecordTierLimitWrite(ctx, "create")
}

func TestNoopMetricsRecord(t *testing.T) {
	m := NewNoop()
	require.NotNil(t, m)
	m.RecordTicketCreated(context.Background(), "high")
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetrics(reg)
	require.NoError(t, err)

	again, err := NewHTTPMetrics(reg)
	require.NoError(t, err)
	assert.Same(t, m.requests, again.requests)

	r := gin.New()
	r.Use(GinMiddleware(m))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("/health", "GET", "200")))
}
