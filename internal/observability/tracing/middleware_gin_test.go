package tracing

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Achorval/Voouch-Api-sub001/internal/auditcontext"
	"github.com/Achorval/Voouch-Api-sub001/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTracedEngine(t *testing.T) (*gin.Engine, *tracetest.SpanRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := auditcontext.WithRequestID(c.Request.Context(), "req-7")
		ctx = auditcontext.WithClientSource(ctx, c.GetHeader("X-Client-Source"))
		ctx = auditcontext.WithIPAddress(ctx, "10.1.1.1")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.Use(GinMiddleware())
	return r, recorder
}

func attrMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, attr := range attrs {
		out[attr.Key] = attr.Value
	}
	return out
}

func TestGinMiddlewareNamesSpanByRoute(t *testing.T) {
	r, recorder := newTracedEngine(t)
	r.POST("/v1/admin/tickets/:id/close", func(c *gin.Context) {
		_ = c.Error(apperror.Conflict("ticket_closed"))
		c.Status(http.StatusConflict)
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/tickets/42/close", nil)
	req.Header.Set("X-Client-Source", "Mobile")
	r.ServeHTTP(httptest.NewRecorder(), req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "HTTP POST /v1/admin/tickets/:id/close", span.Name())
	assert.Equal(t, codes.Unset, span.Status().Code)

	attrs := attrMap(span.Attributes())
	assert.Equal(t, int64(http.StatusConflict), attrs["http.status_code"].AsInt64())
	assert.Equal(t, "ticket_closed", attrs["voouch.error_code"].AsString())
	assert.Equal(t, "mobile", attrs["voouch.client_source"].AsString())
	assert.Equal(t, "req-7", attrs["request_id"].AsString())
	assert.NotContains(t, attrs, attribute.Key("ip_address"))
}

func TestGinMiddlewareMarksServerErrors(t *testing.T) {
	r, recorder := newTracedEngine(t)
	r.GET("/v1/admin/audit-logs", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: connection refused"))
		c.Status(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/admin/audit-logs", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.NotContains(t, attrMap(spans[0].Attributes()), attribute.Key("voouch.error_code"))
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "internal_error", attrMap(spans[0].Events()[0].Attributes)["exception.message"].AsString())
}

func TestGinMiddlewareUnknownRoute(t *testing.T) {
	r, recorder := newTracedEngine(t)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "HTTP GET", spans[0].Name())
	assert.Equal(t, "unknown", attrMap(spans[0].Attributes())["http.route"].AsString())
}
