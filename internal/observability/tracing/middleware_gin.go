package tracing

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Achorval/Voouch-Api-sub001/internal/auditcontext"
	"github.com/Achorval/Voouch-Api-sub001/pkg/apperror"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "voouch/admin-http"

// GinMiddleware opens a server span per admin request. It runs after the
// request logger so the request id and client source are already on the
// context.
func GinMiddleware() gin.HandlerFunc {
	tracer := otel.Tracer(tracerName)
	return func(c *gin.Context) {
		ctx := ExtractContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx = withRequestBaggage(ctx)

		ctx, span := tracer.Start(ctx, spanName(c.Request.Method, ""), trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		finishSpan(c, span)
	}
}

func finishSpan(c *gin.Context, span trace.Span) {
	route := c.FullPath()
	status := c.Writer.Status()
	span.SetName(spanName(c.Request.Method, route))

	attrs := []attribute.KeyValue{
		attribute.String("http.method", c.Request.Method),
		attribute.String("http.route", routeOrUnknown(route)),
		attribute.Int("http.status_code", status),
	}
	if requestID := auditcontext.RequestIDFromContext(c.Request.Context()); requestID != "" {
		attrs = append(attrs, attribute.String("request_id", requestID))
	}
	if source := auditcontext.ClientSourceFromContext(c.Request.Context()); source != "" {
		attrs = append(attrs, attribute.String("voouch.client_source", source))
	}

	lastErr := c.Errors.Last()
	var appErr *apperror.Error
	if lastErr != nil && errors.As(lastErr.Err, &appErr) {
		attrs = append(attrs, attribute.String("voouch.error_code", appErr.Code))
	}
	span.SetAttributes(SafeAttributes(attrs...)...)

	// 4xx responses are caller mistakes (bad tier, closed ticket) and stay unset.
	if status >= http.StatusInternalServerError {
		if lastErr != nil {
			span.RecordError(SafeError(lastErr.Err))
		}
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}

func withRequestBaggage(ctx context.Context) context.Context {
	requestID := auditcontext.RequestIDFromContext(ctx)
	if requestID == "" {
		return ctx
	}
	member, err := baggage.NewMember("request_id", requestID)
	if err != nil {
		return ctx
	}
	bag, err := baggage.FromContext(ctx).SetMember(member)
	if err != nil {
		return ctx
	}
	return baggage.ContextWithBaggage(ctx, bag)
}

func spanName(method, route string) string {
	name := "HTTP " + strings.ToUpper(method)
	if route == "" {
		return name
	}
	return name + " " + route
}

func routeOrUnknown(route string) string {
	if route == "" {
		return "unknown"
	}
	return route
}
