// Package auditcontext carries client metadata from the transport layer to
// the audit log writer.
package auditcontext

import (
	"context"
	"strings"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	ipAddressKey
	userAgentKey
	clientSourceKey
	clientIDKey
	deviceInfoKey
)

func WithRequestID(ctx context.Context, value string) context.Context {
	return withValue(ctx, requestIDKey, value)
}

func WithIPAddress(ctx context.Context, value string) context.Context {
	return withValue(ctx, ipAddressKey, value)
}

func WithUserAgent(ctx context.Context, value string) context.Context {
	return withValue(ctx, userAgentKey, value)
}

func WithClientSource(ctx context.Context, value string) context.Context {
	return withValue(ctx, clientSourceKey, strings.ToLower(value))
}

func WithClientID(ctx context.Context, value string) context.Context {
	return withValue(ctx, clientIDKey, value)
}

func WithDeviceInfo(ctx context.Context, value string) context.Context {
	return withValue(ctx, deviceInfoKey, value)
}

func RequestIDFromContext(ctx context.Context) string    { return stringValue(ctx, requestIDKey) }
func IPAddressFromContext(ctx context.Context) string    { return stringValue(ctx, ipAddressKey) }
func UserAgentFromContext(ctx context.Context) string    { return stringValue(ctx, userAgentKey) }
func ClientSourceFromContext(ctx context.Context) string { return stringValue(ctx, clientSourceKey) }
func ClientIDFromContext(ctx context.Context) string     { return stringValue(ctx, clientIDKey) }
func DeviceInfoFromContext(ctx context.Context) string   { return stringValue(ctx, deviceInfoKey) }

func withValue(ctx context.Context, key ctxKey, value string) context.Context {
	value = strings.TrimSpace(value)
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(key).(string)
	return value
}
