package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	feeConfigurations   metric.Int64Counter
	feeDefaultDemotions metric.Int64Counter
	ticketsCreated      metric.Int64Counter
	ticketTransitions   metric.Int64Counter
	ticketCollisions    metric.Int64Counter
	tierLimitWrites     metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "voouch-admin"
	}
	meter := provider.Meter(name)

	feeConfigurations, err := meter.Int64Counter("voouch_fee_configurations_total")
	if err != nil {
		return nil, err
	}
	feeDefaultDemotions, err := meter.Int64Counter("voouch_fee_default_demotions_total")
	if err != nil {
		return nil, err
	}
	ticketsCreated, err := meter.Int64Counter("voouch_tickets_created_total")
	if err != nil {
		return nil, err
	}
	ticketTransitions, err := meter.Int64Counter("voouch_ticket_transitions_total")
	if err != nil {
		return nil, err
	}
	ticketCollisions, err := meter.Int64Counter("voouch_ticket_number_collisions_total")
	if err != nil {
		return nil, err
	}
	tierLimitWrites, err := meter.Int64Counter("voouch_tier_limit_writes_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		feeConfigurations:   feeConfigurations,
		feeDefaultDemotions: feeDefaultDemotions,
		ticketsCreated:      ticketsCreated,
		ticketTransitions:   ticketTransitions,
		ticketCollisions:    ticketCollisions,
		tierLimitWrites:     tierLimitWrites,
	}, nil
}

// NewNoop returns instruments backed by a no-op provider.
func NewNoop() *Metrics {
	m, _ := New(Config{}, noop.NewMeterProvider())
	return m
}

// RecordFeeConfigured counts configure calls by fee type and whether the row
// was inserted or updated.
func (m *Metrics) RecordFeeConfigured(ctx context.Context, feeType, operation string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("fee_type", strings.TrimSpace(feeType)),
		attribute.String("operation", strings.TrimSpace(operation)),
	)
	m.feeConfigurations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordDefaultDemotions(ctx context.Context, count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.feeDefaultDemotions.Add(ctx, count)
}

func (m *Metrics) RecordTicketCreated(ctx context.Context, priority string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("priority", strings.TrimSpace(priority)))
	m.ticketsCreated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordTicketTransition(ctx context.Context, from, to string) {
	if m == nil || from == to {
		return
	}
	attrs := FilterAttributes(
		attribute.String("from_status", strings.TrimSpace(from)),
		attribute.String("to_status", strings.TrimSpace(to)),
	)
	m.ticketTransitions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordTicketNumberCollision(ctx context.Context) {
	if m == nil {
		return
	}
	m.ticketCollisions.Add(ctx, 1)
}

func (m *Metrics) RecordTierLimitWrite(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("operation", strings.TrimSpace(operation)))
	m.tierLimitWrites.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"fee_type":    {},
	"operation":   {},
	"priority":    {},
	"from_status": {},
	"to_status":   {},
	"status_code": {},
	"route":       {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
