// Package observability wires tracing and error reporting: an OpenTelemetry
// tracer provider exporting over OTLP/gRPC, and the Sentry client.
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"google.golang.org/grpc/credentials"

	"github.com/tbourn/go-booking-backend/internal/config"
)

// Resource attribute keys specific to the booking service.
const (
	AttrStoreDriver      = attribute.Key("booking.store.driver")
	AttrStrictUniqueness = attribute.Key("booking.store.strict_uniqueness")
)

// Service describes the running deployment on every exported span.
type Service struct {
	Name        string
	Version     string
	Environment string // APP_ENV
	StoreDriver string // sqlite|mongo
	// StrictUniqueness is set when unique indexes arbitrate concurrent bookings.
	StrictUniqueness bool
}

// ServiceFromConfig builds the trace resource description for cfg.
func ServiceFromConfig(cfg config.Config, version string) Service {
	return Service{
		Name:             cfg.OTEL.ServiceName,
		Version:          version,
		Environment:      cfg.Sentry.Environment,
		StoreDriver:      cfg.Store.Driver,
		StrictUniqueness: cfg.Store.StrictUniqueness,
	}
}

// Attributes returns the resource attributes for s. Empty values are left out.
func (s Service) Attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{semconv.ServiceName(s.Name)}
	if s.Version != "" {
		attrs = append(attrs, semconv.ServiceVersion(s.Version))
	}
	if s.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(s.Environment))
	}
	if s.StoreDriver != "" {
		attrs = append(attrs, AttrStoreDriver.String(s.StoreDriver))
	}
	return append(attrs, AttrStrictUniqueness.Bool(s.StrictUniqueness))
}

// Seams replaced in tests.
var (
	newOTLPClient = otlptracegrpc.NewClient

	newOTLPExporterFn = func(ctx context.Context, client otlptrace.Client) (*otlptrace.Exporter, error) {
		return otlptrace.New(ctx, client)
	}

	newResourceFn = func(ctx context.Context, attrs ...attribute.KeyValue) (*resource.Resource, error) {
		return resource.New(ctx, resource.WithAttributes(attrs...))
	}
)

// exporterOptions maps the OTLP settings onto gRPC client options.
func exporterOptions(cfg config.OTELConfig) []otlptracegrpc.Option {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		return append(opts, otlptracegrpc.WithInsecure())
	}
	return append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
}

// SetupOTel installs a tracer provider for svc and returns its shutdown
// function. When tracing is disabled the global no-op provider stays in place.
func SetupOTel(ctx context.Context, cfg config.OTELConfig, svc Service) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	res, err := newResourceFn(ctx, svc.Attributes()...)
	if err != nil {
		return nil, fmt.Errorf("otel resource: %w", err)
	}

	exp, err := newOTLPExporterFn(ctx, newOTLPClient(exporterOptions(cfg)...))
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(res),
	)

	// The kafka publisher injects trace headers through the global propagator.
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	return tp.Shutdown, nil
}
