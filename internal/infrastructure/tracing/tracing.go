package tracing

import (
	"context"
	"fmt"
	"time"

	"github.com/alimikegami/point-of-sales/storefront-service/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

const (
	ServiceName = "storefront-service"

	collectorPort = 4318
	exportTimeout = 5 * time.Second
	batchTimeout  = 2 * time.Second
)

// InitTracing installs a global tracer provider exporting to the collector
// over OTLP/HTTP. Sampling follows the parent span when there is one and
// SampleRatio otherwise.
func InitTracing(ctx context.Context, conf config.TracingConfig) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptrace.New(
		ctx,
		otlptracehttp.NewClient(
			otlptracehttp.WithEndpoint(fmt.Sprintf("%s:%d", conf.CollectorHost, collectorPort)),
			otlptracehttp.WithInsecure(),
			otlptracehttp.WithTimeout(exportTimeout),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP trace exporter: %w", err)
	}

	tracerProvider := NewTracerProvider(conf.SampleRatio, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(batchTimeout)))

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tracerProvider, nil
}

// NewTracerProvider builds a provider tagged with the service name. Extra
// options attach span processors.
func NewTracerProvider(sampleRatio float64, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(ServiceName),
	)

	opts = append([]sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio))),
	}, opts...)

	return sdktrace.NewTracerProvider(opts...)
}
