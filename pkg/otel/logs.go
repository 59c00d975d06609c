package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// InitLogProvider builds a logger provider shipping records to collectorAddr over
// OTLP/gRPC. It returns a nil provider when collectorAddr is empty.
func InitLogProvider(ctx context.Context, info ServiceInfo, collectorAddr string) (*sdklog.LoggerProvider, func(context.Context) error, error) {
	if collectorAddr == "" {
		return nil, func(context.Context) error { return nil }, nil
	}

	exporter, err := otlploggrpc.New(ctx,
		otlploggrpc.WithEndpoint(collectorAddr),
		otlploggrpc.WithInsecure(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create otlp log exporter: %w", err)
	}

	res, err := newResource(info)
	if err != nil {
		return nil, nil, err
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(res),
	)
	return provider, provider.Shutdown, nil
}
