// Package tracing wraps a wfgraph.KV so that every storage call is recorded as an
// OpenTelemetry span, and installs a stdout exporter for local inspection.
package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/meikuraledutech/wfgraph"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentation = "github.com/meikuraledutech/wfgraph"

var (
	providerOnce sync.Once
	providerErr  error
	provider     *sdktrace.TracerProvider
	traceFile    *os.File

	shutdownOnce sync.Once
	shutdownErr  error
)

// Init installs a global tracer provider exporting to stdout, or to outputFile when it is not empty.
// Only the first call has an effect; later calls return the same shutdown func and error.
// The returned func flushes pending spans and closes outputFile.
func Init(serviceName, outputFile string) (func(context.Context) error, error) {
	providerOnce.Do(func() {
		var w io.Writer = os.Stdout
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				providerErr = err
				return
			}
			traceFile = f
			w = f
		}

		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			providerErr = err
			return
		}
		install(serviceName, exporter)
	})
	return Shutdown, providerErr
}

// InitWithExporter installs a global tracer provider backed by exporter.
// Only the first call has an effect.
func InitWithExporter(serviceName string, exporter sdktrace.SpanExporter) error {
	providerOnce.Do(func() {
		install(serviceName, exporter)
	})
	return providerErr
}

func install(serviceName string, exporter sdktrace.SpanExporter) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(attribute.String("service.name", serviceName)),
	)
	if err != nil {
		providerErr = err
		return
	}
	provider = sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
}

// Shutdown flushes and stops the provider installed by Init and closes its output file.
// It is safe to call more than once, or when Init was never called.
func Shutdown(ctx context.Context) error {
	shutdownOnce.Do(func() {
		var errs []error
		if provider != nil {
			errs = append(errs, provider.Shutdown(ctx))
		}
		if traceFile != nil {
			errs = append(errs, traceFile.Close())
		}
		shutdownErr = errors.Join(errs...)
	})
	return shutdownErr
}

// KV records a span per call on the wrapped store.
type KV struct {
	next   wfgraph.KV
	tracer trace.Tracer
	system string
}

var (
	_ wfgraph.KV     = (*KV)(nil)
	_ wfgraph.Lister = (*KV)(nil)
)

// Wrap decorates next. system names the backend in span attributes (e.g. "redis").
// A nil provider uses the global one.
func Wrap(next wfgraph.KV, system string, provider trace.TracerProvider) *KV {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &KV{next: next, tracer: provider.Tracer(instrumentation), system: system}
}

func (k *KV) Get(ctx context.Context, key string) (string, error) {
	ctx, span := k.start(ctx, "kv.Get", key)
	defer span.End()

	v, err := k.next.Get(ctx, key)
	switch {
	case errors.Is(err, wfgraph.ErrNotFound):
		span.SetAttributes(attribute.Bool("wfgraph.kv.hit", false))
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	default:
		span.SetAttributes(attribute.Bool("wfgraph.kv.hit", true), attribute.Int("wfgraph.kv.bytes", len(v)))
	}
	return v, err
}

func (k *KV) Set(ctx context.Context, key, value string) error {
	ctx, span := k.start(ctx, "kv.Set", key)
	defer span.End()
	span.SetAttributes(attribute.Int("wfgraph.kv.bytes", len(value)))

	err := k.next.Set(ctx, key, value)
	k.finish(span, err)
	return err
}

func (k *KV) Delete(ctx context.Context, key string) error {
	ctx, span := k.start(ctx, "kv.Delete", key)
	defer span.End()

	err := k.next.Delete(ctx, key)
	k.finish(span, err)
	return err
}

// Keys lists keys when the wrapped store is a wfgraph.Lister.
func (k *KV) Keys(ctx context.Context) ([]string, error) {
	lister, ok := k.next.(wfgraph.Lister)
	if !ok {
		return nil, fmt.Errorf("tracing: %s backend cannot list keys", k.system)
	}

	ctx, span := k.tracer.Start(ctx, "kv.Keys", trace.WithAttributes(
		attribute.String("wfgraph.kv.system", k.system),
	))
	defer span.End()

	keys, err := lister.Keys(ctx)
	k.finish(span, err)
	if err == nil {
		span.SetAttributes(attribute.Int("wfgraph.kv.count", len(keys)))
	}
	return keys, err
}

func (k *KV) start(ctx context.Context, name, key string) (context.Context, trace.Span) {
	return k.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("wfgraph.kv.system", k.system),
		attribute.String("wfgraph.kv.key", key),
	))
}

func (k *KV) finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
