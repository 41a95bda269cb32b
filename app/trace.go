package app

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/cloudglass-tools/cloudglass/capi"
	"github.com/cloudglass-tools/cloudglass/pkg/logging"
)

// The module name used for unique strings, such as tracing identifiers.
// Grab it via `go list -m` or manually. It's not available at runtime and
// it's too trivial to generate.
const Module = "github.com/cloudglass-tools/cloudglass"

// traceOptions are the tracing flags every command accepts.
type traceOptions struct {
	File         string
	HttpEnable   bool
	HttpInsecure bool
	HttpEndpoint string
}

func traceOptionsFrom(inv *capi.Invocation) traceOptions {
	return traceOptions{
		File:         inv.String("trace.file"),
		HttpEnable:   inv.Bool("trace.http.enable"),
		HttpInsecure: inv.Bool("trace.http.insecure"),
		HttpEndpoint: inv.String("trace.http.endpoint"),
	}
}

// mergeResources takes all the open telemetry resources and merges them in
// order.  If resources is empty then an empty resource is returned.
func mergeResources(resources ...*resource.Resource) (*resource.Resource, error) {
	if len(resources) == 0 {
		return resource.Empty(), nil
	}
	var err error
	result := resources[0]
	for _, r := range resources[1:] {
		result, err = resource.Merge(result, r)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// newResource is generally where we add our identifying keys for the process
func newResource(version string, module string) (*resource.Resource, error) {
	defaultResource := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(module),
		semconv.ServiceVersionKey.String(version),
	)
	return mergeResources(
		resource.Default(),
		defaultResource,
		resource.Environment(),
	)
}

// newTracingProvider creates a tracer provider from the tracing flags.
// It returns nil when no exporter is requested; tracing then stays off.
func newTracingProvider(ctx context.Context, version string, to traceOptions) (_ *sdktrace.TracerProvider, retErr error) {
	logger := logging.Ctx(ctx)
	res, err := newResource(version, Module)
	if err != nil {
		return nil, err
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}
	exporters := []sdktrace.TracerProviderOption{}
	fileExporter, err := newFileSpanExporter(ctx, to.File)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			fileExporter.Shutdown(ctx)
		}
	}()
	if fileExporter != nil {
		exporters = append(exporters, sdktrace.WithBatcher(fileExporter))
	}

	if to.HttpEnable {
		logger.Debug("", "trace.http.enable: %t", to.HttpEnable)
		httpOpts := []otlptracehttp.Option{}
		if to.HttpInsecure {
			logger.Debug("", "trace.http.insecure: %t", to.HttpInsecure)
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		}
		if to.HttpEndpoint != "" {
			httpOpts = append(httpOpts, otlptracehttp.WithEndpoint(to.HttpEndpoint))
		}
		client := otlptracehttp.NewClient(httpOpts...)
		httpExporter, err := otlptrace.New(ctx, client)
		if err != nil {
			return nil, err
		}
		exporters = append(exporters, sdktrace.WithBatcher(httpExporter))
	}
	if len(exporters) == 0 {
		return nil, nil
	}
	opts = append(opts, exporters...)
	return sdktrace.NewTracerProvider(opts...), nil
}

// fileSpanExporter calls Close() during Shutdown, simplifying the
// implementation for file handling
type fileSpanExporter struct {
	sdktrace.SpanExporter
	io.Closer
}

// Shutdown handles cleaning up the span exporter
//
// Errors:
//
//    - cloudglass-error-internal -- when an error occurs during tracing shutdown
func (e *fileSpanExporter) Shutdown(ctx context.Context) error {
	if e == nil {
		return nil
	}
	defer e.Closer.Close() // consume file close errors
	if err := e.SpanExporter.Shutdown(ctx); err != nil {
		return capi.ErrorInternal("tracing shutdown failed", err)
	}
	return nil
}

// newFileSpanExporter creates or truncates the named file and uses the file
// with a console exporter.
func newFileSpanExporter(ctx context.Context, name string) (*fileSpanExporter, error) {
	logger := logging.Ctx(ctx)
	if name == "" {
		return nil, nil
	}
	logger.Debug("", "trace file path: %s", name)
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}

	exp, err := stdouttrace.New(
		stdouttrace.WithWriter(f),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileSpanExporter{exp, f}, err
}
