package otel

import (
	"context"
	"sync"

	eventbus "github.com/hanpama/gqlclient/internal/eventbus"
	events "github.com/hanpama/gqlclient/internal/events"
	reqid "github.com/hanpama/gqlclient/internal/reqid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	unsubscribe := Register(tp.Tracer("gqlclient"))
	return func(ctx context.Context) error {
		unsubscribe()
		return tp.Shutdown(ctx)
	}, nil
}

// Register turns client and generator events on the global bus into spans
// of tracer. The returned function detaches the subscribers.
func Register(tracer trace.Tracer) (unsubscribe func()) {
	return Attach(eventbus.Current(), tracer)
}

// Attach is Register for the bus b. A nil b attaches nothing.
func Attach(b *eventbus.Bus, tracer trace.Tracer) (unsubscribe func()) {
	if b == nil {
		return func() {}
	}
	s := &subscriber{tracer: tracer}
	return s.register(b)
}

type subscriber struct {
	tracer   trace.Tracer
	opSpans  sync.Map // rid -> trace.Span
	reqSpans sync.Map // rid -> trace.Span
	genSpans sync.Map // schema -> trace.Span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *subscriber) register(b *eventbus.Bus) func() {
	unsubs := []func(){
		eventbus.On(b, func(ctx context.Context, e events.OperationStart) {
			rid, _ := reqid.FromContext(ctx)
			_, span := s.tracer.Start(ctx, "graphql.operation", trace.WithSpanKind(trace.SpanKindClient))
			span.SetAttributes(
				attribute.String("graphql.operation.name", e.OperationName),
				attribute.String("graphql.operation.type", e.OperationType),
				attribute.String("graphql.document", e.Query),
			)
			s.opSpans.Store(rid, span)
		}),

		eventbus.On(b, func(ctx context.Context, e events.OperationFinish) {
			rid, _ := reqid.FromContext(ctx)
			v, ok := s.opSpans.LoadAndDelete(rid)
			if !ok {
				return
			}
			span := v.(trace.Span)
			span.SetAttributes(attribute.Int("graphql.error_count", e.ServerErrors))
			endSpan(span, e.Err)
		}),

		eventbus.On(b, func(ctx context.Context, e events.RequestStart) {
			rid, _ := reqid.FromContext(ctx)
			parent := ctx
			if v, ok := s.opSpans.Load(rid); ok {
				parent = trace.ContextWithSpan(ctx, v.(trace.Span))
			}
			_, span := s.tracer.Start(parent, "http.client", trace.WithSpanKind(trace.SpanKindClient))
			span.SetAttributes(
				semconv.HTTPMethodKey.String(e.Request.Method),
				semconv.HTTPURLKey.String(e.Request.URL.String()),
			)
			s.reqSpans.Store(rid, span)
		}),

		eventbus.On(b, func(ctx context.Context, e events.RequestFinish) {
			rid, _ := reqid.FromContext(ctx)
			v, ok := s.reqSpans.LoadAndDelete(rid)
			if !ok {
				return
			}
			span := v.(trace.Span)
			if e.Status != 0 {
				span.SetAttributes(semconv.HTTPStatusCodeKey.Int(e.Status))
			}
			span.SetAttributes(attribute.Int("http.response_content_length", e.Bytes))
			endSpan(span, e.Err)
		}),

		eventbus.On(b, func(ctx context.Context, e events.GenerateStart) {
			_, span := s.tracer.Start(ctx, "gqlclient.generate")
			span.SetAttributes(
				attribute.String("gqlclient.schema", e.Schema),
				attribute.String("gqlclient.package", e.Package),
			)
			s.genSpans.Store(e.Schema, span)
		}),

		eventbus.On(b, func(ctx context.Context, e events.GenerateFinish) {
			v, ok := s.genSpans.LoadAndDelete(e.Schema)
			if !ok {
				return
			}
			span := v.(trace.Span)
			span.SetAttributes(
				attribute.Int("gqlclient.types", e.Types),
				attribute.Int("gqlclient.bytes", e.Bytes),
			)
			endSpan(span, e.Err)
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
