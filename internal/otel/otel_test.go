package otel

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	eventbus "github.com/hanpama/jsonschema2sdl/internal/eventbus"
	events "github.com/hanpama/jsonschema2sdl/internal/events"
	reqid "github.com/hanpama/jsonschema2sdl/internal/reqid"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	eventbus.Use(eventbus.New())
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	unsubscribe := Register(tp.Tracer(instrumentation))
	t.Cleanup(func() {
		unsubscribe()
		eventbus.Use(nil)
	})
	return rec
}

func TestSetupWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup("", "svc")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestTranslateSpanNestsUnderRequest(t *testing.T) {
	rec := setupRecorder(t)
	ctx, _ := reqid.NewContext(context.Background())
	r := httptest.NewRequest("POST", "/translate", nil)

	eventbus.Publish(ctx, events.HTTPStart{Request: r, Route: "/translate"})
	eventbus.Publish(ctx, events.TranslateStart{RootName: "User", Direction: "output"})
	eventbus.Publish(ctx, events.TranslateFinish{RootName: "User", Direction: "output", TypeName: "User", Definitions: 2})
	eventbus.Publish(ctx, events.HTTPFinish{Request: r, Route: "/translate", Status: 200})

	spans := rec.Ended()
	require.Len(t, spans, 2)
	translate, request := spans[0], spans[1]
	require.Equal(t, "schema.translate", translate.Name())
	require.Equal(t, "http.request", request.Name())
	require.Equal(t, request.SpanContext().SpanID(), translate.Parent().SpanID())
	require.Equal(t, codes.Unset, translate.Status().Code)
}

func TestTranslateSpanRecordsError(t *testing.T) {
	rec := setupRecorder(t)
	ctx := context.Background()

	eventbus.Publish(ctx, events.TranslateStart{RootName: "Cart"})
	eventbus.Publish(ctx, events.TranslateFinish{RootName: "Cart", Err: errors.New("boom")})

	spans := rec.Ended()
	require.Len(t, spans, 1)
	require.False(t, spans[0].Parent().IsValid())
	require.Equal(t, codes.Error, spans[0].Status().Code)
	require.Equal(t, "boom", spans[0].Status().Description)
}

func TestUnmatchedFinishIsIgnored(t *testing.T) {
	rec := setupRecorder(t)
	eventbus.Publish(context.Background(), events.TranslateFinish{RootName: "Nope"})
	eventbus.Publish(context.Background(), events.HTTPFinish{Request: httptest.NewRequest("GET", "/", nil)})
	require.Empty(t, rec.Ended())
}
