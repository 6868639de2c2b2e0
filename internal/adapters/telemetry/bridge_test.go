package telemetry_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/vimasm/internal/adapters/telemetry"
	"go.trai.ch/vimasm/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestLogBridge_OnEnd(t *testing.T) {
	ctrl := gomock.NewController(t)

	var logged []string
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).Do(func(msg string) {
		logged = append(logged, msg)
	}).Times(2)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewLogBridge(logger)))
	tracer := telemetry.NewOTelTracerFrom(tp, "test")

	_, span := tracer.Start(context.Background(), "compile")
	span.SetAttribute("vimasm.path", "/src/a.c")
	span.End()

	_, span = tracer.Start(context.Background(), "synthesize")
	span.RecordError(errors.New("record has no emit flag"))
	span.End()

	require.Len(t, logged, 2)
	assert.True(t, strings.HasPrefix(logged[0], "compile "), logged[0])
	assert.Contains(t, logged[0], "vimasm.path=/src/a.c")
	assert.NotContains(t, logged[0], "error=")

	assert.True(t, strings.HasPrefix(logged[1], "synthesize "), logged[1])
	assert.Contains(t, logged[1], "error=record has no emit flag")
}

func TestLogBridge_NilLogger(t *testing.T) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewLogBridge(nil)))
	tracer := telemetry.NewOTelTracerFrom(tp, "test")

	assert.NotPanics(t, func() {
		_, span := tracer.Start(context.Background(), "compile")
		span.End()
	})
}

func TestLogBridge_FlushAndShutdown(t *testing.T) {
	bridge := telemetry.NewLogBridge(nil)
	require.NoError(t, bridge.ForceFlush(context.Background()))
	require.NoError(t, bridge.Shutdown(context.Background()))
}
