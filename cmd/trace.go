// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// startTrace records compiler spans in memory when --trace is set.  The
// returned function restores the previous tracer provider and prints the
// phase timings to w.
func startTrace(w io.Writer) func() {
	if !viper.GetBool("trace") {
		return func() {}
	}
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	return func() {
		ctx := context.Background()
		_ = tp.ForceFlush(ctx)
		// Shutdown resets the exporter.
		spans := exporter.GetSpans()
		_ = tp.Shutdown(ctx)
		otel.SetTracerProvider(prev)
		printSpans(w, spans)
	}
}

// printSpans writes one line per span, phases indented below the span
// that contains them.
func printSpans(w io.Writer, spans tracetest.SpanStubs) {
	children := make(map[trace.SpanID][]tracetest.SpanStub)
	var roots []tracetest.SpanStub
	for _, s := range spans {
		if s.Parent.IsValid() {
			id := s.Parent.SpanID()
			children[id] = append(children[id], s)
			continue
		}
		roots = append(roots, s)
	}
	var walk func(s tracetest.SpanStub, depth int)
	walk = func(s tracetest.SpanStub, depth int) {
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(w, "%-12s %10s  %s\n", indent+s.Name, elapsed(s), spanFile(s)) //nolint:errcheck // best-effort trace output
		for _, c := range children[s.SpanContext.SpanID()] {
			walk(c, depth+1)
		}
	}
	for _, root := range roots {
		walk(root, 0)
	}
}

func elapsed(s tracetest.SpanStub) time.Duration {
	return s.EndTime.Sub(s.StartTime).Round(time.Microsecond)
}

func spanFile(s tracetest.SpanStub) string {
	for _, kv := range s.Attributes {
		if kv.Key == semconv.CodeFilepathKey {
			return kv.Value.AsString()
		}
	}
	return ""
}
