// Copyright © 2024 The ELPS authors

// Package compiler runs the blueprint pipeline: tokenize, parse, validate
// and emit, plus the reverse conversion from GtkBuilder XML.  Each phase is
// recorded as an OpenTelemetry span on the globally registered tracer
// provider.
package compiler

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/luthersystems/blueprint/decompiler"
	"github.com/luthersystems/blueprint/diagnostic"
	"github.com/luthersystems/blueprint/language"
	"github.com/luthersystems/blueprint/parser/lexer"
	"github.com/luthersystems/blueprint/parser/token"
	"github.com/luthersystems/blueprint/typeres"
)

// TracerName names the tracer phase spans are recorded with.
const TracerName = "github.com/luthersystems/blueprint/compiler"

func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(TracerName)
}

// Result is the outcome of compiling one document.
type Result struct {
	Source *token.Source
	// Document is the parsed tree.  It is available even when the source
	// has errors, so that editor features keep working.
	Document    *language.Document
	Diagnostics diagnostic.List
	// Output is the XML document.  It is empty unless the source compiled
	// without errors.
	Output string
	// Bug is set when the compiler itself failed.
	Bug *diagnostic.Bug
}

// Failed reports whether the compile produced no output.
func (r *Result) Failed() bool {
	if r == nil {
		return true
	}
	return r.Bug != nil || r.Diagnostics.HasErrors()
}

func catalogOrDefault(c *typeres.Catalog) (*typeres.Catalog, error) {
	if c != nil {
		return c, nil
	}
	return typeres.Default()
}

func asBug(v any) *diagnostic.Bug {
	if b, ok := v.(*diagnostic.Bug); ok {
		return b
	}
	return &diagnostic.Bug{Message: fmt.Sprint(v), Stack: debug.Stack()}
}

// Compile compiles src against catalog, or the default catalog when it is
// nil.  Diagnostics are sorted by position.
func Compile(ctx context.Context, src *token.Source, catalog *typeres.Catalog) (res *Result) {
	res = &Result{Source: src}
	ctx, span := tracer().Start(ctx, "compile", trace.WithAttributes(semconv.CodeFilepath(src.Name)))
	defer span.End()
	defer func() {
		if v := recover(); v != nil {
			res.Bug = asBug(v)
			res.Output = ""
			span.RecordError(res.Bug)
			span.SetStatus(codes.Error, res.Bug.Message)
		}
	}()

	catalog, err := catalogOrDefault(catalog)
	if err != nil {
		panic(diagnostic.NewBug("default catalog: %v", err))
	}

	_, phase := tracer().Start(ctx, "tokenize")
	toks := lexer.Significant(lexer.Tokenize(src))
	phase.SetAttributes(attribute.Int("blueprint.tokens", len(toks)))
	phase.End()

	_, phase = tracer().Start(ctx, "parse")
	res.Document, res.Diagnostics = language.ParseTokens(src, toks)
	phase.End()
	if res.Diagnostics.HasFatal() {
		span.SetStatus(codes.Error, res.Diagnostics.Summary())
		return res
	}

	_, phase = tracer().Start(ctx, "validate")
	res.Diagnostics = append(res.Diagnostics, language.Validate(res.Document, catalog)...)
	res.Diagnostics.Sort()
	phase.SetAttributes(attribute.Int("blueprint.diagnostics", len(res.Diagnostics)))
	phase.End()
	if res.Diagnostics.HasErrors() {
		span.SetStatus(codes.Error, res.Diagnostics.Summary())
		return res
	}

	_, phase = tracer().Start(ctx, "emit")
	res.Output = language.Emit(res.Document, catalog)
	phase.End()
	return res
}

// CompileString is Compile for in-memory text.
func CompileString(ctx context.Context, name, text string, catalog *typeres.Catalog) *Result {
	return Compile(ctx, token.NewSource(name, text), catalog)
}

// Decompile converts GtkBuilder XML read from r into source text.  When
// some elements are unsupported the text for the rest of the document is
// returned along with the error.  A compiler failure is returned as a
// *diagnostic.Bug.
func Decompile(ctx context.Context, name string, r io.Reader, catalog *typeres.Catalog) (out string, err error) {
	_, span := tracer().Start(ctx, "decompile", trace.WithAttributes(semconv.CodeFilepath(name)))
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()
	defer diagnostic.Recover(&err)

	catalog, err = catalogOrDefault(catalog)
	if err != nil {
		return "", err
	}
	root, err := decompiler.Parse(r)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	out, err = decompiler.Decompile(root, language.Decompilers(), catalog)
	if err != nil {
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Format normalizes source text by compiling it and decompiling the
// result.  Text is only produced for sources that compile without errors;
// otherwise the compile result carries the diagnostics.  Comments other
// than translator comments are not preserved.
func Format(ctx context.Context, src *token.Source, catalog *typeres.Catalog) (string, *Result, error) {
	ctx, span := tracer().Start(ctx, "format")
	defer span.End()
	res := Compile(ctx, src, catalog)
	switch {
	case res.Bug != nil:
		return "", res, res.Bug
	case res.Diagnostics.HasErrors():
		return "", res, res.Diagnostics
	}
	out, err := Decompile(ctx, src.Name, strings.NewReader(res.Output), catalog)
	if err != nil {
		return "", res, err
	}
	return out, res, nil
}
