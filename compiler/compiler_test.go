// Copyright © 2024 The ELPS authors

package compiler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/luthersystems/blueprint/diagnostic"
	"github.com/luthersystems/blueprint/markup"
	"github.com/luthersystems/blueprint/parser/token"
)

const valid = `using Gtk 4.0;

Box {
  spacing: 6;

  Label {
    label: "x";
  }
}
`

func TestCompile(t *testing.T) {
	res := CompileString(context.Background(), "valid.blp", valid, nil)
	require.Nil(t, res.Bug)
	assert.Empty(t, res.Diagnostics)
	assert.False(t, res.Failed())
	assert.True(t, strings.HasPrefix(res.Output, markup.Header+"\n<interface>"), res.Output)
	assert.Contains(t, res.Output, `<property name="spacing">6</property>`)
	assert.NotNil(t, res.Document)
}

func TestCompileErrors(t *testing.T) {
	res := CompileString(context.Background(), "bad.blp", "using Gtk 4.0;\n\nBox {\n  spacing: \"x\";\n  nope: 1;\n}\n", nil)
	assert.True(t, res.Failed())
	assert.Empty(t, res.Output)
	assert.Len(t, res.Diagnostics, 2)
	assert.NotNil(t, res.Document.UI)

	res = CompileString(context.Background(), "lex.blp", "using Gtk 4.0;\n\nLabel {\n  label: \"x;\n}\n", nil)
	assert.True(t, res.Failed())
	assert.Contains(t, res.Diagnostics.Error(), "Unterminated string literal")
}

func TestCompileWarningsOnly(t *testing.T) {
	res := CompileString(context.Background(), "warn.blp", "using Gtk 4.0;\n\nComboBoxText {\n  items [\"a\"]\n}\n\nPicture {\n  keep-aspect-ratio: true;\n}\n", nil)
	assert.False(t, res.Failed())
	assert.Len(t, res.Diagnostics, 2)
	assert.NotEmpty(t, res.Output)
}

func TestCompileSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		assert.NoError(t, tp.Shutdown(context.Background()), "TracerProvider shutdown")
	})

	CompileString(context.Background(), "valid.blp", valid, nil)
	var names []string
	for _, s := range exporter.GetSpans() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"tokenize", "parse", "validate", "emit", "compile"}, names)

	exporter.Reset()
	CompileString(context.Background(), "bad.blp", "using Gtk 4.0;\nBox { nope: 1; }\n", nil)
	names = nil
	for _, s := range exporter.GetSpans() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"tokenize", "parse", "validate", "compile"}, names)
}

func TestAsBug(t *testing.T) {
	bug := diagnostic.NewBug("broken")
	assert.Same(t, bug, asBug(bug))
	other := asBug("boom")
	assert.Equal(t, "boom", other.Message)
	assert.NotEmpty(t, other.Stack)
}

func TestDecompile(t *testing.T) {
	res := CompileString(context.Background(), "valid.blp", valid, nil)
	require.False(t, res.Failed())
	out, err := Decompile(context.Background(), "valid.ui", strings.NewReader(res.Output), nil)
	require.NoError(t, err)
	assert.Equal(t, valid, out)

	_, err = Decompile(context.Background(), "broken.ui", strings.NewReader("<interface>"), nil)
	assert.ErrorContains(t, err, "broken.ui")

	out, err = Decompile(context.Background(), "partial.ui", strings.NewReader(`<interface><object class="GtkBox"><foo/></object></interface>`), nil)
	assert.ErrorContains(t, err, "unsupported element")
	assert.Contains(t, out, "Box {}")
}

func TestFormat(t *testing.T) {
	src := "using Gtk 4.0;\nBox{spacing:6;Label{label:\"x\";}}\n"
	out, res, err := Format(context.Background(), token.NewSource("fmt.blp", src), nil)
	require.NoError(t, err)
	assert.False(t, res.Failed())
	assert.Equal(t, valid, out)

	_, res, err = Format(context.Background(), token.NewSource("bad.blp", "using Gtk 4.0;\nBox { nope: 1; }\n"), nil)
	require.Error(t, err)
	var list diagnostic.List
	assert.True(t, errors.As(err, &list))
	assert.True(t, res.Failed())
}

func TestCompileFiles(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	write := func(name, text string) string {
		path := filepath.Join(in, name)
		require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
		return path
	}
	paths := []string{
		write("a.blp", valid),
		write("b.blp", "using Gtk 4.0;\nBox { nope: 1; }\n"),
		filepath.Join(in, "missing.blp"),
		write("c.blp", "using Gtk 4.0;\nLabel {}\n"),
	}

	results, err := CompileFiles(context.Background(), paths, BatchOptions{OutputDir: out, Jobs: 2})
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
	}

	assert.Equal(t, filepath.Join(out, "a.ui"), results[0].Written)
	data, err := os.ReadFile(results[0].Written)
	require.NoError(t, err)
	assert.Equal(t, results[0].Output, string(data))

	assert.True(t, results[1].Failed())
	assert.Empty(t, results[1].Written)

	assert.Error(t, results[2].Err)
	assert.True(t, results[2].Failed())

	assert.FileExists(t, filepath.Join(out, "c.ui"))
}

func TestCompileFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CompileFiles(ctx, []string{"x.blp"}, BatchOptions{Jobs: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
