// Copyright © 2024 The ELPS authors

package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/luthersystems/blueprint/parser/token"
	"github.com/luthersystems/blueprint/typeres"
)

// BatchOptions configures CompileFiles.
type BatchOptions struct {
	Catalog *typeres.Catalog
	// OutputDir receives one .ui file per input.  When empty nothing is
	// written.
	OutputDir string
	// Jobs bounds the number of concurrent compiles.  Zero means the
	// number of CPUs.
	Jobs int
}

// FileResult is the outcome of compiling one file.  Err is set when the
// file could not be read or its output could not be written.
type FileResult struct {
	Path string
	// Written is the output file, when one was written.
	Written string
	*Result
	Err error
}

// OutputPath returns the file an input is compiled to inside dir.
func OutputPath(dir, input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+".ui")
}

// CompileFiles compiles every path concurrently.  Results are returned in
// input order.  The returned error is only set when ctx is cancelled;
// per-file problems are reported in the results.
func CompileFiles(ctx context.Context, paths []string, opts BatchOptions) ([]*FileResult, error) {
	catalog, err := catalogOrDefault(opts.Catalog)
	if err != nil {
		return nil, err
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = compileFile(gctx, path, catalog, opts.OutputDir)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func compileFile(ctx context.Context, path string, catalog *typeres.Catalog, outDir string) *FileResult {
	fr := &FileResult{Path: path}
	text, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Result = Compile(ctx, token.NewSource(path, string(text)), catalog)
	if fr.Failed() || outDir == "" {
		return fr
	}
	out := OutputPath(outDir, path)
	if err := os.WriteFile(out, []byte(fr.Output), 0o644); err != nil { //nolint:gosec // generated UI files are world readable
		fr.Err = fmt.Errorf("writing %s: %w", out, err)
		return fr
	}
	fr.Written = out
	return fr
}
