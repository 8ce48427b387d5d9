// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/luthersystems/blueprint/compiler"
	"github.com/luthersystems/blueprint/diagnostic"
	"github.com/luthersystems/blueprint/parser/token"
	"github.com/luthersystems/blueprint/typeres"
)

var (
	fmtWrite    bool
	fmtDiff     bool
	fmtList     bool
	fmtExcludes []string
)

var formatCmd = &cobra.Command{
	Use:     "format [flags] [files...]",
	Aliases: []string{"fmt"},
	Short:   "Format blueprint source files",
	Long: `Format blueprint files, similar to gofmt for Go.

Formatting compiles the file and converts the result back to blueprint,
so only files without errors can be formatted and comments other than
translator comments are dropped.  Indentation is two spaces.  The
formatter is idempotent.

With no files, reads from stdin and writes to stdout.
With files, prints formatted output to stdout unless -w is given.

Modes:
  (default)   Print formatted code to stdout
  -w          Write result back to source file
  -d          Display a diff of changes
  -l          List files that would be changed

Examples:
  blp format window.blp           Print formatted output
  blp format -w src/...           Format a tree in place
  blp format -d window.blp        Show what would change
  blp format -l src/...           List files needing formatting
  cat window.blp | blp format     Format from stdin`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runFormat(cmd.OutOrStdout(), cmd.ErrOrStderr(), args))
	},
}

func runFormat(stdout, stderr io.Writer, args []string) int {
	catalog, err := loadCatalog()
	if err != nil {
		printError(stderr, err)
		return exitUsage
	}
	done := startTrace(stderr)
	defer done()

	if len(args) == 0 {
		_, text, err := readInput(nil)
		if err != nil {
			printError(stderr, err)
			return exitUsage
		}
		out, code := formatSource(stderr, token.NewSource("<stdin>", text), catalog)
		if code == exitOK {
			fmt.Fprint(stdout, out) //nolint:errcheck // stdout write failures surface at exit
		}
		return code
	}

	expanded, err := expandArgs(args, fmtExcludes)
	if err != nil {
		printError(stderr, err)
		return exitUsage
	}
	exitCode := exitOK
	for _, path := range expanded {
		changed, code := fmtFile(stdout, stderr, path, catalog)
		if code == exitOK && fmtList && changed {
			code = exitErrors
		}
		exitCode = max(exitCode, code)
	}
	return exitCode
}

// formatSource returns the formatted text of src, or reports why it could
// not be formatted.
func formatSource(stderr io.Writer, src *token.Source, catalog *typeres.Catalog) (string, int) {
	out, res, err := compiler.Format(context.Background(), src, catalog)
	if err == nil {
		return out, exitOK
	}
	var list diagnostic.List
	if errors.As(err, &list) || res.Bug != nil {
		return "", report(stderr, res)
	}
	var bug *diagnostic.Bug
	if errors.As(err, &bug) {
		_ = diagnostic.ReportBug(stderr, bug, Version, os.Args[1:], colorMode())
		return "", exitBug
	}
	printError(stderr, err)
	return "", exitErrors
}

func fmtFile(stdout, stderr io.Writer, path string, catalog *typeres.Catalog) (bool, int) {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		printError(stderr, err)
		return false, exitUsage
	}
	out, code := formatSource(stderr, token.NewSource(path, string(src)), catalog)
	if code != exitOK {
		return false, code
	}

	changed := string(src) != out

	if fmtList {
		if changed {
			fmt.Fprintln(stdout, path) //nolint:errcheck // best-effort listing
		}
		return changed, exitOK
	}

	if fmtDiff {
		if changed {
			printUnifiedDiff(stdout, path, src, []byte(out))
		}
		return changed, exitOK
	}

	if fmtWrite {
		if !changed {
			return false, exitOK
		}
		info, err := os.Stat(path)
		if err != nil {
			printError(stderr, err)
			return false, exitUsage
		}
		if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
			printError(stderr, err)
			return false, exitUsage
		}
		return true, exitOK
	}

	// Default: print to stdout
	fmt.Fprint(stdout, out) //nolint:errcheck // stdout write failures surface at exit
	return changed, exitOK
}

func printUnifiedDiff(w io.Writer, path string, original, formatted []byte) {
	// Simple line-by-line diff output
	fmt.Fprintf(w, "--- %s\n", path)  //nolint:errcheck // best-effort diff output
	fmt.Fprintf(w, "+++ %s\n", path) //nolint:errcheck // best-effort diff output

	origLines := splitLines(original)
	fmtLines := splitLines(formatted)

	i, j := 0, 0
	for i < len(origLines) || j < len(fmtLines) {
		switch {
		case i < len(origLines) && j < len(fmtLines) && origLines[i] == fmtLines[j]:
			fmt.Fprintf(w, " %s\n", origLines[i]) //nolint:errcheck // best-effort diff output
			i++
			j++
		case i < len(origLines):
			fmt.Fprintf(w, "-%s\n", origLines[i]) //nolint:errcheck // best-effort diff output
			i++
		default:
			fmt.Fprintf(w, "+%s\n", fmtLines[j]) //nolint:errcheck // best-effort diff output
			j++
		}
	}
}

func splitLines(data []byte) []string {
	var lines []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, string(data[start:i]))
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, string(data[start:]))
	}
	return lines
}

func init() {
	rootCmd.AddCommand(formatCmd)

	formatCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false,
		"Write result to (source) file instead of stdout.")
	formatCmd.Flags().BoolVarP(&fmtDiff, "diff", "d", false,
		"Display diffs instead of rewriting files.")
	formatCmd.Flags().BoolVarP(&fmtList, "list", "l", false,
		"List files whose formatting differs from blp format's.")
	formatCmd.Flags().StringArrayVar(&fmtExcludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
}
