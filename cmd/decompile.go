// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luthersystems/blueprint/compiler"
	"github.com/luthersystems/blueprint/diagnostic"
)

var decompileOutput string

var decompileCmd = &cobra.Command{
	Use:   "decompile [flags] [FILE]",
	Short: "Convert GtkBuilder XML to blueprint",
	Long: `Convert a GtkBuilder XML file into blueprint source.

Elements the decompiler does not support are reported on stderr and the
exit status is 1, but the rest of the document is still converted and
printed.  Comments in the XML are not carried over.

With no file, or "-", the XML is read from stdin.

Examples:
  blp decompile window.ui               Print blueprint to stdout
  blp decompile -o window.blp window.ui Write blueprint to window.blp`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runDecompile(cmd.OutOrStdout(), cmd.ErrOrStderr(), args, decompileOutput))
	},
}

func runDecompile(stdout, stderr io.Writer, args []string, output string) int {
	catalog, err := loadCatalog()
	if err != nil {
		printError(stderr, err)
		return exitUsage
	}
	name, text, err := readInput(args)
	if err != nil {
		printError(stderr, err)
		return exitUsage
	}

	done := startTrace(stderr)
	out, err := compiler.Decompile(context.Background(), name, strings.NewReader(text), catalog)
	done()

	code := exitOK
	if err != nil {
		var bug *diagnostic.Bug
		if errors.As(err, &bug) {
			_ = diagnostic.ReportBug(stderr, bug, Version, os.Args[1:], colorMode())
			return exitBug
		}
		printError(stderr, err)
		code = exitErrors
	}
	if out == "" {
		return code
	}
	if output == "" {
		fmt.Fprint(stdout, out) //nolint:errcheck // stdout write failures surface at exit
		return code
	}
	if err := os.WriteFile(output, []byte(out), 0o644); err != nil { //nolint:gosec // sources are world readable
		printError(stderr, err)
		return exitUsage
	}
	return code
}

func init() {
	rootCmd.AddCommand(decompileCmd)

	decompileCmd.Flags().StringVarP(&decompileOutput, "output", "o", "",
		"Write the blueprint to this file instead of stdout.")
}
