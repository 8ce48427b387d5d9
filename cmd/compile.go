// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/luthersystems/blueprint/compiler"
)

var compileOutput string

var compileCmd = &cobra.Command{
	Use:   "compile [flags] [FILE]",
	Short: "Compile a blueprint file to GtkBuilder XML",
	Long: `Compile one blueprint file and print the resulting GtkBuilder XML.

Diagnostics are written to stderr.  Warnings do not stop the output; any
error does, and the exit status is 1.

With no file, or "-", the source is read from stdin.

Examples:
  blp compile window.blp               Print the XML to stdout
  blp compile -o window.ui window.blp  Write the XML to window.ui
  cat window.blp | blp compile         Compile stdin`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runCompile(cmd.OutOrStdout(), cmd.ErrOrStderr(), args, compileOutput))
	},
}

func runCompile(stdout, stderr io.Writer, args []string, output string) int {
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
	res := compiler.CompileString(context.Background(), name, text, catalog)
	done()
	if code := report(stderr, res); code != exitOK {
		return code
	}

	if output == "" {
		fmt.Fprint(stdout, res.Output) //nolint:errcheck // stdout write failures surface at exit
		return exitOK
	}
	if err := os.WriteFile(output, []byte(res.Output), 0o644); err != nil { //nolint:gosec // generated UI files are world readable
		printError(stderr, err)
		return exitUsage
	}
	return exitOK
}

// readInput returns the name and contents of the file named by args, or of
// stdin when there is none.
func readInput(args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return "<stdin>", string(b), nil
	}
	b, err := os.ReadFile(args[0]) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return "", "", err
	}
	return args[0], string(b), nil
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "",
		"Write the XML to this file instead of stdout.")
}
