// Copyright © 2021 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/luthersystems/blueprint/diagnostic"
	"github.com/luthersystems/blueprint/docs"
)

// docCmd represents the doc command
var docCmd = &cobra.Command{
	Use:   "doc [SECTION]",
	Short: "Show the blueprint syntax reference",
	Long: `Show the built-in syntax reference for blueprint.

With no argument, lists the sections of the reference.  With a section
name (case insensitive), prints that section wrapped to the terminal
width.  The same text is shown by editors on hover.

Examples:
  blp doc                 List sections
  blp doc Object          Show how objects are declared
  blp doc signal          Show the signal handler syntax`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runDoc(cmd.OutOrStdout(), cmd.ErrOrStderr(), args, terminalWidth()))
	},
}

func runDoc(stdout, stderr io.Writer, args []string, width int) int {
	names := docs.SectionNames()
	if len(args) == 0 {
		for _, name := range names {
			fmt.Fprintln(stdout, name) //nolint:errcheck // best-effort listing
		}
		return exitOK
	}
	for _, name := range names {
		if strings.EqualFold(name, args[0]) {
			text, _ := docs.Section(name)
			fmt.Fprintf(stdout, "%s\n\n%s\n", name, docs.Wrap(text, width)) //nolint:errcheck // best-effort output
			return exitOK
		}
	}
	err := fmt.Errorf("no section named %s", args[0])
	if rec, ok := diagnostic.Closest(args[0], names); ok {
		err = fmt.Errorf("%w; did you mean %s?", err, rec)
	}
	printError(stderr, err)
	return exitUsage
}

// terminalWidth returns the width of stdout, or 80 when it is not a
// terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd()) //nolint:gosec // file descriptors fit in int
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return min(w, 100)
		}
	}
	return 80
}

func init() {
	rootCmd.AddCommand(docCmd)
}
