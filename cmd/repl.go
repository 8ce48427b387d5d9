// Copyright © 2018 The ELPS authors

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/luthersystems/blueprint/repl"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive blueprint session",
	Long: `Start an interactive session for trying out blueprint.

Each complete snippet (an object, template, menu or using directive) is
compiled together with the snippets entered before it and the resulting
XML is printed.  Snippets with errors are reported and discarded.  Tab
completes class, property and signal names.  Use Ctrl-D or :quit to exit
and :help to list the other commands.

Example session:
  blp> Box box {
         spacing: 6;
       }
  <?xml version="1.0" encoding="UTF-8"?>
  ...
  blp> :source
  using Gtk 4.0;
  ...`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		catalog, err := loadCatalog()
		if err != nil {
			printError(os.Stderr, err)
			os.Exit(exitUsage)
		}
		repl.RunRepl("blp> ", repl.WithCatalog(catalog), repl.WithColor(colorMode()))
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
