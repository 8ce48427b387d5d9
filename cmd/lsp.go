// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple" // log backend

	"github.com/luthersystems/blueprint/lsp"
	"github.com/luthersystems/blueprint/typeres"
)

// LSPCommand creates the "lsp" cobra command with optional embedder
// configuration. Embedders can pass WithCatalog to serve types from their
// own namespaces.
func LSPCommand(opts ...Option) *cobra.Command {
	var cfg cmdConfig
	for _, o := range opts {
		o(&cfg)
	}

	var (
		stdio     bool
		port      int
		verbosity int
		logFile   string
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the blueprint Language Server Protocol server",
		Long: `Start an LSP server for blueprint source files.

The language server provides real-time IDE features including diagnostics,
quick fixes, hover documentation, go-to-definition, find references,
rename, completion, document and workspace symbols, folding, semantic
highlighting and formatting.

Diagnostics are published after edits pause for --debounce (configuration
key "lsp.debounce").

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  blp lsp                           Start with stdio transport
  blp lsp --stdio                   Same as above (explicit)
  blp lsp --port 7998               Start with TCP on port 7998
  blp lsp -vv --log /tmp/blp.log    Log requests to a file

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "blp lsp --stdio" for .blp files.`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			var path *string
			if logFile != "" {
				path = &logFile
			}
			commonlog.Configure(verbosity, path)

			catalog, err := cfg.resolveCatalog()
			if err != nil {
				printError(os.Stderr, err)
				os.Exit(exitUsage)
			}
			srv := lsp.New(serverOptions(catalog)...)

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				fmt.Fprintf(os.Stderr, "blueprint LSP server listening on %s\n", addr)
				err = srv.RunTCP(addr)
			} else {
				err = srv.RunStdio()
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
				os.Exit(exitUsage)
			}
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")
	cmd.Flags().CountVarP(&verbosity, "verbose", "v",
		"Log verbosity (repeat for more detail)")
	cmd.Flags().StringVar(&logFile, "log", "",
		"Write the server log to this file instead of stderr")
	cmd.Flags().Duration("debounce", lsp.DefaultDebounce,
		"Delay between the last edit and publishing diagnostics")
	_ = viper.BindPFlag("lsp.debounce", cmd.Flags().Lookup("debounce"))

	return cmd
}

func serverOptions(catalog *typeres.Catalog) []lsp.Option {
	opts := []lsp.Option{lsp.WithCatalog(catalog), lsp.WithVersion(Version)}
	if d := viper.GetDuration("lsp.debounce"); d > 0 {
		opts = append(opts, lsp.WithDebounce(d))
	}
	return opts
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
