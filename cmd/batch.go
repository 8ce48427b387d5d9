// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/blueprint/compiler"
)

var (
	batchOutputDir string
	batchExcludes  []string
)

var batchCmd = &cobra.Command{
	Use:   "batch-compile [flags] FILES...",
	Short: "Compile many blueprint files concurrently",
	Long: `Compile every given file into a .ui file of the same base name in the
output directory.  Arguments ending in "/..." expand to every .blp file
below that directory.

Files are compiled concurrently; --jobs bounds how many at once (default:
the number of CPUs).  Diagnostics for all files are reported, in argument
order, and files with errors produce no output.

Examples:
  blp batch-compile -o build src/...         Compile a whole tree
  blp batch-compile -o build a.blp b.blp     Compile two files
  blp batch-compile -o build -j 2 src/...    Limit to two workers`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runBatch(cmd.OutOrStdout(), cmd.ErrOrStderr(), args, batchOutputDir, batchExcludes))
	},
}

func runBatch(stdout, stderr io.Writer, args []string, outDir string, excludes []string) int {
	catalog, err := loadCatalog()
	if err != nil {
		printError(stderr, err)
		return exitUsage
	}
	paths, err := expandArgs(args, excludes)
	if err != nil {
		printError(stderr, err)
		return exitUsage
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil { //nolint:gosec // output directory is world readable
			printError(stderr, err)
			return exitUsage
		}
	}

	done := startTrace(stderr)
	results, err := compiler.CompileFiles(context.Background(), paths, compiler.BatchOptions{
		Catalog:   catalog,
		OutputDir: outDir,
		Jobs:      viper.GetInt("jobs"),
	})
	done()
	if err != nil {
		printError(stderr, err)
		return exitUsage
	}

	code := exitOK
	for _, fr := range results {
		if fr.Err != nil {
			printError(stderr, fr.Err)
			code = max(code, exitUsage)
			continue
		}
		code = max(code, report(stderr, fr.Result))
		if fr.Written != "" {
			fmt.Fprintln(stdout, fr.Written) //nolint:errcheck // best-effort progress output
		}
	}
	return code
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchOutputDir, "output-dir", "o", "",
		"Directory the .ui files are written to.")
	batchCmd.Flags().IntP("jobs", "j", 0, "Number of files compiled at once (default: number of CPUs).")
	batchCmd.Flags().StringArrayVar(&batchExcludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	_ = batchCmd.MarkFlagRequired("output-dir")
	_ = viper.BindPFlag("jobs", batchCmd.Flags().Lookup("jobs"))
}
