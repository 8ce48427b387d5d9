// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/blueprint/typeres"
)

var (
	snapshotOutput string
	dumpTypes      bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and prepare type catalogs",
	Long: `Type catalogs describe the classes, properties and signals of the
libraries a blueprint file imports.  The GTK catalog is bundled; others
are written in TOML and passed with --catalog.

A snapshot stores a merged catalog in msgpack form, which loads faster
than TOML.  Snapshots are accepted anywhere a catalog file is.`,
}

var catalogSnapshotCmd = &cobra.Command{
	Use:   "snapshot -o FILE [catalog.toml...]",
	Short: "Write the merged catalog as a msgpack snapshot",
	Long: `Merge the bundled catalog, the configured catalogs and the given files
and write the result as a msgpack snapshot.

Example:
  blp catalog snapshot -o types.msgpack adw.toml
  blp compile --catalog types.msgpack window.blp`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runSnapshot(cmd.ErrOrStderr(), snapshotOutput, args))
	},
}

var catalogDumpCmd = &cobra.Command{
	Use:   "dump [NAMESPACE...]",
	Short: "List the namespaces in the catalog",
	Long: `List the namespaces of the merged catalog with their versions and
type counts.  With --types, every type of the named namespaces (or of
all namespaces) is listed with its kind and parent.`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runDump(cmd.OutOrStdout(), cmd.ErrOrStderr(), args, dumpTypes))
	},
}

func runSnapshot(stderr io.Writer, output string, files []string) int {
	paths := append(viper.GetStringSlice("catalog"), files...)
	catalog, err := typeres.Load(paths...)
	if err != nil {
		printError(stderr, err)
		return exitUsage
	}
	f, err := os.Create(output) //nolint:gosec // CLI tool writes user-specified files
	if err != nil {
		printError(stderr, err)
		return exitUsage
	}
	if err := typeres.WriteSnapshot(f, catalog); err != nil {
		_ = f.Close()
		printError(stderr, err)
		return exitUsage
	}
	if err := f.Close(); err != nil {
		printError(stderr, err)
		return exitUsage
	}
	return exitOK
}

func runDump(stdout, stderr io.Writer, names []string, types bool) int {
	catalog, err := loadCatalog()
	if err != nil {
		printError(stderr, err)
		return exitUsage
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if len(catalog.Versions(n)) == 0 {
			printError(stderr, fmt.Errorf("namespace %s is not in the catalog", n))
			return exitUsage
		}
		want[n] = true
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, ns := range catalog.Namespaces() {
		if len(want) > 0 && !want[ns.Name] {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d types\n", ns.Name, ns.Version, len(ns.Types)) //nolint:errcheck // flushed below
		if !types {
			continue
		}
		sorted := append([]*typeres.Type(nil), ns.Types...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
		for _, t := range sorted {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", t.Name, t.Kind, t.Parent) //nolint:errcheck // flushed below
		}
	}
	if err := tw.Flush(); err != nil {
		printError(stderr, err)
		return exitUsage
	}
	return exitOK
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogSnapshotCmd, catalogDumpCmd)

	catalogSnapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "",
		"File the snapshot is written to.")
	_ = catalogSnapshotCmd.MarkFlagRequired("output")
	catalogDumpCmd.Flags().BoolVar(&dumpTypes, "types", false,
		"List the types of each namespace.")
}
