// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is reported in bug reports and to language server clients.
var Version = "dev"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blp",
	Short: "blp — Blueprint compiler for GTK user interfaces",
	Long: `blp compiles Blueprint, a markup language for GTK user interfaces,
into the GtkBuilder XML that GTK loads at runtime.  It also converts
existing XML back into Blueprint, formats sources and serves editors
over the Language Server Protocol.

Getting started:
  blp compile window.blp             Print the XML for a file
  blp compile -o window.ui w.blp     Write the XML to a file
  blp batch-compile -o build src/... Compile a whole tree
  blp decompile window.ui            Convert XML to Blueprint
  blp format -w src/...              Format sources in place
  blp repl                           Try out Blueprint interactively
  blp lsp                            Start the language server
  blp doc Object                     Show the syntax reference

Type information for GTK and its companion libraries is bundled.  Extra
namespaces can be described in TOML catalogs and passed with --catalog
or the "catalog" configuration key.

Exit status is 0 on success, 1 when a file has errors, 2 on usage or
I/O errors and 3 when the compiler itself fails.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.blp.yaml)")
	flags.String("color", "auto", `Control colored output: "auto", "always", or "never".`)
	flags.StringSlice("catalog", nil, "Additional type catalog (TOML or msgpack snapshot); may be repeated.")
	flags.Int("tab-width", 4, "Display width of a tab in diagnostics.")
	flags.Bool("trace", false, "Print the time spent in each compiler phase to stderr.")
	for _, name := range []string{"color", "catalog", "tab-width", "trace"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitUsage)
		}

		// Search config in home directory with name ".blp" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".blp")
	}

	viper.SetEnvPrefix("BLP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
