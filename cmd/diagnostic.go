// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/viper"

	"github.com/luthersystems/blueprint/compiler"
	"github.com/luthersystems/blueprint/diagnostic"
	"github.com/luthersystems/blueprint/typeres"
)

const (
	exitOK = iota
	exitErrors
	exitUsage
	exitBug
)

func colorMode() diagnostic.ColorMode {
	mode, err := diagnostic.ParseColorMode(viper.GetString("color"))
	if err != nil {
		return diagnostic.ColorAuto
	}
	return mode
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode(), TabWidth: viper.GetInt("tab-width")}
}

// loadCatalog returns the bundled catalog extended with the configured
// catalog files.
func loadCatalog() (*typeres.Catalog, error) {
	return typeres.Load(viper.GetStringSlice("catalog")...)
}

// printError writes a one line error message.
func printError(w io.Writer, err error) {
	label := color.New(color.FgRed, color.Bold)
	switch colorMode() {
	case diagnostic.ColorAlways:
		label.EnableColor()
	case diagnostic.ColorNever:
		label.DisableColor()
	}
	fmt.Fprintf(w, "%s %v\n", label.Sprint("error:"), err) //nolint:errcheck // best-effort error display
}

// report renders the diagnostics of res to w and returns the exit status
// the result calls for.
func report(w io.Writer, res *compiler.Result) int {
	if res.Bug != nil {
		_ = diagnostic.ReportBug(w, res.Bug, Version, os.Args[1:], colorMode())
		return exitBug
	}
	if len(res.Diagnostics) > 0 {
		_ = newRenderer().RenderAll(w, res.Diagnostics)
	}
	if res.Failed() {
		return exitErrors
	}
	return exitOK
}
