// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // detect based on terminal and NO_COLOR
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

// ParseColorMode converts a --color flag value.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q: expected auto, always, or never", s)
	}
}

type paint func(a ...interface{}) string

// palette holds the styles used for diagnostic output.
type palette struct {
	enabled bool
	bold    paint
	faint   paint
	gutter  paint
	insert  paint
	remove  paint
}

func (p palette) style(attrs ...color.Attribute) paint {
	if !p.enabled {
		return fmt.Sprint
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.SprintFunc()
}

func (p palette) category(c Category) paint {
	return p.style(c.attrs()...)
}

func newPalette(enabled bool) palette {
	p := palette{enabled: enabled}
	p.bold = p.style(color.Bold)
	p.faint = p.style(color.Faint)
	p.gutter = p.style(color.FgBlue, color.Bold)
	p.insert = p.style(color.FgGreen)
	p.remove = p.style(color.FgRed)
	return p
}

// choosePalette selects the appropriate color palette based on the mode
// and the output file descriptor.
func choosePalette(mode ColorMode, w *os.File) palette {
	switch mode {
	case ColorAlways:
		return newPalette(true)
	case ColorNever:
		return newPalette(false)
	default: // ColorAuto
		if os.Getenv("NO_COLOR") != "" {
			return newPalette(false)
		}
		return newPalette(isTerminal(w))
	}
}

// isTerminal reports whether f is connected to a terminal.
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
