// Copyright © 2018 The ELPS authors

package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"

	"github.com/luthersystems/blueprint/diagnostic"
	"github.com/luthersystems/blueprint/typeres"
)

const helpText = `Enter blueprint objects, templates, menus or using directives.  Each
complete snippet is compiled together with the earlier ones and the
resulting XML is printed.

  :source   print the session document
  :reset    forget every snippet
  :help     show this message
  :quit     exit (Ctrl-D also works)
`

type config struct {
	stdin   io.ReadCloser
	stderr  io.WriteCloser
	catalog *typeres.Catalog
	color   diagnostic.ColorMode
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output of the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithCatalog sets the catalog types are resolved against.  The bundled
// catalog is used by default.
func WithCatalog(catalog *typeres.Catalog) Option {
	return func(c *config) {
		c.catalog = catalog
	}
}

// WithColor controls colored diagnostics.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// RunRepl reads snippets until end of input, compiling each one into the
// session document.
func RunRepl(prompt string, opts ...Option) {
	cfg := newConfig(opts...)
	if cfg.catalog == nil {
		catalog, err := typeres.Default()
		if err != nil {
			errlnf("Catalog initialization failure: %v", err)
			os.Exit(1)
		}
		cfg.catalog = catalog
	}
	var out io.Writer = os.Stderr
	if cfg.stderr != nil {
		out = cfg.stderr
	}

	session := NewSession(cfg.catalog)
	var pending strings.Builder
	cont := strings.Repeat(" ", len(prompt))

	histFile := historyPath()
	ensureHistoryFilePermissions(histFile)
	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       histFile,
		HistorySearchFold: true,
		AutoComplete:      &completer{session: session, pending: &pending},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		panic(err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	renderer := &diagnostic.Renderer{Color: cfg.color}
	for {
		if pending.Len() == 0 {
			rl.SetPrompt(prompt)
		} else {
			rl.SetPrompt(cont)
		}
		line, err := rl.ReadLine()
		if err == readline.ErrInterrupt {
			pending.Reset()
			continue
		}
		if err != nil {
			return
		}
		if pending.Len() == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, ":") {
				if !command(out, session, trimmed) {
					return
				}
				continue
			}
		}
		pending.WriteString(line)
		pending.WriteByte('\n')
		if !complete(pending.String()) {
			continue
		}

		res := session.Eval(context.Background(), pending.String())
		pending.Reset()
		if res.Bug != nil {
			_ = diagnostic.ReportBug(out, res.Bug, "repl", nil, cfg.color)
			continue
		}
		if len(res.Diagnostics) > 0 {
			_ = renderer.RenderAll(out, res.Diagnostics)
		}
		if !res.Failed() {
			fmt.Fprint(out, res.Output) //nolint:errcheck // best-effort REPL output
		}
	}
}

// command runs a REPL command and reports whether to keep reading.
func command(w io.Writer, session *Session, cmd string) bool {
	switch cmd {
	case ":quit", ":q":
		return false
	case ":reset":
		session.Reset()
	case ":source":
		fmt.Fprint(w, session.Text("")) //nolint:errcheck // best-effort REPL output
	case ":help":
		fmt.Fprint(w, helpText) //nolint:errcheck // best-effort REPL output
	default:
		fmt.Fprintf(w, "unknown command %s (try :help)\n", cmd) //nolint:errcheck // best-effort REPL output
	}
	return true
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".blp_history")
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o600) //nolint:gosec // path is under the user's home
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0o600)
}

func errlnf(format string, v ...interface{}) {
	if strings.HasSuffix(format, "\n") {
		errf(format, v...)
		return
	}
	errf(format+"\n", v...)
}

func errf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
}
