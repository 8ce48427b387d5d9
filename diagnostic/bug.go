// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"
)

// Bug is raised when the compiler reaches a state that only a defect in
// the compiler itself can produce.  It is never a user diagnostic.
type Bug struct {
	Message string
	Stack   []byte
}

// NewBug captures the current stack.
func NewBug(format string, v ...interface{}) *Bug {
	return &Bug{Message: fmt.Sprintf(format, v...), Stack: debug.Stack()}
}

func (b *Bug) Error() string {
	return "compiler bug: " + b.Message
}

// Assert panics with a Bug when cond is false.
func Assert(cond bool, format string, v ...interface{}) {
	if !cond {
		panic(NewBug(format, v...))
	}
}

// Recover converts a panic into a *Bug stored in errp.  It must be called
// directly by defer.
func Recover(errp *error) {
	v := recover()
	if v == nil {
		return
	}
	if b, ok := v.(*Bug); ok {
		*errp = b
		return
	}
	*errp = &Bug{Message: fmt.Sprint(v), Stack: debug.Stack()}
}

// ReportBug writes a crash report asking the user to file an issue.
func ReportBug(w io.Writer, b *Bug, version string, args []string, mode ColorMode) error {
	p := choosePalette(mode, fileFromWriter(w))
	ew := &errWriter{w: w}
	ew.printf("%s\n\n", b.Stack)
	ew.printf("Error: %s\n", b.Message)
	ew.printf("Arguments: %s\n", strings.Join(args, " "))
	ew.printf("Version: %s\n\n", version)
	ew.printf("%s\n", p.category(CategoryError)("***** COMPILER BUG *****"))
	ew.print("The blp program has crashed. Please report the above stack trace,\n")
	ew.print("along with the input file(s) if possible, to the project issue tracker.\n")
	return ew.err
}
