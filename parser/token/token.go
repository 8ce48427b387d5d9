// Copyright © 2024 The ELPS authors

package token

import "fmt"

// Kind classifies a token.
type Kind uint

// Kind constants produced by the lexer.
const (
	Invalid Kind = iota
	Error
	EOF

	// Trivia
	Whitespace
	Comment

	Ident
	Quoted
	Number
	Op
	Punct

	numKinds
)

func (k Kind) String() string {
	kindStrings := [numKinds]string{
		Invalid:    "invalid",
		Error:      "error",
		EOF:        "EOF",
		Whitespace: "whitespace",
		Comment:    "comment",
		Ident:      "identifier",
		Quoted:     "string",
		Number:     "number",
		Op:         "operator",
		Punct:      "punctuation",
	}
	if k >= numKinds {
		return kindStrings[Invalid]
	}
	return kindStrings[k]
}

// Trivia reports whether tokens of kind k are ignored by the parser.
func (k Kind) Trivia() bool {
	return k == Whitespace || k == Comment
}

type Token struct {
	Kind  Kind
	Text  string
	Range Range
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}

// Is reports whether the token has the given kind and text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}
