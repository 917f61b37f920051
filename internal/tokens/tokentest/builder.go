// Package tokentest builds synthetic token streams for rule tests.
package tokentest

import (
	"strings"

	"github.com/gnolang/tsniff/internal/tokens"
)

type Builder struct {
	toks   []tokens.Token
	scopes []tokens.Scope
}

func New() *Builder {
	return &Builder{}
}

// Add appends a token and returns its position.
func (b *Builder) Add(kind tokens.Kind, text string) int {
	b.toks = append(b.toks, tokens.Token{Kind: kind, Text: text})
	return len(b.toks) - 1
}

// NL appends a line terminator.
func (b *Builder) NL() int {
	return b.Add(tokens.Whitespace, "\n")
}

// Indent appends n spaces. Nothing is added for n == 0.
func (b *Builder) Indent(n int) int {
	if n == 0 {
		return len(b.toks) - 1
	}
	return b.Add(tokens.Whitespace, strings.Repeat(" ", n))
}

// Sp appends a single space.
func (b *Builder) Sp() int {
	return b.Add(tokens.Whitespace, " ")
}

// Scope links condition, opener and closer.
func (b *Builder) Scope(condition, opener, closer int) {
	b.scopes = append(b.scopes, tokens.Scope{Condition: condition, Opener: opener, Closer: closer})
}

// Stream computes positions and conditions and returns the stream.
func (b *Builder) Stream() *tokens.Stream {
	toks := make([]tokens.Token, len(b.toks))
	copy(toks, b.toks)
	for _, sc := range b.scopes {
		tokens.Link(toks, sc.Condition, sc.Opener, sc.Closer)
	}
	return tokens.NewStream("\n", toks)
}
