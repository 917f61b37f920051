package sniffs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/tsniff/internal/tokens"
	"github.com/gnolang/tsniff/internal/tokens/tokentest"
)

// ifBlock builds
//
//	<?php
//	<indent>if ($a) {
//	<closerIndent>}
//
// or, with inline set, "if ($a) { $b; }" on one line.
func ifBlock(indent, closerIndent int, inline bool) (*tokens.Stream, int, int) {
	b := tokentest.New()
	b.Add(tokens.OpenTag, "<?php\n")
	b.Indent(indent)
	cond := b.Add(tokens.If, "if")
	b.Sp()
	b.Add(tokens.OpenParenthesis, "(")
	b.Add(tokens.Variable, "$a")
	b.Add(tokens.CloseParenthesis, ")")
	b.Sp()
	open := b.Add(tokens.OpenCurlyBracket, "{")
	if inline {
		b.Sp()
		b.Add(tokens.Variable, "$b")
		b.Add(tokens.Semicolon, ";")
		b.Sp()
	} else {
		b.NL()
		b.Indent(closerIndent)
	}
	closer := b.Add(tokens.CloseCurlyBracket, "}")
	b.NL()
	b.Scope(cond, open, closer)
	return b.Stream(), cond, closer
}

func TestScopeClosingBrace_Aligned(t *testing.T) {
	t.Parallel()
	for _, indent := range []int{0, 2, 4} {
		s, _, _ := ifBlock(indent, indent, false)
		assert.Empty(t, run(NewScopeClosingBrace(), s))
	}
}

func TestScopeClosingBrace_Indent(t *testing.T) {
	t.Parallel()
	s, _, closer := ifBlock(2, 4, false)
	vs := run(NewScopeClosingBrace(), s)

	require.Len(t, vs, 1)
	assert.Equal(t, "Indent", vs[0].Code)
	assert.Equal(t, closer, vs[0].Pos)
	assert.Equal(t, []any{2, 4}, vs[0].Data)
}

func TestScopeClosingBrace_Line(t *testing.T) {
	t.Parallel()
	s, _, closer := ifBlock(4, 0, true)
	vs := run(NewScopeClosingBrace(), s)

	require.Len(t, vs, 1)
	assert.Equal(t, "Line", vs[0].Code)
	assert.Equal(t, closer, vs[0].Pos)
}

func TestScopeClosingBrace_EmptyBodyOnOneLine(t *testing.T) {
	t.Parallel()
	b := tokentest.New()
	b.Add(tokens.OpenTag, "<?php\n")
	cond := b.Add(tokens.While, "while")
	b.Sp()
	open := b.Add(tokens.OpenCurlyBracket, "{")
	closer := b.Add(tokens.CloseCurlyBracket, "}")
	b.Scope(cond, open, closer)

	assert.Equal(t, []string{"Line"}, codes(run(NewScopeClosingBrace(), b.Stream())))
}

// method builds a method whose line starts with modifiers:
//
//	  public static function foo()
//	  {
//	<closerIndent>}
func method(closerIndent int) (*tokens.Stream, int) {
	b := tokentest.New()
	b.Add(tokens.OpenTag, "<?php\n")
	b.Indent(2)
	b.Add(tokens.Public, "public")
	b.Sp()
	b.Add(tokens.Static, "static")
	b.Sp()
	fn := b.Add(tokens.Function, "function")
	b.Sp()
	b.Add(tokens.String, "foo")
	b.Add(tokens.OpenParenthesis, "(")
	b.Add(tokens.CloseParenthesis, ")")
	b.NL()
	b.Indent(2)
	open := b.Add(tokens.OpenCurlyBracket, "{")
	b.NL()
	b.Indent(closerIndent)
	closer := b.Add(tokens.CloseCurlyBracket, "}")
	b.NL()
	b.Scope(fn, open, closer)
	return b.Stream(), closer
}

func TestScopeClosingBrace_MeasuresFromLineStart(t *testing.T) {
	t.Parallel()
	s, _ := method(2)
	assert.Empty(t, run(NewScopeClosingBrace(), s))

	s, closer := method(0)
	vs := run(NewScopeClosingBrace(), s)
	require.Len(t, vs, 1)
	assert.Equal(t, closer, vs[0].Pos)
	assert.Equal(t, []any{2, 0}, vs[0].Data)
}

// caseBlock builds "  case 1: {" closed by a brace at closerIndent.
func caseBlock(kind tokens.Kind, closerIndent int) (*tokens.Stream, int) {
	b := tokentest.New()
	b.Add(tokens.OpenTag, "<?php\n")
	b.Indent(2)
	cond := b.Add(kind, "case")
	b.Sp()
	b.Add(tokens.Number, "1")
	b.Add(tokens.Colon, ":")
	b.Sp()
	open := b.Add(tokens.OpenCurlyBracket, "{")
	b.NL()
	b.Indent(closerIndent)
	closer := b.Add(tokens.CloseCurlyBracket, "}")
	b.NL()
	b.Scope(cond, open, closer)
	return b.Stream(), closer
}

func TestScopeClosingBrace_Case(t *testing.T) {
	t.Parallel()
	for _, kind := range []tokens.Kind{tokens.Case, tokens.Default} {
		t.Run(kind.String(), func(t *testing.T) {
			s, _ := caseBlock(kind, 4)
			assert.Empty(t, run(NewScopeClosingBrace(), s))

			for _, indent := range []int{0, 2, 6} {
				s, closer := caseBlock(kind, indent)
				vs := run(NewScopeClosingBrace(), s)
				require.Len(t, vs, 1)
				assert.Equal(t, "BreakIdent", vs[0].Code)
				assert.Equal(t, closer, vs[0].Pos)
				assert.Equal(t, []any{4, indent}, vs[0].Data)
			}
		})
	}
}

func TestScopeClosingBrace_SharedCloser(t *testing.T) {
	t.Parallel()
	b := tokentest.New()
	b.Add(tokens.OpenTag, "<?php\n")
	owner := b.Add(tokens.Case, "case")
	b.Sp()
	ownerOpen := b.Add(tokens.Colon, ":")
	b.NL()
	b.Indent(4)
	other := b.Add(tokens.Default, "default")
	b.Sp()
	otherOpen := b.Add(tokens.OpenCurlyBracket, "{")
	b.NL()
	b.Indent(9)
	closer := b.Add(tokens.CloseCurlyBracket, "}")
	b.Scope(owner, ownerOpen, closer)
	b.Scope(other, otherOpen, closer)
	s := b.Stream()

	r := NewScopeClosingBrace()
	assert.Empty(t, r.Process(s, other))
	assert.Len(t, r.Process(s, owner), 1)
}

func TestScopeClosingBrace_Skipped(t *testing.T) {
	t.Parallel()

	t.Run("no scope", func(t *testing.T) {
		b := tokentest.New()
		cond := b.Add(tokens.If, "if")
		b.Add(tokens.Variable, "$a")
		assert.Empty(t, NewScopeClosingBrace().Process(b.Stream(), cond))
	})

	t.Run("alternative syntax", func(t *testing.T) {
		b := tokentest.New()
		cond := b.Add(tokens.If, "if")
		open := b.Add(tokens.Colon, ":")
		b.NL()
		b.Indent(7)
		closer := b.Add(tokens.Endif, "endif")
		b.Scope(cond, open, closer)
		assert.Empty(t, NewScopeClosingBrace().Process(b.Stream(), cond))
	})
}

func TestScopeClosingBrace_Configure(t *testing.T) {
	t.Parallel()

	r := NewScopeClosingBrace()
	require.NoError(t, r.Configure(map[string]any{"indent": "4"}))
	assert.Equal(t, 4, r.Indent)

	s, _ := caseBlock(tokens.Case, 6)
	assert.Empty(t, run(r, s))

	err := r.Configure(map[string]any{"width": 2})
	assert.ErrorIs(t, err, ErrInvalidOption)
	err = r.Configure(map[string]any{"indent": -1})
	assert.ErrorIs(t, err, ErrInvalidOption)
	assert.Equal(t, 4, r.Indent)
}
