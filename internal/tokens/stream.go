package tokens

import (
	"slices"
	"sort"
	"strings"
)

// DefaultEOL is used when the host does not report a line terminator.
const DefaultEOL = "\n"

const (
	VisibilityPublic    = "public"
	VisibilityProtected = "protected"
	VisibilityPrivate   = "private"
)

// MethodProperties describes the modifiers written in front of a function
// declaration.
type MethodProperties struct {
	Visibility          string
	VisibilitySpecified bool
	IsStatic            bool
	IsAbstract          bool
	IsFinal             bool
}

// Stream is a read-only, annotated token sequence.
type Stream struct {
	eol    string
	tokens []Token
}

// NewStream wraps toks. Line and column are derived from the token text when
// the first token carries no line, and enclosing conditions are derived from
// the scope links when no token carries any.
func NewStream(eol string, toks []Token) *Stream {
	if eol == "" {
		eol = DefaultEOL
	}
	s := &Stream{eol: eol, tokens: slices.Clone(toks)}
	if len(s.tokens) > 0 && s.tokens[0].Line == 0 {
		s.computePositions()
	}
	if !s.hasConditions() {
		s.computeConditions()
	}
	return s
}

// Link records a scope on its condition, opener and closer tokens.
func Link(toks []Token, condition, opener, closer int) {
	sc := &Scope{Condition: condition, Opener: opener, Closer: closer}
	for _, ptr := range []int{condition, opener, closer} {
		if ptr < 0 || ptr >= len(toks) {
			continue
		}
		// a closer keeps the first condition that claimed it
		if ptr == closer && ptr != condition && toks[ptr].Scope != nil {
			continue
		}
		toks[ptr].Scope = sc
	}
}

func (s *Stream) computePositions() {
	line, col := 1, 1
	for i := range s.tokens {
		s.tokens[i].Line = line
		s.tokens[i].Column = col
		text := s.tokens[i].Text
		if n := strings.Count(text, s.eol); n > 0 {
			line += n
			col = len(text) - strings.LastIndex(text, s.eol) - len(s.eol) + 1
		} else {
			col += len(text)
		}
	}
}

func (s *Stream) hasConditions() bool {
	for _, tok := range s.tokens {
		if len(tok.Conditions) > 0 {
			return true
		}
	}
	return false
}

func (s *Stream) computeConditions() {
	var owned []Scope
	for i, tok := range s.tokens {
		if tok.Scope != nil && tok.Scope.Condition == i {
			owned = append(owned, *tok.Scope)
		}
	}
	sort.SliceStable(owned, func(a, b int) bool { return owned[a].Opener < owned[b].Opener })
	for _, sc := range owned {
		end := min(sc.Closer, len(s.tokens))
		for i := sc.Opener + 1; i < end; i++ {
			s.tokens[i].Conditions = append(s.tokens[i].Conditions, sc.Condition)
		}
	}
}

func (s *Stream) Len() int { return len(s.tokens) }

func (s *Stream) At(ptr int) Token { return s.tokens[ptr] }

func (s *Stream) EOL() string { return s.eol }

// Tokens returns a copy of the underlying tokens.
func (s *Stream) Tokens() []Token { return slices.Clone(s.tokens) }

// FindNext returns the first position in [start, end) whose kind is in kinds,
// or, with exclude set, the first whose kind is not. A negative end means the
// end of the stream. It returns -1 when nothing matches.
func (s *Stream) FindNext(kinds []Kind, start, end int, exclude bool) int {
	if end < 0 || end > len(s.tokens) {
		end = len(s.tokens)
	}
	for i := max(start, 0); i < end; i++ {
		if slices.Contains(kinds, s.tokens[i].Kind) != exclude {
			return i
		}
	}
	return -1
}

// FindPrevious walks backward from start down to end inclusive. A negative
// end means the start of the stream.
func (s *Stream) FindPrevious(kinds []Kind, start, end int, exclude bool) int {
	if end < 0 {
		end = 0
	}
	for i := min(start, len(s.tokens)-1); i >= end; i-- {
		if slices.Contains(kinds, s.tokens[i].Kind) != exclude {
			return i
		}
	}
	return -1
}

// DeclarationName returns the name declared by the function or class-like
// token at ptr. Closures and anonymous classes have no name.
func (s *Stream) DeclarationName(ptr int) (string, bool) {
	switch s.tokens[ptr].Kind {
	case Function, Class, Interface, Trait, Enum:
	default:
		return "", false
	}
	for i := ptr + 1; i < len(s.tokens); i++ {
		switch s.tokens[i].Kind {
		case Whitespace, Comment, DocComment, BitwiseAnd:
			continue
		case String:
			return s.tokens[i].Text, true
		default:
			return "", false
		}
	}
	return "", false
}

// MethodProperties reads the modifiers in front of the function at ptr.
// Visibility defaults to public when none is written.
func (s *Stream) MethodProperties(ptr int) MethodProperties {
	props := MethodProperties{Visibility: VisibilityPublic}
	for i := ptr - 1; i >= 0; i-- {
		tok := s.tokens[i]
		if !slices.Contains(EmptyKinds, tok.Kind) && !slices.Contains(methodModifiers, tok.Kind) {
			break
		}
		switch tok.Kind {
		case Public:
			props.Visibility, props.VisibilitySpecified = VisibilityPublic, true
		case Protected:
			props.Visibility, props.VisibilitySpecified = VisibilityProtected, true
		case Private:
			props.Visibility, props.VisibilitySpecified = VisibilityPrivate, true
		case Static:
			props.IsStatic = true
		case Abstract:
			props.IsAbstract = true
		case Final:
			props.IsFinal = true
		}
	}
	return props
}

// Source reassembles the text the stream was produced from.
func (s *Stream) Source() string {
	var b strings.Builder
	for _, tok := range s.tokens {
		b.WriteString(tok.Text)
	}
	return b.String()
}

// Lines splits Source on the stream's line terminator.
func (s *Stream) Lines() []string {
	return strings.Split(s.Source(), s.eol)
}
