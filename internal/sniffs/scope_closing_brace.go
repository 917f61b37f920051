package sniffs

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/gnolang/tsniff/internal/tokens"
)

const defaultIndent = 2

var whitespace = []tokens.Kind{tokens.Whitespace}

// ScopeClosingBrace checks that the closing brace of every scope sits on its
// own line, aligned with the line that opened the scope. Alternative syntax
// closers (endif, endwhile, ...) are not checked.
type ScopeClosingBrace struct {
	// Indent is how far a case or default closer sits from its condition.
	Indent int `mapstructure:"indent"`
}

func NewScopeClosingBrace() *ScopeClosingBrace {
	return &ScopeClosingBrace{Indent: defaultIndent}
}

func (r *ScopeClosingBrace) Name() string { return "scope-closing-brace" }

func (r *ScopeClosingBrace) Description() string {
	return "closing braces must be on their own line and aligned with the scope opener"
}

func (r *ScopeClosingBrace) Codes() []string {
	return []string{"Line", "Indent", "BreakIdent"}
}

func (r *ScopeClosingBrace) Register() []tokens.Kind {
	return tokens.ScopeOpeners
}

// Configure accepts the "indent" option.
func (r *ScopeClosingBrace) Configure(opts map[string]any) error {
	next := *r
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &next,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(opts); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidOption, r.Name(), err)
	}
	if next.Indent < 0 {
		return fmt.Errorf("%w: %s: indent must not be negative", ErrInvalidOption, r.Name())
	}
	*r = next
	return nil
}

func (r *ScopeClosingBrace) Process(f File, ptr int) []Violation {
	tok := f.At(ptr)
	// inline condition, no scope of its own
	if tok.Scope == nil || tok.Scope.Condition != ptr {
		return nil
	}
	scopeStart, scopeEnd := tok.Scope.Opener, tok.Scope.Closer
	if scopeEnd < 0 || scopeEnd >= f.Len() {
		return nil
	}

	closer := f.At(scopeEnd)
	// the closer belongs to another condition sharing it
	if closer.Scope == nil || closer.Scope.Condition != ptr {
		return nil
	}
	if closer.Kind != tokens.CloseCurlyBracket {
		return nil
	}

	// The scope may be preceded by modifiers or an else on the same line,
	// so measure from the first content of that line.
	lineStart := ptr - 1
	for ; lineStart > 0; lineStart-- {
		if strings.Contains(f.At(lineStart).Text, f.EOL()) {
			break
		}
	}
	lineStart = f.FindNext(whitespace, lineStart+1, -1, true)
	startColumn := f.At(lineStart).Column

	lastContent := f.FindPrevious(whitespace, scopeEnd-1, scopeStart, true)
	if lastContent >= 0 && f.At(lastContent).Line == closer.Line {
		return []Violation{{
			Message: "Closing brace must be on a line by itself",
			Pos:     scopeEnd,
			Code:    "Line",
		}}
	}

	braceIndent := closer.Column
	if tok.Kind == tokens.Case || tok.Kind == tokens.Default {
		if braceIndent != startColumn+r.Indent {
			return []Violation{{
				Message: "Case breaking statement indented incorrectly; expected %d spaces, found %d",
				Pos:     scopeEnd,
				Code:    "BreakIdent",
				Data:    []any{startColumn + r.Indent - 1, braceIndent - 1},
			}}
		}
		return nil
	}

	if braceIndent != startColumn {
		return []Violation{{
			Message: "Closing brace indented incorrectly; expected %d spaces, found %d",
			Pos:     scopeEnd,
			Code:    "Indent",
			Data:    []any{startColumn - 1, braceIndent - 1},
		}}
	}
	return nil
}
