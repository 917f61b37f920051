// Package sniffs implements the style rules. Each rule inspects the token
// stream around one triggering token and returns the violations it finds.
// Rules hold no state between calls.
package sniffs

import (
	"errors"
	"sort"

	"github.com/gnolang/tsniff/internal/tokens"
)

// ErrInvalidOption is returned when a rule option cannot be applied.
var ErrInvalidOption = errors.New("invalid rule option")

// File is the view of the host token stream available to rules.
type File interface {
	Len() int
	At(ptr int) tokens.Token
	EOL() string
	FindNext(kinds []tokens.Kind, start, end int, exclude bool) int
	FindPrevious(kinds []tokens.Kind, start, end int, exclude bool) int
	DeclarationName(ptr int) (string, bool)
	MethodProperties(ptr int) tokens.MethodProperties
}

// Violation is a single finding. Message is a printf template filled with
// Data by the host.
type Violation struct {
	Message string
	Pos     int
	Code    string
	Data    []any
}

// Sniff is a rule the host calls once per token of a registered kind.
type Sniff interface {
	// Name is the stable rule name used in configuration.
	Name() string
	Description() string
	// Codes lists every violation code the rule can report.
	Codes() []string
	// Register returns the token kinds that trigger the rule.
	Register() []tokens.Kind
	Process(f File, ptr int) []Violation
}

// Configurable is implemented by rules that accept options.
type Configurable interface {
	Configure(opts map[string]any) error
}

// Defaults returns a fresh instance of every rule, sorted by name.
func Defaults() []Sniff {
	all := []Sniff{
		NewMultipleBlankLine(),
		NewScopeClosingBrace(),
		NewValidFunctionName(),
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name() < all[j].Name() })
	return all
}
