package sniffs

import (
	"strings"

	"github.com/gnolang/tsniff/internal/tokens"
)

const maxBlankLines = 2

// MultipleBlankLine reports runs of more than two empty lines.
type MultipleBlankLine struct{}

func NewMultipleBlankLine() *MultipleBlankLine {
	return &MultipleBlankLine{}
}

func (r *MultipleBlankLine) Name() string { return "multiple-blank-line" }

func (r *MultipleBlankLine) Description() string {
	return "files must not contain more than two consecutive blank lines"
}

func (r *MultipleBlankLine) Codes() []string { return []string{"MultipleBlankLines"} }

func (r *MultipleBlankLine) Register() []tokens.Kind {
	return []tokens.Kind{tokens.Whitespace}
}

// Process scans the whitespace run starting at ptr. Only the first
// whitespace token after content starts a scan, so each run is reported
// at most once.
func (r *MultipleBlankLine) Process(f File, ptr int) []Violation {
	if ptr > 0 && f.At(ptr-1).Kind == tokens.Whitespace {
		return nil
	}
	anchor := max(ptr-1, 0)
	eol := f.EOL()

	blankLines := 0
	for i := ptr; i < f.Len(); i++ {
		tok := f.At(i)
		if tok.Column == 1 && strings.HasPrefix(tok.Text, eol) {
			blankLines++
		} else if tok.Kind != tokens.Whitespace {
			break
		}

		if blankLines > maxBlankLines {
			return []Violation{{
				Message: "File must not contain multiple blank lines",
				Pos:     anchor,
				Code:    "MultipleBlankLines",
			}}
		}
	}
	return nil
}
