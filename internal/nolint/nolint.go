package nolint

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gnolang/tsniff/internal/tokens"
)

const nolintDirective = "nolint"

var commentMarkers = []string{"//", "#", "/*"}

// Manager manages nolint scopes and checks if a line is nolinted.
type Manager struct {
	scopes []nolintScope
}

// nolintScope represents a range of lines where nolint applies.
type nolintScope struct {
	rules map[string]struct{}
	start int
	end   int
}

// ParseComments collects the nolint comments of a token stream.
func ParseComments(s *tokens.Stream) *Manager {
	manager := Manager{}
	if s.Len() == 0 {
		return &manager
	}
	lastLine := s.At(s.Len() - 1).Line
	firstCode := s.FindNext(append(slices.Clone(tokens.EmptyKinds), tokens.OpenTag), 0, -1, true)

	for i := 0; i < s.Len(); i++ {
		tok := s.At(i)
		if tok.Kind != tokens.Comment && tok.Kind != tokens.DocComment {
			continue
		}
		ns, err := parseComment(s, i, firstCode, lastLine)
		if err != nil {
			// ignore comments that are not nolint directives
			continue
		}
		manager.scopes = append(manager.scopes, ns)
	}
	return &manager
}

// parseComment parses a single comment token and determines its scope.
func parseComment(s *tokens.Stream, ptr, firstCode, lastLine int) (nolintScope, error) {
	var ns nolintScope
	tok := s.At(ptr)

	text := strings.TrimSpace(tok.Text)
	text = strings.TrimSuffix(text, "*/")
	for _, marker := range commentMarkers {
		if strings.HasPrefix(text, marker) {
			text = strings.TrimPrefix(text, marker)
			break
		}
	}
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, nolintDirective) {
		return ns, fmt.Errorf("not a nolint comment")
	}

	rest := text[len(nolintDirective):]
	// A nolint comment can either have a list of rules after a colon (:)
	// or, with no rules, apply to all of them.
	if len(rest) > 0 && rest[0] != ':' {
		return ns, fmt.Errorf("invalid nolint comment format")
	}
	if len(rest) > 0 {
		rest = strings.TrimSpace(rest[1:])
		if rest == "" {
			return ns, fmt.Errorf("invalid nolint comment: no rules specified after colon")
		}
	}
	ns.rules = parseIgnoreRuleNames(rest)

	// before any code: the whole file
	if firstCode < 0 || ptr < firstCode {
		ns.start, ns.end = 1, lastLine
		return ns, nil
	}

	// after code on the same line: that line only
	if isInlineComment(s, ptr) {
		ns.start, ns.end = tok.Line, tok.Line
		return ns, nil
	}

	// standalone: the comment and the line after it
	endLine := tok.Line + strings.Count(strings.TrimSuffix(tok.Text, s.EOL()), s.EOL())
	ns.start, ns.end = tok.Line, endLine+1
	return ns, nil
}

// parseIgnoreRuleNames parses the rule list from the nolint comment.
func parseIgnoreRuleNames(text string) map[string]struct{} {
	rulesMap := make(map[string]struct{})
	if text == "" {
		return rulesMap
	}
	for _, rule := range strings.Split(text, ",") {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rulesMap[rule] = struct{}{}
		}
	}
	return rulesMap
}

// isInlineComment reports whether code precedes the comment on its line.
func isInlineComment(s *tokens.Stream, ptr int) bool {
	line := s.At(ptr).Line
	for i := ptr - 1; i >= 0; i-- {
		tok := s.At(i)
		if tok.Line != line {
			return false
		}
		if !slices.Contains(tokens.EmptyKinds, tok.Kind) {
			return true
		}
	}
	return false
}

// IsNolint reports whether an issue of rule and code on line is suppressed.
// A directive may name the rule, the code, or "rule.Code".
func (m *Manager) IsNolint(line int, rule, code string) bool {
	for _, ns := range m.scopes {
		if line < ns.start || line > ns.end {
			continue
		}
		if len(ns.rules) == 0 {
			return true
		}
		for _, name := range []string{rule, code, rule + "." + code} {
			if _, ok := ns.rules[name]; ok {
				return true
			}
		}
	}
	return false
}
