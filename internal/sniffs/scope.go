package sniffs

import (
	"slices"

	"github.com/gnolang/tsniff/internal/tokens"
)

// ScopeProcessor is a rule that cares about where a token is declared.
type ScopeProcessor interface {
	// ProcessWithinScope is called when the deepest enclosing condition of
	// ptr is one of the scope kinds; scopePtr is that condition.
	ProcessWithinScope(f File, ptr, scopePtr int) []Violation
	// ProcessOutsideScope is called for every other occurrence.
	ProcessOutsideScope(f File, ptr int) []Violation
}

// dispatchScope routes ptr to the matching hook of p.
func dispatchScope(p ScopeProcessor, scopeKinds []tokens.Kind, f File, ptr int) []Violation {
	conditions := f.At(ptr).Conditions
	if len(conditions) > 0 {
		deepest := conditions[len(conditions)-1]
		if slices.Contains(scopeKinds, f.At(deepest).Kind) {
			return p.ProcessWithinScope(f, ptr, deepest)
		}
	}
	return p.ProcessOutsideScope(f, ptr)
}
