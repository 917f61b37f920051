package sniffs

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gnolang/tsniff/internal/tokens"
)

// magicMethods are the names, without the "__" prefix, that may start with
// a double underscore.
var magicMethods = map[string]struct{}{
	"construct":   {},
	"destruct":    {},
	"call":        {},
	"callstatic":  {},
	"get":         {},
	"set":         {},
	"isset":       {},
	"unset":       {},
	"sleep":       {},
	"wakeup":      {},
	"serialize":   {},
	"unserialize": {},
	"tostring":    {},
	"invoke":      {},
	"set_state":   {},
	"clone":       {},
	"debuginfo":   {},
}

// capitalize upper-cases the first letter of a visibility keyword. Casers
// keep state, so a new one is made per call.
func capitalize(s string) string {
	return cases.Title(language.Und).String(s)
}

type verdictKind int

const (
	verdictValid verdictKind = iota
	verdictExempt
	verdictViolation
)

// verdict is the outcome of checking one method name.
type verdict struct {
	kind    verdictKind
	code    string
	message string
	data    []any
}

func exempt() verdict { return verdict{kind: verdictExempt} }

func violation(code, message string, data ...any) verdict {
	return verdict{kind: verdictViolation, code: code, message: message, data: data}
}

// ValidFunctionName checks method names against their visibility: non-public
// methods start with an underscore, public ones do not, and all are camel
// caps. Free functions are not checked.
type ValidFunctionName struct{}

func NewValidFunctionName() *ValidFunctionName {
	return &ValidFunctionName{}
}

func (r *ValidFunctionName) Name() string { return "valid-function-name" }

func (r *ValidFunctionName) Description() string {
	return "method names must match their visibility and be in camel caps"
}

func (r *ValidFunctionName) Codes() []string {
	return []string{
		"MethodDoubleUnderscore",
		"PrivateNoUnderscore",
		"PublicUnderscore",
		"ScopeNotCamelCaps",
		"NotCamelCaps",
	}
}

func (r *ValidFunctionName) Register() []tokens.Kind {
	return []tokens.Kind{tokens.Function}
}

func (r *ValidFunctionName) Process(f File, ptr int) []Violation {
	return dispatchScope(r, tokens.OOScopes, f, ptr)
}

func (r *ValidFunctionName) ProcessWithinScope(f File, ptr, scopePtr int) []Violation {
	v := r.check(f, ptr, scopePtr)
	if v.kind != verdictViolation {
		return nil
	}
	return []Violation{{Message: v.message, Pos: ptr, Code: v.code, Data: v.data}}
}

func (r *ValidFunctionName) ProcessOutsideScope(File, int) []Violation {
	return nil
}

func (r *ValidFunctionName) check(f File, ptr, scopePtr int) verdict {
	methodName, ok := f.DeclarationName(ptr)
	if !ok {
		// closure
		return exempt()
	}

	className, _ := f.DeclarationName(scopePtr)
	fullName := className + "::" + methodName

	if strings.HasPrefix(methodName, "__") {
		if _, ok := magicMethods[strings.ToLower(methodName[2:])]; ok {
			return exempt()
		}
		return violation("MethodDoubleUnderscore",
			`Method name "%s" is invalid; only PHP magic methods should be prefixed with a double underscore`,
			fullName)
	}

	// legacy constructor and destructor names
	if methodName == className || methodName == "_"+className {
		return exempt()
	}

	props := f.MethodProperties(ptr)
	isPublic := props.Visibility == tokens.VisibilityPublic
	scope := capitalize(props.Visibility)
	underscored := strings.HasPrefix(methodName, "_")

	if !isPublic && !underscored {
		return violation("PrivateNoUnderscore",
			`%s method name "%s" must be prefixed with an underscore`,
			scope, fullName)
	}

	if isPublic && props.VisibilitySpecified && underscored {
		return violation("PublicUnderscore",
			`%s method name "%s" must not be prefixed with an underscore`,
			scope, fullName)
	}

	// Without a written visibility the method may be a legacy private one,
	// so a single leading underscore is tolerated.
	testName := methodName
	if !props.VisibilitySpecified && underscored {
		testName = methodName[1:]
	}

	if isCamelCaps(testName, isPublic) {
		return verdict{kind: verdictValid}
	}
	if props.VisibilitySpecified {
		return violation("ScopeNotCamelCaps",
			`%s method name "%s" is not in camel caps format`,
			scope, fullName)
	}
	return violation("NotCamelCaps",
		`Method name "%s" is not in camel caps format`,
		fullName)
}
