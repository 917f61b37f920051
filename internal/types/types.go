package types

import (
	"fmt"
	"go/token"
	"strings"
)

// Issue represents a lint issue found in a token stream.
type Issue struct {
	Rule     string         `json:"rule"`
	Code     string         `json:"code"`
	Severity Severity       `json:"severity"`
	Filename string         `json:"filename"`
	Message  string         `json:"message"`
	Start    token.Position `json:"start"`
}

// Key is the rule-qualified code, e.g. "scope-closing-brace.Indent".
func (i Issue) Key() string {
	return i.Rule + "." + i.Code
}

// Severity is how seriously an issue is reported.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

var severityNames = [...]string{
	SeverityError:   "error",
	SeverityWarning: "warning",
	SeverityInfo:    "info",
	SeverityOff:     "off",
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range severityNames {
		if n == name {
			*s = Severity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", string(text))
}

// ConfigRule is the per-rule configuration.
type ConfigRule struct {
	Severity Severity       `yaml:"severity" koanf:"severity"`
	Options  map[string]any `yaml:"options,omitempty" koanf:"options"`
}
