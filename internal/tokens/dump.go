package tokens

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDump is returned for token dumps that break the stream contract.
var ErrInvalidDump = errors.New("invalid token dump")

// Dump is the serialized form of a token stream handed over by the host
// tokenizer. JSON dumps are read through the same decoder.
type Dump struct {
	EOL    string      `yaml:"eol" json:"eol"`
	Tokens []DumpToken `yaml:"tokens" json:"tokens"`
	Scopes []Scope     `yaml:"scopes" json:"scopes"`
}

type DumpToken struct {
	Kind       Kind   `yaml:"kind" json:"kind"`
	Text       string `yaml:"text" json:"text"`
	Line       int    `yaml:"line,omitempty" json:"line,omitempty"`
	Column     int    `yaml:"column,omitempty" json:"column,omitempty"`
	Conditions []int  `yaml:"conditions,omitempty" json:"conditions,omitempty"`
}

// Load reads and decodes the token dump at path.
func Load(path string) (*Stream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading token dump: %w", err)
	}
	s, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Decode builds a stream from a YAML or JSON token dump.
func Decode(data []byte) (*Stream, error) {
	var d Dump
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}
	return d.Stream()
}

// Stream validates the dump and converts it into a Stream.
func (d Dump) Stream() (*Stream, error) {
	toks := make([]Token, len(d.Tokens))
	positioned := len(d.Tokens) > 0 && d.Tokens[0].Line > 0
	for i, dt := range d.Tokens {
		if positioned && (dt.Line < 1 || dt.Column < 1) {
			return nil, fmt.Errorf("%w: token %d has no position", ErrInvalidDump, i)
		}
		if i > 0 && positioned && dt.Line < d.Tokens[i-1].Line {
			return nil, fmt.Errorf("%w: token %d goes back to line %d", ErrInvalidDump, i, dt.Line)
		}
		toks[i] = Token{
			Kind:       dt.Kind,
			Text:       dt.Text,
			Line:       dt.Line,
			Column:     dt.Column,
			Conditions: dt.Conditions,
		}
	}
	for _, sc := range d.Scopes {
		if sc.Condition < 0 || sc.Condition >= len(toks) ||
			sc.Opener < 0 || sc.Opener >= len(toks) ||
			sc.Closer < sc.Opener || sc.Closer >= len(toks) {
			return nil, fmt.Errorf("%w: scope %+v out of range", ErrInvalidDump, sc)
		}
		Link(toks, sc.Condition, sc.Opener, sc.Closer)
	}
	return NewStream(d.EOL, toks), nil
}
