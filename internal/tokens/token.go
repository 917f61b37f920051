package tokens

// Scope links a scope condition (if, function, class, ...) to the opener
// and closer that delimit its body. The condition, opener and closer tokens
// of one scope share the same links; a closer claimed by several conditions
// points back at the one that owns it.
type Scope struct {
	Condition int `yaml:"condition" json:"condition"`
	Opener    int `yaml:"opener" json:"opener"`
	Closer    int `yaml:"closer" json:"closer"`
}

// Token is one lexical unit of the stream. Tokens are produced by the host
// and never modified by rules.
type Token struct {
	Kind   Kind
	Text   string
	Line   int // 1-based
	Column int // 1-based

	// Scope is nil unless the token is a condition, opener or closer.
	Scope *Scope

	// Conditions holds the positions of the enclosing scope conditions,
	// outermost first.
	Conditions []int
}

// Position is a token's place in the source text.
type Position struct {
	Line   int
	Column int
}

func (t Token) Position() Position {
	return Position{Line: t.Line, Column: t.Column}
}
