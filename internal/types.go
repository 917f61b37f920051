package internal

import "github.com/gnolang/tsniff/internal/tokens"

// SourceCode stores the lines of the text a token stream was cut from.
type SourceCode struct {
	Lines []string
}

// NewSourceCode rebuilds the source lines of a stream.
func NewSourceCode(stream *tokens.Stream) *SourceCode {
	return &SourceCode{Lines: stream.Lines()}
}

// ReadSourceCode loads a token dump and rebuilds its source lines.
func ReadSourceCode(filename string) (*SourceCode, error) {
	stream, err := tokens.Load(filename)
	if err != nil {
		return nil, err
	}
	return NewSourceCode(stream), nil
}
