package internal

import (
	"os"
	"strings"
)

// SourceCode stores the content of a source code file, split into lines
// for the issue renderers.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads a file and returns it as a SourceCode.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewSourceCode(string(content)), nil
}

// NewSourceCode wraps an in-memory buffer.
func NewSourceCode(content string) *SourceCode {
	return &SourceCode{Lines: strings.Split(content, "\n")}
}
