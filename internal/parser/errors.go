package parser

import (
	"fmt"

	"github.com/shapestone/yamlgraph/internal/tokenizer"
)

// ParserError reports a token that does not fit the YAML structure at its position.
type ParserError struct {
	Message string
	Token   tokenizer.Token
}

// Error returns the message followed by the position of the offending token.
func (e *ParserError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Token.Line(), e.Token.Column())
}

func (p *Parser) errorAt(t tokenizer.Token, format string, args ...interface{}) *ParserError {
	return &ParserError{Message: fmt.Sprintf(format, args...), Token: t}
}

// unexpected reports a token no rule accepts.
func (p *Parser) unexpected(t tokenizer.Token) *ParserError {
	return p.errorAt(t, "Unexpected token: %s", t.Kind())
}
