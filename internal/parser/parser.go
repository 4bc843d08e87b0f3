// Package parser implements recursive descent parsing of the YAML token stream
// into a node graph.
//
// At every decision point the parser consults an ordered list of token parsers and
// dispatches to the first one that supports the upcoming tokens. Aliases are kept
// as placeholders; anchors and merge keys are only recorded in node metadata and
// resolved by the resolver package.
package parser

import (
	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/yamlgraph/internal/tokenizer"
	"github.com/shapestone/yamlgraph/pkg/node"
)

const (
	// DefaultMaxDepth bounds the nesting of collections and properties.
	DefaultMaxDepth = 10000

	// DefaultMaxKeyLength is the maximum length of an implicit mapping key in characters.
	DefaultMaxKeyLength = 1000
)

// Parser turns a token stream into a Root node.
type Parser struct {
	stream *tokenizer.Stream

	level       int  // INDENT/DEDENT nesting consumed so far
	flowDepth   int  // open flow collections
	explicitKey bool // the next node is a "?" key
	version     string

	depth        int
	maxDepth     int
	maxKeyLength int
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth limits the nesting depth. Deeper input fails with a ParserError.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// WithMaxKeyLength sets the maximum length of mapping keys.
func WithMaxKeyLength(length int) Option {
	return func(p *Parser) {
		if length > 0 {
			p.maxKeyLength = length
		}
	}
}

// NewParser creates a parser over tokens produced by tokenizer.Tokenize.
func NewParser(tokens []tokenizer.Token, opts ...Option) *Parser {
	p := &Parser{
		stream:       tokenizer.NewStream(tokens),
		version:      tokenizer.DefaultVersion,
		maxDepth:     DefaultMaxDepth,
		maxKeyLength: DefaultMaxKeyLength,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse tokenizes and parses input into a Root node with one Document per YAML
// document. Lexer failures are returned as *tokenizer.LexerError, structural
// failures as *ParserError.
func Parse(input string, opts ...Option) (*node.Node, error) {
	tokens, err := tokenizer.Tokenize(input)
	if err != nil {
		return nil, err
	}
	return NewParser(tokens, opts...).Parse()
}

// Helper methods

// peek returns the current token without advancing.
func (p *Parser) peek() tokenizer.Token {
	return p.stream.Peek()
}

// advance consumes the current token and keeps the indentation level in step.
func (p *Parser) advance() tokenizer.Token {
	t := p.stream.Advance()
	switch t.Kind() {
	case tokenizer.Indent:
		p.level++
	case tokenizer.Dedent:
		p.level--
	}
	return t
}

// consumeDedent consumes a DEDENT closing a level opened by an INDENT.
func (p *Parser) consumeDedent() {
	if p.peek().Kind() == tokenizer.Dedent {
		p.advance()
	}
}

// enter guards the recursion depth.
func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorAt(p.peek(), "Maximum nesting depth of %d exceeded", p.maxDepth)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// position converts a token position for nodes.
func position(t tokenizer.Token) ast.Position {
	return ast.NewPosition(t.Offset(), t.Line(), t.Column())
}

// isTerminator reports whether a token ends the node being parsed without
// contributing content.
func isTerminator(kind tokenizer.TokenType) bool {
	switch kind {
	case tokenizer.Dedent, tokenizer.EOF,
		tokenizer.DocumentStart, tokenizer.DocumentEnd,
		tokenizer.FlowSeparator, tokenizer.MappingEnd, tokenizer.SequenceEnd,
		tokenizer.KeyIndicator:
		return true
	}
	return false
}
