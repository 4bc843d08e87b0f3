// Package tokenizer turns YAML text into a flat token stream.
//
// The lexer is a character-at-a-time state machine. At every position it tries an
// ordered list of scanners; the first one whose precondition holds consumes input
// and may emit tokens. Block structure is reported through INDENT and DEDENT tokens
// (off-side rule), so the parser never has to look at columns.
package tokenizer

import "fmt"

// TokenType identifies the kind of a token.
type TokenType int

const (
	// Structural tokens
	Indent TokenType = iota + 1
	Dedent
	EOF

	// Indicators
	KeyIndicator      // :
	SequenceIndicator // - (block)
	MappingStart      // {
	MappingEnd        // }
	SequenceStart     // [
	SequenceEnd       // ]
	FlowSeparator     // , (flow)
	ExplicitKey       // ?
	DocumentStart     // --- (or implicit)
	DocumentEnd       // ... (or implicit)

	// Node properties
	Anchor // &name
	Alias  // *name
	Tag    // !tag

	// Scalars
	PlainScalar
	SingleQuotedScalar
	DoubleQuotedScalar
	LiteralScalar // |
	FoldedScalar  // >

	Directive // %YAML, %TAG
)

var tokenNames = map[TokenType]string{
	Indent:             "INDENT",
	Dedent:             "DEDENT",
	EOF:                "EOF",
	KeyIndicator:       "KEY_INDICATOR",
	SequenceIndicator:  "SEQUENCE_INDICATOR",
	MappingStart:       "MAPPING_START",
	MappingEnd:         "MAPPING_END",
	SequenceStart:      "SEQUENCE_START",
	SequenceEnd:        "SEQUENCE_END",
	FlowSeparator:      "FLOW_SEPARATOR",
	ExplicitKey:        "EXPLICIT_KEY",
	DocumentStart:      "DOCUMENT_START",
	DocumentEnd:        "DOCUMENT_END",
	Anchor:             "ANCHOR",
	Alias:              "ALIAS",
	Tag:                "TAG",
	PlainScalar:        "PLAIN_SCALAR",
	SingleQuotedScalar: "SINGLE_QUOTED_SCALAR",
	DoubleQuotedScalar: "DOUBLE_QUOTED_SCALAR",
	LiteralScalar:      "LITERAL_SCALAR",
	FoldedScalar:       "FOLDED_SCALAR",
	Directive:          "DIRECTIVE",
}

// String returns the upper-case token type name.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsScalar reports whether the type is one of the five scalar styles.
func (t TokenType) IsScalar() bool {
	return t >= PlainScalar && t <= FoldedScalar
}

// Metadata keys attached to tokens.
const (
	MetaVersion   = "version"             // on DocumentStart: YAML version of the document
	MetaMultiline = "was_multiline_input" // on scalars: source spans several lines
)

// Token is a single lexical unit. Tokens are immutable once created.
type Token struct {
	kind   TokenType
	value  string
	line   int
	column int
	offset int
	meta   map[string]interface{}
}

// NewToken creates a token at the given source position.
func NewToken(kind TokenType, value string, line, column, offset int) Token {
	return Token{kind: kind, value: value, line: line, column: column, offset: offset}
}

// withMeta returns a copy of t carrying an additional metadata entry.
func (t Token) withMeta(key string, value interface{}) Token {
	meta := make(map[string]interface{}, len(t.meta)+1)
	for k, v := range t.meta {
		meta[k] = v
	}
	meta[key] = value
	t.meta = meta
	return t
}

// Kind returns the token type.
func (t Token) Kind() TokenType { return t.kind }

// Value returns the token payload (scalar text, anchor name, resolved tag...).
func (t Token) Value() string { return t.value }

// Line returns the 1-based source line.
func (t Token) Line() int { return t.line }

// Column returns the 0-based source column.
func (t Token) Column() int { return t.column }

// Offset returns the rune offset into the input.
func (t Token) Offset() int { return t.offset }

// Meta returns a metadata entry.
func (t Token) Meta(key string) (interface{}, bool) {
	v, ok := t.meta[key]
	return v, ok
}

// Version returns the YAML version attached to a DocumentStart token.
func (t Token) Version() string {
	if v, ok := t.meta[MetaVersion].(string); ok {
		return v
	}
	return ""
}

// Multiline reports whether a scalar token spanned several source lines.
func (t Token) Multiline() bool {
	v, _ := t.meta[MetaMultiline].(bool)
	return v
}

// String renders the token for debugging and the token dump of the CLI.
func (t Token) String() string {
	if t.value == "" {
		return fmt.Sprintf("%s (%d:%d)", t.kind, t.line, t.column)
	}
	return fmt.Sprintf("%s %q (%d:%d)", t.kind, t.value, t.line, t.column)
}
