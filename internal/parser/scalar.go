package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shapestone/yamlgraph/internal/tokenizer"
	"github.com/shapestone/yamlgraph/pkg/node"
)

var (
	intPattern     = regexp.MustCompile(`^[+-]?\d+$`)
	hexPattern     = regexp.MustCompile(`^0x[0-9a-fA-F]+$`)
	octal12Pattern = regexp.MustCompile(`^0o[0-7]+$`)
	octal11Pattern = regexp.MustCompile(`^0[0-7]+$`)
	floatPattern   = regexp.MustCompile(`^[+-]?(\.\d+|\d+(\.\d*)?)([eE][+-]?\d+)?$`)
)

// blockScalarParser parses literal and folded block scalars. Their text is never
// classified.
type blockScalarParser struct{}

func (blockScalarParser) supports(p *Parser, _ bool) bool {
	kind := p.peek().Kind()
	return kind == tokenizer.LiteralScalar || kind == tokenizer.FoldedScalar
}

func (blockScalarParser) parse(p *Parser, meta node.Metadata, _ bool) (*node.Node, error) {
	p.explicitKey = false
	tok := p.advance()
	style := node.LiteralStyle
	if tok.Kind() == tokenizer.FoldedScalar {
		style = node.FoldedStyle
	}
	n := node.NewScalar(tok.Value(), style, meta, position(tok))
	n.Multiline = true
	return n, nil
}

// scalarParser parses plain and quoted scalars.
//
// In key position the text stays a raw string; otherwise untagged plain scalars
// are resolved to null, bool, int or float according to the document's YAML version.
type scalarParser struct{}

func (scalarParser) supports(p *Parser, _ bool) bool {
	return p.peek().Kind().IsScalar()
}

func (scalarParser) parse(p *Parser, meta node.Metadata, isKey bool) (*node.Node, error) {
	tok := p.advance()
	explicit := p.explicitKey
	p.explicitKey = false

	style := node.PlainStyle
	switch tok.Kind() {
	case tokenizer.SingleQuotedScalar:
		style = node.SingleQuotedStyle
	case tokenizer.DoubleQuotedScalar:
		style = node.DoubleQuotedStyle
	}

	value := tok.Value()
	n := node.NewScalar(value, style, meta, position(tok))
	n.Multiline = tok.Multiline()

	if isKey {
		if tok.Multiline() {
			return nil, p.errorAt(tok, "Multiline scalars are not allowed as mapping keys.")
		}
		if utf8.RuneCountInString(value) > p.maxKeyLength {
			return nil, p.errorAt(tok, "Mapping keys cannot be longer than %d characters", p.maxKeyLength)
		}
		if style == node.PlainStyle && value == "<<" {
			n.Meta.IsMergeKey = true
		}
		return n, nil
	}

	if explicit || style != node.PlainStyle || meta.Tag != "" {
		return n, nil
	}
	n.Value = ResolveScalar(value, p.version)
	return n, nil
}

// ResolveScalar classifies the text of an untagged plain scalar.
//
//	null:  null, ~ (any case); YAML 1.1 also the empty string
//	bool:  true, false (any case); YAML 1.1 also yes, no, on, off
//	int:   decimal, 0x hexadecimal, 0o octal; YAML 1.1 uses 0NNN for octal
//	float: decimal and exponent forms, .inf and .nan with an optional sign
//
// Anything else is returned unchanged as a string.
func ResolveScalar(value, version string) interface{} {
	v11 := version == "1.1"

	if isNull(value, v11) {
		return nil
	}
	if b, ok := parseBool(value, v11); ok {
		return b
	}
	if n, ok := parseNumber(value, v11); ok {
		return n
	}
	return value
}

func isNull(value string, v11 bool) bool {
	if value == "~" || strings.EqualFold(value, "null") {
		return true
	}
	return v11 && value == ""
}

func parseBool(value string, v11 bool) (bool, bool) {
	switch {
	case strings.EqualFold(value, "true"):
		return true, true
	case strings.EqualFold(value, "false"):
		return false, true
	}
	if !v11 {
		return false, false
	}
	switch {
	case strings.EqualFold(value, "yes"), strings.EqualFold(value, "on"):
		return true, true
	case strings.EqualFold(value, "no"), strings.EqualFold(value, "off"):
		return false, true
	}
	return false, false
}

// parseNumber converts integer and float spellings. Integers that overflow int64
// become floats.
func parseNumber(value string, v11 bool) (interface{}, bool) {
	if value == "" {
		return nil, false
	}

	switch {
	case v11 && octal11Pattern.MatchString(value):
		if i, err := strconv.ParseInt(value[1:], 8, 64); err == nil {
			return i, true
		}
	case intPattern.MatchString(value):
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f, true
		}
	case hexPattern.MatchString(value):
		if i, err := strconv.ParseInt(value[2:], 16, 64); err == nil {
			return i, true
		}
		if u, err := strconv.ParseUint(value[2:], 16, 64); err == nil {
			return float64(u), true
		}
	case !v11 && octal12Pattern.MatchString(value):
		if i, err := strconv.ParseInt(value[2:], 8, 64); err == nil {
			return i, true
		}
	case floatPattern.MatchString(value):
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f, true
		}
	}

	return parseSpecialFloat(value)
}

// parseSpecialFloat handles .inf and .nan with an optional sign, in any case.
func parseSpecialFloat(value string) (interface{}, bool) {
	unsigned := strings.TrimLeft(value, "+-")
	if len(value)-len(unsigned) > 1 {
		return nil, false
	}
	switch {
	case strings.EqualFold(unsigned, ".inf"):
		if strings.HasPrefix(value, "-") {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	case strings.EqualFold(unsigned, ".nan"):
		return math.NaN(), true
	}
	return nil, false
}
