package parser

import (
	"github.com/shapestone/yamlgraph/internal/tokenizer"
	"github.com/shapestone/yamlgraph/pkg/node"
)

// tokenParser parses one kind of node. supports inspects the upcoming tokens
// without consuming them.
type tokenParser interface {
	supports(p *Parser, isKey bool) bool
	parse(p *Parser, meta node.Metadata, isKey bool) (*node.Node, error)
}

// tokenParsers is consulted in order; the first supporting parser wins.
// Block mappings need lookahead past a whole key, so aliases and flow collections
// used as implicit keys are left to the mapping parser.
var tokenParsers = []tokenParser{
	aliasParser{},
	flowSequenceParser{},
	flowMappingParser{},
	blockScalarParser{},
	mappingParser{},
	sequenceParser{},
	scalarParser{},
}

// parseNode parses any YAML node including its properties.
//
// Grammar:
//
//	Node       = [ Properties ] ( Alias | FlowCollection | BlockCollection | Scalar ) ;
//	Properties = { TAG | ANCHOR } ;
func (p *Parser) parseNode(isKey bool) (*node.Node, error) {
	return p.parseNodeIn(isKey, false)
}

// parseNodeIn parses a node. In a block mapping value, content on a later line
// at the same level belongs to the next key, so properties alone yield an empty node.
func (p *Parser) parseNodeIn(isKey, mappingValue bool) (*node.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	start := p.stream.Position()
	meta, last, found, err := p.parseProperties()
	if err != nil {
		return nil, err
	}
	if !found {
		return p.dispatch(meta, isKey)
	}

	next := p.peek()
	if !isKey && p.flowDepth == 0 && next.Line() == last.Line() && p.isImplicitKey() {
		// "&a key: value" anchors the key, not the mapping
		p.stream.Restore(start)
		return p.dispatch(node.Metadata{}, false)
	}

	switch {
	case next.Kind() == tokenizer.Indent:
		p.advance()
		n, err := p.dispatch(meta, isKey)
		if err != nil {
			return nil, err
		}
		p.consumeDedent()
		return n, nil
	case isTerminator(next.Kind()):
		return p.emptyNode(meta, last), nil
	case mappingValue && next.Line() > last.Line() && next.Kind() != tokenizer.SequenceIndicator:
		return p.emptyNode(meta, last), nil
	}
	return p.dispatch(meta, isKey)
}

// parseProperties consumes TAG and ANCHOR tokens in any order.
func (p *Parser) parseProperties() (node.Metadata, tokenizer.Token, bool, error) {
	var meta node.Metadata
	var last tokenizer.Token
	found := false

	for {
		tok := p.peek()
		switch tok.Kind() {
		case tokenizer.Tag:
			if meta.Tag != "" {
				return meta, last, found, p.errorAt(tok, "Duplicate tag on node")
			}
			meta.Tag = tok.Value()
		case tokenizer.Anchor:
			if meta.Anchor != "" {
				return meta, last, found, p.errorAt(tok, "Duplicate anchor on node")
			}
			meta.Anchor = tok.Value()
		default:
			return meta, last, found, nil
		}
		last = p.advance()
		found = true
	}
}

// dispatch hands the upcoming tokens to the first supporting token parser.
func (p *Parser) dispatch(meta node.Metadata, isKey bool) (*node.Node, error) {
	for _, tp := range tokenParsers {
		if tp.supports(p, isKey) {
			return tp.parse(p, meta, isKey)
		}
	}
	return nil, p.unexpected(p.peek())
}

// emptyNode creates the node of properties without content. Untagged it is null;
// tagged it is an empty string left to the tag handler.
func (p *Parser) emptyNode(meta node.Metadata, at tokenizer.Token) *node.Node {
	if meta.Tag != "" {
		return node.NewScalar("", node.PlainStyle, meta, position(at))
	}
	return node.NewNull(meta, position(at))
}

// isImplicitKey reports whether the upcoming tokens form "key:" where key is a
// scalar, an alias or a flow collection, optionally preceded by properties.
func (p *Parser) isImplicitKey() bool {
	i := 0
	for k := p.stream.PeekAt(i).Kind(); k == tokenizer.Tag || k == tokenizer.Anchor; k = p.stream.PeekAt(i).Kind() {
		i++
	}

	tok := p.stream.PeekAt(i)
	switch kind := tok.Kind(); {
	case kind == tokenizer.LiteralScalar || kind == tokenizer.FoldedScalar:
		return false
	case kind.IsScalar() || kind == tokenizer.Alias:
		return p.stream.PeekAt(i+1).Kind() == tokenizer.KeyIndicator
	case kind == tokenizer.SequenceStart || kind == tokenizer.MappingStart:
		end := p.matchingBracket(i)
		return end >= 0 && p.stream.PeekAt(end+1).Kind() == tokenizer.KeyIndicator
	}
	return false
}

// matchingBracket returns the lookahead offset of the token closing the flow
// collection opened at offset i, or -1 if the stream ends first.
func (p *Parser) matchingBracket(i int) int {
	depth := 0
	for ; ; i++ {
		switch p.stream.PeekAt(i).Kind() {
		case tokenizer.SequenceStart, tokenizer.MappingStart:
			depth++
		case tokenizer.SequenceEnd, tokenizer.MappingEnd:
			depth--
			if depth == 0 {
				return i
			}
		case tokenizer.EOF:
			return -1
		}
	}
}

// aliasParser parses "*name" into an alias placeholder.
type aliasParser struct{}

func (aliasParser) supports(p *Parser, isKey bool) bool {
	if p.peek().Kind() != tokenizer.Alias {
		return false
	}
	return isKey || p.flowDepth > 0 || !p.isImplicitKey()
}

func (aliasParser) parse(p *Parser, _ node.Metadata, _ bool) (*node.Node, error) {
	tok := p.advance()
	return node.NewAlias(tok.Value(), position(tok)), nil
}
