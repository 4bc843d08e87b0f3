package parser

import (
	"github.com/shapestone/yamlgraph/internal/tokenizer"
	"github.com/shapestone/yamlgraph/pkg/node"
)

// mappingParser parses block mappings.
//
// Grammar:
//
//	BlockMapping = MappingEntry { MappingEntry } ;
//	MappingEntry = ImplicitKey ":" [ Value ] | "?" Node [ ":" [ Value ] ] ;
//
// Example:
//
//	name: Alice
//	? [complex, key]
//	: value
type mappingParser struct{}

func (mappingParser) supports(p *Parser, isKey bool) bool {
	if isKey || p.flowDepth > 0 {
		return false
	}
	return p.peek().Kind() == tokenizer.ExplicitKey || p.isImplicitKey()
}

func (mappingParser) parse(p *Parser, meta node.Metadata, _ bool) (*node.Node, error) {
	p.explicitKey = false
	m := node.NewMapping(meta, position(p.peek()))

	for {
		tok := p.peek()

		if tok.Kind() == tokenizer.ExplicitKey {
			key, value, err := p.parseExplicitEntry()
			if err != nil {
				return nil, err
			}
			m.AddPair(key, value)
			continue
		}

		if !p.isImplicitKey() {
			switch kind := tok.Kind(); {
			case kind.IsScalar(), kind == tokenizer.Alias, kind == tokenizer.Tag, kind == tokenizer.Anchor,
				kind == tokenizer.SequenceStart, kind == tokenizer.MappingStart:
				return nil, p.errorAt(tok, "Expected ':' after key in mapping")
			}
			return m, nil
		}

		key, err := p.parseNode(true)
		if err != nil {
			return nil, err
		}
		if _, ok := p.stream.Consume(tokenizer.KeyIndicator); !ok {
			return nil, p.errorAt(p.peek(), "Expected ':' after key in mapping")
		}
		value, err := p.parseMappingValue()
		if err != nil {
			return nil, err
		}
		m.AddPair(key, value)
	}
}

// parseExplicitEntry parses a "?" key and its optional ":" value. Explicit keys
// may be any node; without ":" the value is null.
func (p *Parser) parseExplicitEntry() (*node.Node, *node.Node, error) {
	q := p.advance()

	var key *node.Node
	switch tok := p.peek(); tok.Kind() {
	case tokenizer.Indent:
		p.advance()
		p.explicitKey = true
		k, err := p.parseNode(false)
		p.explicitKey = false
		if err != nil {
			return nil, nil, err
		}
		p.consumeDedent()
		key = k
	case tokenizer.Dedent, tokenizer.EOF, tokenizer.DocumentStart, tokenizer.DocumentEnd, tokenizer.KeyIndicator:
		key = node.NewNull(node.Metadata{}, position(q))
	default:
		p.explicitKey = true
		k, err := p.parseNode(false)
		p.explicitKey = false
		if err != nil {
			return nil, nil, err
		}
		key = k
	}

	colon, ok := p.stream.Consume(tokenizer.KeyIndicator)
	if !ok {
		return key, node.NewNull(node.Metadata{}, position(q)), nil
	}
	value, err := p.parseMappingValueAfter(colon)
	if err != nil {
		return nil, nil, err
	}
	return key, value, nil
}

// parseMappingValue parses the value after the ":" just consumed.
func (p *Parser) parseMappingValue() (*node.Node, error) {
	colon, _ := p.stream.Last()
	return p.parseMappingValueAfter(colon)
}

func (p *Parser) parseMappingValueAfter(colon tokenizer.Token) (*node.Node, error) {
	tok := p.peek()
	switch {
	case isTerminator(tok.Kind()) || tok.Kind() == tokenizer.ExplicitKey:
		return node.NewNull(node.Metadata{}, position(colon)), nil
	case tok.Kind() == tokenizer.Indent:
		p.advance()
		value, err := p.parseNode(false)
		if err != nil {
			return nil, err
		}
		p.consumeDedent()
		return value, nil
	case tok.Kind() == tokenizer.SequenceIndicator:
		// compact sequence at the key's own indentation
		return p.parseNode(false)
	case tok.Line() > colon.Line():
		// the next line at the same level starts the next entry
		return node.NewNull(node.Metadata{}, position(colon)), nil
	}
	return p.parseNodeIn(false, true)
}

// sequenceParser parses block sequences.
//
// Grammar:
//
//	BlockSequence = SequenceEntry { SequenceEntry } ;
//	SequenceEntry = "-" [ INDENT Node DEDENT | Node ] ;
//
// Example:
//
//	- apple
//	- - nested
//	- name: compact mapping
type sequenceParser struct{}

func (sequenceParser) supports(p *Parser, isKey bool) bool {
	return !isKey && p.flowDepth == 0 && p.peek().Kind() == tokenizer.SequenceIndicator
}

func (sequenceParser) parse(p *Parser, meta node.Metadata, _ bool) (*node.Node, error) {
	p.explicitKey = false
	seq := node.NewSequence(meta, position(p.peek()))

	for p.peek().Kind() == tokenizer.SequenceIndicator {
		dash := p.advance()

		var item *node.Node
		switch tok := p.peek(); {
		case tok.Kind() == tokenizer.Indent:
			p.advance()
			n, err := p.parseNode(false)
			if err != nil {
				return nil, err
			}
			p.consumeDedent()
			item = n
		case isTerminator(tok.Kind()) || tok.Kind() == tokenizer.SequenceIndicator:
			item = node.NewNull(node.Metadata{}, position(dash))
		case tok.Line() > dash.Line():
			item = node.NewNull(node.Metadata{}, position(dash))
		default:
			n, err := p.parseNode(false)
			if err != nil {
				return nil, err
			}
			item = n
		}
		seq.Append(item)
	}
	return seq, nil
}
