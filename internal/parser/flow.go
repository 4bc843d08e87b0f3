package parser

import (
	"github.com/shapestone/yamlgraph/internal/tokenizer"
	"github.com/shapestone/yamlgraph/pkg/node"
)

// flowSequenceParser parses flow sequences.
//
// Grammar:
//
//	FlowSequence = "[" [ FlowEntry { "," FlowEntry } [ "," ] ] "]" ;
//	FlowEntry    = Node | FlowPair ;
//	FlowPair     = [ "?" ] [ Node ] ":" [ Node ] ;
//
// A pair inside a sequence becomes a single-pair mapping: [a: 1] is [{a: 1}].
type flowSequenceParser struct{}

func (flowSequenceParser) supports(p *Parser, isKey bool) bool {
	if p.peek().Kind() != tokenizer.SequenceStart {
		return false
	}
	return isKey || p.flowDepth > 0 || !p.isImplicitKey()
}

func (flowSequenceParser) parse(p *Parser, meta node.Metadata, _ bool) (*node.Node, error) {
	p.explicitKey = false
	open := p.advance()
	p.flowDepth++
	defer func() { p.flowDepth-- }()

	seq := node.NewSequence(meta, position(open))
	for {
		p.skipLayout()
		tok := p.peek()
		switch tok.Kind() {
		case tokenizer.SequenceEnd:
			p.advance()
			return seq, nil
		case tokenizer.EOF, tokenizer.DocumentStart, tokenizer.DocumentEnd:
			return nil, p.errorAt(tok, "Unexpected end of input in flow sequence")
		case tokenizer.FlowSeparator:
			seq.Append(node.NewNull(node.Metadata{}, position(tok)))
			p.advance()
			continue
		}

		item, err := p.parseFlowSequenceEntry()
		if err != nil {
			return nil, err
		}
		seq.Append(item)

		p.skipLayout()
		switch tok := p.peek(); tok.Kind() {
		case tokenizer.FlowSeparator:
			p.advance()
		case tokenizer.SequenceEnd:
		case tokenizer.EOF, tokenizer.DocumentStart, tokenizer.DocumentEnd:
			return nil, p.errorAt(tok, "Unexpected end of input in flow sequence")
		default:
			return nil, p.errorAt(tok, "Expected ',' or ']' in flow sequence")
		}
	}
}

// parseFlowSequenceEntry parses a single entry, turning pairs into single-pair mappings.
func (p *Parser) parseFlowSequenceEntry() (*node.Node, error) {
	tok := p.peek()
	switch {
	case tok.Kind() == tokenizer.ExplicitKey:
		key, value, err := p.parseFlowExplicitPair()
		if err != nil {
			return nil, err
		}
		return singlePair(key, value, tok), nil
	case tok.Kind() == tokenizer.KeyIndicator:
		p.advance()
		value, err := p.parseFlowValue()
		if err != nil {
			return nil, err
		}
		return singlePair(node.NewNull(node.Metadata{}, position(tok)), value, tok), nil
	case p.isImplicitKey():
		key, err := p.parseNode(true)
		if err != nil {
			return nil, err
		}
		p.advance() // ":"
		value, err := p.parseFlowValue()
		if err != nil {
			return nil, err
		}
		return singlePair(key, value, tok), nil
	}
	return p.parseNode(false)
}

func singlePair(key, value *node.Node, at tokenizer.Token) *node.Node {
	m := node.NewMapping(node.Metadata{}, position(at))
	m.AddPair(key, value)
	return m
}

// flowMappingParser parses flow mappings.
//
// Grammar:
//
//	FlowMapping = "{" [ FlowMember { "," FlowMember } [ "," ] ] "}" ;
//	FlowMember  = [ "?" ] [ Node ] [ ":" [ Node ] ] ;
//
// Omitted keys and values are null: {a, : b, c:} is {a: null, null: b, c: null}.
type flowMappingParser struct{}

func (flowMappingParser) supports(p *Parser, isKey bool) bool {
	if p.peek().Kind() != tokenizer.MappingStart {
		return false
	}
	return isKey || p.flowDepth > 0 || !p.isImplicitKey()
}

func (flowMappingParser) parse(p *Parser, meta node.Metadata, _ bool) (*node.Node, error) {
	p.explicitKey = false
	open := p.advance()
	p.flowDepth++
	defer func() { p.flowDepth-- }()

	m := node.NewMapping(meta, position(open))
	for {
		p.skipLayout()
		tok := p.peek()
		switch tok.Kind() {
		case tokenizer.MappingEnd:
			p.advance()
			return m, nil
		case tokenizer.EOF, tokenizer.DocumentStart, tokenizer.DocumentEnd:
			return nil, p.errorAt(tok, "Unexpected end of input in flow mapping")
		case tokenizer.FlowSeparator:
			p.advance()
			continue
		}

		var key, value *node.Node
		var err error
		if tok.Kind() == tokenizer.ExplicitKey {
			key, value, err = p.parseFlowExplicitPair()
			if err != nil {
				return nil, err
			}
		} else {
			key, value, err = p.parseFlowMember()
			if err != nil {
				return nil, err
			}
		}
		m.AddPair(key, value)

		p.skipLayout()
		switch tok := p.peek(); tok.Kind() {
		case tokenizer.FlowSeparator:
			p.advance()
		case tokenizer.MappingEnd:
		case tokenizer.EOF, tokenizer.DocumentStart, tokenizer.DocumentEnd:
			return nil, p.errorAt(tok, "Unexpected end of input in flow mapping")
		default:
			return nil, p.errorAt(tok, "Expected ',' or '}' in flow mapping")
		}
	}
}

// parseFlowMember parses "key: value", ": value" or a lone "key".
func (p *Parser) parseFlowMember() (*node.Node, *node.Node, error) {
	start := p.peek()

	var key *node.Node
	if start.Kind() == tokenizer.KeyIndicator {
		key = node.NewNull(node.Metadata{}, position(start))
	} else {
		k, err := p.parseNode(true)
		if err != nil {
			return nil, nil, err
		}
		key = k
	}

	p.skipLayout()
	switch tok := p.peek(); tok.Kind() {
	case tokenizer.KeyIndicator:
		p.advance()
		value, err := p.parseFlowValue()
		if err != nil {
			return nil, nil, err
		}
		return key, value, nil
	case tokenizer.FlowSeparator, tokenizer.MappingEnd:
		return key, node.NewNull(node.Metadata{}, position(tok)), nil
	default:
		return nil, nil, p.errorAt(tok, "Expected ':' in flow mapping")
	}
}

// parseFlowExplicitPair parses "? key [: value]" inside a flow collection.
func (p *Parser) parseFlowExplicitPair() (*node.Node, *node.Node, error) {
	q := p.advance()
	p.skipLayout()

	var key *node.Node
	switch p.peek().Kind() {
	case tokenizer.KeyIndicator, tokenizer.FlowSeparator, tokenizer.MappingEnd, tokenizer.SequenceEnd:
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

	p.skipLayout()
	if _, ok := p.stream.Consume(tokenizer.KeyIndicator); !ok {
		return key, node.NewNull(node.Metadata{}, position(q)), nil
	}
	value, err := p.parseFlowValue()
	if err != nil {
		return nil, nil, err
	}
	return key, value, nil
}

// parseFlowValue parses the value after ":" in a flow collection; an omitted value is null.
func (p *Parser) parseFlowValue() (*node.Node, error) {
	p.skipLayout()
	tok := p.peek()
	switch tok.Kind() {
	case tokenizer.FlowSeparator, tokenizer.MappingEnd, tokenizer.SequenceEnd:
		return node.NewNull(node.Metadata{}, position(tok)), nil
	}
	return p.parseNode(false)
}

// skipLayout drops INDENT and DEDENT tokens inside flow collections, which may
// span lines regardless of indentation.
func (p *Parser) skipLayout() {
	for {
		switch p.peek().Kind() {
		case tokenizer.Indent, tokenizer.Dedent:
			p.advance()
		default:
			return
		}
	}
}
