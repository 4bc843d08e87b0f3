package parser

import (
	"github.com/shapestone/yamlgraph/internal/tokenizer"
	"github.com/shapestone/yamlgraph/pkg/node"
)

// Parse parses the whole stream.
//
// Grammar:
//
//	Stream   = { Directive } { Document } EOF ;
//	Document = DOCUMENT_START [ Node ] { DEDENT } [ DOCUMENT_END ] ;
//
// Every document becomes a Document node under the returned Root. A document
// without content holds a null scalar.
func (p *Parser) Parse() (*node.Node, error) {
	root := node.NewRoot()

	for {
		tok := p.peek()
		switch tok.Kind() {
		case tokenizer.EOF:
			return root, nil
		case tokenizer.Directive, tokenizer.DocumentEnd:
			p.advance()
		case tokenizer.DocumentStart:
			doc, err := p.parseDocument()
			if err != nil {
				return nil, err
			}
			root.Append(doc)
		default:
			return nil, p.unexpected(tok)
		}
	}
}

// parseDocument parses one document starting at its DOCUMENT_START token.
func (p *Parser) parseDocument() (*node.Node, error) {
	start := p.advance()
	p.version = start.Version()
	if p.version == "" {
		p.version = tokenizer.DefaultVersion
	}
	p.level, p.flowDepth, p.explicitKey = 0, 0, false

	var content *node.Node
	switch p.peek().Kind() {
	case tokenizer.DocumentEnd, tokenizer.DocumentStart, tokenizer.EOF:
		content = node.NewNull(node.Metadata{}, position(start))
	case tokenizer.Indent:
		p.advance()
		n, err := p.parseNode(false)
		if err != nil {
			return nil, err
		}
		p.consumeDedent()
		content = n
	default:
		n, err := p.parseNode(false)
		if err != nil {
			return nil, err
		}
		content = n
	}

	p.stream.Skip(tokenizer.Dedent)

	switch tok := p.peek(); tok.Kind() {
	case tokenizer.DocumentEnd, tokenizer.DocumentStart, tokenizer.EOF:
	default:
		return nil, p.unexpected(tok)
	}

	return node.NewDocument(content, p.version, position(start)), nil
}
