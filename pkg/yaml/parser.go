// Package yaml parses YAML 1.1 and 1.2 documents into a node graph.
//
// The pipeline runs the lexer, the recursive descent parser, the anchor resolver,
// the merge resolver and the tag processor in sequence over the whole input. The
// result is a graph of *node.Node values in which every alias site shares the
// node its anchor defines, so recursive documents become cyclic graphs:
//
//	person: &p {name: Ann, spouse: *s}
//	spouse: &s {name: Bob, spouse: *p}
//
// The YAML version of a document comes from its %YAML directive and decides how
// plain scalars are typed. Under 1.2 (the default) yes is a string and 017 the
// integer 17; under 1.1 yes is true and 017 the octal 15.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use by multiple goroutines.
// Each call builds its own lexer, parser and resolver state.
//
//	go func() { yaml.Parse(input1) }()
//	go func() { yaml.Parse(input2) }()
//
// # Parsing APIs
//
//   - Parse(string) returns the node graph
//   - ParseReader(io.Reader) lexes straight from a reader
//   - ParseMultiDoc(string) returns the content of every document
//   - ParseValue(string) returns native Go values (maps, slices, scalars)
//   - ParseAST(string) returns a shape-core AST
//   - Validate(string) only reports errors
//   - Unmarshal([]byte, interface{}) decodes into Go values
//
// Failures are returned as *LexerError, *ParserError, *ResolverError or
// *TagHandlerError; their messages end with the line and column of the problem.
// A failure aborts the whole input; there are no partial results.
package yaml

import (
	"errors"
	"fmt"
	"io"

	"github.com/shapestone/yamlgraph/internal/parser"
	"github.com/shapestone/yamlgraph/internal/resolver"
	"github.com/shapestone/yamlgraph/internal/tags"
	"github.com/shapestone/yamlgraph/internal/tokenizer"
	"github.com/shapestone/yamlgraph/pkg/node"
)

// Parse parses YAML text into a node graph.
//
// A stream holding exactly one document returns that document's content node
// (a mapping, sequence or scalar). Streams with zero or several documents return
// the Root node whose Items are the Document nodes.
//
// Example:
//
//	n, err := yaml.Parse("name: Alice\nage: 30")
//	if err != nil {
//	    // handle error
//	}
//	age, _ := n.Get("age") // age.Value == int64(30)
func Parse(input string, opts ...Option) (*node.Node, error) {
	root, err := ParseStream(input, opts...)
	if err != nil {
		return nil, err
	}
	return single(root), nil
}

// single unwraps the content of a stream holding exactly one document.
func single(root *node.Node) *node.Node {
	if len(root.Items) == 1 {
		return root.Items[0].Content()
	}
	return root
}

// ParseStream parses YAML text and always returns the Root node.
func ParseStream(input string, opts ...Option) (*node.Node, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return cfg.run(input)
}

// run executes the pipeline.
func (c *config) run(input string) (*node.Node, error) {
	tokens, err := tokenizer.Tokenize(input)
	if err != nil {
		return nil, err
	}
	return c.runTokens(tokens)
}

// runTokens executes the pipeline after the lexer.
func (c *config) runTokens(tokens []tokenizer.Token) (*node.Node, error) {

	p := parser.NewParser(tokens,
		parser.WithMaxDepth(c.maxDepth),
		parser.WithMaxKeyLength(c.maxKeyLength),
	)
	root, err := p.Parse()
	if err != nil {
		return nil, err
	}

	if root, err = resolver.ResolveAnchors(root); err != nil {
		return nil, err
	}
	if root, err = resolver.ResolveMerges(root); err != nil {
		return nil, err
	}

	if !c.processTags {
		return root, nil
	}
	return tags.NewProcessor(tags.DefaultRegistry(c.handlers...)).Process(root)
}

// ParseReader parses YAML read from reader like Parse. The lexer pulls the input
// through a buffered stream instead of reading it into one string first. Read
// failures are returned wrapped, with the prefix "yaml: reading input".
//
// Example:
//
//	file, err := os.Open("config.yaml")
//	if err != nil {
//	    return err
//	}
//	defer file.Close()
//
//	n, err := yaml.ParseReader(file)
func ParseReader(reader io.Reader, opts ...Option) (*node.Node, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	tokens, err := tokenizer.TokenizeReader(reader)
	if err != nil {
		var lexErr *LexerError
		if errors.As(err, &lexErr) {
			return nil, err
		}
		return nil, fmt.Errorf("yaml: reading input: %w", err)
	}

	root, err := cfg.runTokens(tokens)
	if err != nil {
		return nil, err
	}
	return single(root), nil
}

// ParseMultiDoc parses a YAML stream and returns the content node of every
// document in order. Anchors do not cross document boundaries.
//
// Example:
//
//	docs, err := yaml.ParseMultiDoc("kind: ConfigMap\n---\nkind: Service")
//	// docs[0] is the ConfigMap mapping, docs[1] the Service mapping
func ParseMultiDoc(input string, opts ...Option) ([]*node.Node, error) {
	root, err := ParseStream(input, opts...)
	if err != nil {
		return nil, err
	}
	docs := make([]*node.Node, 0, len(root.Items))
	for _, doc := range root.Items {
		docs = append(docs, doc.Content())
	}
	return docs, nil
}

// ParseValue parses YAML text and projects the result into native Go values, see
// NodeToInterface.
func ParseValue(input string, opts ...Option) (interface{}, error) {
	n, err := Parse(input, opts...)
	if err != nil {
		return nil, err
	}
	return NodeToInterface(n), nil
}

// Validate checks that YAML text parses and resolves without error.
//
// Example:
//
//	if err := yaml.Validate("key: [unclosed"); err != nil {
//	    fmt.Println(err) // Unexpected end of input in flow sequence at line 1, column 14
//	}
func Validate(input string, opts ...Option) error {
	_, err := ParseStream(input, opts...)
	return err
}
