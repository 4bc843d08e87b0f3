// Package tags applies tag handlers to the tagged nodes of a resolved node graph.
//
// A Registry holds an ordered list of handlers; the first handler that supports a
// tag wins. The Processor walks the graph and replaces every node whose tag has a
// handler by a scalar holding the handler's result. Nodes whose tag has no handler
// keep their raw value.
package tags

import (
	"errors"

	"github.com/shapestone/yamlgraph/pkg/node"
)

// Handler converts the value of a tagged node.
//
// value is the node's scalar value, or for collections a plain []interface{} or
// map[string]interface{} built from its children.
type Handler interface {
	Supports(tag string) bool
	Handle(value interface{}, meta node.Metadata) (interface{}, error)
}

// HandlerFunc is the conversion function of a custom handler.
type HandlerFunc func(value interface{}, meta node.Metadata) (interface{}, error)

type customHandler struct {
	tag string
	fn  HandlerFunc
}

// Custom returns a handler for exactly one tag as written in the document, for
// example "!color" or "!<tag:example.com,2000:color>".
func Custom(tag string, fn HandlerFunc) Handler {
	return customHandler{tag: tag, fn: fn}
}

func (h customHandler) Supports(tag string) bool {
	return h.tag == tag
}

func (h customHandler) Handle(value interface{}, meta node.Metadata) (interface{}, error) {
	return h.fn(value, meta)
}

// Registry is an ordered list of handlers.
type Registry struct {
	handlers []Handler
}

// NewRegistry creates a registry consulting handlers in the given order.
func NewRegistry(handlers ...Handler) *Registry {
	r := &Registry{}
	r.Register(handlers...)
	return r
}

// DefaultRegistry creates a registry with the custom handlers first and the
// built-in handlers after them.
func DefaultRegistry(custom ...Handler) *Registry {
	r := NewRegistry(custom...)
	r.Register(Builtins()...)
	return r
}

// Register appends handlers.
func (r *Registry) Register(handlers ...Handler) {
	r.handlers = append(r.handlers, handlers...)
}

// Lookup returns the first handler supporting tag.
func (r *Registry) Lookup(tag string) (Handler, bool) {
	for _, h := range r.handlers {
		if h.Supports(tag) {
			return h, true
		}
	}
	return nil, false
}

// Processor applies a registry to node graphs.
type Processor struct {
	registry *Registry
}

// NewProcessor creates a processor for the registry.
func NewProcessor(registry *Registry) *Processor {
	return &Processor{registry: registry}
}

// Process returns a copy of the graph with tagged nodes converted. Shared nodes
// stay shared and cycles are preserved.
func (p *Processor) Process(root *node.Node) (*node.Node, error) {
	w := &walker{
		registry:  p.registry,
		memo:      make(map[*node.Node]*node.Node),
		extracted: make(map[*node.Node]interface{}),
	}
	return w.process(root)
}

// walker holds the state of one Process call.
type walker struct {
	registry  *Registry
	memo      map[*node.Node]*node.Node
	extracted map[*node.Node]interface{}
}

func (w *walker) process(n *node.Node) (*node.Node, error) {
	if n == nil {
		return nil, nil
	}
	if r, ok := w.memo[n]; ok {
		return r, nil
	}

	if tag := n.Meta.Tag; tag != "" {
		if h, ok := w.registry.Lookup(tag); ok {
			value, err := h.Handle(w.extract(n), n.Meta)
			if err != nil {
				return nil, positioned(err, n)
			}
			r := node.NewScalar(value, n.Style, n.Meta, n.Pos)
			r.Multiline = n.Multiline
			w.memo[n] = r
			return r, nil
		}
	}

	switch n.Kind {
	case node.ScalarNode, node.AliasNode:
		w.memo[n] = n
		return n, nil
	}

	shell := n.Shell()
	w.memo[n] = shell
	for _, item := range n.Items {
		r, err := w.process(item)
		if err != nil {
			return nil, err
		}
		shell.Append(r)
	}
	for _, pair := range n.Pairs {
		k, err := w.process(pair.Key)
		if err != nil {
			return nil, err
		}
		v, err := w.process(pair.Value)
		if err != nil {
			return nil, err
		}
		shell.AddPair(k, v)
	}
	return shell, nil
}

// extract builds the plain value handed to a handler. Containers are registered
// before they are filled so that cyclic input yields cyclic values.
func (w *walker) extract(n *node.Node) interface{} {
	if n == nil {
		return nil
	}
	if v, ok := w.extracted[n]; ok {
		return v
	}

	switch n.Kind {
	case node.SequenceNode:
		items := make([]interface{}, len(n.Items))
		w.extracted[n] = items
		for i, item := range n.Items {
			items[i] = w.extract(item)
		}
		return items
	case node.MappingNode:
		m := make(map[string]interface{}, len(n.Pairs))
		w.extracted[n] = m
		for _, pair := range n.Pairs {
			var key string
			if pair.Key != nil && pair.Key.Kind == node.ScalarNode {
				key = node.KeyString(pair.Key.Value)
			}
			m[key] = w.extract(pair.Value)
		}
		return m
	case node.ScalarNode:
		return n.Value
	}
	return nil
}

// positioned attaches the position of n to a handler error.
func positioned(err error, n *node.Node) error {
	var terr *TagHandlerError
	if !errors.As(err, &terr) {
		terr = &TagHandlerError{Message: err.Error(), Err: err}
	}
	if terr.Tag == "" {
		terr.Tag = n.Meta.Tag
	}
	if terr.Line == 0 {
		terr.Line, terr.Column = n.Pos.Line, n.Pos.Column
	}
	return terr
}
