package yaml

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/yamlgraph/pkg/node"
)

// NodeToInterface converts a node graph to native Go types.
//
// Converts:
//   - scalars → their value (string, int64, float64, bool, nil, []byte, time.Time)
//   - sequences → []interface{}
//   - mappings → map[string]interface{}; for duplicate keys the last pair wins
//   - a document → its content
//   - a Root → []interface{} with one entry per document
//
// Mapping keys use their scalar text: numbers and booleans are formatted, null
// becomes "null" and collection keys are written as JSON.
//
// A node reached through several parents converts to one Go value, so shared and
// cyclic structure is kept: a self-referencing mapping yields a map that contains
// itself.
//
// Example:
//
//	n, _ := yaml.Parse("name: Alice\ntags:\n  - go\n  - yaml")
//	data := yaml.NodeToInterface(n)
//	// data is map[string]interface{}{"name": "Alice", "tags": []interface{}{"go", "yaml"}}
func NodeToInterface(n *node.Node) interface{} {
	p := &projector{seen: make(map[*node.Node]interface{})}
	return p.project(n)
}

type projector struct {
	seen map[*node.Node]interface{}
}

func (p *projector) project(n *node.Node) interface{} {
	if n == nil {
		return nil
	}
	if v, ok := p.seen[n]; ok {
		return v
	}

	switch n.Kind {
	case node.ScalarNode:
		return n.Value
	case node.DocumentNode:
		return p.project(n.Content())
	case node.SequenceNode, node.RootNode:
		items := make([]interface{}, len(n.Items))
		p.seen[n] = items
		for i, item := range n.Items {
			items[i] = p.project(item)
		}
		return items
	case node.MappingNode:
		m := make(map[string]interface{}, len(n.Pairs))
		p.seen[n] = m
		for _, pair := range n.Pairs {
			m[p.key(pair.Key)] = p.project(pair.Value)
		}
		return m
	}
	return nil
}

// key returns the map key for a mapping key node.
func (p *projector) key(k *node.Node) string {
	if k == nil {
		return "null"
	}
	if k.Kind == node.ScalarNode {
		return node.KeyString(k.Value)
	}
	if b, err := json.Marshal(p.project(k)); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%s@%d:%d", k.Kind, k.Pos.Line, k.Pos.Column)
}

// ToAST converts a node graph into a shape-core AST.
//
// Returns:
//   - *ast.LiteralNode for scalars
//   - *ast.ObjectNode for mappings
//   - *ast.ObjectNode for sequences, keyed "0", "1", "2", ...
//
// A Root converts to an object keyed by document index. Shared nodes are
// converted once per parent; cyclic graphs cannot be represented and fail.
func ToAST(n *node.Node) (ast.SchemaNode, error) {
	return toAST(n, make(map[*node.Node]bool))
}

func toAST(n *node.Node, active map[*node.Node]bool) (ast.SchemaNode, error) {
	if n == nil {
		return ast.NewLiteralNode(nil, ast.ZeroPosition()), nil
	}

	switch n.Kind {
	case node.ScalarNode:
		return ast.NewLiteralNode(n.Value, n.Pos), nil
	case node.DocumentNode:
		return toAST(n.Content(), active)
	}

	if active[n] {
		return nil, fmt.Errorf("yaml: cannot convert cyclic %s at line %d, column %d to AST", n.Kind, n.Pos.Line, n.Pos.Column)
	}
	active[n] = true
	defer delete(active, n)

	props := make(map[string]ast.SchemaNode)
	switch n.Kind {
	case node.SequenceNode, node.RootNode:
		for i, item := range n.Items {
			child, err := toAST(item, active)
			if err != nil {
				return nil, err
			}
			props[strconv.Itoa(i)] = child
		}
	case node.MappingNode:
		keys := &projector{seen: make(map[*node.Node]interface{})}
		for _, pair := range n.Pairs {
			child, err := toAST(pair.Value, active)
			if err != nil {
				return nil, fmt.Errorf("mapping property %s: %w", keys.key(pair.Key), err)
			}
			props[keys.key(pair.Key)] = child
		}
	default:
		return nil, fmt.Errorf("yaml: unsupported node kind %s", n.Kind)
	}
	return ast.NewObjectNode(props, n.Pos), nil
}

// ParseAST parses YAML text and converts the result with ToAST.
//
// Example:
//
//	tree, err := yaml.ParseAST("name: Alice")
//	obj := tree.(*ast.ObjectNode)
//	nameNode, _ := obj.GetProperty("name")
//	name := nameNode.(*ast.LiteralNode).Value().(string) // "Alice"
func ParseAST(input string, opts ...Option) (ast.SchemaNode, error) {
	n, err := Parse(input, opts...)
	if err != nil {
		return nil, err
	}
	return ToAST(n)
}

// ReleaseTree recursively releases all nodes of an AST back to their pools.
// Call it when you are done with a tree returned by ToAST or ParseAST.
//
// Example:
//
//	tree, _ := yaml.ParseAST("name: Alice")
//	// ... use tree
//	yaml.ReleaseTree(tree)
func ReleaseTree(tree ast.SchemaNode) {
	if tree == nil {
		return
	}

	switch n := tree.(type) {
	case *ast.LiteralNode:
		ast.ReleaseLiteralNode(n)
	case *ast.ObjectNode:
		for _, child := range n.Properties() {
			ReleaseTree(child)
		}
		ast.ReleaseObjectNode(n)
	}
}
