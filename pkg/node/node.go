// Package node defines the YAML node graph produced by the parser and the resolvers.
//
// A parsed stream is a Root holding one Document per YAML document. Documents hold a
// single content node: a Scalar, Sequence or Mapping. Before anchor resolution a node
// may also be an Alias placeholder that only names its target. After resolution the
// graph may share nodes between several parents and may contain cycles; node identity
// is pointer identity.
package node

import (
	"github.com/shapestone/shape-core/pkg/ast"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	ScalarNode Kind = iota + 1
	SequenceNode
	MappingNode
	DocumentNode
	RootNode
	AliasNode
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case ScalarNode:
		return "Scalar"
	case SequenceNode:
		return "Sequence"
	case MappingNode:
		return "Mapping"
	case DocumentNode:
		return "Document"
	case RootNode:
		return "Root"
	case AliasNode:
		return "Alias"
	default:
		return "Unknown"
	}
}

// Style records how a scalar was written in the source.
type Style int

const (
	PlainStyle Style = iota
	SingleQuotedStyle
	DoubleQuotedStyle
	LiteralStyle
	FoldedStyle
)

// Metadata holds the node properties written in the source.
type Metadata struct {
	Tag        string
	Anchor     string
	Alias      string
	IsMergeKey bool
}

// IsZero reports whether no property is set.
func (m Metadata) IsZero() bool {
	return m == Metadata{}
}

// MappingItem is one key/value pair of a mapping.
type MappingItem struct {
	Key   *Node
	Value *Node
}

// Node is a single YAML node.
//
// Which fields are meaningful depends on Kind:
//   - ScalarNode: Value, Style
//   - SequenceNode: Items
//   - MappingNode: Pairs
//   - DocumentNode: Items (exactly one content node), Version
//   - RootNode: Items (documents)
//   - AliasNode: Meta.Alias only
type Node struct {
	Kind    Kind
	Meta    Metadata
	Value   interface{}
	Style   Style
	Items   []*Node
	Pairs   []MappingItem
	Version string
	Pos     ast.Position

	// Multiline is set for scalars whose source spans several lines.
	Multiline bool
}

// NewScalar creates a scalar node.
func NewScalar(value interface{}, style Style, meta Metadata, pos ast.Position) *Node {
	return &Node{Kind: ScalarNode, Value: value, Style: style, Meta: meta, Pos: pos}
}

// NewNull creates an implicit null scalar, used for omitted keys and values.
func NewNull(meta Metadata, pos ast.Position) *Node {
	return &Node{Kind: ScalarNode, Meta: meta, Pos: pos}
}

// NewSequence creates an empty sequence node.
func NewSequence(meta Metadata, pos ast.Position) *Node {
	return &Node{Kind: SequenceNode, Meta: meta, Pos: pos, Items: []*Node{}}
}

// NewMapping creates an empty mapping node.
func NewMapping(meta Metadata, pos ast.Position) *Node {
	return &Node{Kind: MappingNode, Meta: meta, Pos: pos, Pairs: []MappingItem{}}
}

// NewDocument wraps content into a document of the given YAML version.
func NewDocument(content *Node, version string, pos ast.Position) *Node {
	return &Node{Kind: DocumentNode, Items: []*Node{content}, Version: version, Pos: pos}
}

// NewRoot creates an empty root node.
func NewRoot() *Node {
	return &Node{Kind: RootNode, Items: []*Node{}, Pos: ast.NewPosition(0, 1, 0)}
}

// NewAlias creates an alias placeholder referring to the anchor name.
func NewAlias(name string, pos ast.Position) *Node {
	return &Node{Kind: AliasNode, Meta: Metadata{Alias: name}, Pos: pos}
}

// Append adds a child to a sequence, document list or root.
func (n *Node) Append(child *Node) {
	n.Items = append(n.Items, child)
}

// AddPair appends a key/value pair to a mapping.
func (n *Node) AddPair(key, value *Node) {
	n.Pairs = append(n.Pairs, MappingItem{Key: key, Value: value})
}

// Content returns the content node of a document, or nil for any other kind.
func (n *Node) Content() *Node {
	if n.Kind != DocumentNode || len(n.Items) == 0 {
		return nil
	}
	return n.Items[0]
}

// IsCollection reports whether the node is a sequence or a mapping.
func (n *Node) IsCollection() bool {
	return n.Kind == SequenceNode || n.Kind == MappingNode
}

// Get returns the value of the last pair whose scalar key equals key.
// Later pairs win, matching how merged and explicit keys are flattened.
func (n *Node) Get(key string) (*Node, bool) {
	if n.Kind != MappingNode {
		return nil, false
	}
	for i := len(n.Pairs) - 1; i >= 0; i-- {
		k := n.Pairs[i].Key
		if k.Kind == ScalarNode && KeyString(k.Value) == key {
			return n.Pairs[i].Value, true
		}
	}
	return nil, false
}

// Shell returns a copy of n with the same kind, metadata, scalar value and position
// but without children. Resolvers allocate shells before populating them so that
// references back to the node can be established while it is being built.
func (n *Node) Shell() *Node {
	c := &Node{
		Kind:      n.Kind,
		Meta:      n.Meta,
		Value:     n.Value,
		Style:     n.Style,
		Version:   n.Version,
		Pos:       n.Pos,
		Multiline: n.Multiline,
	}
	switch n.Kind {
	case SequenceNode, DocumentNode, RootNode:
		c.Items = make([]*Node, 0, len(n.Items))
	case MappingNode:
		c.Pairs = make([]MappingItem, 0, len(n.Pairs))
	}
	return c
}
