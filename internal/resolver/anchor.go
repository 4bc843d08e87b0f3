package resolver

import (
	"github.com/shapestone/yamlgraph/pkg/node"
)

// anchorKey identifies one definition of an anchor. A name may be anchored several
// times in a document; every definition gets the next occurrence number and
// aliases refer to the occurrence in effect at their position.
type anchorKey struct {
	document   int
	name       string
	occurrence int
}

// anchorContext holds the state of one ResolveAnchors call.
type anchorContext struct {
	document int
	counters map[string]int

	definitions map[*node.Node]anchorKey
	anchors     map[anchorKey]*node.Node
	resolved    map[anchorKey]*node.Node
	resolving   map[anchorKey]*node.Node
}

// ResolveAnchors replaces every alias in the tree with the node its anchor
// defines and returns the new tree. The input is left untouched.
//
// The tree is walked twice. The first walk records the anchored nodes by
// document, name and occurrence. The second walk replays the same occurrence
// sequence and rebuilds the tree. An anchored node is allocated and registered
// before its children are resolved, so an alias inside its own subtree (or inside
// a node that it refers to) yields the node under construction. This turns
// self-referencing and mutually referencing anchors into cycles of shared
// pointers:
//
//	person: &p {name: Ann, spouse: *s}
//	spouse: &s {name: Bob, spouse: *p}
//
// resolves to two mappings that point at each other. Every alias site of an
// anchor shares the same *node.Node.
//
// Unknown aliases fail with a *ResolverError.
func ResolveAnchors(root *node.Node) (*node.Node, error) {
	c := &anchorContext{
		counters:    make(map[string]int),
		definitions: make(map[*node.Node]anchorKey),
		anchors:     make(map[anchorKey]*node.Node),
		resolved:    make(map[anchorKey]*node.Node),
		resolving:   make(map[anchorKey]*node.Node),
	}

	c.collect(root)

	c.document = 0
	c.counters = make(map[string]int)

	return c.resolve(root)
}

// collect records every anchored node.
func (c *anchorContext) collect(n *node.Node) {
	if n == nil {
		return
	}

	if name := n.Meta.Anchor; name != "" && n.Kind != node.AliasNode {
		c.counters[name]++
		key := anchorKey{document: c.document, name: name, occurrence: c.counters[name]}
		c.definitions[n] = key
		c.anchors[key] = n
	}

	switch n.Kind {
	case node.RootNode, node.SequenceNode:
		for _, item := range n.Items {
			c.collect(item)
		}
	case node.DocumentNode:
		c.nextDocument()
		c.collect(n.Content())
	case node.MappingNode:
		for _, pair := range n.Pairs {
			c.collect(pair.Key)
			c.collect(pair.Value)
		}
	}
}

func (c *anchorContext) nextDocument() {
	c.document++
	c.counters = make(map[string]int)
}

// resolve returns the resolved counterpart of n.
func (c *anchorContext) resolve(n *node.Node) (*node.Node, error) {
	if n == nil {
		return nil, nil
	}

	if n.Kind == node.AliasNode {
		return c.resolveAlias(n)
	}

	if n.Meta.Anchor != "" {
		key := c.definitions[n]
		c.counters[key.name] = key.occurrence

		if r, ok := c.resolved[key]; ok {
			// built early by a forward alias; keep the occurrence sequence in step
			c.replay(n)
			return r, nil
		}
		if r, ok := c.resolving[key]; ok {
			return r, nil
		}
		return c.build(key, n)
	}

	return c.rebuild(n)
}

// resolveAlias looks up the occurrence of the alias name in effect. An alias seen
// before any definition of its name refers to the first one, which is how a cycle
// back to a later anchor is written.
func (c *anchorContext) resolveAlias(alias *node.Node) (*node.Node, error) {
	name := alias.Meta.Alias
	occurrence := c.counters[name]
	if occurrence == 0 {
		occurrence = 1
	}

	key := anchorKey{document: c.document, name: name, occurrence: occurrence}
	if r, ok := c.resolved[key]; ok {
		return r, nil
	}
	if r, ok := c.resolving[key]; ok {
		return r, nil
	}

	def, ok := c.anchors[key]
	if !ok {
		return nil, errorAt(alias, "Unknown alias: *%s", name)
	}

	counters := c.snapshot()
	r, err := c.build(key, def)
	c.counters = counters
	return r, err
}

// build allocates the resolved node for an anchor definition, registers it as
// resolving and only then populates its children.
func (c *anchorContext) build(key anchorKey, def *node.Node) (*node.Node, error) {
	shell := def.Shell()
	c.resolving[key] = shell

	if err := c.populate(def, shell); err != nil {
		return nil, err
	}

	delete(c.resolving, key)
	c.resolved[key] = shell
	return shell, nil
}

// rebuild resolves a node without an anchor.
func (c *anchorContext) rebuild(n *node.Node) (*node.Node, error) {
	switch n.Kind {
	case node.ScalarNode:
		return n, nil
	case node.DocumentNode:
		c.nextDocument()
	}

	shell := n.Shell()
	if err := c.populate(n, shell); err != nil {
		return nil, err
	}
	return shell, nil
}

// populate resolves the children of src into dst.
func (c *anchorContext) populate(src, dst *node.Node) error {
	switch src.Kind {
	case node.RootNode, node.SequenceNode, node.DocumentNode:
		for _, item := range src.Items {
			r, err := c.resolve(item)
			if err != nil {
				return err
			}
			dst.Append(r)
		}
	case node.MappingNode:
		for _, pair := range src.Pairs {
			k, err := c.resolve(pair.Key)
			if err != nil {
				return err
			}
			v, err := c.resolve(pair.Value)
			if err != nil {
				return err
			}
			dst.AddPair(k, v)
		}
	}
	return nil
}

// replay advances the occurrence counters for the anchors inside a subtree that
// was resolved out of order.
func (c *anchorContext) replay(n *node.Node) {
	var walk func(*node.Node)
	walk = func(n *node.Node) {
		if n == nil {
			return
		}
		if key, ok := c.definitions[n]; ok {
			c.counters[key.name] = key.occurrence
		}
		for _, item := range n.Items {
			walk(item)
		}
		for _, pair := range n.Pairs {
			walk(pair.Key)
			walk(pair.Value)
		}
	}

	for _, item := range n.Items {
		walk(item)
	}
	for _, pair := range n.Pairs {
		walk(pair.Key)
		walk(pair.Value)
	}
}

func (c *anchorContext) snapshot() map[string]int {
	counters := make(map[string]int, len(c.counters))
	for name, occurrence := range c.counters {
		counters[name] = occurrence
	}
	return counters
}
