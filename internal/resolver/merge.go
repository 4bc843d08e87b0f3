package resolver

import (
	"github.com/shapestone/yamlgraph/pkg/node"
)

// mergeContext holds the state of one ResolveMerges call. Nodes are resolved once;
// a node shared by several parents or reached again through a cycle maps to the
// same output node. active counts the pair expansions in progress per mapping.
type mergeContext struct {
	memo   map[*node.Node]*node.Node
	active map[*node.Node]int
}

// ResolveMerges expands the merge keys ("<<") of every mapping and returns the
// new tree.
//
// The value of a merge key is a mapping or a sequence of mappings. Their pairs
// are spliced into the enclosing mapping ahead of its own pairs; among merge
// sources a later one overrides an earlier pair with the same key in place:
//
//	base:  &b {a: 1, b: 2}
//	extra: &e {b: 3}
//	out:
//	  <<: [*b, *e]
//	  a: 0
//
// gives out the pairs a: 1, b: 3, a: 0, which reads as {a: 0, b: 3}.
//
// Shared nodes are expanded once and stay shared. Any other merge value fails
// with a *ResolverError.
func ResolveMerges(root *node.Node) (*node.Node, error) {
	c := &mergeContext{
		memo:   make(map[*node.Node]*node.Node),
		active: make(map[*node.Node]int),
	}
	return c.resolve(root)
}

func (c *mergeContext) resolve(n *node.Node) (*node.Node, error) {
	if n == nil {
		return nil, nil
	}
	if r, ok := c.memo[n]; ok {
		return r, nil
	}

	switch n.Kind {
	case node.MappingNode:
		return c.resolveMapping(n)
	case node.SequenceNode, node.DocumentNode, node.RootNode:
		shell := n.Shell()
		c.memo[n] = shell
		for _, item := range n.Items {
			r, err := c.resolve(item)
			if err != nil {
				return nil, err
			}
			shell.Append(r)
		}
		return shell, nil
	}
	return n, nil
}

func (c *mergeContext) resolveMapping(n *node.Node) (*node.Node, error) {
	shell := n.Shell()
	c.memo[n] = shell

	pairs, err := c.pairs(n)
	if err != nil {
		return nil, err
	}
	shell.Pairs = append(shell.Pairs, pairs...)
	return shell, nil
}

// pairs returns the resolved pairs of mapping n: the merged pairs first, then its
// own.
func (c *mergeContext) pairs(n *node.Node) ([]node.MappingItem, error) {
	c.active[n]++
	defer func() {
		if c.active[n]--; c.active[n] == 0 {
			delete(c.active, n)
		}
	}()

	var merged, regular []node.MappingItem
	for _, pair := range n.Pairs {
		if pair.Key != nil && pair.Key.Meta.IsMergeKey {
			items, err := c.mergeItems(pair.Value)
			if err != nil {
				return nil, err
			}
			merged = amend(merged, items)
			continue
		}
		regular = append(regular, pair)
	}

	out := make([]node.MappingItem, 0, len(merged)+len(regular))
	out = append(out, merged...)
	for _, pair := range regular {
		k, err := c.resolve(pair.Key)
		if err != nil {
			return nil, err
		}
		v, err := c.resolve(pair.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, node.MappingItem{Key: k, Value: v})
	}
	return out, nil
}

// sourcePairs returns the pairs a merge source contributes. A source that is still
// being resolved is an ancestor of the merge key; its output node is incomplete,
// so its pairs are expanded again from the input. A source merged into itself
// contributes nothing the second time round.
func (c *mergeContext) sourcePairs(source *node.Node) ([]node.MappingItem, error) {
	switch c.active[source] {
	case 0:
		r, err := c.resolve(source)
		if err != nil {
			return nil, err
		}
		return r.Pairs, nil
	case 1:
		return c.pairs(source)
	}
	return nil, nil
}

// mergeItems returns the resolved pairs contributed by the value of a merge key.
func (c *mergeContext) mergeItems(value *node.Node) ([]node.MappingItem, error) {
	if value == nil {
		return nil, &ResolverError{Message: "Merge key value must be a mapping or sequence of mappings"}
	}

	switch value.Kind {
	case node.MappingNode:
		return c.sourcePairs(value)
	case node.SequenceNode:
		var items []node.MappingItem
		for _, source := range value.Items {
			if source == nil || source.Kind != node.MappingNode {
				return nil, errorAt(value, "Merge key value must be a mapping or sequence of mappings")
			}
			pairs, err := c.sourcePairs(source)
			if err != nil {
				return nil, err
			}
			items = amend(items, pairs)
		}
		return items, nil
	}
	return nil, errorAt(value, "Merge key value must be a mapping or sequence of mappings")
}

// amend adds items to merged. An item whose scalar key is already present
// replaces the earlier value in place.
func amend(merged, items []node.MappingItem) []node.MappingItem {
	for _, item := range items {
		replaced := false
		for i := range merged {
			if sameKey(merged[i].Key, item.Key) {
				merged[i].Value = item.Value
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, item)
		}
	}
	return merged
}

// sameKey compares scalar keys by their text. Collection keys are only equal to
// themselves.
func sameKey(a, b *node.Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != node.ScalarNode || b.Kind != node.ScalarNode {
		return false
	}
	return node.KeyString(a.Value) == node.KeyString(b.Value)
}
