// Package resolver turns the raw node tree produced by the parser into the final
// node graph: aliases are replaced by the nodes they refer to and merge keys are
// expanded into the mappings that carry them.
package resolver

import (
	"fmt"

	"github.com/shapestone/yamlgraph/pkg/node"
)

// ResolverError reports an alias or merge key that cannot be resolved.
type ResolverError struct {
	Message string
	Line    int
	Column  int
}

// Error returns the message followed by the source position.
func (e *ResolverError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Line, e.Column)
}

func errorAt(n *node.Node, format string, args ...interface{}) *ResolverError {
	return &ResolverError{
		Message: fmt.Sprintf(format, args...),
		Line:    n.Pos.Line,
		Column:  n.Pos.Column,
	}
}
