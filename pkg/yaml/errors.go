package yaml

import (
	"github.com/shapestone/yamlgraph/internal/parser"
	"github.com/shapestone/yamlgraph/internal/resolver"
	"github.com/shapestone/yamlgraph/internal/tags"
	"github.com/shapestone/yamlgraph/internal/tokenizer"
)

// Error kinds returned by the parsing functions. Use errors.As to tell them apart:
//
//	var lexErr *yaml.LexerError
//	if errors.As(err, &lexErr) {
//	    fmt.Println(lexErr.Line, lexErr.Column)
//	}
type (
	// LexerError reports malformed input text.
	LexerError = tokenizer.LexerError

	// ParserError reports a token that does not fit the document structure.
	ParserError = parser.ParserError

	// ResolverError reports an unknown alias or an invalid merge key value.
	ResolverError = resolver.ResolverError

	// TagHandlerError reports a tagged value its handler rejects.
	TagHandlerError = tags.TagHandlerError
)

// Tag handler types for WithTagHandler.
type (
	TagHandler     = tags.Handler
	TagHandlerFunc = tags.HandlerFunc
)

// CustomTag returns a handler converting the values of nodes tagged exactly tag.
//
// Example:
//
//	upper := yaml.CustomTag("!upper", func(v interface{}, _ node.Metadata) (interface{}, error) {
//	    return strings.ToUpper(v.(string)), nil
//	})
//	n, err := yaml.Parse("name: !upper alice", yaml.WithTagHandler(upper))
func CustomTag(tag string, fn TagHandlerFunc) TagHandler {
	return tags.Custom(tag, fn)
}
