package yaml

import (
	"errors"

	"github.com/shapestone/yamlgraph/internal/parser"
	"github.com/shapestone/yamlgraph/internal/tags"
)

// config holds the settings of one Parse or Unmarshal call.
type config struct {
	maxDepth     int
	maxKeyLength int
	handlers     []tags.Handler
	processTags  bool
	knownFields  bool
}

// Option configures parsing and decoding.
type Option func(*config) error

func newConfig(opts []Option) (*config, error) {
	c := &config{
		maxDepth:     parser.DefaultMaxDepth,
		maxKeyLength: parser.DefaultMaxKeyLength,
		processTags:  true,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithMaxDepth limits the nesting depth of collections. Deeper documents fail with
// a *ParserError. The default is 10000.
func WithMaxDepth(depth int) Option {
	return func(c *config) error {
		if depth <= 0 {
			return errors.New("yaml: max depth must be positive")
		}
		c.maxDepth = depth
		return nil
	}
}

// WithMaxKeyLength sets the maximum length of mapping keys in characters. The
// default is 1000.
func WithMaxKeyLength(length int) Option {
	return func(c *config) error {
		if length <= 0 {
			return errors.New("yaml: max key length must be positive")
		}
		c.maxKeyLength = length
		return nil
	}
}

// WithTagHandler registers a tag handler. Handlers registered this way are
// consulted in order before the built-in handlers.
func WithTagHandler(h TagHandler) Option {
	return func(c *config) error {
		if h == nil {
			return errors.New("yaml: nil tag handler")
		}
		c.handlers = append(c.handlers, h)
		return nil
	}
}

// WithoutTagProcessing leaves tagged nodes unconverted: their scalars keep the
// text written in the document and the tag stays in the node metadata.
func WithoutTagProcessing() Option {
	return func(c *config) error {
		c.processTags = false
		return nil
	}
}

// WithKnownFields makes Unmarshal fail on mapping keys that match no field of
// the target struct.
func WithKnownFields(known bool) Option {
	return func(c *config) error {
		c.knownFields = known
		return nil
	}
}
