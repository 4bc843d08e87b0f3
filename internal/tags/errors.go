package tags

import (
	"fmt"
)

// TagHandlerError reports a tagged value its handler rejects.
type TagHandlerError struct {
	Message string
	Tag     string
	Line    int
	Column  int

	// Err is the error returned by a custom handler, if any.
	Err error
}

// Error returns the message followed by the source position.
func (e *TagHandlerError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Line, e.Column)
}

func (e *TagHandlerError) Unwrap() error {
	return e.Err
}

func rejectf(format string, args ...interface{}) *TagHandlerError {
	return &TagHandlerError{Message: fmt.Sprintf(format, args...)}
}
