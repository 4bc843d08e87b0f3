package tokenizer

import "fmt"

// LexerError reports malformed input found while scanning.
//
// Near holds the character no scanner could consume; it is empty for every other
// failure.
type LexerError struct {
	Message string
	Line    int
	Column  int
	Near    string
}

// Error returns the message followed by the source position.
func (e *LexerError) Error() string {
	if e.Near != "" {
		return fmt.Sprintf("%s at line %d, column %d (char: '%s')", e.Message, e.Line, e.Column, e.Near)
	}
	return fmt.Sprintf("%s in line %d, column %d", e.Message, e.Line, e.Column)
}

// errorf builds a LexerError at the given position.
func errorf(line, column int, format string, args ...interface{}) *LexerError {
	return &LexerError{Message: fmt.Sprintf(format, args...), Line: line, Column: column}
}
