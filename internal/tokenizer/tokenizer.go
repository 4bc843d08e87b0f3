package tokenizer

import "io"

// scanner is one lexing rule. supports inspects the context without consuming
// anything; scan consumes input and may emit tokens.
type scanner interface {
	supports(ctx *Context) bool
	scan(ctx *Context) error
}

// scanners is tried in order at every position; the first supporting scanner wins.
//
// Ordering is critical:
//  1. Indentation before everything (line starts)
//  2. Quoted scalars before indicators ('#', ':' may appear inside quotes)
//  3. Document markers before the sequence indicator ("---" vs "-")
//  4. Tags, anchors and aliases before plain scalars ('!', '&', '*')
//  5. Plain scalars last, they match anything else
var scanners = []scanner{
	indentationScanner{},
	whitespaceScanner{},
	quotedScanner{quote: '"'},
	quotedScanner{quote: '\''},
	documentScanner{},
	directiveScanner{},
	tagScanner{},
	anchorScanner{},
	aliasScanner{},
	collectionScanner{},
	blockScalarScanner{literal: true},
	blockScalarScanner{literal: false},
	commentScanner{},
	plainScanner{},
}

// Tokenize scans the whole input and returns its tokens, ending with EOF.
// Any rule violation aborts with a *LexerError.
func Tokenize(input string) ([]Token, error) {
	ctx := NewContext(input)
	if err := ctx.Run(); err != nil {
		return nil, err
	}
	return ctx.Tokens(), nil
}

// TokenizeReader is Tokenize over a reader. The input is pulled through a buffered
// stream while scanning. A failing reader wins over any lexer error and is
// returned as is.
func TokenizeReader(reader io.Reader) ([]Token, error) {
	ctx := NewContextFromReader(reader)
	err := ctx.Run()
	if readErr := ctx.readErr(); readErr != nil {
		return nil, readErr
	}
	if err != nil {
		return nil, err
	}
	return ctx.Tokens(), nil
}

// Run drives the scanners until the input is exhausted and closes the stream.
func (c *Context) Run() error {
	for !c.eof() {
		offset, lineStart := c.offset(), c.lineStart
		matched := false
		for _, s := range scanners {
			if !s.supports(c) {
				continue
			}
			if err := s.scan(c); err != nil {
				return err
			}
			matched = true
			break
		}
		if !matched || (c.offset() == offset && c.lineStart == lineStart) {
			line, column, _ := c.position()
			return &LexerError{Message: "No scanner could process the input", Line: line, Column: column, Near: string(c.peek())}
		}
	}

	if c.inDocument() {
		c.resetMode()
	}
	c.emitHere(EOF, "")
	return nil
}

// whitespaceScanner skips blanks between tokens on the same line.
type whitespaceScanner struct{}

func (whitespaceScanner) supports(ctx *Context) bool {
	r := ctx.peek()
	return !ctx.lineStart && (r == ' ' || r == '\t')
}

func (whitespaceScanner) scan(ctx *Context) error {
	for r := ctx.peek(); r == ' ' || r == '\t'; r = ctx.peek() {
		ctx.advance()
	}
	return nil
}

// commentScanner consumes '#' comments up to the end of the line.
// A '#' starts a comment at the start of a line or after a space; YAML 1.1 also
// accepts a tab before it.
type commentScanner struct{}

func (commentScanner) supports(ctx *Context) bool {
	if ctx.peek() != '#' {
		return false
	}
	switch ctx.prev() {
	case 0, '\n', ' ':
		return true
	case '\t':
		return ctx.version() == "1.1"
	}
	return false
}

func (commentScanner) scan(ctx *Context) error {
	for !ctx.eof() && ctx.peek() != '\n' {
		ctx.advance()
	}
	return nil
}
