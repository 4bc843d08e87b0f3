package tokenizer

// indentationScanner measures the indentation of every line and emits INDENT and
// DEDENT tokens when it changes (off-side rule).
//
// Example:
//
//	Input:
//	  name: Alice
//	  children:
//	    - Bob
//	    - Carol
//
//	Tokens emitted:
//	  DOCUMENT_START, "name", KEY_INDICATOR, "Alice",
//	  "children", KEY_INDICATOR,
//	  INDENT, SEQUENCE_INDICATOR, INDENT, "Bob", DEDENT,
//	  SEQUENCE_INDICATOR, INDENT, "Carol", DEDENT,
//	  DEDENT, DOCUMENT_END, EOF
//
// Blank lines, comment lines and lines inside flow collections do not affect
// indentation. A tab in the indentation of any other line is an error.
// Misaligned dedents are tolerated: the stack is popped to the first
// level not deeper than the line.
type indentationScanner struct{}

func (indentationScanner) supports(ctx *Context) bool {
	return ctx.lineStart || ctx.peek() == '\n'
}

func (indentationScanner) scan(ctx *Context) error {
	if ctx.peek() == '\n' {
		ctx.advance()
		ctx.lineStart = true
		return nil
	}

	ctx.lineStart = false
	n := 0
	for ctx.peek() == ' ' {
		ctx.advance()
		n++
	}

	r := ctx.peek()
	if r == '\n' || r == 0 || r == '#' || ctx.inFlow() {
		return nil
	}
	if r == '\t' {
		if blankRest(ctx) {
			return nil
		}
		line, column, _ := ctx.position()
		return errorf(line, column, "Tabs are not allowed for indentation")
	}

	if !ctx.inDocument() {
		if n == 0 && (r == '%' || ctx.atDocumentMarker()) {
			return nil
		}
		ctx.startDocument(ctx.line(), 0, ctx.offset()-n)
	} else if n == 0 && ctx.atDocumentMarker() {
		return nil
	}

	top := ctx.currentIndent()
	switch {
	case n > top:
		ctx.pushIndent(n, ModeBlockKey)
		ctx.emitHere(Indent, "")
	case n < top:
		for ctx.currentIndent() > n && ctx.popIndent() {
			ctx.emitHere(Dedent, "")
		}
	default:
		if ctx.currentMode() == ModeBlockValue {
			ctx.replaceMode(ModeBlockKey)
		}
	}
	return nil
}

// blankRest reports whether the line holds nothing but blanks and maybe a comment
// from the cursor on.
func blankRest(ctx *Context) bool {
	l := ctx.lookahead()
	for r := l.peek(); r == ' ' || r == '\t'; r = l.peek() {
		l.next()
	}
	switch l.peek() {
	case '\n', '#', 0:
		return true
	}
	return false
}
