package tokenizer

// plainScanner handles unquoted scalars. It is the fallback scanner and runs last.
//
// A plain scalar ends at ": ", at " #", at a line break or, inside flow collections,
// at a flow indicator. It continues on the next line when that line is indented
// deeper than the node the scalar belongs to; the line break folds into a space,
// or into one newline per blank line in between.
type plainScanner struct{}

func (plainScanner) supports(ctx *Context) bool {
	return !ctx.eof()
}

func (plainScanner) scan(ctx *Context) error {
	line, column, offset := ctx.position()
	if r := ctx.peek(); r == '@' || r == '`' {
		return errorf(line, column, "Cannot start plain scalar with '%c': Reserved indicator", r)
	}

	threshold := ctx.nodeIndent()
	var buf []rune
	multiline := false

	for {
		buf = scanPlainSegment(ctx, buf)
		for len(buf) > 0 && (buf[len(buf)-1] == ' ' || buf[len(buf)-1] == '\t') {
			buf = buf[:len(buf)-1]
		}
		if ctx.peek() != '\n' {
			break
		}

		next, blanks, ok := plainContinuation(ctx, threshold)
		if !ok {
			break
		}
		ctx.commit(next)
		multiline = true
		if blanks == 0 {
			buf = append(buf, ' ')
		} else {
			for i := 0; i < blanks; i++ {
				buf = append(buf, '\n')
			}
		}
	}

	ctx.emit(NewToken(PlainScalar, string(buf), line, column, offset).withMeta(MetaMultiline, multiline))
	return nil
}

// scanPlainSegment consumes plain scalar text up to the end of the current line or
// the first character that terminates the scalar.
func scanPlainSegment(ctx *Context, buf []rune) []rune {
	start := len(buf)
	for !ctx.eof() {
		r := ctx.peek()
		if r == '\n' {
			break
		}
		if r == ':' {
			next := ctx.peekAt(1)
			if isBlankOrBreak(next) || (ctx.inFlow() && isFlowIndicator(next)) {
				break
			}
		}
		if r == '#' && len(buf) > start {
			if p := ctx.prev(); p == ' ' || p == '\t' {
				break
			}
		}
		if ctx.inFlow() && isFlowIndicator(r) {
			break
		}
		buf = append(buf, ctx.advance())
	}
	return buf
}

// plainContinuation looks past the line break at the cursor for a continuation
// line. It returns a lookahead cursor on the continuation text and the number of
// blank lines skipped on the way.
func plainContinuation(ctx *Context, threshold int) (*cursor, int, bool) {
	l := ctx.lookahead()
	l.next()
	blanks := 0
	for !l.eof() {
		spaces := l.skip(' ')
		tabs := l.skip('\t')
		if l.eof() {
			return nil, 0, false
		}

		r := l.peek()
		if r == '\n' {
			blanks++
			l.next()
			continue
		}

		switch {
		case spaces == 0 && tabs == 0 && ctx.markerAt(l):
			return nil, 0, false
		case r == '#':
			return nil, 0, false
		case ctx.inFlow():
			if isFlowIndicator(r) {
				return nil, 0, false
			}
			if next := ctx.peekAfter(l, 1); r == ':' && next != 0 && isBlankOrBreak(next) {
				return nil, 0, false
			}
		case spaces <= threshold:
			return nil, 0, false
		}
		return l, blanks, true
	}
	return nil, 0, false
}
