package tokenizer

// collectionScanner handles the structural indicators: flow brackets, ',' and ':'
// plus the block indicators "- " and "? ".
type collectionScanner struct{}

func (collectionScanner) supports(ctx *Context) bool {
	switch r := ctx.peek(); r {
	case '[', '{':
		return true
	case ']', '}', ',':
		return ctx.inFlow()
	case ':':
		return isKeyIndicator(ctx)
	case '-':
		return !ctx.inFlow() && isBlankOrBreak(ctx.peekAt(1))
	case '?':
		return isBlankOrBreak(ctx.peekAt(1))
	}
	return false
}

// isKeyIndicator reports whether the ':' at the cursor separates a key from its value.
// Inside flow collections a ':' also counts when it is directly followed by a flow
// indicator or directly follows a quoted scalar or a closing bracket ({"a":1}).
func isKeyIndicator(ctx *Context) bool {
	next := ctx.peekAt(1)
	if isBlankOrBreak(next) {
		return true
	}
	if !ctx.inFlow() {
		return false
	}
	if isFlowIndicator(next) {
		return true
	}
	switch ctx.prev() {
	case '"', '\'', ']', '}':
		return true
	}
	return false
}

func (collectionScanner) scan(ctx *Context) error {
	switch r := ctx.peek(); r {
	case '[':
		ctx.emitHere(SequenceStart, "[")
		ctx.advance()
		ctx.enterFlow(ModeFlowSequence)
	case '{':
		ctx.emitHere(MappingStart, "{")
		ctx.advance()
		ctx.enterFlow(ModeFlowMappingKey)
	case ']':
		ctx.emitHere(SequenceEnd, "]")
		ctx.advance()
		ctx.exitFlow()
	case '}':
		ctx.emitHere(MappingEnd, "}")
		ctx.advance()
		ctx.exitFlow()
	case ',':
		ctx.emitHere(FlowSeparator, ",")
		ctx.advance()
		if ctx.currentMode() == ModeFlowMappingValue {
			ctx.replaceMode(ModeFlowMappingKey)
		}
	case ':':
		ctx.emitHere(KeyIndicator, ":")
		ctx.advance()
		switch mode := ctx.currentMode(); {
		case mode == ModeFlowMappingKey:
			ctx.replaceMode(ModeFlowMappingValue)
		case ctx.inFlow():
		case mode == ModeBlockSequenceEntry || mode == ModeExplicitKey:
		default:
			ctx.replaceMode(ModeBlockValue)
		}
	case '-':
		scanBlockEntry(ctx, SequenceIndicator, ModeBlockSequenceEntry)
	case '?':
		if ctx.inFlow() {
			ctx.emitHere(ExplicitKey, "?")
			ctx.advance()
			return nil
		}
		scanBlockEntry(ctx, ExplicitKey, ModeExplicitKey)
	}
	return nil
}

// scanBlockEntry emits a "- " or "? " indicator. An indicator deeper than the
// current level opens a level of its own; content on the same line opens a compact
// level at the content column so that "- a: 1\n  b: 2" nests naturally.
func scanBlockEntry(ctx *Context, kind TokenType, mode Mode) {
	column := ctx.column()
	if column > ctx.currentIndent() && ctx.pushIndent(column, mode) {
		ctx.emitHere(Indent, "")
	}

	ctx.emitHere(kind, string(ctx.peek()))
	ctx.advance()
	spaces := 0
	for ctx.peek() == ' ' {
		ctx.advance()
		spaces++
	}

	if r := ctx.peek(); r == '\n' || r == 0 || r == '#' {
		return
	}
	if ctx.pushIndent(column+1+spaces, mode) {
		ctx.emitHere(Indent, "")
	}
}
