package tokenizer

// atDocumentMarker reports whether the cursor sits on "---" or "..." at column 0
// followed by a blank, a line break or the end of input.
func (c *Context) atDocumentMarker() bool {
	return c.column() == 0 && c.markerAt(c.cursor)
}

// documentScanner handles the "---" and "..." markers.
//
// "---" closes any open document and starts a new one; "..." only closes.
// Documents without markers are opened implicitly by the indentation scanner.
type documentScanner struct{}

func (documentScanner) supports(ctx *Context) bool {
	return ctx.atDocumentMarker()
}

func (documentScanner) scan(ctx *Context) error {
	line, column, offset := ctx.position()
	start := ctx.hasPrefixAt("---")
	ctx.advanceN(3)

	if ctx.inDocument() {
		ctx.resetMode()
	}
	if start {
		ctx.startDocument(line, column, offset)
	}
	return nil
}
