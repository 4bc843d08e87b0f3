package tokenizer

import (
	"regexp"
	"strings"
)

var (
	verbatimGlobalPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:.+$`)
	verbatimLocalPattern  = regexp.MustCompile(`^![-A-Za-z0-9_.~:/?#@!$&'()*+;=%]+$`)
	tagSuffixPattern      = regexp.MustCompile(`^[-A-Za-z0-9%#;/?:@&=+$_.~*'()]+$`)
)

// readProperty consumes the text of a node property: everything up to a blank, a
// line break or, inside flow collections, a flow indicator.
func (c *Context) readProperty() string {
	var b strings.Builder
	for !c.eof() {
		r := c.peek()
		if isBlankOrBreak(r) || (c.inFlow() && isFlowIndicator(r)) {
			break
		}
		b.WriteRune(c.advance())
	}
	return b.String()
}

// tagScanner handles "!" node tags.
//
// Shorthand tags are expanded against the %TAG directives of the current document.
// The resulting value is either a verbatim tag "!<uri>", a primary/secondary
// shorthand left as written ("!local", "!!str") or the non-specific tag "!".
type tagScanner struct{}

func (tagScanner) supports(ctx *Context) bool {
	return ctx.peek() == '!'
}

func (tagScanner) scan(ctx *Context) error {
	line, column, offset := ctx.position()

	if ctx.peekAt(1) == '<' {
		ctx.advanceN(2)
		var b strings.Builder
		for !ctx.eof() && ctx.peek() != '>' && ctx.peek() != '\n' {
			b.WriteRune(ctx.advance())
		}
		content := b.String()
		if ctx.peek() != '>' {
			return errorf(line, column, "Invalid verbatim tag format '%s'", content)
		}
		ctx.advance()
		if !verbatimGlobalPattern.MatchString(content) && !verbatimLocalPattern.MatchString(content) {
			return errorf(line, column, "Invalid verbatim tag format '%s'", content)
		}
		ctx.emitAt(Tag, "!<"+content+">", line, column, offset)
		return nil
	}

	raw := ctx.readProperty()
	value, err := ctx.expandTag(raw)
	if err != nil {
		err.Line, err.Column = line, column
		return err
	}
	ctx.emitAt(Tag, value, line, column, offset)
	return nil
}

// expandTag resolves a shorthand tag against the tag handles in scope.
func (c *Context) expandTag(raw string) (string, *LexerError) {
	if raw == "!" {
		return raw, nil
	}

	var handle, suffix string
	if strings.HasPrefix(raw, "!!") {
		handle, suffix = "!!", raw[2:]
	} else if i := strings.IndexByte(raw[1:], '!'); i >= 0 {
		handle, suffix = raw[:i+2], raw[i+2:]
	} else {
		handle, suffix = "!", raw[1:]
	}

	if suffix == "" || !tagSuffixPattern.MatchString(suffix) {
		return "", errorf(0, 0, "Invalid tag format '%s'", raw)
	}

	prefix, declared, ok := c.tagPrefix(handle)
	if !ok {
		return "", errorf(0, 0, "Undefined tag handle '%s'", handle)
	}
	if handle != "!" && handle != "!!" {
		return "!<" + prefix + suffix + ">", nil
	}
	if declared {
		return "!<" + prefix + suffix + ">", nil
	}
	return raw, nil
}

// anchorScanner handles "&name" anchors.
type anchorScanner struct{}

func (anchorScanner) supports(ctx *Context) bool {
	return ctx.peek() == '&'
}

func (anchorScanner) scan(ctx *Context) error {
	line, column, offset := ctx.position()
	ctx.advance()
	name := ctx.readProperty()
	if name == "" {
		return errorf(line, column, "Empty anchor name")
	}
	ctx.emitAt(Anchor, name, line, column, offset)
	return nil
}

// aliasScanner handles "*name" aliases.
type aliasScanner struct{}

func (aliasScanner) supports(ctx *Context) bool {
	return ctx.peek() == '*'
}

func (aliasScanner) scan(ctx *Context) error {
	line, column, offset := ctx.position()
	ctx.advance()
	name := ctx.readProperty()
	if name == "" {
		return errorf(line, column, "Empty alias name")
	}
	ctx.emitAt(Alias, name, line, column, offset)
	return nil
}
