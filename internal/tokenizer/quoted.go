package tokenizer

import (
	"strconv"
)

// simpleEscapes maps the single-character escapes of double-quoted scalars.
var simpleEscapes = map[rune]rune{
	'\\': '\\',
	'"':  '"',
	'/':  '/',
	'0':  0x00,
	'a':  0x07,
	'b':  0x08,
	'e':  0x1B,
	'f':  0x0C,
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  0x0B,
	' ':  ' ',
	'N':  0x85,
	'_':  0xA0,
	'L':  0x2028,
	'P':  0x2029,
}

// hexEscapes maps the numeric escapes to the number of hex digits they take.
var hexEscapes = map[rune]int{
	'x': 2,
	'u': 4,
	'U': 8,
}

// quotedScanner handles single- and double-quoted flow scalars.
//
// Line breaks inside the quotes are folded: trailing and leading white space around
// the break is dropped, a single break becomes a space and each blank line becomes
// a newline. Double-quoted scalars additionally process escapes, and an escaped line
// break joins the lines without a space.
type quotedScanner struct {
	quote rune
}

func (s quotedScanner) supports(ctx *Context) bool {
	return ctx.peek() == s.quote
}

func (s quotedScanner) scan(ctx *Context) error {
	line, column, offset := ctx.position()
	ctx.advance()

	var buf []rune
	protected := 0 // buf[:protected] is never trimmed
	multiline := false

	for {
		if ctx.eof() {
			return errorf(line, column, "Unterminated quoted scalar")
		}

		r := ctx.peek()
		switch {
		case r == s.quote:
			if s.quote == '\'' && ctx.peekAt(1) == '\'' {
				ctx.advanceN(2)
				buf = append(buf, '\'')
				protected = len(buf)
				continue
			}
			ctx.advance()
			kind := DoubleQuotedScalar
			if s.quote == '\'' {
				kind = SingleQuotedScalar
			}
			ctx.emit(NewToken(kind, string(buf), line, column, offset).withMeta(MetaMultiline, multiline))
			return nil

		case r == '\\' && s.quote == '"':
			if ctx.peekAt(1) == '\n' {
				ctx.advanceN(2)
				skipInlineBlanks(ctx)
				multiline = true
				protected = len(buf)
				continue
			}
			decoded, err := decodeEscape(ctx)
			if err != nil {
				return err
			}
			buf = append(buf, decoded)
			protected = len(buf)

		case r == '\n':
			multiline = true
			for len(buf) > protected && (buf[len(buf)-1] == ' ' || buf[len(buf)-1] == '\t') {
				buf = buf[:len(buf)-1]
			}
			buf = append(buf, foldLineBreaks(ctx)...)
			protected = len(buf)

		default:
			buf = append(buf, ctx.advance())
		}
	}
}

// decodeEscape consumes one escape sequence starting at the backslash.
func decodeEscape(ctx *Context) (rune, error) {
	line, column, _ := ctx.position()
	ctx.advance()
	c := ctx.peek()

	if r, ok := simpleEscapes[c]; ok {
		ctx.advance()
		return r, nil
	}

	digits, ok := hexEscapes[c]
	if !ok {
		return 0, errorf(line, column, "Invalid escape sequence '\\%c'", c)
	}
	ctx.advance()

	hex := make([]rune, 0, digits)
	for i := 0; i < digits; i++ {
		d := ctx.peek()
		if !isHexDigit(d) {
			return 0, errorf(line, column, "Invalid escape sequence '\\%c'", c)
		}
		hex = append(hex, ctx.advance())
	}

	cp, err := strconv.ParseUint(string(hex), 16, 32)
	if err != nil {
		return 0, errorf(line, column, "Invalid escape sequence '\\%c'", c)
	}
	if cp > 0x10FFFF || (cp >= 0xD800 && cp <= 0xDFFF) {
		return 0, errorf(line, column, "Invalid Unicode codepoint: U+%06X", cp)
	}
	return rune(cp), nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// skipInlineBlanks consumes spaces and tabs.
func skipInlineBlanks(ctx *Context) {
	for r := ctx.peek(); r == ' ' || r == '\t'; r = ctx.peek() {
		ctx.advance()
	}
}

// foldLineBreaks consumes a line break, any following blank lines and the leading
// white space of the next line. It returns the folded text: a space for a single
// break, otherwise one newline per blank line.
func foldLineBreaks(ctx *Context) []rune {
	ctx.advance()
	blanks := 0
	for {
		skipInlineBlanks(ctx)
		if ctx.peek() != '\n' {
			break
		}
		ctx.advance()
		blanks++
	}
	if blanks == 0 {
		return []rune{' '}
	}
	folded := make([]rune, blanks)
	for i := range folded {
		folded[i] = '\n'
	}
	return folded
}
