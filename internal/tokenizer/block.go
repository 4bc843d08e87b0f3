package tokenizer

import (
	"strings"
)

// Chomping controls what happens to the final line break and trailing empty lines
// of a block scalar.
type chomping int

const (
	chompClip  chomping = iota // single trailing newline
	chompStrip                 // "-": no trailing newline
	chompKeep                  // "+": all trailing newlines
)

// blockLine is one raw source line of a block scalar.
type blockLine struct {
	text   string
	spaces int
	blank  bool
}

// blockScalarScanner handles literal "|" and folded ">" block scalars.
//
// Header: an optional chomping indicator and an optional indentation indicator in
// either order, then an optional comment. Without an indentation indicator the
// indentation is taken from the first non-empty line, which must be deeper than
// the parent node.
//
// Example:
//
//	text: >-
//	  folded
//	  lines
//
//	Token: FOLDED_SCALAR "folded lines"
type blockScalarScanner struct {
	literal bool
}

func (s blockScalarScanner) supports(ctx *Context) bool {
	if ctx.inFlow() {
		return false
	}
	if s.literal {
		return ctx.peek() == '|'
	}
	return ctx.peek() == '>'
}

func (s blockScalarScanner) name() string {
	if s.literal {
		return "Literal"
	}
	return "Folded"
}

func (s blockScalarScanner) scan(ctx *Context) error {
	line, column, offset := ctx.position()
	parent := ctx.nodeIndent()
	ctx.advance()

	chomp, indicator, headerErr := scanBlockHeader(ctx)
	if headerErr != nil {
		headerErr.Line, headerErr.Column = line, column
		return headerErr
	}

	ctx.pushMode(ModeBlockScalarContent)
	defer ctx.popMode()

	blockIndent := -1
	if indicator > 0 {
		blockIndent = max(parent, 0) + indicator
	}

	lines, err := s.collectLines(ctx, parent, &blockIndent)
	if err != nil {
		return err
	}

	var value string
	if s.literal {
		value = joinLiteral(lines, blockIndent, chomp)
	} else {
		value = joinFolded(lines, blockIndent, chomp)
	}

	kind := FoldedScalar
	if s.literal {
		kind = LiteralScalar
	}
	ctx.emit(NewToken(kind, value, line, column, offset).withMeta(MetaMultiline, true))
	return nil
}

// scanBlockHeader consumes the indicators and the rest of the header line. The
// cursor is left on the line break.
func scanBlockHeader(ctx *Context) (chomping, int, *LexerError) {
	chomp, chompSet, indicator := chompClip, false, 0
	for i := 0; i < 2; i++ {
		r := ctx.peek()
		switch {
		case (r == '-' || r == '+') && !chompSet:
			chompSet = true
			chomp = chompStrip
			if r == '+' {
				chomp = chompKeep
			}
		case r >= '1' && r <= '9' && indicator == 0:
			indicator = int(r - '0')
		default:
			i = 2
			continue
		}
		ctx.advance()
	}

	sawBlank := false
	for r := ctx.peek(); r == ' ' || r == '\t'; r = ctx.peek() {
		sawBlank = true
		ctx.advance()
	}
	if ctx.peek() == '#' && sawBlank {
		for !ctx.eof() && ctx.peek() != '\n' {
			ctx.advance()
		}
	}
	if !ctx.eof() && ctx.peek() != '\n' {
		return chomp, 0, errorf(0, 0, "Invalid block scalar header")
	}
	return chomp, indicator, nil
}

// collectLines consumes the content lines of the block and detects the block
// indentation when no indicator set it. The cursor is left on the line break that
// ends the last consumed line.
func (s blockScalarScanner) collectLines(ctx *Context, parent int, blockIndent *int) ([]blockLine, error) {
	var lines []blockLine
	end := ctx.lookahead().clone()
	ahead := end.clone()
	lineNo := ctx.line()

	for end.peek() == '\n' {
		ahead.match(end)
		ahead.next()
		if ahead.eof() {
			break
		}
		lineNo++
		spaces := ahead.skip(' ')

		if r := ahead.peek(); r == '\n' || ahead.eof() {
			lines = append(lines, blockLine{text: strings.Repeat(" ", spaces), spaces: spaces, blank: true})
			end, ahead = ahead, end
			continue
		}

		if spaces == 0 && ctx.markerAt(ahead) {
			break
		}

		if *blockIndent < 0 {
			if spaces <= parent {
				break
			}
			*blockIndent = spaces
			for _, l := range lines {
				if l.spaces > spaces {
					return nil, errorf(lineNo, 0, "%s block scalar leading empty line is more indented than the content", s.name())
				}
			}
		}

		if spaces < *blockIndent {
			if spaces <= parent || ahead.peek() == '#' {
				break
			}
			return nil, errorf(lineNo, 0, "%s block scalar indentation less than the defined indentation", s.name())
		}

		text := strings.Repeat(" ", spaces) + ahead.readLine()
		lines = append(lines, blockLine{text: text, spaces: spaces})
		end, ahead = ahead, end
	}

	ctx.commit(end)
	return lines, nil
}

// splitBody strips the block indentation and separates the content lines from the
// trailing empty lines.
func splitBody(lines []blockLine, indent int) ([]blockLine, int) {
	last := -1
	for i, l := range lines {
		if !l.blank {
			last = i
		}
	}

	body := make([]blockLine, 0, last+1)
	for _, l := range lines[:last+1] {
		if len(l.text) > indent {
			l.text = l.text[indent:]
		} else {
			l.text = ""
		}
		body = append(body, l)
	}
	return body, len(lines) - last - 1
}

func joinLiteral(lines []blockLine, indent int, chomp chomping) string {
	body, trailing := splitBody(lines, indent)
	texts := make([]string, len(body))
	for i, l := range body {
		texts[i] = l.text
	}
	return chompValue(strings.Join(texts, "\n"), len(body) > 0, trailing, chomp)
}

// joinFolded folds line breaks between adjacent non-indented lines into spaces.
// Breaks next to more-indented lines are kept, and each empty line adds a newline.
func joinFolded(lines []blockLine, indent int, chomp chomping) string {
	body, trailing := splitBody(lines, indent)

	var b strings.Builder
	i := 0
	for ; i < len(body) && body[i].blank; i++ {
		b.WriteByte('\n')
	}

	prevMore := false
	first := true
	blanks := 0
	for ; i < len(body); i++ {
		l := body[i]
		if l.blank {
			blanks++
			continue
		}
		more := strings.HasPrefix(l.text, " ") || strings.HasPrefix(l.text, "\t")
		if !first {
			if !prevMore && !more {
				if blanks == 0 {
					b.WriteByte(' ')
				}
			} else {
				b.WriteByte('\n')
			}
			b.WriteString(strings.Repeat("\n", blanks))
		}
		b.WriteString(l.text)
		first, prevMore, blanks = false, more, 0
	}
	return chompValue(b.String(), len(body) > 0, trailing, chomp)
}

func chompValue(body string, hasContent bool, trailing int, chomp chomping) string {
	if !hasContent {
		if chomp == chompKeep {
			return "\n"
		}
		return ""
	}
	switch chomp {
	case chompStrip:
		return body
	case chompKeep:
		return body + "\n" + strings.Repeat("\n", trailing)
	default:
		return body + "\n"
	}
}
