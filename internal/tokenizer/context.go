package tokenizer

import (
	"io"
	"strings"

	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
)

// Mode tells the scanners what the current nesting means for indicators like ':' and ','.
type Mode int

const (
	ModeStreamStart Mode = iota
	ModeDocumentStart
	ModeBlockKey
	ModeBlockValue
	ModeBlockSequenceEntry
	ModeFlowSequence
	ModeFlowMappingKey
	ModeFlowMappingValue
	ModeBlockScalarContent
	ModeExplicitKey
)

// DefaultVersion is the YAML version of documents without a %YAML directive.
const DefaultVersion = "1.2"

// directiveTable holds the directives declared for one document.
type directiveTable struct {
	hasVersion bool
	tags       map[string]string
}

// Context owns all mutable state of one tokenize call.
//
// The mode stack and the indent stack move in lock-step for block structure: every
// indent frame has a mode frame. Flow collections push modes only, so outside of
// block scalar scanning len(modes) == len(indents) + flowDepth.
type Context struct {
	cursor    *cursor
	scratch   *cursor // peekAt and marker checks
	ahead     *cursor // multi-line lookahead, see lookahead
	source    *normalizer
	lineStart bool

	modes     []Mode
	indents   []int
	flowDepth int

	document   int
	directives map[int]*directiveTable
	versions   map[int]string

	tokens []Token
}

// NewContext prepares a context over the input. Line breaks are normalized to "\n".
func NewContext(input string) *Context {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")
	input = strings.TrimPrefix(input, "\uFEFF")
	return newContext(shapetokenizer.NewStream(input))
}

// NewContextFromReader prepares a context that pulls its input from reader through
// a buffered stream, so the input is never held in memory as a whole.
func NewContextFromReader(reader io.Reader) *Context {
	source := newNormalizer(reader)
	ctx := newContext(shapetokenizer.NewStreamFromReader(source))
	ctx.source = source
	return ctx
}

func newContext(stream shapetokenizer.Stream) *Context {
	cur := &cursor{stream: stream}
	return &Context{
		cursor:     cur,
		scratch:    cur.clone(),
		ahead:      cur.clone(),
		lineStart:  true,
		modes:      []Mode{ModeStreamStart},
		indents:    []int{-1},
		directives: make(map[int]*directiveTable),
		versions:   make(map[int]string),
	}
}

// Tokens returns the tokens emitted so far.
func (c *Context) Tokens() []Token {
	return c.tokens
}

// readErr returns the error that cut a reader input short, if any.
func (c *Context) readErr() error {
	if c.source == nil {
		return nil
	}
	return c.source.Err()
}

// --- cursor ---

// cursor is a read position on a shape-core stream. Lookahead runs on clones of the
// context cursor and is committed back with Match.
type cursor struct {
	stream shapetokenizer.Stream
	last   rune
}

func (r *cursor) eof() bool {
	return r.stream.IsEos()
}

// peek returns the rune at the cursor, or 0 at end of input.
func (r *cursor) peek() rune {
	ch, ok := r.stream.PeekChar()
	if !ok {
		return 0
	}
	return ch
}

// next consumes one rune, or returns 0 at end of input.
func (r *cursor) next() rune {
	ch, ok := r.stream.NextChar()
	if !ok {
		return 0
	}
	r.last = ch
	return ch
}

// skip consumes a run of ch and returns its length.
func (r *cursor) skip(ch rune) int {
	n := 0
	for !r.eof() && r.peek() == ch {
		r.next()
		n++
	}
	return n
}

// readLine consumes the text up to, not including, the next line break.
func (r *cursor) readLine() string {
	var b strings.Builder
	for !r.eof() && r.peek() != '\n' {
		b.WriteRune(r.next())
	}
	return b.String()
}

func (r *cursor) clone() *cursor {
	return &cursor{stream: r.stream.Clone(), last: r.last}
}

// match moves r to the position of other, a clone of the same stream.
func (r *cursor) match(other *cursor) {
	r.stream.Match(other.stream)
	r.last = other.last
}

// position returns the 1-based line, 0-based column and rune offset of r.
func (r *cursor) position() (int, int, int) {
	return r.stream.GetRow(), r.stream.GetColumn() - 1, r.stream.GetOffset()
}

func (c *Context) eof() bool {
	return c.cursor.eof()
}

// peek returns the rune at the cursor, or 0 at end of input.
func (c *Context) peek() rune {
	return c.cursor.peek()
}

// peekAt returns the rune n positions after the cursor, or 0 past the end.
func (c *Context) peekAt(n int) rune {
	return c.peekAfter(c.cursor, n)
}

// peekAfter returns the rune n positions after from without moving it.
func (c *Context) peekAfter(from *cursor, n int) rune {
	if n == 0 {
		return from.peek()
	}
	c.scratch.match(from)
	for i := 0; i < n; i++ {
		if c.scratch.eof() {
			return 0
		}
		c.scratch.next()
	}
	return c.scratch.peek()
}

// prev returns the rune before the cursor, or 0 at the start of input.
func (c *Context) prev() rune {
	return c.cursor.last
}

// advance consumes one rune.
func (c *Context) advance() rune {
	return c.cursor.next()
}

// advanceN consumes n runes.
func (c *Context) advanceN(n int) {
	for i := 0; i < n && !c.eof(); i++ {
		c.advance()
	}
}

// position returns the line, column and offset of the cursor.
func (c *Context) position() (int, int, int) {
	return c.cursor.position()
}

func (c *Context) line() int {
	return c.cursor.stream.GetRow()
}

func (c *Context) column() int {
	return c.cursor.stream.GetColumn() - 1
}

func (c *Context) offset() int {
	return c.cursor.stream.GetOffset()
}

// hasPrefixAt reports whether the input at the cursor starts with s.
func (c *Context) hasPrefixAt(s string) bool {
	c.scratch.match(c.cursor)
	return c.scratch.stream.MatchChars([]rune(s))
}

// markerAt reports whether "---" or "..." followed by a blank, a line break or the
// end of input starts at from.
func (c *Context) markerAt(from *cursor) bool {
	c.scratch.match(from)
	if !c.scratch.stream.MatchChars(directivesEnd) && !c.scratch.stream.MatchChars(documentEnd) {
		return false
	}
	return isBlankOrBreak(c.scratch.peek())
}

var (
	directivesEnd = []rune("---")
	documentEnd   = []rune("...")
)

// takeLine consumes and returns the text up to, not including, the next line break.
func (c *Context) takeLine() string {
	return c.cursor.readLine()
}

// lookahead returns a cursor placed at the context cursor. It is shared, so it is
// only valid until the next call; commit adopts its position.
func (c *Context) lookahead() *cursor {
	c.ahead.match(c.cursor)
	return c.ahead
}

// commit moves the context cursor to the position of a lookahead cursor.
func (c *Context) commit(to *cursor) {
	c.cursor.match(to)
}

// isBlankOrBreak reports whether r ends a token in block context.
func isBlankOrBreak(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == 0
}

func isFlowIndicator(r rune) bool {
	return r == ',' || r == '[' || r == ']' || r == '{' || r == '}'
}

// --- token emission ---

func (c *Context) emit(t Token) {
	c.tokens = append(c.tokens, t)
}

// emitAt appends a token at an explicit position.
func (c *Context) emitAt(kind TokenType, value string, line, column, offset int) {
	c.emit(NewToken(kind, value, line, column, offset))
}

// emitHere appends a token at the cursor position.
func (c *Context) emitHere(kind TokenType, value string) {
	line, column, offset := c.position()
	c.emitAt(kind, value, line, column, offset)
}

// lastToken returns the most recently emitted token.
func (c *Context) lastToken() (Token, bool) {
	if len(c.tokens) == 0 {
		return Token{}, false
	}
	return c.tokens[len(c.tokens)-1], true
}

// --- mode stack ---

func (c *Context) currentMode() Mode {
	return c.modes[len(c.modes)-1]
}

func (c *Context) pushMode(m Mode) {
	c.modes = append(c.modes, m)
}

func (c *Context) popMode() {
	if len(c.modes) > 1 {
		c.modes = c.modes[:len(c.modes)-1]
	}
}

func (c *Context) replaceMode(m Mode) {
	c.modes[len(c.modes)-1] = m
}

// inFlow reports whether the cursor is inside a flow collection.
func (c *Context) inFlow() bool {
	return c.flowDepth > 0
}

func (c *Context) enterFlow(m Mode) {
	c.flowDepth++
	c.pushMode(m)
}

func (c *Context) exitFlow() {
	if c.flowDepth == 0 {
		return
	}
	c.flowDepth--
	c.popMode()
}

// --- indent stack ---

func (c *Context) currentIndent() int {
	return c.indents[len(c.indents)-1]
}

// nodeIndent returns the indentation of the node that starts at the cursor.
// Content right after an INDENT belongs to the level below the pushed one, the
// root of a document has no parent (-1), and anything else lives at the current
// level.
func (c *Context) nodeIndent() int {
	for i := len(c.tokens) - 1; i >= 0; i-- {
		kind := c.tokens[i].Kind()
		if kind == Tag || kind == Anchor {
			continue
		}
		if kind == Indent && len(c.indents) > 1 {
			return c.indents[len(c.indents)-2]
		}
		if kind == DocumentStart {
			return -1
		}
		break
	}
	return c.currentIndent()
}

// pushIndent pushes a new indentation level with its mode. A column equal to the
// current level is ignored; the return value reports whether a level was pushed.
func (c *Context) pushIndent(column int, mode Mode) bool {
	if column == c.currentIndent() {
		return false
	}
	c.indents = append(c.indents, column)
	c.pushMode(mode)
	return true
}

// popIndent removes the top indentation level. The stream level is never popped.
func (c *Context) popIndent() bool {
	if len(c.indents) <= 1 {
		return false
	}
	c.indents = c.indents[:len(c.indents)-1]
	c.popMode()
	return true
}

// inDocument reports whether a document is open.
func (c *Context) inDocument() bool {
	return len(c.indents) > 1
}

// --- documents and directives ---

// pendingDirectives returns the directive table for the next document.
func (c *Context) pendingDirectives() *directiveTable {
	doc := c.document + 1
	t, ok := c.directives[doc]
	if !ok {
		t = &directiveTable{tags: make(map[string]string)}
		c.directives[doc] = t
	}
	return t
}

// version returns the YAML version of the current document.
func (c *Context) version() string {
	if v, ok := c.versions[c.document]; ok {
		return v
	}
	return DefaultVersion
}

// tagPrefix resolves a tag handle against the current document's %TAG directives.
// It returns the prefix, whether a directive declared it, and whether the handle is known.
func (c *Context) tagPrefix(handle string) (string, bool, bool) {
	if t, ok := c.directives[c.document]; ok {
		if prefix, ok := t.tags[handle]; ok {
			return prefix, true, true
		}
	}
	switch handle {
	case "!":
		return "!", false, true
	case "!!":
		return "tag:yaml.org,2002:", false, true
	}
	return "", false, false
}

// startDocument opens a document, explicitly or implicitly.
func (c *Context) startDocument(line, column, offset int) {
	c.document++
	c.indents = append(c.indents, 0)
	c.pushMode(ModeDocumentStart)
	t := NewToken(DocumentStart, "", line, column, offset).withMeta(MetaVersion, c.version())
	c.emit(t)
}

// resetMode closes every open flow collection, block level and the document itself.
func (c *Context) resetMode() {
	for c.flowDepth > 0 {
		c.exitFlow()
	}
	for len(c.indents) > 1 {
		if c.currentIndent() > 0 {
			c.emitHere(Dedent, "")
		}
		c.popIndent()
	}
	c.modes = c.modes[:1]
	c.emitHere(DocumentEnd, "")
}
