package tokenizer

// Stream is a cursor over a token slice with arbitrary lookahead and backtracking.
// Reading past the end yields a synthetic EOF token positioned after the last token.
type Stream struct {
	tokens []Token
	pos    int
}

// NewStream creates a stream over tokens.
func NewStream(tokens []Token) *Stream {
	return &Stream{tokens: tokens}
}

// Peek returns the current token without consuming it.
func (s *Stream) Peek() Token {
	return s.PeekAt(0)
}

// PeekAt returns the token n positions ahead of the cursor.
func (s *Stream) PeekAt(n int) Token {
	i := s.pos + n
	if i >= 0 && i < len(s.tokens) {
		return s.tokens[i]
	}
	return s.eof()
}

// Advance consumes and returns the current token.
func (s *Stream) Advance() Token {
	t := s.Peek()
	if s.pos < len(s.tokens) {
		s.pos++
	}
	return t
}

// Consume advances past the current token if it has the given kind.
func (s *Stream) Consume(kind TokenType) (Token, bool) {
	t := s.Peek()
	if t.Kind() != kind {
		return t, false
	}
	s.Advance()
	return t, true
}

// Skip consumes tokens while they have one of the given kinds.
func (s *Stream) Skip(kinds ...TokenType) {
	for {
		k := s.Peek().Kind()
		match := false
		for _, want := range kinds {
			if k == want {
				match = true
				break
			}
		}
		if !match || s.IsEOF() {
			return
		}
		s.Advance()
	}
}

// Position returns the cursor, for use with Restore.
func (s *Stream) Position() int {
	return s.pos
}

// Restore moves the cursor back to a position returned by Position.
func (s *Stream) Restore(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(s.tokens) {
		pos = len(s.tokens)
	}
	s.pos = pos
}

// IsEOF reports whether the cursor reached the EOF token or the end of the slice.
func (s *Stream) IsEOF() bool {
	return s.Peek().Kind() == EOF
}

// Len returns the number of tokens in the stream.
func (s *Stream) Len() int {
	return len(s.tokens)
}

// Last returns the most recently consumed token.
func (s *Stream) Last() (Token, bool) {
	if s.pos == 0 {
		return Token{}, false
	}
	return s.tokens[s.pos-1], true
}

func (s *Stream) eof() Token {
	if n := len(s.tokens); n > 0 {
		last := s.tokens[n-1]
		if last.Kind() == EOF {
			return last
		}
		return NewToken(EOF, "", last.Line(), last.Column(), last.Offset())
	}
	return NewToken(EOF, "", 1, 0, 0)
}
