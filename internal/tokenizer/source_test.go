package tokenizer

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

func TestTokenizeReaderMatchesTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"mapping", "a: 1\nb: [x, y]\n"},
		{"block scalars", "text: |\n  line one\n  line two\n\nnext: >-\n  folded\n  text\n"},
		{"plain continuation", "key: plain\n  continued\n\n  again\nother: 2\n"},
		{"directives", "%YAML 1.1\n---\nv: yes\n...\n"},
		{"markers inside block", "a: |\n  x\n---\nb: 1\n"},
		{"crlf", "a: 1\r\nb:\r\n  - x\r\n"},
		{"bare cr", "a: 1\rb: 2\r"},
		{"byte order mark", "\uFEFFa: 1\n"},
		{"multi-byte", strings.Repeat("- héllo wörld ✓ 日本\n", 2000)},
		{"past the stream window", strings.Repeat("- item ✓ number\n", 9000)},
		{"long block scalar", "doc: |\n" + strings.Repeat("  ünïcode line of text\n", 1500) + "end: true\n"},
	}

	readers := []struct {
		name string
		wrap func(io.Reader) io.Reader
	}{
		{"plain", func(r io.Reader) io.Reader { return r }},
		{"one byte", iotest.OneByteReader},
		{"half", iotest.HalfReader},
	}

	for _, tt := range tests {
		want, err := Tokenize(tt.input)
		if err != nil {
			t.Fatalf("Tokenize(%s) failed: %v", tt.name, err)
		}
		for _, rd := range readers {
			t.Run(tt.name+"/"+rd.name, func(t *testing.T) {
				got, err := TokenizeReader(rd.wrap(strings.NewReader(tt.input)))
				if err != nil {
					t.Fatalf("TokenizeReader failed: %v", err)
				}
				if !reflect.DeepEqual(got, want) {
					t.Errorf("TokenizeReader produced %d tokens, Tokenize %d", len(got), len(want))
					for i := 0; i < len(got) && i < len(want); i++ {
						if !reflect.DeepEqual(got[i], want[i]) {
							t.Fatalf("first difference at %d: %v vs %v", i, got[i], want[i])
						}
					}
				}
			})
		}
	}
}

func TestTokenizeReaderPositions(t *testing.T) {
	tokens, err := TokenizeReader(strings.NewReader("a:\r\n  b: 'x'\r\n"))
	if err != nil {
		t.Fatalf("TokenizeReader failed: %v", err)
	}
	for _, tok := range tokens {
		if tok.Kind() == SingleQuotedScalar {
			if tok.Line() != 2 || tok.Column() != 5 {
				t.Errorf("'x' at %d:%d, want 2:5", tok.Line(), tok.Column())
			}
			return
		}
	}
	t.Fatal("no single quoted scalar")
}

func TestTokenizeReaderErrors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name   string
		reader io.Reader
		want   error
	}{
		{"failing reader", iotest.ErrReader(boom), boom},
		{"fails mid input", io.MultiReader(strings.NewReader("a: 'unterminated"), iotest.ErrReader(boom)), boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TokenizeReader(tt.reader)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	_, err := TokenizeReader(strings.NewReader("a: 'unterminated"))
	var lexErr *LexerError
	if !errors.As(err, &lexErr) {
		t.Errorf("error = %v, want *LexerError", err)
	}
}
