package tokenizer

import (
	"testing"
)

// firstScalar returns the first scalar token of the input.
func firstScalar(t *testing.T, input string) Token {
	t.Helper()
	for _, tok := range tokenize(t, input) {
		if tok.Kind().IsScalar() {
			return tok
		}
	}
	t.Fatalf("no scalar token in %q", input)
	return Token{}
}

func TestQuotedScalars(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		kind      TokenType
		expected  string
		multiline bool
	}{
		{"double simple", `"hello"`, DoubleQuotedScalar, "hello", false},
		{"double escapes", `"a\tb\né\x41\\\""`, DoubleQuotedScalar, "a\tb\néA\\\"", false},
		{"double unicode escapes", `"\N\_\L\P\U0001F600"`, DoubleQuotedScalar, "\u0085\u00a0\u2028\u2029\U0001F600", false},
		{"double hash inside", `"a # not a comment"`, DoubleQuotedScalar, "a # not a comment", false},
		{"single doubled quote", `'it''s'`, SingleQuotedScalar, "it's", false},
		{"single backslash literal", `'a\nb'`, SingleQuotedScalar, `a\nb`, false},
		{"folded line", "'a\n  b'", SingleQuotedScalar, "a b", true},
		{"blank line keeps newline", "'a\n  b\n\n  c'", SingleQuotedScalar, "a b\nc", true},
		{"trailing spaces trimmed", "\"a  \n b\"", DoubleQuotedScalar, "a b", true},
		{"escaped line break", "\"a\\\n   b\"", DoubleQuotedScalar, "ab", true},
		{"escaped space kept", "\"a\\ \n b\"", DoubleQuotedScalar, "a  b", true},
		{"empty", `""`, DoubleQuotedScalar, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := firstScalar(t, tt.input)
			if tok.Kind() != tt.kind {
				t.Errorf("kind = %s, want %s", tok.Kind(), tt.kind)
			}
			if tok.Value() != tt.expected {
				t.Errorf("value = %q, want %q", tok.Value(), tt.expected)
			}
			if tok.Multiline() != tt.multiline {
				t.Errorf("multiline = %v, want %v", tok.Multiline(), tt.multiline)
			}
		})
	}
}

func TestBlockScalars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     TokenType
		expected string
	}{
		{"literal clip", "text: |\n  line1\n  line2\n", LiteralScalar, "line1\nline2\n"},
		{"literal strip", "text: |-\n  line1\n  line2\n", LiteralScalar, "line1\nline2"},
		{"literal keep", "text: |+\n  a\n\n", LiteralScalar, "a\n\n"},
		{"literal inner blank", "text: |\n  a\n\n  b\n", LiteralScalar, "a\n\nb\n"},
		{"literal more indented", "text: |\n  a\n    b\n", LiteralScalar, "a\n  b\n"},
		{"literal indentation indicator", "text: |2\n   x\n", LiteralScalar, " x\n"},
		{"literal header comment", "text: | # note\n  x\n", LiteralScalar, "x\n"},
		{"literal no trailing newline", "text: |\n  x", LiteralScalar, "x\n"},
		{"literal empty", "text: |\nnext: 1\n", LiteralScalar, ""},
		{"literal empty keep", "text: |+\nnext: 1\n", LiteralScalar, "\n"},
		{"folded", "text: >\n  a\n  b\n\n  c\n", FoldedScalar, "a b\nc\n"},
		{"folded more indented", "text: >\n  a\n    b\n  c\n", FoldedScalar, "a\n  b\nc\n"},
		{"folded strip", "text: >-\n  a\n  b\n", FoldedScalar, "a b"},
		{"folded indicators reversed", "text: >2-\n  a\n", FoldedScalar, "a"},
		{"root literal", "--- |\nfoo\nbar\n", LiteralScalar, "foo\nbar\n"},
		{"sequence entry", "- |\n  x\n- y\n", LiteralScalar, "x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tok Token
			found := false
			for _, candidate := range tokenize(t, tt.input) {
				if candidate.Kind() == tt.kind {
					tok, found = candidate, true
					break
				}
			}
			if !found {
				t.Fatalf("no %s token", tt.kind)
			}
			if tok.Value() != tt.expected {
				t.Errorf("value = %q, want %q", tok.Value(), tt.expected)
			}
			if !tok.Multiline() {
				t.Error("block scalars should be marked multiline")
			}
		})
	}
}

func TestBlockScalarEndsAtDedent(t *testing.T) {
	tokens := tokenize(t, "a: |\n  x\nb: 2\n")
	var scalars []string
	for _, tok := range tokens {
		if tok.Kind().IsScalar() {
			scalars = append(scalars, tok.Value())
		}
	}
	want := []string{"a", "x\n", "b", "2"}
	if len(scalars) != len(want) {
		t.Fatalf("scalars = %q, want %q", scalars, want)
	}
	for i := range want {
		if scalars[i] != want[i] {
			t.Errorf("scalar %d = %q, want %q", i, scalars[i], want[i])
		}
	}
}

func TestPlainScalars(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		index     int
		expected  string
		multiline bool
	}{
		{"simple", "hello world", 0, "hello world", false},
		{"trailing comment", "value # note", 0, "value", false},
		{"hash inside", "a#b", 0, "a#b", false},
		{"colon inside", "http://example.com", 0, "http://example.com", false},
		{"root continuation", "foo\nbar", 0, "foo bar", true},
		{"value continuation", "a: b\n  c\n\n  d", 1, "b c\nd", true},
		{"flow stops at comma", "[a b, c]", 0, "a b", false},
		{"dash inside", "a - b", 0, "a - b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var plain []Token
			for _, tok := range tokenize(t, tt.input) {
				if tok.Kind() == PlainScalar {
					plain = append(plain, tok)
				}
			}
			if len(plain) <= tt.index {
				t.Fatalf("only %d plain scalars", len(plain))
			}
			tok := plain[tt.index]
			if tok.Value() != tt.expected {
				t.Errorf("value = %q, want %q", tok.Value(), tt.expected)
			}
			if tok.Multiline() != tt.multiline {
				t.Errorf("multiline = %v, want %v", tok.Multiline(), tt.multiline)
			}
		})
	}
}

func TestPlainScalarDoesNotSwallowNextKey(t *testing.T) {
	tokens := tokenize(t, "- name: x\n  age: 3")
	var scalars []string
	for _, tok := range tokens {
		if tok.Kind() == PlainScalar {
			scalars = append(scalars, tok.Value())
		}
	}
	want := []string{"name", "x", "age", "3"}
	if len(scalars) != len(want) {
		t.Fatalf("scalars = %q, want %q", scalars, want)
	}
	for i := range want {
		if scalars[i] != want[i] {
			t.Errorf("scalar %d = %q, want %q", i, scalars[i], want[i])
		}
	}
}
