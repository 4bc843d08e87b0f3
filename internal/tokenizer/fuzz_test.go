package tokenizer

import "testing"

func FuzzTokenize(f *testing.F) {
	f.Add("key: value")
	f.Add("- a\n- [b, {c: d}]")
	f.Add("? complex\n: value")
	f.Add("%YAML 1.1\n%TAG !e! tag:example.com,2000:\n---\n!e!foo bar")
	f.Add("text: >-\n  folded\n  lines\n")
	f.Add("\"esc \\u263A \\x41\"")
	f.Add("a: &x 1\nb: *x")

	f.Fuzz(func(t *testing.T, input string) {
		tokens, err := Tokenize(input)
		if err != nil {
			return
		}
		if len(tokens) == 0 || tokens[len(tokens)-1].Kind() != EOF {
			t.Fatalf("token stream for %q does not end with EOF", input)
		}
	})
}
