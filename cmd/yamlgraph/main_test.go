package main

import (
	"strings"
	"testing"

	"github.com/shapestone/yamlgraph/pkg/yaml"
)

func TestRenderJSON(t *testing.T) {
	out, err := render("b: [1, two]\na: ~", options{mode: modeJSON})
	if err != nil {
		t.Fatalf("render() error: %v", err)
	}
	want := "{\n  \"a\": null,\n  \"b\": [\n    1,\n    \"two\"\n  ]\n}"
	if out != want {
		t.Errorf("render() =\n%s\nwant\n%s", out, want)
	}
}

func TestRenderJSONCycle(t *testing.T) {
	_, err := render("a: &a [*a]", options{mode: modeJSON})
	if err == nil || !strings.Contains(err.Error(), "cannot print as JSON") {
		t.Errorf("render() error = %v, want JSON cycle error", err)
	}
}

func TestRenderTokens(t *testing.T) {
	out, err := render("a: 1", options{mode: modeTokens})
	if err != nil {
		t.Fatalf("render() error: %v", err)
	}
	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[0], "DOCUMENT_START") {
		t.Errorf("first token = %q", lines[0])
	}
	if lines[1] != `PLAIN_SCALAR "a" (1:0)` {
		t.Errorf("second token = %q", lines[1])
	}
	if !strings.HasPrefix(lines[len(lines)-1], "EOF") {
		t.Errorf("last token = %q", lines[len(lines)-1])
	}
}

func TestRenderTree(t *testing.T) {
	out, err := render("a: &x [1]\nb: *x\nc: &self {me: *self}", options{mode: modeTree})
	if err != nil {
		t.Fatalf("render() error: %v", err)
	}

	for _, want := range []string{
		"Root",
		"  Document 1.2",
		"    &1 Mapping",
		`      ? Scalar "a"`,
		"      : &2 Sequence (anchor x)",
		"        - Scalar 1",
		"      : *2",
		"      : &3 Mapping (anchor self)",
		"        : *3",
	} {
		if !strings.Contains(out+"\n", want+"\n") {
			t.Errorf("tree is missing line %q:\n%s", want, out)
		}
	}
}

func TestRenderTreeDocuments(t *testing.T) {
	out, err := render("a\n---\nb", options{mode: modeTree})
	if err != nil {
		t.Fatalf("render() error: %v", err)
	}

	want := "Root\n  Document 1.2\n    Scalar \"a\"\n  Document 1.2\n    Scalar \"b\""
	if out != want {
		t.Errorf("tree =\n%s\nwant\n%s", out, want)
	}
}

func TestRenderErrors(t *testing.T) {
	_, err := render("a: [1", options{mode: modeTree, opts: []yaml.Option{yaml.WithoutTagProcessing()}})
	if err == nil {
		t.Fatal("render() expected error")
	}
	if _, err := render("%YAML 9.9\n---\na", options{mode: modeTokens}); err == nil {
		t.Fatal("render() expected lexer error")
	}
}
