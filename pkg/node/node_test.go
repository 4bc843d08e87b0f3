package node

import (
	"math"
	"testing"

	"github.com/shapestone/shape-core/pkg/ast"
)

func TestKeyString(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{"null", nil, "null"},
		{"string", "key", "key"},
		{"true", true, "true"},
		{"int", int64(-12), "-12"},
		{"float", 1.5, "1.5"},
		{"inf", math.Inf(1), ".inf"},
		{"negative inf", math.Inf(-1), "-.inf"},
		{"nan", math.NaN(), ".nan"},
		{"bytes", []byte("hi"), "aGk="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyString(tt.input); got != tt.expected {
				t.Errorf("KeyString(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetLastPairWins(t *testing.T) {
	pos := ast.ZeroPosition()
	m := NewMapping(Metadata{}, pos)
	m.AddPair(NewScalar("a", PlainStyle, Metadata{}, pos), NewScalar(int64(1), PlainStyle, Metadata{}, pos))
	m.AddPair(NewScalar("b", PlainStyle, Metadata{}, pos), NewScalar(int64(2), PlainStyle, Metadata{}, pos))
	m.AddPair(NewScalar("a", PlainStyle, Metadata{}, pos), NewScalar(int64(3), PlainStyle, Metadata{}, pos))

	v, ok := m.Get("a")
	if !ok {
		t.Fatal("expected key a")
	}
	if v.Value != int64(3) {
		t.Errorf("Get(a) = %v, want 3", v.Value)
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("Get(missing) should report false")
	}
}

func TestShellCopiesWithoutChildren(t *testing.T) {
	pos := ast.NewPosition(4, 2, 1)
	seq := NewSequence(Metadata{Anchor: "x", Tag: "!!seq"}, pos)
	seq.Append(NewScalar("item", PlainStyle, Metadata{}, pos))

	shell := seq.Shell()
	if shell == seq {
		t.Fatal("Shell() returned the same instance")
	}
	if shell.Kind != SequenceNode || shell.Meta != seq.Meta {
		t.Errorf("Shell() = %+v, want kind and metadata of the original", shell)
	}
	if len(shell.Items) != 0 {
		t.Errorf("Shell() has %d items, want 0", len(shell.Items))
	}
	if len(seq.Items) != 1 {
		t.Error("Shell() modified the original")
	}
}

func TestContent(t *testing.T) {
	pos := ast.ZeroPosition()
	content := NewScalar("text", PlainStyle, Metadata{}, pos)
	doc := NewDocument(content, "1.2", pos)
	if doc.Content() != content {
		t.Error("Content() did not return the document content")
	}
	if content.Content() != nil {
		t.Error("Content() on a scalar should be nil")
	}
}

func TestMetadataIsZero(t *testing.T) {
	if !(Metadata{}).IsZero() {
		t.Error("empty metadata should be zero")
	}
	if (Metadata{IsMergeKey: true}).IsZero() {
		t.Error("merge key metadata should not be zero")
	}
}
