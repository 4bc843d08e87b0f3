package tags

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/shapestone/yamlgraph/internal/parser"
	"github.com/shapestone/yamlgraph/internal/resolver"
	"github.com/shapestone/yamlgraph/pkg/node"
)

// process parses input, resolves anchors and applies the registry.
func process(t *testing.T, input string, registry *Registry) (*node.Node, error) {
	t.Helper()
	root, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	root, err = resolver.ResolveAnchors(root)
	if err != nil {
		t.Fatalf("anchor resolution failed: %v", err)
	}
	return NewProcessor(registry).Process(root)
}

func processValue(t *testing.T, input string, registry *Registry) *node.Node {
	t.Helper()
	root, err := process(t, input, registry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := root.Items[0].Content().Get("v")
	if !ok {
		t.Fatal("key v not found")
	}
	return v
}

func TestBuiltinHandlers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected interface{}
	}{
		{"int", "v: !!int 42", int64(42)},
		{"int hex", "v: !!int 0x1F", int64(31)},
		{"int quoted", "v: !!int '7'", int64(7)},
		{"int verbatim", "v: !<tag:yaml.org,2002:int> '7'", int64(7)},
		{"float", "v: !!float 1", 1.0},
		{"float exponent", "v: !!float 2.5e2", 250.0},
		{"bool yes", "v: !!bool yes", true},
		{"bool false", "v: !!bool False", false},
		{"null", "v: !!null whatever", nil},
		{"null empty", "v: !!null", nil},
		{"str number", "v: !!str 123", "123"},
		{"str bool", "v: !!str true", "true"},
		{"str empty", "v: !!str", ""},
		{"binary", "v: !!binary aGVsbG8=", []byte("hello")},
		{"binary multiline", "v: !!binary |\n  aGVs\n  bG8=", []byte("hello")},
	}

	registry := DefaultRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := processValue(t, tt.input, registry)
			if v.Kind != node.ScalarNode {
				t.Fatalf("expected scalar, got %s", v.Kind)
			}
			if !reflect.DeepEqual(v.Value, tt.expected) {
				t.Errorf("value = %#v, want %#v", v.Value, tt.expected)
			}
		})
	}
}

func TestFloatHandlerSpecialValues(t *testing.T) {
	v := processValue(t, "v: !!float -.inf", DefaultRegistry())
	if f, ok := v.Value.(float64); !ok || !math.IsInf(f, -1) {
		t.Errorf("value = %v, want -Inf", v.Value)
	}
}

func TestTimestampHandler(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"canonical", "v: !!timestamp 2001-12-15T02:59:43.1Z", time.Date(2001, 12, 15, 2, 59, 43, 100000000, time.UTC)},
		{"iso8601", "v: !!timestamp 2001-12-14t21:59:43.10-05:00", time.Date(2001, 12, 15, 2, 59, 43, 100000000, time.UTC)},
		{"spaced", "v: !!timestamp 2001-12-14 21:59:43.10 -05:00", time.Date(2001, 12, 15, 2, 59, 43, 100000000, time.UTC)},
		{"no zone", "v: !!timestamp 2001-12-15 2:59:43.10", time.Date(2001, 12, 15, 2, 59, 43, 100000000, time.UTC)},
		{"date", "v: !!timestamp 2002-12-14", time.Date(2002, 12, 14, 0, 0, 0, 0, time.UTC)},
	}

	registry := DefaultRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := processValue(t, tt.input, registry)
			got, ok := v.Value.(time.Time)
			if !ok {
				t.Fatalf("value is %T, want time.Time", v.Value)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("time = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHandlerErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		tag     string
	}{
		{"timestamp", "v: !!timestamp nope", "Invalid timestamp value: nope", "!!timestamp"},
		{"binary", "v: !!binary '***'", "Invalid binary value: ***", "!!binary"},
		{"int", "v: !!int twelve", "Invalid int value: twelve", "!!int"},
		{"bool", "v: !!bool maybe", "Invalid bool value: maybe", "!!bool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := process(t, tt.input, DefaultRegistry())
			var terr *TagHandlerError
			if !errors.As(err, &terr) {
				t.Fatalf("expected *TagHandlerError, got %T: %v", err, err)
			}
			if terr.Message != tt.message {
				t.Errorf("message = %q, want %q", terr.Message, tt.message)
			}
			if terr.Tag != tt.tag {
				t.Errorf("tag = %q, want %q", terr.Tag, tt.tag)
			}
			if terr.Line != 1 {
				t.Errorf("line = %d, want 1", terr.Line)
			}
		})
	}
}

func TestCustomHandlers(t *testing.T) {
	var seen interface{}
	color := Custom("!color", func(value interface{}, meta node.Metadata) (interface{}, error) {
		seen = value
		return "rgb", nil
	})
	override := Custom("!!int", func(value interface{}, meta node.Metadata) (interface{}, error) {
		return "custom " + value.(string), nil
	})
	registry := DefaultRegistry(color, override)

	v := processValue(t, "v: !color {r: 1, g: 2}", registry)
	if v.Value != "rgb" || v.Kind != node.ScalarNode {
		t.Errorf("custom handler result = %v (%s)", v.Value, v.Kind)
	}
	want := map[string]interface{}{"r": int64(1), "g": int64(2)}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("handler received %#v, want %#v", seen, want)
	}
	if v.Meta.Tag != "!color" {
		t.Errorf("tag = %q, want !color", v.Meta.Tag)
	}

	v = processValue(t, "v: !!int 5", registry)
	if v.Value != "custom 5" {
		t.Errorf("custom handlers should run before built-ins, got %v", v.Value)
	}
}

func TestCustomHandlerError(t *testing.T) {
	boom := errors.New("boom")
	registry := DefaultRegistry(Custom("!fail", func(interface{}, node.Metadata) (interface{}, error) {
		return nil, boom
	}))

	_, err := process(t, "v: !fail x", registry)
	if !errors.Is(err, boom) {
		t.Fatalf("expected the handler error to be wrapped, got %v", err)
	}
	var terr *TagHandlerError
	if !errors.As(err, &terr) || terr.Message != "boom" {
		t.Errorf("expected TagHandlerError with message boom, got %v", err)
	}
}

func TestUnhandledTagsKeepRawValue(t *testing.T) {
	root, err := process(t, "a: !unknown 12\nb: !!map {x: 1}\nc: ! 3", DefaultRegistry())
	if err != nil {
		t.Fatal(err)
	}
	m := root.Items[0].Content()

	a, _ := m.Get("a")
	if a.Value != "12" || a.Meta.Tag != "!unknown" {
		t.Errorf("a = %v with tag %q", a.Value, a.Meta.Tag)
	}
	b, _ := m.Get("b")
	if b.Kind != node.MappingNode {
		t.Errorf("b should stay a mapping, got %s", b.Kind)
	}
	c, _ := m.Get("c")
	if c.Value != "3" {
		t.Errorf("non-specific tag should keep the string, got %#v", c.Value)
	}
}

func TestProcessPreservesSharing(t *testing.T) {
	root, err := process(t, "a: &a [1, *a]\nb: *a\nc: !!str 5", DefaultRegistry())
	if err != nil {
		t.Fatal(err)
	}
	m := root.Items[0].Content()
	a, _ := m.Get("a")
	b, _ := m.Get("b")
	if a != b {
		t.Error("shared node should stay shared")
	}
	if a.Items[1] != a {
		t.Error("cycle should be preserved")
	}
	c, _ := m.Get("c")
	if c.Value != "5" {
		t.Errorf("c = %#v, want \"5\"", c.Value)
	}
}

func TestCustomHandlerOnCyclicCollection(t *testing.T) {
	var length int
	registry := DefaultRegistry(Custom("!list", func(value interface{}, _ node.Metadata) (interface{}, error) {
		items := value.([]interface{})
		length = len(items)
		return int64(length), nil
	}))

	v := processValue(t, "v: &l !list [1, *l]", registry)
	if v.Value != int64(2) || length != 2 {
		t.Errorf("value = %v, want 2", v.Value)
	}
}

func TestRegistryLookupOrder(t *testing.T) {
	first := Custom("!x", func(interface{}, node.Metadata) (interface{}, error) { return 1, nil })
	second := Custom("!x", func(interface{}, node.Metadata) (interface{}, error) { return 2, nil })

	h, ok := NewRegistry(first, second).Lookup("!x")
	if !ok {
		t.Fatal("handler not found")
	}
	if v, _ := h.Handle(nil, node.Metadata{}); v != 1 {
		t.Errorf("first registered handler should win, got %v", v)
	}
	if _, ok := NewRegistry().Lookup("!!int"); ok {
		t.Error("empty registry should not find handlers")
	}
}
