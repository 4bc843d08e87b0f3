package yaml

import (
	"reflect"
	"testing"

	yamlv3 "gopkg.in/yaml.v3"
)

// normalize converts a yaml.v3 result to the types ParseValue produces.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case int:
		return int64(val)
	case map[string]interface{}:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	}
	return v
}

// TestDifferentialYAMLv3 compares the native projection with gopkg.in/yaml.v3
// on documents both libraries read the same way.
func TestDifferentialYAMLv3(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"flat mapping", "name: Alice\nage: 30\nactive: true\nscore: 9.5\nnothing: null"},
		{"nested", "server:\n  host: localhost\n  ports:\n    - 80\n    - 443\n"},
		{"flow collections", "point: {x: 1, y: 2}\nlist: [a, b, c]\nempty: {}\nnone: []"},
		{"quoted", "a: \"123\"\nb: 'true'\nc: \"line\\nbreak\"\nd: 'it''s'"},
		{"block scalars", "lit: |\n  one\n  two\nfold: >\n  one\n  two\n"},
		{"anchors", "base: &b [1, 2]\ncopy: *b\nname: &n Bob\nalias: *n"},
		{"merge", "defaults: &d\n  a: 1\n  b: 2\nitem:\n  <<: *d\n  b: 3\n"},
		{"sequence of mappings", "- name: a\n  tags: [x]\n- name: b\n  tags: []\n"},
		{"hex and octal", "h: 0x1F\no: 0o17\nneg: -42"},
		{"comments", "# head\na: 1 # trailing\n# between\nb: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.input)
			if err != nil {
				t.Fatalf("ParseValue() error: %v", err)
			}

			var want interface{}
			if err := yamlv3.Unmarshal([]byte(tt.input), &want); err != nil {
				t.Fatalf("yaml.v3 error: %v", err)
			}
			want = normalize(want)

			if !reflect.DeepEqual(got, want) {
				t.Errorf("\nyaml.v3:   %#v\nyamlgraph: %#v", want, got)
			}
		})
	}
}
