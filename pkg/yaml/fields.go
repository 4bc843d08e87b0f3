package yaml

import (
	"reflect"
	"strings"
)

// fieldInfo describes how a struct field is matched against mapping keys.
type fieldInfo struct {
	name   string
	index  []int
	skip   bool
	inline bool
}

// getFieldInfo extracts field information from a struct field tag.
//
//	Name string `yaml:"name"`          // key "name"
//	Port int    `yaml:",omitempty"`    // key "port"
//	Base        `yaml:",inline"`       // fields of Base are matched directly
//	Skip string `yaml:"-"`             // never set
func getFieldInfo(field reflect.StructField) fieldInfo {
	tag := field.Tag.Get("yaml")

	// No tag - use lowercase field name (YAML convention)
	if tag == "" {
		return fieldInfo{name: strings.ToLower(field.Name), index: field.Index}
	}

	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "-" {
		return fieldInfo{skip: true}
	}
	if name == "" {
		name = strings.ToLower(field.Name)
	}

	info := fieldInfo{name: name, index: field.Index}
	for _, opt := range parts[1:] {
		if opt == "inline" {
			info.inline = true
		}
	}
	return info
}

// structFields returns the settable fields of a struct type by key, descending
// into inline and embedded structs. Outer fields shadow inner ones.
func structFields(t reflect.Type) map[string]fieldInfo {
	fields := make(map[string]fieldInfo)
	collectFields(t, nil, fields)
	return fields
}

func collectFields(t reflect.Type, prefix []int, fields map[string]fieldInfo) {
	var nested []fieldInfo

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" && !field.Anonymous { // Skip unexported fields
			continue
		}

		info := getFieldInfo(field)
		if info.skip {
			continue
		}
		info.index = append(append([]int{}, prefix...), i)

		embedded := field.Anonymous && field.Type.Kind() == reflect.Struct && field.Tag.Get("yaml") == ""
		if info.inline || embedded {
			if field.Type.Kind() == reflect.Struct {
				nested = append(nested, info)
				continue
			}
		}
		if field.PkgPath != "" {
			continue
		}
		if _, taken := fields[info.name]; !taken {
			fields[info.name] = info
		}
	}

	for _, info := range nested {
		inner := make(map[string]fieldInfo)
		collectFields(t.FieldByIndex(info.index[len(prefix):]).Type, info.index, inner)
		for name, f := range inner {
			if _, taken := fields[name]; !taken {
				fields[name] = f
			}
		}
	}
}

// lookupField matches a key exactly, then case-insensitively.
func lookupField(fields map[string]fieldInfo, key string) (fieldInfo, bool) {
	if f, ok := fields[key]; ok {
		return f, true
	}
	for name, f := range fields {
		if strings.EqualFold(name, key) {
			return f, true
		}
	}
	return fieldInfo{}, false
}
