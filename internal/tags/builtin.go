package tags

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shapestone/yamlgraph/internal/parser"
	"github.com/shapestone/yamlgraph/pkg/node"
)

// coreTag matches the shorthand "!!name" and the verbatim "!<tag:yaml.org,2002:name>"
// spelling of a core schema tag.
type coreTag string

func (t coreTag) Supports(tag string) bool {
	return tag == "!!"+string(t) || tag == "!<tag:yaml.org,2002:"+string(t)+">"
}

type (
	nullHandler      struct{ coreTag }
	boolHandler      struct{ coreTag }
	intHandler       struct{ coreTag }
	floatHandler     struct{ coreTag }
	strHandler       struct{ coreTag }
	binaryHandler    struct{ coreTag }
	timestampHandler struct{ coreTag }
)

// Builtins returns the handlers of the core tags: !!null, !!bool, !!int, !!float,
// !!str, !!binary and !!timestamp.
func Builtins() []Handler {
	return []Handler{
		nullHandler{"null"},
		boolHandler{"bool"},
		intHandler{"int"},
		floatHandler{"float"},
		strHandler{"str"},
		binaryHandler{"binary"},
		timestampHandler{"timestamp"},
	}
}

// Handle always yields null.
func (nullHandler) Handle(interface{}, node.Metadata) (interface{}, error) {
	return nil, nil
}

// Handle converts to bool. Strings accept true/false and yes/no/on/off in any
// case; numbers are true when non-zero.
func (boolHandler) Handle(value interface{}, _ node.Metadata) (interface{}, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on", "y":
			return true, nil
		case "false", "no", "off", "n", "":
			return false, nil
		}
		return nil, rejectf("Invalid bool value: %s", v)
	case int64:
		return v != 0, nil
	case float64:
		return v != 0.0, nil
	case nil:
		return false, nil
	}
	return nil, rejectf("Invalid bool value: %v", value)
}

// Handle converts to int64. Strings accept the decimal, hexadecimal and octal
// spellings of plain integers.
func (intHandler) Handle(value interface{}, _ node.Metadata) (interface{}, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		s := strings.TrimSpace(v)
		if i, ok := parser.ResolveScalar(s, "1.2").(int64); ok {
			return i, nil
		}
		if i, err := strconv.ParseInt(strings.ReplaceAll(s, "_", ""), 0, 64); err == nil {
			return i, nil
		}
		return nil, rejectf("Invalid int value: %s", v)
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case nil:
		return int64(0), nil
	}
	return nil, rejectf("Invalid int value: %v", value)
}

// Handle converts to float64, including .inf and .nan.
func (floatHandler) Handle(value interface{}, _ node.Metadata) (interface{}, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case string:
		s := strings.TrimSpace(v)
		switch r := parser.ResolveScalar(s, "1.2").(type) {
		case float64:
			return r, nil
		case int64:
			return float64(r), nil
		}
		if f, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64); err == nil {
			return f, nil
		}
		return nil, rejectf("Invalid float value: %s", v)
	case bool:
		if v {
			return 1.0, nil
		}
		return 0.0, nil
	case nil:
		return 0.0, nil
	}
	return nil, rejectf("Invalid float value: %v", value)
}

// Handle converts to string.
func (strHandler) Handle(value interface{}, _ node.Metadata) (interface{}, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return node.KeyString(v), nil
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", nil
	}
	return fmt.Sprintf("%v", value), nil
}

// Handle decodes base64 text into bytes. Line breaks and spaces inside the text
// are ignored.
func (binaryHandler) Handle(value interface{}, _ node.Metadata) (interface{}, error) {
	s, ok := value.(string)
	if !ok {
		return nil, rejectf("Invalid binary value: %v", value)
	}
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
	b, err := base64.StdEncoding.Strict().DecodeString(clean)
	if err != nil {
		return nil, rejectf("Invalid binary value: %s", s)
	}
	return b, nil
}

// timestampLayouts are tried in order. They cover the canonical and ISO 8601
// forms, the space separated form with an optional zone and plain dates.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-1-2T15:4:5.999999999Z07:00",
	"2006-1-2t15:4:5.999999999Z07:00",
	"2006-1-2T15:4:5.999999999",
	"2006-1-2 15:4:5.999999999Z07:00",
	"2006-1-2 15:4:5.999999999 Z07:00",
	"2006-1-2 15:4:5.999999999 -07",
	"2006-1-2 15:4:5.999999999",
	"2006-1-2",
}

// Handle parses a timestamp into a time.Time. Timestamps without a zone are UTC.
func (timestampHandler) Handle(value interface{}, _ node.Metadata) (interface{}, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, rejectf("Invalid timestamp value: %s", v)
	}
	return nil, rejectf("Invalid timestamp value: %v", value)
}
