package yaml

import (
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/shapestone/yamlgraph/internal/parser"
	"github.com/shapestone/yamlgraph/internal/tokenizer"
	"github.com/shapestone/yamlgraph/pkg/node"
)

// Unmarshal parses the YAML-encoded data and stores the first document in the
// value pointed to by v. An empty stream leaves v unchanged.
//
// Unmarshal allocates maps, slices and pointers as necessary, with the following
// rules:
//
// To unmarshal YAML into a pointer, Unmarshal first handles the case of the YAML
// being null. In that case, Unmarshal sets the pointer to nil. Otherwise,
// Unmarshal unmarshals the YAML into the value pointed at by the pointer. If the
// pointer is nil, Unmarshal allocates a new value for it to point to.
//
// To unmarshal YAML into a struct, Unmarshal matches mapping keys to the field
// name in lower case or to the name given in its `yaml:"name"` tag, preferring
// an exact match but also accepting a case-insensitive match. Fields tagged
// `yaml:",inline"` and embedded structs contribute their own fields. Unknown keys
// are ignored unless WithKnownFields(true) is given.
//
// To unmarshal YAML into an interface value, Unmarshal stores the result of
// NodeToInterface.
//
// time.Time targets accept !!timestamp values and []byte targets accept
// !!binary values or base64 text.
//
// Example:
//
//	type Config struct {
//	    Name string
//	    Port int
//	}
//	var cfg Config
//	err := yaml.Unmarshal([]byte("name: server\nport: 8080"), &cfg)
func Unmarshal(data []byte, v interface{}, opts ...Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}
	root, err := cfg.run(string(data))
	if err != nil {
		return err
	}
	if len(root.Items) == 0 {
		return nil
	}
	return cfg.decode(root.Items[0].Content(), v)
}

// UnmarshalNode stores a parsed node graph in the value pointed to by v.
func UnmarshalNode(n *node.Node, v interface{}, opts ...Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}
	return cfg.decode(n, v)
}

// Unmarshaler is the interface implemented by types that decode a YAML node
// themselves.
type Unmarshaler interface {
	UnmarshalYAML(n *node.Node) error
}

var (
	unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
	timeType        = reflect.TypeOf(time.Time{})
	bytesType       = reflect.TypeOf([]byte(nil))
)

// decoder holds the state of one decode call.
type decoder struct {
	knownFields bool

	// active holds the collections being decoded, to reject cycles that a
	// concrete Go value cannot hold.
	active map[*node.Node]bool
}

func (c *config) decode(n *node.Node, v interface{}) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || v == nil {
		return errors.New("yaml: Unmarshal(nil)")
	}
	if rv.Kind() != reflect.Ptr {
		return errors.New("yaml: Unmarshal(non-pointer " + rv.Type().String() + ")")
	}
	if rv.IsNil() {
		return errors.New("yaml: Unmarshal(nil " + rv.Type().String() + ")")
	}

	d := &decoder{knownFields: c.knownFields, active: make(map[*node.Node]bool)}
	return d.unmarshalValue(n, rv.Elem())
}

// unmarshalValue unmarshals a node into a reflect.Value
func (d *decoder) unmarshalValue(n *node.Node, rv reflect.Value) error {
	if rv.CanAddr() && rv.Addr().Type().Implements(unmarshalerType) {
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return rv.Addr().Interface().(Unmarshaler).UnmarshalYAML(n)
	}

	// Handle null
	if n == nil || (n.Kind == node.ScalarNode && n.Value == nil) {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}

	// Handle interface{} specially
	if rv.Kind() == reflect.Interface && rv.NumMethod() == 0 {
		val := NodeToInterface(n)
		if val == nil {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		rv.Set(reflect.ValueOf(val))
		return nil
	}

	// Handle pointers
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return d.unmarshalValue(n, rv.Elem())
	}

	switch n.Kind {
	case node.ScalarNode:
		return unmarshalScalar(n, rv)
	case node.SequenceNode, node.MappingNode:
		if d.active[n] {
			return fmt.Errorf("yaml: cannot unmarshal recursive %s at line %d, column %d into Go value of type %s",
				n.Kind, n.Pos.Line, n.Pos.Column, rv.Type())
		}
		d.active[n] = true
		defer delete(d.active, n)

		if n.Kind == node.SequenceNode {
			return d.unmarshalSequence(n, rv)
		}
		return d.unmarshalMapping(n, rv)
	case node.DocumentNode:
		return d.unmarshalValue(n.Content(), rv)
	default:
		return fmt.Errorf("yaml: unsupported node kind %s", n.Kind)
	}
}

// unmarshalScalar unmarshals a scalar node into a reflect.Value
func unmarshalScalar(n *node.Node, rv reflect.Value) error {
	val := n.Value

	switch rv.Type() {
	case timeType:
		if t, ok := val.(time.Time); ok {
			rv.Set(reflect.ValueOf(t))
			return nil
		}
		return fmt.Errorf("yaml: cannot unmarshal %T into Go value of type time.Time", val)
	case bytesType:
		switch b := val.(type) {
		case []byte:
			rv.SetBytes(b)
			return nil
		case string:
			decoded, err := base64.StdEncoding.DecodeString(b)
			if err != nil {
				return fmt.Errorf("yaml: cannot unmarshal %q into []byte: %w", b, err)
			}
			rv.SetBytes(decoded)
			return nil
		}
		return fmt.Errorf("yaml: cannot unmarshal %T into Go value of type []byte", val)
	}

	switch rv.Kind() {
	case reflect.String:
		if s, ok := val.(string); ok {
			rv.SetString(s)
			return nil
		}
		return fmt.Errorf("yaml: cannot unmarshal %T into Go value of type string", val)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch v := val.(type) {
		case int64:
			if rv.OverflowInt(v) {
				return fmt.Errorf("yaml: value %d overflows %s", v, rv.Type())
			}
			rv.SetInt(v)
			return nil
		case float64:
			// Allow conversion from float to int if it's a whole number
			if v == float64(int64(v)) {
				i := int64(v)
				if rv.OverflowInt(i) {
					return fmt.Errorf("yaml: value %v overflows %s", v, rv.Type())
				}
				rv.SetInt(i)
				return nil
			}
			return fmt.Errorf("yaml: cannot unmarshal number %v into Go value of type %s", v, rv.Type())
		}
		return fmt.Errorf("yaml: cannot unmarshal %T into Go value of type %s", val, rv.Type())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch v := val.(type) {
		case int64:
			if v < 0 || rv.OverflowUint(uint64(v)) {
				return fmt.Errorf("yaml: value %d overflows %s", v, rv.Type())
			}
			rv.SetUint(uint64(v))
			return nil
		case float64:
			if v < 0 || v != float64(uint64(v)) {
				return fmt.Errorf("yaml: cannot unmarshal number %v into Go value of type %s", v, rv.Type())
			}
			u := uint64(v)
			if rv.OverflowUint(u) {
				return fmt.Errorf("yaml: value %v overflows %s", v, rv.Type())
			}
			rv.SetUint(u)
			return nil
		}
		return fmt.Errorf("yaml: cannot unmarshal %T into Go value of type %s", val, rv.Type())

	case reflect.Float32, reflect.Float64:
		switch v := val.(type) {
		case float64:
			if rv.OverflowFloat(v) {
				return fmt.Errorf("yaml: value %v overflows %s", v, rv.Type())
			}
			rv.SetFloat(v)
			return nil
		case int64:
			f := float64(v)
			if rv.OverflowFloat(f) {
				return fmt.Errorf("yaml: value %v overflows %s", v, rv.Type())
			}
			rv.SetFloat(f)
			return nil
		}
		return fmt.Errorf("yaml: cannot unmarshal %T into Go value of type %s", val, rv.Type())

	case reflect.Bool:
		if b, ok := val.(bool); ok {
			rv.SetBool(b)
			return nil
		}
		return fmt.Errorf("yaml: cannot unmarshal %T into Go value of type bool", val)

	default:
		return fmt.Errorf("yaml: cannot unmarshal scalar into Go value of type %s", rv.Type())
	}
}

// unmarshalMapping unmarshals a mapping node into a struct or map
func (d *decoder) unmarshalMapping(n *node.Node, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Struct:
		return d.unmarshalStruct(n, rv)
	case reflect.Map:
		return d.unmarshalMap(n, rv)
	default:
		return fmt.Errorf("yaml: cannot unmarshal mapping into Go value of type %s", rv.Type())
	}
}

// unmarshalStruct unmarshals a mapping node into a struct
func (d *decoder) unmarshalStruct(n *node.Node, rv reflect.Value) error {
	fields := structFields(rv.Type())
	keys := &projector{seen: make(map[*node.Node]interface{})}

	for _, pair := range n.Pairs {
		key := keys.key(pair.Key)
		f, ok := lookupField(fields, key)
		if !ok {
			if d.knownFields {
				return fmt.Errorf("yaml: line %d: field %s not found in type %s", pair.Key.Pos.Line, key, rv.Type())
			}
			continue
		}
		if err := d.unmarshalValue(pair.Value, fieldByIndex(rv, f.index)); err != nil {
			return err
		}
	}
	return nil
}

// fieldByIndex walks to a nested field, allocating nil embedded pointers.
func fieldByIndex(rv reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && rv.Kind() == reflect.Ptr {
			if rv.IsNil() {
				rv.Set(reflect.New(rv.Type().Elem()))
			}
			rv = rv.Elem()
		}
		rv = rv.Field(x)
	}
	return rv
}

// unmarshalMap unmarshals a mapping node into a map. Keys are decoded into the
// map's key type, so map[int]string accepts "1: one".
func (d *decoder) unmarshalMap(n *node.Node, rv reflect.Value) error {
	mapType := rv.Type()
	if rv.IsNil() {
		rv.Set(reflect.MakeMap(mapType))
	}
	keys := &projector{seen: make(map[*node.Node]interface{})}

	for _, pair := range n.Pairs {
		keyVal := reflect.New(mapType.Key()).Elem()
		if mapType.Key().Kind() == reflect.String {
			keyVal.SetString(keys.key(pair.Key))
		} else if err := d.unmarshalValue(typedKey(pair.Key), keyVal); err != nil {
			return err
		}

		elemVal := reflect.New(mapType.Elem()).Elem()
		if err := d.unmarshalValue(pair.Value, elemVal); err != nil {
			return err
		}
		rv.SetMapIndex(keyVal, elemVal)
	}
	return nil
}

// typedKey classifies the text of a plain untagged key the way a plain value
// would be. Keys are kept as raw text by the parser.
func typedKey(k *node.Node) *node.Node {
	s, ok := k.Value.(string)
	if k.Kind != node.ScalarNode || !ok || k.Style != node.PlainStyle || k.Meta.Tag != "" {
		return k
	}
	typed := *k
	typed.Value = parser.ResolveScalar(s, tokenizer.DefaultVersion)
	return &typed
}

// unmarshalSequence unmarshals a sequence node into a slice or array
func (d *decoder) unmarshalSequence(n *node.Node, rv reflect.Value) error {
	seqLen := len(n.Items)

	switch rv.Kind() {
	case reflect.Slice:
		slice := reflect.MakeSlice(rv.Type(), seqLen, seqLen)
		for i, item := range n.Items {
			if err := d.unmarshalValue(item, slice.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(slice)
		return nil

	case reflect.Array:
		if seqLen > rv.Len() {
			return fmt.Errorf("yaml: sequence length %d exceeds target array length %d", seqLen, rv.Len())
		}
		for i, item := range n.Items {
			if err := d.unmarshalValue(item, rv.Index(i)); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("yaml: cannot unmarshal sequence into Go value of type %s", rv.Type())
	}
}
