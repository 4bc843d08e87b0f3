package yaml

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shapestone/yamlgraph/pkg/node"
)

type Address struct {
	Street string `yaml:"street"`
	City   string `yaml:"city"`
}

type Person struct {
	Name    string            `yaml:"name"`
	Age     int               `yaml:"age"`
	Address *Address          `yaml:"address"`
	Tags    []string          `yaml:"tags"`
	Labels  map[string]string `yaml:"labels"`
}

// TestUnmarshal_NestedStruct tests structs, pointers, slices and maps together
func TestUnmarshal_NestedStruct(t *testing.T) {
	input := `name: Alice
age: 30
address:
  street: 1 Main St
  city: Springfield
tags: [admin, dev]
labels:
  team: core
`
	var p Person
	if err := Unmarshal([]byte(input), &p); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	want := Person{
		Name:    "Alice",
		Age:     30,
		Address: &Address{Street: "1 Main St", City: "Springfield"},
		Tags:    []string{"admin", "dev"},
		Labels:  map[string]string{"team": "core"},
	}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("\nExpected: %+v\nGot:      %+v", want, p)
	}
}

// TestUnmarshal_FieldMatching tests key to field matching rules
func TestUnmarshal_FieldMatching(t *testing.T) {
	type Base struct {
		ID      int
		Created string `yaml:"created"`
	}
	type Extra struct {
		Note string `yaml:"note"`
	}
	type Record struct {
		Base
		Extra    Extra `yaml:",inline"`
		ID       string
		FullName string
	}

	input := `id: r-1
created: today
note: hello
fullname: Alice Smith
`
	var r Record
	if err := Unmarshal([]byte(input), &r); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if r.ID != "r-1" {
		t.Errorf("outer ID = %q, want r-1", r.ID)
	}
	if r.Base.ID != 0 {
		t.Errorf("shadowed Base.ID = %d, want 0", r.Base.ID)
	}
	if r.Created != "today" {
		t.Errorf("Created = %q, want today", r.Created)
	}
	if r.Extra.Note != "hello" {
		t.Errorf("Extra.Note = %q, want hello", r.Extra.Note)
	}
	if r.FullName != "Alice Smith" {
		t.Errorf("FullName = %q, want Alice Smith", r.FullName)
	}
}

// TestUnmarshal_CaseInsensitiveKeys tests the fallback match on key case
func TestUnmarshal_CaseInsensitiveKeys(t *testing.T) {
	var a Address
	if err := Unmarshal([]byte("Street: Elm\nCITY: Oslo"), &a); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if a.Street != "Elm" || a.City != "Oslo" {
		t.Errorf("got %+v", a)
	}
}

// TestUnmarshal_KnownFields tests rejection of unknown keys
func TestUnmarshal_KnownFields(t *testing.T) {
	input := []byte("street: Elm\nzip: 1234")

	var loose Address
	if err := Unmarshal(input, &loose); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	var strict Address
	err := Unmarshal(input, &strict, WithKnownFields(true))
	if err == nil {
		t.Fatal("Expected error for unknown field")
	}
	want := "yaml: line 2: field zip not found in type yaml.Address"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

// TestUnmarshal_NullHandling tests null values against pointer and value targets
func TestUnmarshal_NullHandling(t *testing.T) {
	p := Person{Name: "old", Address: &Address{City: "gone"}}
	if err := Unmarshal([]byte("name: ~\naddress: null"), &p); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if p.Name != "" {
		t.Errorf("Name = %q, want empty", p.Name)
	}
	if p.Address != nil {
		t.Errorf("Address = %+v, want nil", p.Address)
	}
}

// TestUnmarshal_EmptyInput tests that an empty stream leaves the target alone
func TestUnmarshal_EmptyInput(t *testing.T) {
	a := Address{City: "Oslo"}
	if err := Unmarshal([]byte(""), &a); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if a.City != "Oslo" {
		t.Errorf("City = %q, want Oslo", a.City)
	}
}

// TestUnmarshal_TimeAndBinary tests the time.Time and []byte targets
func TestUnmarshal_TimeAndBinary(t *testing.T) {
	type Blob struct {
		When time.Time `yaml:"when"`
		Data []byte    `yaml:"data"`
		Raw  []byte    `yaml:"raw"`
	}

	input := `when: !!timestamp 2001-12-14 21:59:43.10 -05:00
data: !!binary aGVsbG8=
raw: d29ybGQ=
`
	var b Blob
	if err := Unmarshal([]byte(input), &b); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	want := time.Date(2001, 12, 15, 2, 59, 43, 100000000, time.UTC)
	if !b.When.Equal(want) {
		t.Errorf("When = %v, want %v", b.When, want)
	}
	if string(b.Data) != "hello" {
		t.Errorf("Data = %q, want hello", b.Data)
	}
	if string(b.Raw) != "world" {
		t.Errorf("Raw = %q, want world", b.Raw)
	}
}

// TestUnmarshal_TimeMismatch tests that untagged text is not a time
func TestUnmarshal_TimeMismatch(t *testing.T) {
	var when time.Time
	if err := Unmarshal([]byte("2001-12-14"), &when); err == nil {
		t.Error("Expected error, got none")
	}
}

type upperString string

func (u *upperString) UnmarshalYAML(n *node.Node) error {
	s, ok := n.Value.(string)
	if !ok {
		return errors.New("upperString: not a string")
	}
	*u = upperString(strings.ToUpper(s))
	return nil
}

// TestUnmarshal_Unmarshaler tests types decoding themselves
func TestUnmarshal_Unmarshaler(t *testing.T) {
	type Doc struct {
		Title upperString   `yaml:"title"`
		Ref   *upperString  `yaml:"ref"`
		All   []upperString `yaml:"all"`
	}

	var d Doc
	if err := Unmarshal([]byte("title: hello\nref: there\nall: [a, b]"), &d); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if d.Title != "HELLO" {
		t.Errorf("Title = %q, want HELLO", d.Title)
	}
	if d.Ref == nil || *d.Ref != "THERE" {
		t.Errorf("Ref = %v, want THERE", d.Ref)
	}
	if !reflect.DeepEqual(d.All, []upperString{"A", "B"}) {
		t.Errorf("All = %v", d.All)
	}

	err := Unmarshal([]byte("title: [x]"), &d)
	if err == nil || err.Error() != "upperString: not a string" {
		t.Errorf("error = %v, want upperString: not a string", err)
	}
}

// TestUnmarshal_SharedAndCyclic tests anchored structure against Go values
func TestUnmarshal_SharedAndCyclic(t *testing.T) {
	type Pair struct {
		Left  Address `yaml:"left"`
		Right Address `yaml:"right"`
	}

	var p Pair
	if err := Unmarshal([]byte("left: &a {city: Oslo}\nright: *a"), &p); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if p.Left.City != "Oslo" || p.Right.City != "Oslo" {
		t.Errorf("got %+v", p)
	}

	type Chain struct {
		Next *Chain `yaml:"next"`
	}
	var c Chain
	err := Unmarshal([]byte("&s {next: *s}"), &c)
	if err == nil || !strings.Contains(err.Error(), "cannot unmarshal recursive Mapping") {
		t.Errorf("error = %v, want recursive mapping error", err)
	}

	// interface{} targets keep the cycle
	var v interface{}
	if err := Unmarshal([]byte("&s {next: *s}"), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	m := v.(map[string]interface{})
	if reflect.ValueOf(m["next"]).Pointer() != reflect.ValueOf(m).Pointer() {
		t.Error("cyclic mapping did not project onto itself")
	}
}

// TestUnmarshal_InvalidTargets tests arguments that cannot be decoded into
func TestUnmarshal_InvalidTargets(t *testing.T) {
	var nilPtr *Address
	tests := []struct {
		name   string
		target interface{}
		want   string
	}{
		{"nil", nil, "yaml: Unmarshal(nil)"},
		{"non-pointer", Address{}, "yaml: Unmarshal(non-pointer yaml.Address)"},
		{"nil pointer", nilPtr, "yaml: Unmarshal(nil *yaml.Address)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Unmarshal([]byte("city: Oslo"), tt.target)
			if err == nil || err.Error() != tt.want {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

// TestUnmarshal_ParseErrorsPropagate tests that pipeline errors reach the caller
func TestUnmarshal_ParseErrorsPropagate(t *testing.T) {
	var v interface{}
	err := Unmarshal([]byte("a: *missing"), &v)

	var resErr *ResolverError
	if !errors.As(err, &resErr) {
		t.Fatalf("error = %v (%T), want *ResolverError", err, err)
	}
}

// TestUnmarshalNode tests decoding an already parsed graph
func TestUnmarshalNode(t *testing.T) {
	n, err := Parse("street: Elm\ncity: Oslo")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	var a Address
	if err := UnmarshalNode(n, &a); err != nil {
		t.Fatalf("UnmarshalNode() error: %v", err)
	}
	if a != (Address{Street: "Elm", City: "Oslo"}) {
		t.Errorf("got %+v", a)
	}
}
