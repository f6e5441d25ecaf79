package jsonrpc2

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Args are the parameters bound to a method, in declaration order. Values
// are raw JSON exactly as the caller sent them (or the declared default);
// no type coercion happens before the handler decodes them.
//
// Decoding happens inside the handler, so a value of the wrong type is a
// handler failure and is reported as an internal error.
type Args struct {
	names  []string
	values []json.RawMessage
}

// NewArgs builds Args by hand, mainly for calling handlers in tests.
func NewArgs(names []string, values []json.RawMessage) Args {
	return Args{names: names, values: values}
}

func (a Args) Len() int {
	return len(a.values)
}

func (a Args) Names() []string {
	return a.names
}

// Raw returns the i-th value.
func (a Args) Raw(i int) json.RawMessage {
	return a.values[i]
}

// Decode unmarshals the i-th value into v. null is accepted only when v
// points to something that can hold it: a pointer, slice, map or interface.
func (a Args) Decode(i int, v any) error {
	if i < 0 || i >= len(a.values) {
		return fmt.Errorf("argument index %d out of range", i)
	}
	if isNull(a.values[i]) && !nullable(reflect.TypeOf(v)) {
		return fmt.Errorf("%s: null is not a valid %s", a.names[i], reflect.TypeOf(v).Elem())
	}
	if err := json.Unmarshal(a.values[i], v); err != nil {
		return fmt.Errorf("%s: %w", a.names[i], err)
	}
	return nil
}

// Get unmarshals the value of the named parameter into v.
func (a Args) Get(name string, v any) error {
	for i, n := range a.names {
		if n == name {
			return a.Decode(i, v)
		}
	}
	return fmt.Errorf("unknown argument %q", name)
}

// Struct decodes all arguments into the struct pointed to by v, matching
// parameter names against json tags, then validates it with Val. A null
// argument is rejected when its field cannot hold null.
func (a Args) Struct(v any) error {
	fields := map[string]reflect.Type{}
	if t := reflect.TypeOf(v); t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
		jsonFields(t.Elem(), fields)
	}

	obj := make(map[string]json.RawMessage, len(a.values))
	for i, n := range a.names {
		if ft, ok := fields[n]; ok && isNull(a.values[i]) && !nullable(reflect.PointerTo(ft)) {
			return fmt.Errorf("%s: null is not a valid %s", n, ft)
		}
		obj[n] = a.values[i]
	}

	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("failed to decode arguments: %w", err)
	}
	if err := validateIfStruct(v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), nullID)
}

// nullable reports whether unmarshalling null into a value of type t (a
// pointer to the target) changes the target. A nil or non-pointer t is left
// for json.Unmarshal to reject.
func nullable(t reflect.Type) bool {
	if t == nil || t.Kind() != reflect.Pointer {
		return true
	}
	switch t.Elem().Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return true
	}
	return false
}

// jsonFields collects the types of t's exported fields by their json name,
// descending into embedded structs.
func jsonFields(t reflect.Type, out map[string]reflect.Type) {
	for i := range t.NumField() {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct {
			jsonFields(f.Type, out)
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		out[name] = f.Type
	}
}
