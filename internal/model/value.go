package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind enumerates the shapes a sensitive attribute can take.
type ValueKind uint8

const (
	// KindNull is an explicit null.
	KindNull ValueKind = iota
	// KindString is a single string.
	KindString
	// KindList is an ordered list of strings.
	KindList
)

// Value holds one sensitive attribute of a patient: a string, a list of
// strings, or an explicit null. The zero Value is null.
type Value struct {
	kind ValueKind
	str  string
	list []string
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// String returns a scalar value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// List returns a list value. The items are copied.
func List(items ...string) Value {
	return Value{kind: KindList, list: append([]string{}, items...)}
}

// Kind reports the shape of v.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Str returns the scalar content; it is empty for non-scalar values.
func (v Value) Str() string {
	return v.str
}

// Items returns a copy of the list content; it is nil for non-list values.
func (v Value) Items() []string {
	if v.kind != KindList {
		return nil
	}
	return append([]string{}, v.list...)
}

// IsEmpty reports whether v is null or an empty string. Such values are never
// encrypted or decrypted.
func (v Value) IsEmpty() bool {
	return v.kind == KindNull || (v.kind == KindString && v.str == "")
}

// Equal reports deep equality.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != o.list[i] {
				return false
			}
		}
	}
	return true
}

// MarshalJSON encodes v as null, a JSON string, or an array of strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, a string, a number, a boolean, or an array of
// such elements. Numbers and booleans are kept as their JSON text so rows
// imported with typed values still load. Null elements decode as empty
// strings. Objects are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Null()
		return nil
	}

	if data[0] != '[' {
		s, err := scalarText(data)
		if err != nil {
			return err
		}
		*v = String(s)
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("invalid list value: %w", err)
	}
	list := make([]string, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)
		if bytes.Equal(item, []byte("null")) {
			continue
		}
		s, err := scalarText(item)
		if err != nil {
			return fmt.Errorf("list element %d: %w", i, err)
		}
		list[i] = s
	}
	*v = Value{kind: KindList, list: list}
	return nil
}

// scalarText returns the string form of a JSON string, number or boolean.
func scalarText(data []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return "", err
	}

	switch x := raw.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", fmt.Errorf("unsupported value %s: expected string, number, boolean, list or null", data)
	}
}
