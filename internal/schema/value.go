package schema

import (
	"encoding/json"
	"fmt"
)

// ValueKind discriminates the runtime shape of a FieldValue.
type ValueKind int

const (
	ValueAbsent ValueKind = iota
	ValueString
	ValueBool
	ValueObject
)

// FieldValue is the polymorphic value of a document field. The upstream shape
// depends informally on the sibling "type" attribute (date/text carry a
// string, checkbox a boolean, signature an object), but the correlation is
// not guaranteed, so the union accepts any of the four shapes. Numbers and
// arrays are never valid.
type FieldValue struct {
	kind   ValueKind
	str    string
	b      bool
	object map[string]any
}

// AbsentValue is the explicit "no value" sentinel (missing key or JSON null).
func AbsentValue() FieldValue { return FieldValue{kind: ValueAbsent} }

func StringValue(s string) FieldValue { return FieldValue{kind: ValueString, str: s} }

func BoolValue(b bool) FieldValue { return FieldValue{kind: ValueBool, b: b} }

func ObjectValue(m map[string]any) FieldValue {
	return FieldValue{kind: ValueObject, object: m}
}

func (v FieldValue) Kind() ValueKind { return v.kind }

// String returns the string member; valid only when Kind() == ValueString.
func (v FieldValue) String() string { return v.str }

// Bool returns the boolean member; valid only when Kind() == ValueBool.
func (v FieldValue) Bool() bool { return v.b }

// Object returns the object member; valid only when Kind() == ValueObject.
func (v FieldValue) Object() map[string]any { return v.object }

// MarshalJSON emits the wire form of whichever union member is set.
// Absent serializes as null.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueAbsent:
		return []byte("null"), nil
	case ValueString:
		return json.Marshal(v.str)
	case ValueBool:
		return json.Marshal(v.b)
	case ValueObject:
		if v.object == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.object)
	}
	return nil, fmt.Errorf("invalid field value kind %d", v.kind)
}

// decodeFieldValue narrows a raw JSON value into the union. present is false
// when the key was missing entirely.
func decodeFieldValue(raw any, present bool, path string, errs *violations) FieldValue {
	if !present || raw == nil {
		return AbsentValue()
	}
	switch val := raw.(type) {
	case string:
		return StringValue(val)
	case bool:
		return BoolValue(val)
	case map[string]any:
		return ObjectValue(val)
	}
	errs.addf(path, "expected string, boolean, object or null, got %s", typeName(raw))
	return AbsentValue()
}
