package schema

import "fmt"

// object wraps one decoded JSON object together with its location in the
// payload and the shared violation collector. Accessors record a violation
// and return a zero value instead of failing, so a single pass over an
// entity reports every problem at once.
//
// Scalar typing is strict: a JSON number is never accepted where a string is
// declared, and vice versa.
type object struct {
	raw  map[string]any
	path string
	errs *violations
}

// newObject narrows raw to a JSON object, recording a violation at path when
// it is anything else.
func newObject(raw any, path string, errs *violations) (object, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		errs.addf(path, "expected object, got %s", typeName(raw))
		return object{}, false
	}
	return object{raw: m, path: path, errs: errs}, true
}

// at returns the path of a field inside this object.
func (o object) at(name string) string {
	if o.path == "" {
		return name
	}
	return o.path + "." + name
}

// require fetches a field that must be present, recording a violation when
// the key is missing entirely.
func (o object) require(name string) (any, bool) {
	v, ok := o.raw[name]
	if !ok {
		o.errs.add(o.at(name), "required field is missing")
	}
	return v, ok
}

// str fetches a required string field.
func (o object) str(name string) string {
	v, ok := o.require(name)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		o.errs.addf(o.at(name), "expected string, got %s", typeName(v))
		return ""
	}
	return s
}

// optStr fetches an optional string field. Missing keys and JSON null both
// decode to nil; any other non-string value is a violation.
func (o object) optStr(name string) *string {
	v, ok := o.raw[name]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		o.errs.addf(o.at(name), "expected string or null, got %s", typeName(v))
		return nil
	}
	return &s
}

// boolean fetches a required boolean field.
func (o object) boolean(name string) bool {
	v, ok := o.require(name)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		o.errs.addf(o.at(name), "expected boolean, got %s", typeName(v))
		return false
	}
	return b
}

// openMap fetches a required object field with no declared structure. The
// contents pass through unchanged.
func (o object) openMap(name string) map[string]any {
	v, ok := o.require(name)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		o.errs.addf(o.at(name), "expected object, got %s", typeName(v))
		return nil
	}
	return m
}

// items fetches a required array field, returning its raw elements.
func (o object) items(name string) ([]any, bool) {
	v, ok := o.require(name)
	if !ok {
		return nil, false
	}
	list, ok := v.([]any)
	if !ok {
		o.errs.addf(o.at(name), "expected array, got %s", typeName(v))
		return nil, false
	}
	return list, true
}

// strList fetches a required array of strings.
func (o object) strList(name string) []string {
	items, ok := o.items(name)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			o.errs.addf(indexed(o.at(name), i), "expected string, got %s", typeName(item))
			continue
		}
		out = append(out, s)
	}
	return out
}

// opaque fetches an optional field of unspecified shape. The value passes
// through exactly as decoded; missing keys decode to nil.
func (o object) opaque(name string) any {
	return o.raw[name]
}

// email fetches a required string field that must be a syntactically valid
// email address.
func (o object) email(name string) string {
	v, ok := o.require(name)
	if !ok {
		return ""
	}
	s, isStr := v.(string)
	if !isStr {
		o.errs.addf(o.at(name), "expected string, got %s", typeName(v))
		return ""
	}
	if !isEmail(s) {
		o.errs.addf(o.at(name), "%q is not a valid email address", s)
	}
	return s
}

// optURL fetches an optional string field that, when present and non-null,
// must be an absolute http(s) URL.
func (o object) optURL(name string) *string {
	s := o.optStr(name)
	if s != nil && !isHTTPURL(*s) {
		o.errs.addf(o.at(name), "%q is not a valid URL", *s)
	}
	return s
}

// indexed returns the path of one element of an array field.
func indexed(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

// typeName names the JSON type of a decoded value for violation messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
