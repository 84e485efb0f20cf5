package config

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the shape of a configuration value.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	KindStringList
	KindColorList
	KindRect
	// KindOpaque holds data adopted from a persisted file for a key the
	// schema does not know about.
	KindOpaque
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindStringList:
		return "string-list"
	case KindColorList:
		return "color-list"
	case KindRect:
		return "rect"
	case KindOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is one configuration value. The set of implementations is closed.
type Value interface {
	Kind() Kind
	isValue()
}

type (
	// Bool is a boolean setting.
	Bool bool
	// Int is an integer setting.
	Int int64
	// Float is a floating-point setting.
	Float float64
	// String is a text setting.
	String string
	// StringList is an ordered list of strings (sources, language order).
	StringList []string
	// ColorList is an ordered list of RGB triples.
	ColorList []Color
	// Rect is a window rectangle as an integer tuple: empty when unset,
	// otherwise x, y, width, height.
	Rect []int
)

// Color is an RGB triple.
type Color [3]int

// Opaque wraps a decoded value that has no schema shape.
type Opaque struct {
	V any
}

func (Bool) Kind() Kind       { return KindBool }
func (Int) Kind() Kind        { return KindInt }
func (Float) Kind() Kind      { return KindFloat }
func (String) Kind() Kind     { return KindString }
func (StringList) Kind() Kind { return KindStringList }
func (ColorList) Kind() Kind  { return KindColorList }
func (Rect) Kind() Kind       { return KindRect }
func (Opaque) Kind() Kind     { return KindOpaque }

func (Bool) isValue()       {}
func (Int) isValue()        {}
func (Float) isValue()      {}
func (String) isValue()     {}
func (StringList) isValue() {}
func (ColorList) isValue()  {}
func (Rect) isValue()       {}
func (Opaque) isValue()     {}

// NewRect builds a set rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{x, y, w, h}
}

// IsSet reports whether the rectangle holds coordinates.
func (r Rect) IsSet() bool {
	return len(r) == 4
}

// Equal reports whether a and b have the same kind and contents.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case StringList:
		return slices.Equal(av, b.(StringList))
	case ColorList:
		return slices.Equal(av, b.(ColorList))
	case Rect:
		return slices.Equal(av, b.(Rect))
	case Opaque:
		return reflect.DeepEqual(av.V, b.(Opaque).V)
	default:
		return a == b
	}
}

// clone returns a copy that shares no backing arrays with v.
func clone(v Value) Value {
	switch tv := v.(type) {
	case StringList:
		return slices.Clone(tv)
	case ColorList:
		return slices.Clone(tv)
	case Rect:
		return slices.Clone(tv)
	case Opaque:
		return Opaque{V: clonePlain(tv.V)}
	default:
		return v
	}
}

// clonePlain deep-copies the maps and slices of a decoded document.
func clonePlain(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, item := range tv {
			out[k] = clonePlain(item)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = clonePlain(item)
		}
		return out
	default:
		return v
	}
}

// Plain converts v into the generic form written to the persisted file.
func Plain(v Value) any {
	switch tv := v.(type) {
	case Bool:
		return bool(tv)
	case Int:
		return int64(tv)
	case Float:
		return float64(tv)
	case String:
		return string(tv)
	case StringList:
		out := make([]any, len(tv))
		for i, s := range tv {
			out[i] = s
		}
		return out
	case ColorList:
		out := make([]any, len(tv))
		for i, c := range tv {
			out[i] = []any{c[0], c[1], c[2]}
		}
		return out
	case Rect:
		out := make([]any, len(tv))
		for i, n := range tv {
			out[i] = n
		}
		return out
	case Opaque:
		return tv.V
	default:
		return nil
	}
}

// Format renders v for humans: scalars as text, lists as JSON.
func Format(v Value) string {
	switch tv := v.(type) {
	case Bool:
		return strconv.FormatBool(bool(tv))
	case Int:
		return strconv.FormatInt(int64(tv), 10)
	case Float:
		return strconv.FormatFloat(float64(tv), 'f', -1, 64)
	case String:
		return string(tv)
	}
	data, err := json.Marshal(Plain(v))
	if err != nil {
		return fmt.Sprintf("%v", Plain(v))
	}
	return string(data)
}

// number is a decoded numeric literal. isFloat is true when the persisted
// text had a fraction or exponent, or when the decoder produced a float.
type number struct {
	i       int64
	f       float64
	isFloat bool
}

func asNumber(v any) (number, bool) {
	switch n := v.(type) {
	case json.Number:
		s := n.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := n.Int64(); err == nil {
				return number{i: i, f: float64(i)}, true
			}
		}
		f, err := n.Float64()
		if err != nil {
			return number{}, false
		}
		return number{f: f, isFloat: true}, true
	case int:
		return number{i: int64(n), f: float64(n)}, true
	case int64:
		return number{i: n, f: float64(n)}, true
	case uint64:
		if n > math.MaxInt64 {
			return number{f: float64(n), isFloat: true}, true
		}
		return number{i: int64(n), f: float64(n)}, true
	case float64:
		return number{f: n, isFloat: true}, true
	case float32:
		return number{f: float64(n), isFloat: true}, true
	}
	return number{}, false
}

func asInts(v any) ([]int, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]int, len(items))
	for i, item := range items {
		n, ok := asNumber(item)
		if !ok || n.isFloat {
			return nil, false
		}
		out[i] = int(n.i)
	}
	return out, true
}

func asStrings(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}

// Decode converts a persisted value into kind without any coercion: a
// float is not accepted for an int and vice versa.
func Decode(kind Kind, plain any) (Value, error) {
	switch kind {
	case KindBool:
		if b, ok := plain.(bool); ok {
			return Bool(b), nil
		}
	case KindInt:
		if n, ok := asNumber(plain); ok && !n.isFloat {
			return Int(n.i), nil
		}
	case KindFloat:
		if n, ok := asNumber(plain); ok && n.isFloat {
			return Float(n.f), nil
		}
	case KindString:
		if s, ok := plain.(string); ok {
			return String(s), nil
		}
	case KindStringList:
		if ss, ok := asStrings(plain); ok {
			return StringList(ss), nil
		}
	case KindColorList:
		if cl, ok := asColorList(plain); ok {
			return cl, nil
		}
	case KindRect:
		if r, ok := asRect(plain); ok {
			return r, nil
		}
	case KindOpaque:
		return Opaque{V: plain}, nil
	}
	return nil, fmt.Errorf("%w: cannot use %T as %s", ErrShapeMismatch, plain, kind)
}

func asColorList(plain any) (ColorList, bool) {
	items, ok := plain.([]any)
	if !ok {
		return nil, false
	}
	out := make(ColorList, len(items))
	for i, item := range items {
		ints, ok := asInts(item)
		if !ok || len(ints) != 3 {
			return nil, false
		}
		out[i] = Color{ints[0], ints[1], ints[2]}
	}
	return out, true
}

// asRect accepts any list of integers; only a four-element one counts as set.
func asRect(plain any) (Rect, bool) {
	ints, ok := asInts(plain)
	if !ok {
		return nil, false
	}
	return Rect(ints), true
}

// Infer picks the closest kind for a value read from storage for a key
// the schema does not declare.
func Infer(plain any) Value {
	switch p := plain.(type) {
	case bool:
		return Bool(p)
	case string:
		return String(p)
	}
	if n, ok := asNumber(plain); ok {
		if n.isFloat {
			return Float(n.f)
		}
		return Int(n.i)
	}
	if ss, ok := asStrings(plain); ok {
		return StringList(ss)
	}
	return Opaque{V: plain}
}

// ParseText converts command-line text into kind. Strings are taken
// verbatim; every other kind is read as JSON, except that string lists
// also accept a comma-separated form.
func ParseText(kind Kind, text string) (Value, error) {
	switch kind {
	case KindString:
		return String(text), nil
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean", ErrShapeMismatch, text)
		}
		return Bool(b), nil
	case KindStringList:
		if !strings.HasPrefix(strings.TrimSpace(text), "[") {
			return StringList(splitList(text)), nil
		}
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var plain any
	if err := dec.Decode(&plain); err != nil {
		return nil, fmt.Errorf("%w: %q is not valid for %s: %v", ErrShapeMismatch, text, kind, err)
	}
	return Decode(kind, plain)
}

func splitList(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
