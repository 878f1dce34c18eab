// Package document defines the dynamically-typed configuration value model
// that every other package in confkit operates on: Document, an ordered
// string-keyed map, and Value, the tagged union of everything a Document can
// hold.
package document

import (
	"fmt"
	"sort"
)

// Kind tags the dynamic type carried by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindDocument
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindDocument:
		return "document"
	default:
		return "unknown"
	}
}

// Value is one of: null, boolean, integer, floating-point, string, an
// ordered sequence of Value, or a Document. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	doc  *Document
}

func Null() Value               { return Value{kind: KindNull} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func Int(i int64) Value         { return Value{kind: KindInt, i: i} }
func Float(f float64) Value     { return Value{kind: KindFloat, f: f} }
func String(s string) Value     { return Value{kind: KindString, s: s} }
func Array(items []Value) Value { return Value{kind: KindArray, arr: items} }
func FromDocument(d *Document) Value {
	return Value{kind: KindDocument, doc: d}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }
func (v Value) Float() (float64, bool) {
	if v.kind == KindFloat {
		return v.f, true
	}
	if v.kind == KindInt {
		return float64(v.i), true
	}
	return 0, false
}
func (v Value) String() (string, bool) { return v.s, v.kind == KindString }
func (v Value) Array() ([]Value, bool) { return v.arr, v.kind == KindArray }
func (v Value) Document() (*Document, bool) {
	return v.doc, v.kind == KindDocument
}

// MustString returns the string payload or "" when the Value is not a string.
func (v Value) MustString() string {
	s, _ := v.String()
	return s
}

// Clone returns a deep copy of v; arrays and documents are recursively
// copied so mutating the clone never affects the original.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		out := make([]Value, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Clone()
		}
		return Array(out)
	case KindDocument:
		if v.doc == nil {
			return FromDocument(NewDocument())
		}
		return FromDocument(v.doc.Clone())
	default:
		return v
	}
}

// Equal reports structural, order-independent-for-maps equality.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		// An int and a float with the same numeric value are still distinct
		// kinds in this model; only document-level equality is order
		// independent here, not numeric coercion.
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindDocument:
		return DocumentsEqual(a.doc, b.doc)
	default:
		return false
	}
}

// Document is an ordered string-keyed mapping. Insertion order is retained
// for diagnostics (e.g. deterministic flattening output) but equality
// between two Documents is order independent, per the configuration core
type Document struct {
	keys   []string
	values map[string]Value
}

// NewDocument returns an empty Document.
func NewDocument() *Document {
	return &Document{values: make(map[string]Value)}
}

// Set assigns key = value, recording key at the end of the insertion order
// the first time it is seen. Callers that need the prototype-pollution
// guard must use SafeSet instead; Set performs no safety filtering and is
// meant for internal plumbing code that already knows its keys are safe
// (parser output, schema defaults).
func (d *Document) Set(key string, v Value) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Get returns the value at key and whether it was present.
func (d *Document) Get(key string) (Value, bool) {
	v, ok := d.values[key]
	return v, ok
}

// GetPath walks a dot-separated path from the root document and returns the
// Value found there, or (zero, false) if any segment is missing or a
// non-leaf segment is not itself a Document.
func GetPath(root *Document, dotted string) (Value, bool) {
	cur := FromDocument(root)
	for _, seg := range SplitPath(dotted) {
		if cur.Kind() != KindDocument {
			return Value{}, false
		}
		d, _ := cur.Document()
		next, ok := d.Get(seg)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// Delete removes key from the document.
func (d *Document) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns keys in insertion order.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// SortedKeys returns keys in lexical order, useful for deterministic
// diagnostics and test fixtures.
func (d *Document) SortedKeys() []string {
	out := d.Keys()
	sort.Strings(out)
	return out
}

// Len returns the number of keys.
func (d *Document) Len() int { return len(d.keys) }

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	if d == nil {
		return NewDocument()
	}
	out := NewDocument()
	for _, k := range d.keys {
		out.Set(k, d.values[k].Clone())
	}
	return out
}

// DocumentsEqual compares two documents ignoring key order.
func DocumentsEqual(a, b *Document) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.keys) != len(b.keys) {
		return false
	}
	for k, av := range a.values {
		bv, ok := b.values[k]
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

// ToAny converts a Value into a plain interface{} tree (map[string]any,
// []any, and the Go scalar types) for interop with libraries that expect
// that shape — encoding/json, gopkg.in/yaml.v3, mergo, mapstructure.
func (v Value) ToAny() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.ToAny()
		}
		return out
	case KindDocument:
		return v.doc.ToMap()
	default:
		return nil
	}
}

// ToMap converts a Document into a map[string]any tree.
func (d *Document) ToMap() map[string]any {
	out := make(map[string]any, d.Len())
	if d == nil {
		return out
	}
	for _, k := range d.keys {
		out[k] = d.values[k].ToAny()
	}
	return out
}

// FromAny converts a plain interface{} tree (as produced by encoding/json,
// yaml.v3, or mergo) into a Value. Unsupported Go types produce an error
// rather than silently dropping data.
func FromAny(in any) (Value, error) {
	switch t := in.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case float64:
		return Float(t), nil
	case float32:
		return Float(float64(t)), nil
	case string:
		return String(t), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Array(items), nil
	case map[string]any:
		doc := NewDocument()
		for k, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("field %q: %w", k, err)
			}
			doc.Set(k, v)
		}
		return FromDocument(doc), nil
	case map[any]any:
		// yaml.v3 can produce this shape for non-string-keyed maps; reject
		// non-string keys rather than silently stringifying them.
		doc := NewDocument()
		for rawKey, item := range t {
			k, ok := rawKey.(string)
			if !ok {
				return Value{}, fmt.Errorf("non-string map key %v of type %T", rawKey, rawKey)
			}
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("field %q: %w", k, err)
			}
			doc.Set(k, v)
		}
		return FromDocument(doc), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", in)
	}
}
