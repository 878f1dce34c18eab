// Package schema implements the schema-driven validator of the configuration core:
// it flattens a nominal schema into a canonical key universe, detects
// extra keys (honoring open sub-trees), and runs the state machine that
// combines directory-existence, extra-key, and structural-validation
// checks into a single typed error.
package schema

import (
	"regexp"

	"github.com/confkit/confkit/internal/document"
)

// Kind is a schema node's structural kind.
type Kind string

const (
	KindScalar  Kind = "scalar"
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindOpenMap Kind = "open-map"
	KindAny     Kind = "any"
)

// FieldSecurityKind names which security rule family governs a field's
// value, orthogonal to Kind: Kind is structural (object/array/scalar/...),
// FieldSecurityKind is semantic (this scalar happens to hold a filesystem
// path, a bounded number, or a pattern-constrained string).
type FieldSecurityKind string

const (
	FieldSecurityNone   FieldSecurityKind = ""
	FieldSecurityPath   FieldSecurityKind = "path"
	FieldSecurityNumber FieldSecurityKind = "number"
	FieldSecurityString FieldSecurityKind = "string"
)

// FieldSecurity carries the rule parameters a security-validator check
// needs for one field, populated from a `security:"..."` struct tag (see
// StructSchema) or set directly by a Descriptor implementation.
type FieldSecurity struct {
	Kind           FieldSecurityKind
	RelativeOnly   bool
	Min, Max       *float64
	MinLen, MaxLen *int
	Pattern        *regexp.Regexp
}

// Field is one node produced by a schema traversal.
type Field struct {
	Path      string // dot notation
	Kind      Kind
	Validator func(document.Value) error // optional
	Security  FieldSecurity
}

// Descriptor is the traversal interface the host application implements
// once per schema library it integrates ("reflection over the
// schema... replaced by a schema-traversal trait").
type Descriptor interface {
	// Fields returns every field the schema declares, in any order.
	Fields() []Field
	// Validate runs the host schema's own structural validator
	// (`validate(document) -> {ok | errors}` entry point)
	// and returns a list of per-field validation failures, empty when ok.
	Validate(doc *document.Document) []FieldFailure
}

// FieldFailure is one structural-validation failure, the detail payload
// behind a configuration/validation error.
type FieldFailure struct {
	Field string
	Tag   string
	Param string
	Value any
}

// AlwaysAllowedTopLevel is the set of top-level keys the key universe must
// always include, regardless of schema content: provenance fields Read
// stamps onto every merged document.
var AlwaysAllowedTopLevel = []string{"configDirectory", "discoveredConfigDirs", "resolvedConfigDirs"}

// KeyUniverse is the flattened set of allowed dot-paths
// plus the set of paths that are "open prefixes" — any path starting with
// an open prefix + "." is implicitly allowed.
type KeyUniverse struct {
	Allowed      map[string]bool
	OpenPrefixes map[string]bool
}

// FlattenKeys builds K from a Descriptor per rules:
// - scalar field at P contributes {P}
// - object field at P contributes the union of children's paths
// - array of scalars at P contributes {P}
// - array of objects at P contributes children prefixed with P (index elided)
// - open-map/any at P contributes {P} and marks P as an open prefix
//
// Field.Path already encodes the full dot path for each node (object/array
// container fields appear in Fields() alongside their children), so
// FlattenKeys only needs to add each field's own path and, for
// open-map/any, register the open prefix.
func FlattenKeys(d Descriptor) KeyUniverse {
	ku := KeyUniverse{Allowed: map[string]bool{}, OpenPrefixes: map[string]bool{}}
	for _, k := range AlwaysAllowedTopLevel {
		ku.Allowed[k] = true
	}
	for _, f := range d.Fields() {
		ku.Allowed[f.Path] = true
		if f.Kind == KindOpenMap || f.Kind == KindAny {
			ku.OpenPrefixes[f.Path] = true
		}
	}
	return ku
}

// IsAllowed reports whether path is in the key universe, either directly or
// via an open prefix.
func (ku KeyUniverse) IsAllowed(path string) bool {
	if ku.Allowed[path] {
		return true
	}
	for prefix := range ku.OpenPrefixes {
		if hasDotPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func hasDotPrefix(path, prefix string) bool {
	if len(path) <= len(prefix) {
		return false
	}
	return path[:len(prefix)] == prefix && path[len(prefix)] == '.'
}

// ExtraKeys returns the offending paths in doc that are not covered by ku,
// plus the full allowed set, for a configuration/extra_keys error.
func ExtraKeys(doc *document.Document, ku KeyUniverse) (offending []string, allowed []string) {
	for _, path := range document.Flatten(doc) {
		if !ku.IsAllowed(path) {
			offending = append(offending, path)
		}
	}
	for k := range ku.Allowed {
		allowed = append(allowed, k)
	}
	return offending, allowed
}
