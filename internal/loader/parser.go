package loader

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/confkit/confkit/internal/document"
	"gopkg.in/yaml.v3"
)

// Parser is the external parser abstraction the core consumes:
// parse(format, text) -> Value | ParseError. The core never executes code
// itself; a JS/TS parser implementation is responsible for its own
// sandboxing.
type Parser interface {
	Parse(format Format, text string) (document.Value, error)
}

// ParseError reports a parser failure without the loader needing to know
// anything about the parser's internals.
type ParseError struct {
	Format Format
	Cause  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Format, e.Cause)
}
func (e *ParseError) Unwrap() error { return e.Cause }

// BuiltinParser implements Parser for the two formats confkit parses
// itself: YAML (gopkg.in/yaml.v3) and JSON (encoding/json, the
// ecosystem-idiomatic choice for JSON in Go — see DESIGN.md). JS/TS
// parsing is delegated entirely to an injected Parser; BuiltinParser
// returns an error for those formats rather than silently no-op'ing.
type BuiltinParser struct {
	// Fallback handles formats BuiltinParser does not itself implement
	// (js, ts). nil means js/ts always error.
	Fallback Parser
}

func (p BuiltinParser) Parse(format Format, text string) (document.Value, error) {
	switch format {
	case FormatYAML:
		return parseYAML(text)
	case FormatJSON:
		return parseJSON(text)
	case FormatJS, FormatTS:
		if p.Fallback != nil {
			return p.Fallback.Parse(format, text)
		}
		return document.Value{}, &ParseError{Format: format, Cause: fmt.Errorf("no parser registered for %s; the core never executes code itself, so js/ts files need an injected Parser", format)}
	default:
		return document.Value{}, &ParseError{Format: format, Cause: fmt.Errorf("unknown format %q", format)}
	}
}

func parseYAML(text string) (document.Value, error) {
	var raw any
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return document.Value{}, &ParseError{Format: FormatYAML, Cause: err}
	}
	if raw == nil {
		return document.FromDocument(document.NewDocument()), nil
	}
	normalized, err := normalizeYAML(raw)
	if err != nil {
		return document.Value{}, &ParseError{Format: FormatYAML, Cause: err}
	}
	return document.FromAny(normalized)
}

// normalizeYAML converts yaml.v3's map[string]interface{} output (it
// already decodes string-keyed YAML mappings that way, unlike gopkg.in/
// yaml.v2 which produces map[interface{}]interface{}) recursively so
// nested maps are guaranteed map[string]any before document.FromAny sees
// them.
func normalizeYAML(in any) (any, error) {
	switch t := in.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			nv, err := normalizeYAML(v)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for rawKey, v := range t {
			k, ok := rawKey.(string)
			if !ok {
				return nil, fmt.Errorf("non-string map key %v", rawKey)
			}
			nv, err := normalizeYAML(v)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			nv, err := normalizeYAML(v)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	case int:
		return int64(t), nil
	default:
		return in, nil
	}
}

func parseJSON(text string) (document.Value, error) {
	var raw any
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return document.Value{}, &ParseError{Format: FormatJSON, Cause: err}
	}
	normalized, err := normalizeJSON(raw)
	if err != nil {
		return document.Value{}, &ParseError{Format: FormatJSON, Cause: err}
	}
	return document.FromAny(normalized)
}

func normalizeJSON(in any) (any, error) {
	switch t := in.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			nv, err := normalizeJSON(v)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			nv, err := normalizeJSON(v)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	default:
		return in, nil
	}
}
