package schema

import (
	"github.com/confkit/confkit/internal/document"
	"github.com/confkit/confkit/internal/security"
)

// RunFieldRules evaluates every field d declares a security rule for
// (Field.Security.Kind != FieldSecurityNone) against its value in doc,
// looked up by the field's dot path, routing every finding through v
// tagged with source. Fields absent from doc, declared with no rule, or
// whose value's Go type does not match the declared rule kind are
// skipped rather than treated as a failure.
func RunFieldRules(d Descriptor, doc *document.Document, v *security.Validator, source security.Source) []security.Event {
	if d == nil || v == nil || doc == nil {
		return nil
	}

	var events []security.Event
	for _, f := range d.Fields() {
		value, ok := document.GetPath(doc, f.Path)
		if !ok {
			continue
		}

		switch f.Security.Kind {
		case FieldSecurityPath:
			if s, ok := value.String(); ok {
				rule := security.PathRule{Field: f.Path, RelativeOnly: f.Security.RelativeOnly}
				events = append(events, v.CheckPath(rule, s, source)...)
			}
		case FieldSecurityNumber:
			if n, ok := value.Float(); ok {
				rule := security.NumberRule{Field: f.Path, Min: f.Security.Min, Max: f.Security.Max}
				events = append(events, v.CheckNumber(rule, n, source)...)
			}
		case FieldSecurityString:
			if s, ok := value.String(); ok {
				rule := security.StringRule{Field: f.Path, Pattern: f.Security.Pattern, MinLen: f.Security.MinLen, MaxLen: f.Security.MaxLen}
				events = append(events, v.CheckString(rule, s, source)...)
			}
		}
	}
	return events
}
