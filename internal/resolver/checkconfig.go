package resolver

import (
	"fmt"
	"strings"

	"github.com/confkit/confkit/internal/document"
	"github.com/confkit/confkit/internal/security"
)

// sensitiveNamePatterns is case-insensitive, match-anywhere
// sensitive-field-name list.
var sensitiveNamePatterns = []string{
	"password", "secret", "token", "apikey", "api_key", "auth",
	"credential", "privatekey", "private_key", "accesskey", "access_key",
}

// FieldProvenance is one row of check_config's verbose per-field report.
type FieldProvenance struct {
	Field          string
	SanitizedValue string
	Source         SourceKind
	Sanitized      bool
}

// CheckReport is CheckReport.
type CheckReport struct {
	Resolved   *ResolvedConfig
	Provenance []FieldProvenance
	Warnings   []security.Event
}

// CheckConfig builds a sanitized diagnostic view of resolved. When verbose
// is true, Provenance is populated with one row per flattened field. v, when
// non-nil, receives every warning CheckConfig raises through its audit
// buffer too, so the same finding is visible to audit consumers and not
// just this report's Warnings slice.
func CheckConfig(resolved *ResolvedConfig, verbose bool, v *security.Validator) CheckReport {
	report := CheckReport{Resolved: resolved}

	if len(resolved.Parents) > 4 {
		ev := security.Event{
			Type:     "hierarchical_depth_exceeded",
			Severity: security.SeverityWarning,
			Source:   security.SourceSystem,
			Details:  "hierarchical configuration stack exceeds four levels",
		}
		report.Warnings = append(report.Warnings, ev)
		if v != nil {
			v.Audit.Record(ev)
		}
	}

	if !verbose || resolved.Value == nil {
		return report
	}

	for _, path := range document.Flatten(resolved.Value) {
		val, ok := document.GetPath(resolved.Value, path)
		if !ok {
			continue
		}
		sanitized := isSensitiveFieldName(path)
		display := displayValue(val)
		if sanitized {
			display = "***"
		}
		report.Provenance = append(report.Provenance, FieldProvenance{
			Field:          path,
			SanitizedValue: display,
			Source:         resolved.Source,
			Sanitized:      sanitized,
		})
	}
	return report
}

// isSensitiveFieldName reports whether path (e.g. "database.password")
// matches any sensitive pattern anywhere, case-insensitively.
func isSensitiveFieldName(path string) bool {
	lower := strings.ToLower(path)
	for _, p := range sensitiveNamePatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func displayValue(v document.Value) string {
	switch v.Kind() {
	case document.KindString:
		return v.MustString()
	case document.KindDocument, document.KindArray:
		return "<composite>"
	default:
		return fmt.Sprintf("%v", v.ToAny())
	}
}
