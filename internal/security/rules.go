package security

import (
	"math"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/confkit/confkit/internal/corerr"
)

// maxPathLength is path-field length ceiling.
const maxPathLength = 1000

// PathRule validates a path-kind field's value: null bytes, length,
// "..", relative-only, and (in production) home-directory shortcuts and
// unresolved environment-variable references.
type PathRule struct {
	Field        string
	RelativeOnly bool
}

// envRefPattern matches $NAME and ${NAME} environment-variable references.
var envRefPattern = regexp.MustCompile(`\$\{?[A-Za-z_][A-Za-z0-9_]*\}?`)

// Check validates value, returning a slice of findings. Rejection findings
// carry Severity error; warnings (home-dir shortcut, env-var reference in
// production) carry Severity warning and are recorded only — ShouldFail
// never treats a warning as a failure, whatever Config.FailOnError says.
func (r PathRule) Check(value string, cfg Config) []Event {
	var out []Event

	if strings.ContainsRune(value, 0) {
		out = append(out, r.reject("path contains a null byte"))
		return out
	}
	if len(value) > maxPathLength {
		out = append(out, r.reject("path exceeds 1000 characters"))
		return out
	}
	if r.RelativeOnly && filepath.IsAbs(value) {
		out = append(out, r.reject("path must be relative"))
		return out
	}
	if containsDotDotSegment(value) {
		out = append(out, r.reject("path contains a '..' segment after normalization"))
		return out
	}

	if cfg.IsProduction() {
		if strings.HasPrefix(value, "~") {
			out = append(out, r.warn("path uses a home-directory shortcut ('~')"))
		}
		if envRefPattern.MatchString(value) {
			out = append(out, r.warn("path contains an environment-variable reference"))
		}
	}
	return out
}

func containsDotDotSegment(value string) bool {
	normalized := filepath.ToSlash(filepath.Clean(value))
	for _, seg := range strings.Split(normalized, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

func (r PathRule) reject(detail string) Event {
	return Event{Type: "path_rule", Severity: SeverityError, Field: r.Field,
		ErrorCode: string(corerr.CodeValidation), Details: detail}
}

func (r PathRule) warn(detail string) Event {
	return Event{Type: "path_rule", Severity: SeverityWarning, Field: r.Field,
		ErrorCode: string(corerr.CodeValidation), Details: detail}
}

// NumberRule validates a number-kind field's value against an inclusive
// min/max range, rejecting NaN and infinities outright.
type NumberRule struct {
	Field    string
	Min, Max *float64
}

func (r NumberRule) Check(value float64) []Event {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return []Event{{Type: "number_rule", Severity: SeverityError, Field: r.Field,
			ErrorCode: string(corerr.CodeValidation), Details: "value is NaN or non-finite"}}
	}
	if r.Min != nil && value < *r.Min {
		return []Event{{Type: "number_rule", Severity: SeverityError, Field: r.Field,
			ErrorCode: string(corerr.CodeValidation), Details: "value is below the configured minimum"}}
	}
	if r.Max != nil && value > *r.Max {
		return []Event{{Type: "number_rule", Severity: SeverityError, Field: r.Field,
			ErrorCode: string(corerr.CodeValidation), Details: "value is above the configured maximum"}}
	}
	return nil
}

// StringRule validates a string-kind field's value: null bytes, an
// optional regular-expression pattern, and min/max length.
type StringRule struct {
	Field          string
	Pattern        *regexp.Regexp
	MinLen, MaxLen *int
}

func (r StringRule) Check(value string) []Event {
	if strings.ContainsRune(value, 0) {
		return []Event{{Type: "string_rule", Severity: SeverityError, Field: r.Field,
			ErrorCode: string(corerr.CodeValidation), Details: "string contains a null byte"}}
	}
	if r.Pattern != nil && !r.Pattern.MatchString(value) {
		return []Event{{Type: "string_rule", Severity: SeverityError, Field: r.Field,
			ErrorCode: string(corerr.CodeValidation), Details: "string does not match the required pattern"}}
	}
	if r.MinLen != nil && len(value) < *r.MinLen {
		return []Event{{Type: "string_rule", Severity: SeverityError, Field: r.Field,
			ErrorCode: string(corerr.CodeValidation), Details: "string is shorter than the configured minimum length"}}
	}
	if r.MaxLen != nil && len(value) > *r.MaxLen {
		return []Event{{Type: "string_rule", Severity: SeverityError, Field: r.Field,
			ErrorCode: string(corerr.CodeValidation), Details: "string is longer than the configured maximum length"}}
	}
	return nil
}
