package security

import (
	"context"
	"fmt"
	"strings"

	"github.com/open-policy-agent/opa/v1/rego"
)

// DefaultPolicyPackage is the Rego package queried for the production
// profile's policy overlay.
const DefaultPolicyPackage = "confkit.security"

// PolicyOverlay runs an optional set of Rego policies on top of the
// built-in field rules for the production profile: "suspicious
// categories" are profile-dependent, and Rego gives hosts a way to define
// those categories themselves without a core code change.
type PolicyOverlay struct {
	policyPackage string
	modules       []func(*rego.Rego)
}

// NewPolicyOverlay builds an overlay from raw Rego module sources, keyed by
// a name used only for error messages.
func NewPolicyOverlay(policyPackage string, sources map[string]string) *PolicyOverlay {
	if policyPackage == "" {
		policyPackage = DefaultPolicyPackage
	}
	modules := make([]func(*rego.Rego), 0, len(sources))
	for name, content := range sources {
		modules = append(modules, rego.Module(name, content))
	}
	return &PolicyOverlay{policyPackage: policyPackage, modules: modules}
}

// Evaluate queries the overlay's "deny" rule with input, returning one
// Event per denial string. An overlay with no loaded modules always
// allows.
func (o *PolicyOverlay) Evaluate(ctx context.Context, field string, input any) ([]Event, error) {
	if o == nil || len(o.modules) == 0 {
		return nil, nil
	}

	denies, err := o.querySet(ctx, input, "deny")
	if err != nil {
		return nil, fmt.Errorf("evaluate security policy overlay: %w", err)
	}

	out := make([]Event, 0, len(denies))
	for _, d := range denies {
		out = append(out, Event{
			Type:      "policy_overlay_deny",
			Severity:  SeverityError,
			Source:    SourceSystem,
			Field:     field,
			ErrorCode: "configuration/validation",
			Details:   d,
		})
	}
	return out, nil
}

func (o *PolicyOverlay) querySet(ctx context.Context, input any, ruleName string) ([]string, error) {
	query := fmt.Sprintf("data.%s.%s", o.policyPackage, ruleName)
	opts := []func(*rego.Rego){rego.Query(query), rego.Input(input)}
	opts = append(opts, o.modules...)

	r := rego.New(opts...)
	rs, err := r.Eval(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "undefined") {
			return nil, nil
		}
		return nil, err
	}

	var results []string
	for _, result := range rs {
		for _, expr := range result.Expressions {
			if set, ok := expr.Value.([]any); ok {
				for _, item := range set {
					if s, ok := item.(string); ok {
						results = append(results, s)
					}
				}
			}
		}
	}
	return results, nil
}
