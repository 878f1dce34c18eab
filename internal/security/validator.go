package security

import "context"

// Validator runs field rules, cross-source checks, and
// optional production-profile policy overlay, recording every finding to
// an AuditLogger.
type Validator struct {
	Config  Config
	Audit   *AuditLogger
	Overlay *PolicyOverlay
}

// NewValidator builds a Validator with a fresh AuditLogger configured with
// cfg's severity floor and sensitive-detail policy.
func NewValidator(cfg Config) *Validator {
	return &Validator{
		Config: cfg,
		Audit:  NewAuditLogger(cfg.SeverityFloor, cfg.IncludeSensitiveDetails),
	}
}

// CheckPath runs a path field's rule and records every finding.
func (v *Validator) CheckPath(rule PathRule, value string, source Source) []Event {
	evs := rule.Check(value, v.Config)
	v.record(evs, source)
	return evs
}

// CheckNumber runs a number field's rule and records every finding.
func (v *Validator) CheckNumber(rule NumberRule, value float64, source Source) []Event {
	evs := rule.Check(value)
	v.record(evs, source)
	return evs
}

// CheckString runs a string field's rule and records every finding.
func (v *Validator) CheckString(rule StringRule, value string, source Source) []Event {
	evs := rule.Check(value)
	v.record(evs, source)
	return evs
}

// CheckCrossSource evaluates a set of cross-source checks, recording any
// override events.
func (v *Validator) CheckCrossSource(checks []CrossSourceCheck) AggregateReport {
	report := NewAggregateReport(nil, nil, nil, checks)
	v.record(report.Overrides, SourceMerged)
	return report
}

// CheckPolicyOverlay runs the production-profile Rego overlay (if any is
// configured) against input for the given field, recording every denial.
func (v *Validator) CheckPolicyOverlay(ctx context.Context, field string, input any) ([]Event, error) {
	if !v.Config.IsProduction() {
		return nil, nil
	}
	evs, err := v.Overlay.Evaluate(ctx, field, input)
	if err != nil {
		return nil, err
	}
	v.record(evs, SourceSystem)
	return evs, nil
}

// ShouldFail reports whether the accumulated findings should abort the
// run, per the profile's failOnError default.
func (v *Validator) ShouldFail(events []Event) bool {
	if !v.Config.FailOnError {
		return false
	}
	for _, ev := range events {
		if ev.Severity == SeverityError || ev.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

func (v *Validator) record(evs []Event, source Source) {
	for _, ev := range evs {
		if ev.Source == "" {
			ev.Source = source
		}
		v.Audit.Record(ev)
	}
}
