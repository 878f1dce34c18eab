package security

// CrossSourceCheck compares the same field as seen from the CLI and from
// file-config, recording an info-level override event when both provided
// a value.
//
// CrossSourceCheck itself never re-checks a value. Findings from rules the
// caller re-runs against the merged document (e.g. a path field that became
// absolute because CLI overrode a relative file value) are passed to
// NewAggregateReport as mergedRecheckEvents.
type CrossSourceCheck struct {
	Field       string
	CLIValue    any
	CLIPresent  bool
	FileValue   any
	FilePresent bool
}

// Evaluate returns an override Event when both sources supplied the field,
// nil otherwise.
func (c CrossSourceCheck) Evaluate() *Event {
	if !c.CLIPresent || !c.FilePresent {
		return nil
	}
	return &Event{
		Type:     "cross_source_override",
		Severity: SeverityInfo,
		Source:   SourceMerged,
		Field:    c.Field,
		Details:  "field provided by both cli and file-config; cli value wins",
	}
}

// AggregateReport groups the per-source findings plus any merged-document
// re-check findings, as "Aggregate per-source results".
type AggregateReport struct {
	CLIEvents    []Event
	FileEvents   []Event
	MergedEvents []Event
	Overrides    []Event
}

// NewAggregateReport folds the per-source event slices and a set of
// cross-source checks into one report.
func NewAggregateReport(cliEvents, fileEvents, mergedRecheckEvents []Event, checks []CrossSourceCheck) AggregateReport {
	report := AggregateReport{CLIEvents: cliEvents, FileEvents: fileEvents, MergedEvents: mergedRecheckEvents}
	for _, c := range checks {
		if ev := c.Evaluate(); ev != nil {
			report.Overrides = append(report.Overrides, *ev)
		}
	}
	return report
}

// All flattens the report into one slice, in source order: cli, file,
// merged re-checks, then overrides.
func (r AggregateReport) All() []Event {
	out := make([]Event, 0, len(r.CLIEvents)+len(r.FileEvents)+len(r.MergedEvents)+len(r.Overrides))
	out = append(out, r.CLIEvents...)
	out = append(out, r.FileEvents...)
	out = append(out, r.MergedEvents...)
	out = append(out, r.Overrides...)
	return out
}

// HasErrors reports whether any event in the report is error or critical
// severity — the input to Config.FailOnError decisions.
func (r AggregateReport) HasErrors() bool {
	for _, ev := range r.All() {
		if ev.Severity == SeverityError || ev.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
