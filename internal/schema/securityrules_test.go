package schema

import (
	"testing"

	"github.com/confkit/confkit/internal/document"
	"github.com/confkit/confkit/internal/security"
)

type ruleDescriptor struct {
	fields []Field
}

func (d ruleDescriptor) Fields() []Field                            { return d.fields }
func (d ruleDescriptor) Validate(*document.Document) []FieldFailure { return nil }

func TestRunFieldRules_DispatchesByDeclaredKind(t *testing.T) {
	doc := document.NewDocument()
	doc.Set("port", document.Int(70000))
	doc.Set("dataDir", document.String("/etc/shadow"))
	doc.Set("level", document.String("x"))

	d := ruleDescriptor{fields: []Field{
		{Path: "port", Kind: KindScalar, Security: FieldSecurity{Kind: FieldSecurityNumber, Max: float64Ptr(65535)}},
		{Path: "dataDir", Kind: KindScalar, Security: FieldSecurity{Kind: FieldSecurityPath, RelativeOnly: true}},
		{Path: "level", Kind: KindScalar, Security: FieldSecurity{Kind: FieldSecurityString, MinLen: intPtr(3)}},
	}}

	v := security.NewValidator(security.DefaultConfig(security.ProfileDevelopment))
	events := RunFieldRules(d, doc, v, security.SourceMerged)

	if len(events) != 3 {
		t.Fatalf("expected 3 findings (port too high, path not relative, level too short), got %d: %+v", len(events), events)
	}
}

func TestRunFieldRules_SkipsFieldsWithNoRuleOrAbsentValue(t *testing.T) {
	doc := document.NewDocument()
	doc.Set("host", document.String("0.0.0.0"))

	d := ruleDescriptor{fields: []Field{
		{Path: "host", Kind: KindScalar}, // FieldSecurityNone
		{Path: "missing", Kind: KindScalar, Security: FieldSecurity{Kind: FieldSecurityString}},
	}}

	v := security.NewValidator(security.DefaultConfig(security.ProfileDevelopment))
	events := RunFieldRules(d, doc, v, security.SourceMerged)
	if len(events) != 0 {
		t.Fatalf("expected no findings, got %+v", events)
	}
}

func TestRunFieldRules_NilGuardsReturnNil(t *testing.T) {
	if got := RunFieldRules(nil, document.NewDocument(), security.NewValidator(security.Config{}), security.SourceMerged); got != nil {
		t.Errorf("expected nil for nil descriptor, got %+v", got)
	}
	if got := RunFieldRules(ruleDescriptor{}, document.NewDocument(), nil, security.SourceMerged); got != nil {
		t.Errorf("expected nil for nil validator, got %+v", got)
	}
	if got := RunFieldRules(ruleDescriptor{}, nil, security.NewValidator(security.Config{}), security.SourceMerged); got != nil {
		t.Errorf("expected nil for nil document, got %+v", got)
	}
}

func float64Ptr(f float64) *float64 { return &f }
func intPtr(i int) *int             { return &i }
