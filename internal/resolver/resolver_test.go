package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confkit/confkit/internal/document"
	"github.com/confkit/confkit/internal/schema"
	"github.com/confkit/confkit/internal/security"
)

type passthroughDescriptor struct{}

func (passthroughDescriptor) Fields() []schema.Field                            { return nil }
func (passthroughDescriptor) Validate(*document.Document) []schema.FieldFailure { return nil }

func TestResolve_RuntimeConfigWinsOverFileConfig(t *testing.T) {
	doc := document.NewDocument()
	doc.Set("port", document.Int(8080))

	called := false
	cfg := Config{
		Schema: passthroughDescriptor{},
		ResolveFileConfig: func(dir string) (FileConfigResult, error) {
			called = true
			return FileConfigResult{}, nil
		},
	}

	resolved, err := Resolve(InvocationContext{RuntimeConfig: doc}, cfg)
	require.NoError(t, err)
	assert.Equal(t, MCPSource, resolved.Source)
	assert.False(t, resolved.Hierarchical)
	assert.False(t, called)
}

func TestResolve_FileConfigHierarchical(t *testing.T) {
	doc := document.NewDocument()
	cfg := Config{
		Schema: passthroughDescriptor{},
		ResolveFileConfig: func(dir string) (FileConfigResult, error) {
			return FileConfigResult{Value: doc, Parents: []string{"/a", "/a/b", "/a/b/c"}}, nil
		},
	}

	resolved, err := Resolve(InvocationContext{WorkingDirectory: "/a/b/c"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, FileSource, resolved.Source)
	assert.True(t, resolved.Hierarchical)
	assert.Contains(t, resolved.ResolutionExplanation, "merged from 3 files")
}

func TestResolve_SingleFileIsNotHierarchical(t *testing.T) {
	doc := document.NewDocument()
	cfg := Config{
		Schema: passthroughDescriptor{},
		ResolveFileConfig: func(dir string) (FileConfigResult, error) {
			return FileConfigResult{Value: doc, Parents: []string{"/a/b/c"}}, nil
		},
	}

	resolved, err := Resolve(InvocationContext{WorkingDirectory: "/a/b/c"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, FileSource, resolved.Source)
	assert.False(t, resolved.Hierarchical)
	assert.Equal(t, "resolved from /a/b/c", resolved.ResolutionExplanation)
}

func TestResolve_CrossSourceOverrideFindingWhenCLIAndFileBothSupplyAField(t *testing.T) {
	doc := document.NewDocument()
	doc.Set("port", document.Int(8080))

	v := security.NewValidator(security.DefaultConfig(security.ProfileDevelopment))
	cfg := Config{
		Schema:   passthroughDescriptor{},
		Security: v,
		ResolveFileConfig: func(dir string) (FileConfigResult, error) {
			return FileConfigResult{Value: doc, Parents: []string{"/a/b/c"}}, nil
		},
	}

	resolved, err := Resolve(InvocationContext{
		WorkingDirectory: "/a/b/c",
		CLIConfig:        map[string]any{"port": 9090},
	}, cfg)
	require.NoError(t, err)

	var found bool
	for _, ev := range resolved.SecurityFindings {
		if ev.Type == "cross_source_override" && ev.Field == "port" {
			found = true
		}
	}
	assert.True(t, found, "expected a cross_source_override finding for port, got %+v", resolved.SecurityFindings)
}

func TestResolve_MissingContextRaisesError(t *testing.T) {
	_, err := Resolve(InvocationContext{}, Config{Schema: passthroughDescriptor{}})
	require.Error(t, err)
}

func TestResolve_MissingResolverRaisesError(t *testing.T) {
	_, err := Resolve(InvocationContext{WorkingDirectory: "/a"}, Config{Schema: passthroughDescriptor{}})
	require.Error(t, err)
}

func TestCheckConfig_SanitizesSensitiveFieldNames(t *testing.T) {
	doc := document.NewDocument()
	doc.Set("apiKey", document.String("super-secret"))
	doc.Set("port", document.Int(8080))

	resolved := &ResolvedConfig{Value: doc, Source: FileSource}
	report := CheckConfig(resolved, true, nil)

	var apiKeyRow, portRow *FieldProvenance
	for i := range report.Provenance {
		switch report.Provenance[i].Field {
		case "apiKey":
			apiKeyRow = &report.Provenance[i]
		case "port":
			portRow = &report.Provenance[i]
		}
	}
	require.NotNil(t, apiKeyRow)
	require.NotNil(t, portRow)
	assert.True(t, apiKeyRow.Sanitized)
	assert.Equal(t, "***", apiKeyRow.SanitizedValue)
	assert.False(t, portRow.Sanitized)
}

func TestCheckConfig_WarnsOnDeepHierarchy(t *testing.T) {
	resolved := &ResolvedConfig{
		Value:   document.NewDocument(),
		Source:  FileSource,
		Parents: []string{"/1", "/2", "/3", "/4", "/5"},
	}
	v := security.NewValidator(security.DefaultConfig(security.ProfileDevelopment))
	report := CheckConfig(resolved, false, v)
	require.Len(t, report.Warnings, 1)
	// The depth warning lands in the shared audit buffer too, not just
	// this report's local Warnings slice.
	assert.Equal(t, 1, v.Audit.Count())
}

func TestCheckConfig_NilValidatorSkipsAudit(t *testing.T) {
	resolved := &ResolvedConfig{
		Value:   document.NewDocument(),
		Source:  FileSource,
		Parents: []string{"/1", "/2", "/3", "/4", "/5"},
	}
	report := CheckConfig(resolved, false, nil)
	require.Len(t, report.Warnings, 1)
}
