package schema

import (
	"testing"

	"github.com/confkit/confkit/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticDescriptor struct {
	fields []Field
}

func (d staticDescriptor) Fields() []Field                            { return d.fields }
func (d staticDescriptor) Validate(*document.Document) []FieldFailure { return nil }

func docFromMap(t *testing.T, m map[string]any) *document.Document {
	t.Helper()
	v, err := document.FromAny(m)
	require.NoError(t, err)
	doc, _ := v.Document()
	return doc
}

func TestFlattenKeys_AlwaysAllowedTopLevel(t *testing.T) {
	ku := FlattenKeys(staticDescriptor{})
	for _, k := range AlwaysAllowedTopLevel {
		assert.True(t, ku.Allowed[k])
	}
}

func TestExtraKeys_OpenMapScenario(t *testing.T) {
	desc := staticDescriptor{fields: []Field{
		{Path: "metadata", Kind: KindOpenMap},
		{Path: "config", Kind: KindObject},
		{Path: "config.port", Kind: KindScalar},
	}}
	ku := FlattenKeys(desc)

	doc := docFromMap(t, map[string]any{
		"metadata": map[string]any{"anything": "x"},
		"config":   map[string]any{"port": int64(8080), "extraKey": int64(1)},
	})

	offending, allowed := ExtraKeys(doc, ku)
	require.Len(t, offending, 1)
	assert.Equal(t, "config.extraKey", offending[0])
	assert.Contains(t, allowed, "config.port")
}

func TestKeyUniverse_OpenPrefixAllowsDescendants(t *testing.T) {
	ku := KeyUniverse{Allowed: map[string]bool{}, OpenPrefixes: map[string]bool{"metadata": true}}
	assert.True(t, ku.IsAllowed("metadata.anything.nested"))
	assert.False(t, ku.IsAllowed("metadatax.other"))
}
