package merge

import (
	"testing"

	"github.com/confkit/confkit/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFromMap(t *testing.T, m map[string]any) *document.Document {
	t.Helper()
	v, err := document.FromAny(m)
	require.NoError(t, err)
	doc, ok := v.Document()
	require.True(t, ok)
	return doc
}

func TestMerge_ThreeLevelHierarchy(t *testing.T) {
	outer := docFromMap(t, map[string]any{
		"database": map[string]any{"host": "prod.db", "ssl": true},
		"logging":  map[string]any{"level": "warn"},
	})
	middle := docFromMap(t, map[string]any{
		"database": map[string]any{"host": "team.db"},
		"api":      map[string]any{"timeout": int64(3000)},
	})
	inner := docFromMap(t, map[string]any{
		"database": map[string]any{"host": "localhost"},
		"logging":  map[string]any{"level": "debug"},
	})

	merged, _ := Merge([]*document.Document{outer, middle, inner}, nil)

	dbv, _ := merged.Get("database")
	db, _ := dbv.Document()
	host, _ := db.Get("host")
	assert.Equal(t, "localhost", host.MustString())
	ssl, _ := db.Get("ssl")
	sslB, _ := ssl.Bool()
	assert.True(t, sslB)

	apiv, _ := merged.Get("api")
	api, _ := apiv.Document()
	timeout, _ := api.Get("timeout")
	ti, _ := timeout.Int()
	assert.Equal(t, int64(3000), ti)

	logv, _ := merged.Get("logging")
	logDoc, _ := logv.Document()
	level, _ := logDoc.Get("level")
	assert.Equal(t, "debug", level.MustString())
}

func TestMerge_ScopeRootsDeepMerge(t *testing.T) {
	lower := docFromMap(t, map[string]any{
		"scopeRoots": map[string]any{"@x": "../x", "@y": "../y"},
	})
	higher := docFromMap(t, map[string]any{
		"scopeRoots": map[string]any{"@z": "../z"},
	})
	merged, _ := Merge([]*document.Document{lower, higher}, nil)
	sv, _ := merged.Get("scopeRoots")
	sr, _ := sv.Document()
	assert.Equal(t, 3, sr.Len())
	for _, k := range []string{"@x", "@y", "@z"} {
		_, ok := sr.Get(k)
		assert.True(t, ok, "missing key %s", k)
	}
}

func TestMerge_ArrayOverlapModes(t *testing.T) {
	lower := docFromMap(t, map[string]any{"features": []any{"auth"}})
	higher := docFromMap(t, map[string]any{"features": []any{"analytics"}})

	cases := []struct {
		mode OverlapMode
		want []string
	}{
		{OverlapAppend, []string{"auth", "analytics"}},
		{OverlapPrepend, []string{"analytics", "auth"}},
		{OverlapOverride, []string{"analytics"}},
	}
	for _, c := range cases {
		table := OverlapTable{"features": c.mode}
		merged, _ := Merge([]*document.Document{lower, higher}, table)
		fv, _ := merged.Get("features")
		arr, _ := fv.Array()
		got := make([]string, len(arr))
		for i, v := range arr {
			got[i] = v.MustString()
		}
		assert.Equal(t, c.want, got, "mode=%s", c.mode)
	}

	// No rule at all: default is override.
	merged, _ := Merge([]*document.Document{lower, higher}, nil)
	fv, _ := merged.Get("features")
	arr, _ := fv.Array()
	assert.Equal(t, []string{"analytics"}, []string{arr[0].MustString()})
}

func TestMerge_PrototypePollutionResistance(t *testing.T) {
	base := document.NewDocument()
	polluted := document.NewDocument()
	document.SafeSet(polluted, []string{"__proto__", "polluted"}, document.String("x"))
	// SafeSet itself refuses the write; simulate an attacker bypassing it
	// by constructing the Document directly, to prove Merge's own rule-6
	// filter is the actual backstop.
	inner := document.NewDocument()
	inner.Set("polluted", document.String("x"))
	polluted.Set("__proto__", document.FromDocument(inner))

	merged, _ := Merge([]*document.Document{base, polluted}, nil)
	_, ok := merged.Get("__proto__")
	assert.False(t, ok, "merge must never assign __proto__")
}

func TestMerge_NullYieldsOtherSide(t *testing.T) {
	a := docFromMap(t, map[string]any{"x": "value"})
	b := docFromMap(t, map[string]any{"x": nil})
	merged, _ := Merge([]*document.Document{a, b}, nil)
	x, _ := merged.Get("x")
	assert.Equal(t, "value", x.MustString())
}

func TestMerge_ParentPathOverlapRuleInherits(t *testing.T) {
	lower := docFromMap(t, map[string]any{
		"plugins": map[string]any{
			"a": []any{"1"},
			"b": []any{"2"},
		},
	})
	higher := docFromMap(t, map[string]any{
		"plugins": map[string]any{
			"a": []any{"1b"},
			"b": []any{"2b"},
		},
	})
	table := OverlapTable{"plugins": OverlapAppend}
	merged, diag := Merge([]*document.Document{lower, higher}, table)

	pv, _ := merged.Get("plugins")
	p, _ := pv.Document()
	av, _ := p.Get("a")
	arr, _ := av.Array()
	assert.Equal(t, []string{"1", "1b"}, []string{arr[0].MustString(), arr[1].MustString()})

	assert.ElementsMatch(t, []string{"plugins.a", "plugins.b"}, diag.ParentRuleApplications["plugins"])
}
