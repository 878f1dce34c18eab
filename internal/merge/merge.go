// Package merge implements confkit's precedence-aware deep merger: N
// ordered source Documents (lowest precedence first) are folded pairwise
// left-to-right into one Document, honoring per-path array-overlap rules
// and refusing to ever assign an unsafe key.
//
// Merge performs its own recursive walk over document.Document values and
// does not use dario.cat/mergo, since mergo's array semantics
// (replace-only) don't implement confkit's append/prepend/override table.
// mergo (the merge library gruntwork-io/terragrunt leans on heavily for
// its own config merging) backs only MergeAnyMaps, a plain map[string]any
// helper outside the core merge path.
package merge

import (
	"dario.cat/mergo"

	"github.com/confkit/confkit/internal/document"
)

// OverlapMode is one of the three array-merge policies confkit supports.
type OverlapMode string

const (
	OverlapOverride OverlapMode = "override"
	OverlapAppend   OverlapMode = "append"
	OverlapPrepend  OverlapMode = "prepend"
)

// OverlapTable maps dot-paths to an OverlapMode.
type OverlapTable map[string]OverlapMode

// resolve implements path-resolution rule: exact match,
// then progressively shorter prefixes, then override. A parent-path rule
// applies to any array found under that subtree.
func (t OverlapTable) resolve(path []string) OverlapMode {
	if t == nil {
		return OverlapOverride
	}
	for i := len(path); i > 0; i-- {
		if mode, ok := t[document.JoinPath(path[:i])]; ok {
			return mode
		}
	}
	return OverlapOverride
}

// Diagnostics records non-fatal, informative observations made during a
// merge — e.g. a verbose note when a parent-path rule is applied to more
// than one distinct array path in a single merge.
type Diagnostics struct {
	ParentRuleApplications map[string][]string // rule path -> array paths it applied to
}

func newDiagnostics() *Diagnostics {
	return &Diagnostics{ParentRuleApplications: map[string][]string{}}
}

// Merge folds documents left-to-right, lowest precedence first: callers
// order their input so the innermost directory's document comes last and
// wins; Merge itself is a pure pairwise fold with no opinion about
// provenance.
func Merge(docs []*document.Document, overlap OverlapTable) (*document.Document, *Diagnostics) {
	diag := newDiagnostics()
	if len(docs) == 0 {
		return document.NewDocument(), diag
	}
	acc := docs[0].Clone()
	for _, next := range docs[1:] {
		acc = mergeDocuments(acc, next, overlap, nil, diag)
	}
	return acc, diag
}

// mergeDocuments applies rules 1-6 key by key. acc is the lower-precedence
// (already-accumulated) side, next is the higher-precedence side.
func mergeDocuments(acc, next *document.Document, overlap OverlapTable, path []string, diag *Diagnostics) *document.Document {
	if next == nil {
		return acc
	}
	if acc == nil {
		acc = document.NewDocument()
	}
	out := document.NewDocument()

	// Start from acc's keys to preserve rule 1 ("if either side is null,
	// the other wins") for keys only present on the lower-precedence side.
	for _, k := range acc.Keys() {
		if document.IsUnsafeKey(k) {
			continue // rule 6: unsafe keys never assigned
		}
		v, _ := acc.Get(k)
		out.Set(k, v.Clone())
	}

	for _, k := range next.Keys() {
		if document.IsUnsafeKey(k) {
			continue // rule 6
		}
		nv, _ := next.Get(k)
		childPath := append(append([]string{}, path...), k)

		av, hasAcc := out.Get(k)
		if !hasAcc || av.IsNull() {
			out.Set(k, nv.Clone()) // rule 1: other side wins over null/absent
			continue
		}
		if nv.IsNull() {
			continue // rule 1: acc's non-null value wins over a null override
		}

		merged := mergeValue(av, nv, overlap, childPath, diag)
		out.Set(k, merged)
	}

	return out
}

func mergeValue(acc, next document.Value, overlap OverlapTable, path []string, diag *Diagnostics) document.Value {
	accDoc, accIsDoc := acc.Document()
	nextDoc, nextIsDoc := next.Document()
	if accIsDoc && nextIsDoc {
		// rule 2: both maps, recurse key by key
		merged := mergeDocuments(accDoc, nextDoc, overlap, path, diag)
		return document.FromDocument(merged)
	}

	accArr, accIsArr := acc.Array()
	nextArr, nextIsArr := next.Array()
	if accIsArr && nextIsArr {
		// rule 3: both arrays, apply the resolved overlap mode
		mode := overlap.resolve(path)
		pathStr := document.JoinPath(path)
		for rulePath := range overlap {
			if isPrefixOf(document.SplitPath(rulePath), path) {
				diag.ParentRuleApplications[rulePath] = appendUnique(diag.ParentRuleApplications[rulePath], pathStr)
			}
		}
		switch mode {
		case OverlapAppend:
			return document.Array(concat(accArr, nextArr))
		case OverlapPrepend:
			return document.Array(concat(nextArr, accArr))
		default: // override, and the "no rule" default
			return document.Array(cloneAll(nextArr))
		}
	}

	// rule 4: map-vs-array or array-vs-map replaces with the
	// higher-precedence (next) side.
	if (accIsDoc && nextIsArr) || (accIsArr && nextIsDoc) {
		return next.Clone()
	}

	// rule 5: any primitive on the higher-precedence side wins.
	return next.Clone()
}

func isPrefixOf(prefix, path []string) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i := range prefix {
		if prefix[i] != path[i] {
			return false
		}
	}
	return true
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func concat(a, b []document.Value) []document.Value {
	out := make([]document.Value, 0, len(a)+len(b))
	out = append(out, cloneAll(a)...)
	out = append(out, cloneAll(b)...)
	return out
}

func cloneAll(vs []document.Value) []document.Value {
	out := make([]document.Value, len(vs))
	for i, v := range vs {
		out[i] = v.Clone()
	}
	return out
}

// MergeAnyMaps is a thin wrapper exposing dario.cat/mergo directly for
// callers that need to fold two plain map[string]any trees without
// confkit's array-overlap semantics — e.g. merging a parser's raw output
// with a set of host-supplied defaults before the result ever becomes a
// document.Document. It has no opinion about unsafe keys or arrays and
// must not be used on untrusted input without a subsequent SafeSet-based
// pass; Merge (above) is the entry point for the configuration core semantics.
func MergeAnyMaps(dst *map[string]any, src map[string]any) error {
	if *dst == nil {
		*dst = map[string]any{}
	}
	return mergo.Merge(dst, src, mergo.WithOverride)
}
