package document

// UnsafeKeys are never assigned into a Document at any depth, guarding
// against prototype/key injection via nested-path writes.
var UnsafeKeys = map[string]bool{
	"__proto__":   true,
	"constructor": true,
	"prototype":   true,
}

// IsUnsafeKey reports whether key must never be assigned.
func IsUnsafeKey(key string) bool {
	return UnsafeKeys[key]
}

// SafeSet assigns a value at a dot-separated path, creating intermediate
// Documents as needed, but refuses to write through or to any path segment
// that is an unsafe key. It returns false (and performs no mutation at all)
// if any segment of path is unsafe.
//
// This is the single primitive nested-path writers in this module must use;
// a bare map/document assignment that only checks the leaf segment would
// still let an attacker reach Object-prototype-style keys through an
// intermediate segment.
func SafeSet(root *Document, path []string, v Value) bool {
	if len(path) == 0 {
		return false
	}
	for _, seg := range path {
		if IsUnsafeKey(seg) {
			return false
		}
	}
	cur := root
	for i, seg := range path {
		if i == len(path)-1 {
			cur.Set(seg, v)
			return true
		}
		next, ok := cur.Get(seg)
		if !ok || next.Kind() != KindDocument {
			child := NewDocument()
			cur.Set(seg, FromDocument(child))
			cur = child
			continue
		}
		childDoc, _ := next.Document()
		cur = childDoc
	}
	return true
}

// SafeSetDotted is a convenience wrapper over SafeSet for a "a.b.c"
// dot-path string.
func SafeSetDotted(root *Document, dotted string, v Value) bool {
	return SafeSet(root, SplitPath(dotted), v)
}

// SplitPath splits a dot-separated path string into segments. Empty input
// yields a nil slice.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	var segs []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			segs = append(segs, path[start:i])
			start = i + 1
		}
	}
	segs = append(segs, path[start:])
	return segs
}

// JoinPath is the inverse of SplitPath.
func JoinPath(segs []string) string {
	out := ""
	for i, s := range segs {
		if i > 0 {
			out += "."
		}
		out += s
	}
	return out
}
