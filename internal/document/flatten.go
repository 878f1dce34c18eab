package document

// Flatten walks a Document and returns the set of dot-paths it contains,
// eliding array indices: an array of objects at path P contributes its
// children prefixed with P (items.id, never items[0].id), matching the
// elision rule the configuration core requires for both key-universe flattening and
// extra-key detection. An array of scalars at path P contributes only {P}.
func Flatten(d *Document) []string {
	var out []string
	flattenDoc(d, nil, &out)
	return out
}

func flattenDoc(d *Document, prefix []string, out *[]string) {
	if d == nil {
		return
	}
	for _, k := range d.Keys() {
		v, _ := d.Get(k)
		path := append(append([]string{}, prefix...), k)
		flattenValue(v, path, out)
	}
}

func flattenValue(v Value, path []string, out *[]string) {
	switch v.Kind() {
	case KindDocument:
		doc, _ := v.Document()
		if doc == nil || doc.Len() == 0 {
			*out = append(*out, JoinPath(path))
			return
		}
		flattenDoc(doc, path, out)
	case KindArray:
		items, _ := v.Array()
		hasObject := false
		for _, item := range items {
			if item.Kind() == KindDocument {
				hasObject = true
				flattenValue(item, path, out)
			}
		}
		if !hasObject {
			*out = append(*out, JoinPath(path))
		}
	default:
		*out = append(*out, JoinPath(path))
	}
}
