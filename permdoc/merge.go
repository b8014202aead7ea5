package permdoc

// Merge deep-merges override onto base and returns a new document.
// Neither input is modified.
//
// When both sides hold a mapping under the same key the mappings are
// merged recursively. In every other case the override value replaces the
// base value outright, including an explicit false and a scalar replacing a
// mapping. Keys absent from override keep their base value.
func Merge(base, override Document) Document {
	out := base.Clone()
	for k, ov := range override {
		if bm, ok := asMap(out[k]); ok {
			if om, ok := asMap(ov); ok {
				out[k] = mergeMaps(bm, om)
				continue
			}
		}
		out[k] = cloneValue(ov)
	}
	return out
}

// mergeMaps merges om into bm in place. bm must belong to the cloned result.
func mergeMaps(bm, om map[string]any) map[string]any {
	for k, ov := range om {
		if bv, ok := asMap(bm[k]); ok {
			if ovm, ok := asMap(ov); ok {
				bm[k] = mergeMaps(bv, ovm)
				continue
			}
		}
		bm[k] = cloneValue(ov)
	}
	return bm
}
