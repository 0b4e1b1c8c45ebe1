package catalog

// Project returns a deep copy of the resource set with every language
// record's json_files stripped. The browsing page embeds this projection
// and fetches navigation data lazily from the per-language nav files; the
// original set keeps json_files intact for emitting those files.
func Project(set *ResourceSet) *ResourceSet {
	out := set.Clone()
	for _, name := range out.Names() {
		res, _ := out.Get(name)
		for _, code := range res.Languages.Codes() {
			rec, _ := res.Languages.Get(code)
			rec.JSONFiles = nil
		}
	}
	return out
}
