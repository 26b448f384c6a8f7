package store

// Diff is the result of comparing two key sets.
type Diff struct {
	Added   []string
	Updated []string
	Removed []string
}

// DiffKeys computes the three-way diff between an old and a new key set.
// Order follows the input slices, so callers iterating insertion-ordered
// keys get a deterministic result. Pure; the reconciler and the sync
// adapter both build on it.
func DiffKeys(oldKeys, newKeys []string) Diff {
	oldSet := make(map[string]struct{}, len(oldKeys))
	for _, k := range oldKeys {
		oldSet[k] = struct{}{}
	}
	newSet := make(map[string]struct{}, len(newKeys))
	for _, k := range newKeys {
		newSet[k] = struct{}{}
	}

	var d Diff
	for _, k := range newKeys {
		if _, ok := oldSet[k]; ok {
			d.Updated = append(d.Updated, k)
		} else {
			d.Added = append(d.Added, k)
		}
	}
	for _, k := range oldKeys {
		if _, ok := newSet[k]; !ok {
			d.Removed = append(d.Removed, k)
		}
	}
	return d
}
