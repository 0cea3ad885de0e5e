package puzzle

import "strings"

// ParseItems splits raw group text on commas, trims each piece and drops
// empty pieces. Order is preserved; blank input yields an empty slice.
func ParseItems(input string) []string {
	out := []string{}
	for _, part := range strings.Split(input, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Index maps each item to the key of the group that owns it.
type Index map[string]GroupKey

// BuildIndex creates a fresh item→group lookup for d.
// With duplicate items the later group wins; Validate rejects such definitions.
func BuildIndex(d Definition) Index {
	idx := make(Index, TotalItems)
	for _, k := range Keys {
		for _, item := range d.groups[k-1].Items {
			idx[item] = k
		}
	}
	return idx
}

// Lookup returns the owning group of item.
func (x Index) Lookup(item string) (GroupKey, bool) {
	k, ok := x[item]
	return k, ok
}
