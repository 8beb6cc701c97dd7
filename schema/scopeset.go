package schema

// ScopeSet is an ordered, deduplicated collection of video IDs under
// consideration for a query.
type ScopeSet []string

// NewScopeSet builds a ScopeSet, preserving first-seen order and
// dropping duplicates and empty entries.
func NewScopeSet(ids ...string) ScopeSet {
	s := make(ScopeSet, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		s = append(s, id)
	}
	return s
}

// Contains reports whether id is a member of the set.
func (s ScopeSet) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Union returns a new set holding the members of s followed by the
// members of other not already present, keeping first-seen order.
func (s ScopeSet) Union(other ScopeSet) ScopeSet {
	out := make(ScopeSet, 0, len(s)+len(other))
	out = append(out, s...)
	for _, id := range other {
		if !out.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

// Equal reports whether the two sets hold the same IDs in the same order.
func (s ScopeSet) Equal(other ScopeSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}
