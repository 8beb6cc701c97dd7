package schema

import "strings"

// CatalogEntry maps a human-readable video name to its ID.
type CatalogEntry struct {
	Name    string `json:"name"`
	VideoID string `json:"video_id"`
}

// Catalog is the ordered name-to-ID mapping of the videos available to a
// query. It is supplied per call rather than cached, since videos can be
// added or removed between calls. Insertion order is significant:
// ordinal phrasing like "lecture 2" resolves to the second entry.
type Catalog []CatalogEntry

// IDs returns every video ID in catalog order.
func (c Catalog) IDs() ScopeSet {
	ids := make([]string, 0, len(c))
	for _, e := range c {
		ids = append(ids, e.VideoID)
	}
	return NewScopeSet(ids...)
}

// ResolveName resolves a video name to its ID, case-insensitively.
func (c Catalog) ResolveName(name string) (string, bool) {
	for _, e := range c {
		if strings.EqualFold(e.Name, name) {
			return e.VideoID, true
		}
	}
	return "", false
}

// Ordinal returns the ID of the n-th catalog entry, 1-based.
func (c Catalog) Ordinal(n int) (string, bool) {
	if n < 1 || n > len(c) {
		return "", false
	}
	return c[n-1].VideoID, true
}

// ContainsID reports whether id belongs to the catalog.
func (c Catalog) ContainsID(id string) bool {
	for _, e := range c {
		if e.VideoID == id {
			return true
		}
	}
	return false
}

// ValidateIDs checks that every ID in the set exists in the catalog and
// returns the first unknown ID, if any.
func (c Catalog) ValidateIDs(ids ScopeSet) (string, bool) {
	for _, id := range ids {
		if !c.ContainsID(id) {
			return id, false
		}
	}
	return "", true
}
