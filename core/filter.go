package core

// QueryFilter restricts retrieval results by stored metadata. Zero-valued
// fields are inactive; a nil filter matches everything.
//
// Version and Source are exact-match. Tags uses subset semantics: a chunk
// matches only if its stored tag set is a superset of the requested tags,
// so stored {"api","guide"} satisfies a filter of {"api"}.
type QueryFilter struct {
	Version string   `json:"version,omitempty"`
	Source  string   `json:"source,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Matches reports whether the metadata record passes every active filter.
func (f *QueryFilter) Matches(m Metadata) bool {
	if f == nil {
		return true
	}
	if f.Version != "" && m.Version() != f.Version {
		return false
	}
	if f.Source != "" && m.Source() != f.Source {
		return false
	}
	if len(f.Tags) > 0 {
		stored := m.TagSet()
		for _, tag := range f.Tags {
			if _, ok := stored[tag]; !ok {
				return false
			}
		}
	}
	return true
}
