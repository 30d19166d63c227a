package songbook

// Equality is a single `field = value` constraint.
type Equality struct {
	Field string
	Value string
}

// Filter holds every constraint of a song query. All parts are combined with AND.
type Filter struct {
	SongIDs    []int64    // id IN (...)
	Artists    []string   // artist IN (...)
	Equalities []Equality // field = value, in request order
}

// Empty reports whether the filter constrains nothing.
func (f Filter) Empty() bool {
	return len(f.SongIDs) == 0 && len(f.Artists) == 0 && len(f.Equalities) == 0
}

// Query is a projection plus the filter it applies to.
type Query struct {
	Projection Projection
	Filter     Filter
}
