package model

// Relation is a related entity that is either already attached (Resolved) or
// must still be looked up by foreign key (Unresolved). Field resolvers branch
// on IsResolved instead of probing for a missing value.
type Relation[T any] struct {
	resolved bool
	value    *T
}

// Resolved wraps a related entity produced by a join.
func Resolved[T any](v *T) Relation[T] {
	return Relation[T]{resolved: true, value: v}
}

// Unresolved marks a relation that was not fetched with its parent row.
func Unresolved[T any]() Relation[T] {
	return Relation[T]{}
}

func (r Relation[T]) IsResolved() bool { return r.resolved }

// Get returns the attached entity and whether the relation was resolved.
func (r Relation[T]) Get() (*T, bool) {
	return r.value, r.resolved
}
