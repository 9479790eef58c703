package repository

// Predicate is an exact-match lookup: every listed field must equal its
// value (AND semantics). Field names are the entity's JSON names; backends
// reject fields they do not know rather than silently matching nothing.
type Predicate map[string]any
