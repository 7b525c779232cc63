package domain

// Patch is a field update set: stored field name to its new value. Only the
// fields present are written; stores apply it generically.
type Patch map[string]any

// Set records *v under field when v is non-nil.
func Set[T any](p Patch, field string, v *T) {
	if v != nil {
		p[field] = *v
	}
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool { return len(p) == 0 }
