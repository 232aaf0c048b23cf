package utils

// Value dereferences v, giving the zero value for nil. Optional wire fields
// such as a reservation's parking cost decode to nil until the backend fills
// them in.
func Value[T any](v *T) T {
	var zero T
	return ValueOr(v, zero)
}

// ValueOr dereferences v, falling back to def for nil.
func ValueOr[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}
