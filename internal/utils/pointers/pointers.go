package pointers

// Helper function to create pointers for strings
func StringPtr(s string) *string {
	return &s
}

// Helper function to create pointers for ints
func IntPtr(i int) *int {
	return &i
}

func Int64Ptr(i int64) *int64 {
	return &i
}

func BoolPtr(b bool) *bool {
	return &b
}

func Float64Ptr(f float64) *float64 {
	return &f
}

// Value dereferences p into an untyped value. A nil pointer becomes an
// untyped nil, so that it can be told apart from a set zero value once
// boxed into an interface.
func Value[T any](p *T) any {
	if p == nil {
		return nil
	}

	return *p
}
