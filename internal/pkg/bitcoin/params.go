package bitcoin

// positional builds a parameter list for a method with optional trailing
// arguments. Trailing nils are dropped so the node applies its own
// defaults; a nil followed by a set value stays as a JSON null so the
// later value keeps its position.
//
// Callers must pass optionals through pointers.Value: a typed nil boxed
// into an interface is not nil.
func positional(params ...any) []any {
	n := len(params)
	for n > 0 && params[n-1] == nil {
		n--
	}

	out := make([]any, n)
	copy(out, params[:n])

	return out
}

func optionalList[T any](values []T) any {
	if len(values) == 0 {
		return nil
	}

	return values
}

func requiredList[T any](values []T) []T {
	if values == nil {
		return []T{}
	}

	return values
}
