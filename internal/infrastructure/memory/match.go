package memory

import "fmt"

// eqInt64 compares a predicate value against an int64 field, accepting the
// integer types callers realistically pass.
func eqInt64(v any, want int64) bool {
	switch n := v.(type) {
	case int:
		return int64(n) == want
	case int64:
		return n == want
	case float64:
		return n == float64(want)
	default:
		return false
	}
}

func eqString(v any, want string) bool {
	s, ok := v.(string)
	return ok && s == want
}

func unknownField(field string) error {
	return fmt.Errorf("unknown predicate field %q", field)
}
