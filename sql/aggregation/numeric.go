package aggregation

// toFloat64 widens any of the scalar Go types an Accumulator sees (the
// values produced by row_func) into a float64
// for comparison and arithmetic, reporting false for anything else.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int16:
		return float64(n), true
	case int8:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

// isIntegerValue reports whether v has one of the Go integer types, so a
// running total can keep its integer result type and Eval doesn't
// silently widen every integer aggregate to float64.
func isIntegerValue(v any) bool {
	switch v.(type) {
	case int64, int32, int16, int8, int:
		return true
	default:
		return false
	}
}

// compareNumeric returns -1, 0 or 1 as a is less than, equal to or greater
// than b. Callers only use this once both operands already passed
// toFloat64's ok check.
func compareNumeric(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
