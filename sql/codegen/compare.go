package codegen

import (
	"github.com/heavyql/qkernel/sql/expression"
)

// Predicate is the comparison predicate a BinaryOp lowers to — the Go
// stand-in for `llvm_icmp_pred`/`llvm_fcmp_pred` selection.
type Predicate int

const (
	PredEQ Predicate = iota
	PredNE
	PredLT
	PredLE
	PredGT
	PredGE
)

// PredicateFor maps a comparison BinaryOp to its Predicate.
func PredicateFor(op expression.BinaryOp) Predicate {
	switch op {
	case expression.OpEq, expression.OpBwEq:
		return PredEQ
	case expression.OpNotEq:
		return PredNE
	case expression.OpLt:
		return PredLT
	case expression.OpLtEq:
		return PredLE
	case expression.OpGt:
		return PredGT
	case expression.OpGtEq:
		return PredGE
	default:
		return PredEQ
	}
}

// CompareNumeric evaluates Predicate p over two already-non-null float64
// operands.
func CompareNumeric(p Predicate, lhs, rhs float64) bool {
	switch p {
	case PredEQ:
		return lhs == rhs
	case PredNE:
		return lhs != rhs
	case PredLT:
		return lhs < rhs
	case PredLE:
		return lhs <= rhs
	case PredGT:
		return lhs > rhs
	default:
		return lhs >= rhs
	}
}

// BitwiseEqual implements `<=>` lowering: `(a == b) OR (a
// IS NULL AND b IS NULL)`, so two nulls compare equal instead of
// propagating null the way plain `=` does.
func BitwiseEqual(lhs, rhs float64, lhsNull, rhsNull bool) bool {
	if lhsNull || rhsNull {
		return lhsNull && rhsNull
	}
	return lhs == rhs
}

// TupleEqual lowers a multi-column hash-join key equality to a
// conjunction of per-column equalities: all columns must be
// non-null and pairwise equal, matching plain `=` semantics per column
// rather than `<=>`.
func TupleEqual(lhs, rhs []float64, nulls []bool) bool {
	for i := range lhs {
		if nulls[i] {
			return false
		}
		if lhs[i] != rhs[i] {
			return false
		}
	}
	return true
}

// StringCompareMode discriminates how StringCompare should evaluate a
// string comparison, mirroring "both sides dictionary-encoded
// with the same dictionary" fast path vs. the general byte-comparison
// helper.
type StringCompareMode int

const (
	// StringCompareDictIDs compares two already-resolved dictionary ids
	// directly, valid only when both operands share one dictionary.
	StringCompareDictIDs StringCompareMode = iota
	// StringCompareBytes compares raw string contents, used whenever the
	// operands aren't dictionary-encoded against the same dictionary.
	StringCompareBytes
)

// StringCompare evaluates p over the contents of two strings. mode is not
// consulted: both modes compare the strings byte-wise, and dictionary ids
// reach the integer comparison path instead of this function.
func StringCompare(p Predicate, mode StringCompareMode, lhs, rhs string) bool {
	switch p {
	case PredEQ:
		return lhs == rhs
	case PredNE:
		return lhs != rhs
	case PredLT:
		return lhs < rhs
	case PredLE:
		return lhs <= rhs
	case PredGT:
		return lhs > rhs
	default:
		return lhs >= rhs
	}
}

// ArrayQuantifierMode discriminates ANY/ALL array-quantified comparison.
type ArrayQuantifierMode int

const (
	QuantifierAny ArrayQuantifierMode = iota
	QuantifierAll
)

// ArrayQuantifierCompare implements `= ANY / ALL arr`
// lowering: rather than the real runtime's `array_<mode>_<op>_<type>`
// external call taking a base pointer, this operates directly on the
// already-materialized element slice, since this module's "array" value
// representation is a plain Go slice rather than a columnar
// buffer reached through a pointer+offset pair.
func ArrayQuantifierCompare(mode ArrayQuantifierMode, p Predicate, target float64, elems []float64, elemNulls []bool) bool {
	switch mode {
	case QuantifierAny:
		for i, e := range elems {
			if elemNulls[i] {
				continue
			}
			if CompareNumeric(p, target, e) {
				return true
			}
		}
		return false
	default: // QuantifierAll
		for i, e := range elems {
			if elemNulls[i] {
				continue
			}
			if !CompareNumeric(p, target, e) {
				return false
			}
		}
		return true
	}
}
