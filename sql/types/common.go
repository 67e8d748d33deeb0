package types

// Common computes the SQL numeric-promotion common type of two types:
// signed-wider wins; decimal scale is max-merged; integer+decimal widens
// to decimal; any+floating-point widens to fp64; string+string resolves
// to the common text/dictionary type. Common is commutative and
// idempotent: Common(a,b) == Common(b,a) and Common(a,a) == a, modulo
// nullability which always widens to "either nullable".
func Common(a, b Type) (Type, error) {
	if a == nil || b == nil {
		return nil, ErrTypeUnification("nil type")
	}
	if _, ok := a.(*NullType); ok {
		return b, nil
	}
	if _, ok := b.(*NullType); ok {
		return a, nil
	}

	nullable := a.Nullable() || b.Nullable()

	// Floating point absorbs everything numeric.
	if a.Kind() == KindFloatingPoint || b.Kind() == KindFloatingPoint {
		if !isNumeric(a) || !isNumeric(b) {
			return nil, ErrTypeUnification("cannot unify floating point with non-numeric type")
		}
		return NewFloatingPoint(Fp64, nullable), nil
	}

	// Decimal absorbs integers.
	if a.Kind() == KindDecimal64 || b.Kind() == KindDecimal64 {
		if !isNumeric(a) || !isNumeric(b) {
			return nil, ErrTypeUnification("cannot unify decimal with non-numeric type")
		}
		da, aIsDec := a.(*Decimal64Type)
		db, bIsDec := b.(*Decimal64Type)
		switch {
		case aIsDec && bIsDec:
			scale := maxInt(da.Scale, db.Scale)
			whole := maxInt(da.Precision-da.Scale, db.Precision-db.Scale)
			prec := minInt(19, whole+scale)
			return NewDecimal64(prec, scale, nullable), nil
		case aIsDec:
			return NewDecimal64(da.Precision, da.Scale, nullable), nil
		default:
			return NewDecimal64(db.Precision, db.Scale, nullable), nil
		}
	}

	// Integer + integer: signed-wider wins (both types here are the Integer
	// kind; this type system does not separately track signedness, so
	// "wider" means larger Width).
	if a.Kind() == KindInteger && b.Kind() == KindInteger {
		ia, ib := a.(*IntegerType), b.(*IntegerType)
		width := maxInt(ia.Width, ib.Width)
		return NewInteger(width, nullable), nil
	}

	// Text / ExtDictionary: common text-ish type.
	if isTextLike(a) && isTextLike(b) {
		return commonText(a, b, nullable), nil
	}

	if a.Kind() == b.Kind() {
		return a.WithNullable(nullable), nil
	}

	return nil, ErrTypeUnification("no common type for " + a.String() + " and " + b.String())
}

func isNumeric(t Type) bool {
	switch t.Kind() {
	case KindInteger, KindFloatingPoint, KindDecimal64:
		return true
	default:
		return false
	}
}

func isTextLike(t Type) bool {
	switch t.Kind() {
	case KindText, KindExtDictionary:
		return true
	default:
		return false
	}
}

// commonText implements dictionary-comparison rules: comparing
// an ext-dictionary column with a non-encoded string forces compression of
// the non-encoded side for the common type, i.e. the common type keeps the
// dictionary encoding when one side already has it. When both sides are
// ExtDictionary with different dictionary ids, the common type decompresses
// to plain Text (a translation map is required downstream; see
// sql/hashjoin's dictionary translation step for the join case).
func commonText(a, b Type, nullable bool) Type {
	da, aIsDict := a.(*ExtDictionaryType)
	db, bIsDict := b.(*ExtDictionaryType)
	switch {
	case aIsDict && bIsDict:
		if da.DictionaryID == db.DictionaryID {
			return da.WithNullable(nullable)
		}
		return NewText(nullable)
	case aIsDict:
		return da.WithNullable(nullable)
	case bIsDict:
		return db.WithNullable(nullable)
	default:
		return NewText(nullable)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
