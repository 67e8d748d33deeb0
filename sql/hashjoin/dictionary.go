package hashjoin

import (
	"strconv"

	"github.com/OneOfOne/xxhash"
)

// DictionaryTranslation maps string-dictionary ids from one dictionary to
// another, needed when a hash join's two sides were encoded against
// different ExtDictionaryType dictionaries. The
// mapping itself is supplied by the catalog/dictionary-proxy collaborator,
// which keeps external to this module; this type only adapts it
// into the build protocol's ColumnSource shape.
type DictionaryTranslation struct {
	// Lookup resolves a source-dictionary id to its destination-dictionary
	// id, or false if the source value has no counterpart in the
	// destination dictionary (the row then reads as null, so the build
	// skips it, while it still counts in Len()).
	Lookup func(sourceID int32) (destID int32, ok bool)
}

// Translate wraps src so every value it reports has already been passed
// through the translation map; un-mappable values surface as null so the
// build's null-skipping logic excludes them from the table exactly like a
// genuinely null key.
func (d *DictionaryTranslation) Translate(src ColumnSource) ColumnSource {
	return &translatedSource{inner: src, translation: d}
}

type translatedSource struct {
	inner       ColumnSource
	translation *DictionaryTranslation
}

func (t *translatedSource) Len() int { return t.inner.Len() }

func (t *translatedSource) At(i int) (int64, bool) {
	v, isNull := t.inner.At(i)
	if isNull {
		return 0, true
	}
	dest, ok := t.translation.Lookup(int32(v))
	if !ok {
		return 0, true
	}
	return int64(dest), false
}

// TranslationCacheKey derives a stable key for caching a dictionary
// translation map itself (distinct from a built HashTable's CacheKey),
// hashed with xxhash since the translation table can be as large as the
// dictionaries themselves and is worth memoizing across queries that
// repeat the same (source, dest) dictionary pair.
func TranslationCacheKey(sourceDictionaryID, destDictionaryID int) string {
	h := xxhash.New64()
	h.WriteString(strconv.Itoa(sourceDictionaryID))
	h.WriteString("->")
	h.WriteString(strconv.Itoa(destDictionaryID))
	return strconv.FormatUint(h.Sum64(), 16)
}
