package local

import (
	"cmp"
	"slices"
	"strings"

	"github.com/poiesic/seek/engine"
)

// compareFunc orders two entries.
type compareFunc func(a, b Entry) int

func byName(a, b Entry) int {
	if c := strings.Compare(strings.ToLower(a.Name()), strings.ToLower(b.Name())); c != 0 {
		return c
	}
	return strings.Compare(a.Path, b.Path)
}

func byPath(a, b Entry) int {
	if c := strings.Compare(strings.ToLower(a.Path), strings.ToLower(b.Path)); c != 0 {
		return c
	}
	return strings.Compare(a.Path, b.Path)
}

// thenByName breaks ties of key by name.
func thenByName[T cmp.Ordered](key func(Entry) T) compareFunc {
	return func(a, b Entry) int {
		if c := cmp.Compare(key(a), key(b)); c != 0 {
			return c
		}
		return byName(a, b)
	}
}

// unknownFirst maps entries without a known field below every real value.
func unknownFirst(f Field, get func(Entry) int64) func(Entry) int64 {
	return func(e Entry) int64 {
		if !e.Known.Has(f) {
			return -1
		}
		return get(e)
	}
}

func unknownFirstTime(f Field, get func(Entry) uint64) func(Entry) uint64 {
	return func(e Entry) uint64 {
		if !e.Known.Has(f) {
			return 0
		}
		return get(e)
	}
}

var comparators = map[engine.SortType]compareFunc{
	engine.SortNameAscending:         byName,
	engine.SortPathAscending:         byPath,
	engine.SortSizeAscending:         thenByName(unknownFirst(FieldSize, func(e Entry) int64 { return e.Size })),
	engine.SortExtensionAscending:    thenByName(func(e Entry) string { return e.Extension() }),
	engine.SortTypeNameAscending:     thenByName(func(e Entry) string { return e.TypeName() }),
	engine.SortDateCreatedAscending:  thenByName(unknownFirstTime(FieldCreated, func(e Entry) uint64 { return e.Created })),
	engine.SortDateModifiedAscending: thenByName(unknownFirstTime(FieldModified, func(e Entry) uint64 { return e.Modified })),
	engine.SortDateAccessedAscending: thenByName(unknownFirstTime(FieldAccessed, func(e Entry) uint64 { return e.Accessed })),
	engine.SortAttributesAscending:   thenByName(func(e Entry) uint32 { return e.Attributes }),
}

// sortEntries orders entries by the native sort code. Unknown codes sort by
// name.
func sortEntries(entries []Entry, sort engine.SortType) {
	ascending := sort
	if sort.Descending() {
		ascending = sort - 1
	}
	compare, ok := comparators[ascending]
	if !ok {
		compare = byName
		sort = engine.SortNameAscending
	}
	if sort.Descending() {
		slices.SortStableFunc(entries, func(a, b Entry) int { return compare(b, a) })
		return
	}
	slices.SortStableFunc(entries, compare)
}
