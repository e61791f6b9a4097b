package local

import (
	"testing"

	"github.com/poiesic/seek/engine"
	"github.com/stretchr/testify/assert"
)

func sortedPaths(entries []Entry, sort engine.SortType) []string {
	cp := append([]Entry(nil), entries...)
	sortEntries(cp, sort)
	paths := make([]string, len(cp))
	for i, e := range cp {
		paths[i] = e.Path
	}
	return paths
}

func TestSortEntries(t *testing.T) {
	entries := []Entry{
		{Path: "/b/zeta.txt", Class: engine.ClassFile, Size: 30, Modified: 300, Known: FieldSize | FieldModified},
		{Path: "/a/Alpha.go", Class: engine.ClassFile, Size: 10, Modified: 200, Known: FieldSize | FieldModified},
		{Path: "/c/mid", Class: engine.ClassFolder, Known: FieldModified, Modified: 100},
		{Path: "/a/beta.rs", Class: engine.ClassFile, Size: 20, Known: FieldSize},
	}

	tests := []struct {
		sort engine.SortType
		want []string
	}{
		{engine.SortNameAscending, []string{"/a/Alpha.go", "/a/beta.rs", "/c/mid", "/b/zeta.txt"}},
		{engine.SortNameDescending, []string{"/b/zeta.txt", "/c/mid", "/a/beta.rs", "/a/Alpha.go"}},
		{engine.SortPathAscending, []string{"/a/Alpha.go", "/a/beta.rs", "/b/zeta.txt", "/c/mid"}},
		{engine.SortSizeAscending, []string{"/c/mid", "/a/Alpha.go", "/a/beta.rs", "/b/zeta.txt"}},
		{engine.SortSizeDescending, []string{"/b/zeta.txt", "/a/beta.rs", "/a/Alpha.go", "/c/mid"}},
		{engine.SortExtensionAscending, []string{"/c/mid", "/a/Alpha.go", "/a/beta.rs", "/b/zeta.txt"}},
		{engine.SortDateModifiedAscending, []string{"/a/beta.rs", "/c/mid", "/a/Alpha.go", "/b/zeta.txt"}},
		{engine.SortType(99), []string{"/a/Alpha.go", "/a/beta.rs", "/c/mid", "/b/zeta.txt"}},
		{engine.SortType(98), []string{"/a/Alpha.go", "/a/beta.rs", "/c/mid", "/b/zeta.txt"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sortedPaths(entries, tt.sort), "sort %d", tt.sort)
	}
}

func TestSortEntries_Stable(t *testing.T) {
	entries := []Entry{
		{Path: "/x/same", Class: engine.ClassFile, Attributes: 1},
		{Path: "/y/same", Class: engine.ClassFile, Attributes: 1},
	}
	assert.Equal(t, []string{"/x/same", "/y/same"}, sortedPaths(entries, engine.SortAttributesAscending))
}
