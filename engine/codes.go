package engine

// RequestFlags selects the per-result fields an engine must provide.
type RequestFlags uint32

// Native request flags.
const (
	RequestFileName            RequestFlags = 0x00000001
	RequestPath                RequestFlags = 0x00000002
	RequestFullPathAndFileName RequestFlags = 0x00000004
	RequestExtension           RequestFlags = 0x00000008
	RequestSize                RequestFlags = 0x00000010
	RequestDateCreated         RequestFlags = 0x00000020
	RequestDateModified        RequestFlags = 0x00000040
	RequestDateAccessed        RequestFlags = 0x00000080
	RequestAttributes          RequestFlags = 0x00000100
	RequestFileListFileName    RequestFlags = 0x00000200
	RequestRunCount            RequestFlags = 0x00000400
	RequestDateRun             RequestFlags = 0x00000800
	RequestDateRecentlyChanged RequestFlags = 0x00001000
	RequestHighlightedFileName RequestFlags = 0x00002000
	RequestHighlightedPath     RequestFlags = 0x00004000
	RequestHighlightedFullPath RequestFlags = 0x00008000
)

// Has reports whether all bits of f are set.
func (r RequestFlags) Has(f RequestFlags) bool {
	return r&f == f
}

// SortType is a native sort order code.
type SortType uint32

// Native sort codes.
const (
	SortNameAscending          SortType = 1
	SortNameDescending         SortType = 2
	SortPathAscending          SortType = 3
	SortPathDescending         SortType = 4
	SortSizeAscending          SortType = 5
	SortSizeDescending         SortType = 6
	SortExtensionAscending     SortType = 7
	SortExtensionDescending    SortType = 8
	SortTypeNameAscending      SortType = 9
	SortTypeNameDescending     SortType = 10
	SortDateCreatedAscending   SortType = 11
	SortDateCreatedDescending  SortType = 12
	SortDateModifiedAscending  SortType = 13
	SortDateModifiedDescending SortType = 14
	SortAttributesAscending    SortType = 15
	SortAttributesDescending   SortType = 16
	SortDateAccessedAscending  SortType = 23
	SortDateAccessedDescending SortType = 24
)

// Descending reports whether s is one of the descending sort codes.
func (s SortType) Descending() bool {
	return s%2 == 0
}

// Classification holds the type bits an engine reports for a result.
// A well-formed result has exactly one bit set.
type Classification uint8

const (
	ClassFile Classification = 1 << iota
	ClassFolder
	ClassVolume
)

// Native file attribute bits reported by ResultAttributes.
const (
	AttributeReadOnly  uint32 = 0x00000001
	AttributeHidden    uint32 = 0x00000002
	AttributeSystem    uint32 = 0x00000004
	AttributeDirectory uint32 = 0x00000010
	AttributeArchive   uint32 = 0x00000020
	AttributeNormal    uint32 = 0x00000080
	AttributeReparse   uint32 = 0x00000400
)
