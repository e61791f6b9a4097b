package engine

// Engine is a handle to a stateful file-search engine.
//
// The Set* methods stage configuration for the next Execute call. After a
// successful Execute, the Result* methods read the visible result window,
// indexed from zero regardless of the configured offset. Implementations are
// not required to be safe for concurrent use.
type Engine interface {
	// SetSearch sets the search expression and whether it is a regular expression.
	SetSearch(pattern string, regex bool)

	// SetMatchCase enables case-sensitive matching.
	SetMatchCase(enabled bool)

	// SetMatchPath matches the expression against full paths instead of names.
	SetMatchPath(enabled bool)

	// SetMatchWholeWord restricts plain terms to whole-word matches.
	SetMatchWholeWord(enabled bool)

	// SetSort selects the native sort order of the result set.
	SetSort(sort SortType)

	// SetRequestFlags selects which per-result fields the engine must provide.
	SetRequestFlags(flags RequestFlags)

	// SetRange limits the result window to max results starting at offset.
	SetRange(offset, max uint32)

	// Execute runs the staged query. It fails if the pattern is rejected or
	// the engine cannot be reached.
	Execute() error

	// ResultCount returns the number of results in the visible window.
	ResultCount() uint32

	// ResultType returns the classification bits of result i.
	ResultType(i uint32) Classification

	// ResultPath returns the full path of result i.
	ResultPath(i uint32) (string, error)

	// ResultSize returns the size in bytes of result i.
	ResultSize(i uint32) (int64, error)

	// ResultDateCreated returns the creation time of result i as a FILETIME.
	ResultDateCreated(i uint32) (uint64, error)

	// ResultDateModified returns the modification time of result i as a FILETIME.
	ResultDateModified(i uint32) (uint64, error)

	// ResultDateAccessed returns the access time of result i as a FILETIME.
	ResultDateAccessed(i uint32) (uint64, error)

	// ResultAttributes returns the raw attribute bits of result i.
	ResultAttributes(i uint32) (uint32, error)
}
