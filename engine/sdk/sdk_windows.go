//go:build windows

package sdk

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/poiesic/seek/engine"
	"golang.org/x/sys/windows"
)

const invalidFileAttributes = 0xFFFFFFFF

// Engine calls into the Everything SDK. All methods act on the library's
// global state.
type Engine struct {
	// pendingErr rejects a staged pattern the library cannot accept; Execute
	// reports it instead of querying.
	pendingErr error

	setSearch         *windows.LazyProc
	setRegex          *windows.LazyProc
	setMatchCase      *windows.LazyProc
	setMatchPath      *windows.LazyProc
	setMatchWholeWord *windows.LazyProc
	setSort           *windows.LazyProc
	setRequestFlags   *windows.LazyProc
	setOffset         *windows.LazyProc
	setMax            *windows.LazyProc
	query             *windows.LazyProc
	getLastError      *windows.LazyProc
	getNumResults     *windows.LazyProc
	isFileResult      *windows.LazyProc
	isFolderResult    *windows.LazyProc
	isVolumeResult    *windows.LazyProc
	getFullPathName   *windows.LazyProc
	getSize           *windows.LazyProc
	getDateCreated    *windows.LazyProc
	getDateModified   *windows.LazyProc
	getDateAccessed   *windows.LazyProc
	getAttributes     *windows.LazyProc
}

var _ engine.Engine = (*Engine)(nil)

var (
	openOnce sync.Once
	handle   *Engine
	openErr  error
)

// Open loads the SDK library and returns the process-wide handle.
func Open() (engine.Engine, error) {
	openOnce.Do(func() {
		handle, openErr = load(libraryName())
	})
	if openErr != nil {
		return nil, openErr
	}
	return handle, nil
}

func libraryName() string {
	if runtime.GOARCH == "386" {
		return "Everything32.dll"
	}
	return "Everything64.dll"
}

func load(name string) (*Engine, error) {
	dll := windows.NewLazyDLL(name)
	if err := dll.Load(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLibraryUnavailable, name, err)
	}

	e := &Engine{}
	procs := []struct {
		dst  **windows.LazyProc
		name string
	}{
		{&e.setSearch, "Everything_SetSearchW"},
		{&e.setRegex, "Everything_SetRegex"},
		{&e.setMatchCase, "Everything_SetMatchCase"},
		{&e.setMatchPath, "Everything_SetMatchPath"},
		{&e.setMatchWholeWord, "Everything_SetMatchWholeWord"},
		{&e.setSort, "Everything_SetSort"},
		{&e.setRequestFlags, "Everything_SetRequestFlags"},
		{&e.setOffset, "Everything_SetOffset"},
		{&e.setMax, "Everything_SetMax"},
		{&e.query, "Everything_QueryW"},
		{&e.getLastError, "Everything_GetLastError"},
		{&e.getNumResults, "Everything_GetNumResults"},
		{&e.isFileResult, "Everything_IsFileResult"},
		{&e.isFolderResult, "Everything_IsFolderResult"},
		{&e.isVolumeResult, "Everything_IsVolumeResult"},
		{&e.getFullPathName, "Everything_GetResultFullPathNameW"},
		{&e.getSize, "Everything_GetResultSize"},
		{&e.getDateCreated, "Everything_GetResultDateCreated"},
		{&e.getDateModified, "Everything_GetResultDateModified"},
		{&e.getDateAccessed, "Everything_GetResultDateAccessed"},
		{&e.getAttributes, "Everything_GetResultAttributes"},
	}
	for _, p := range procs {
		proc := dll.NewProc(p.name)
		if err := proc.Find(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLibraryUnavailable, p.name, err)
		}
		*p.dst = proc
	}
	return e, nil
}

func boolArg(b bool) uintptr {
	if b {
		return 1
	}
	return 0
}

func (e *Engine) SetSearch(pattern string, regex bool) {
	e.pendingErr = checkPattern(pattern)
	if e.pendingErr != nil {
		return
	}
	p, err := windows.UTF16PtrFromString(pattern)
	if err != nil {
		e.pendingErr = fmt.Errorf("%w: %v", engine.ErrPatternRejected, err)
		return
	}
	e.setSearch.Call(uintptr(unsafe.Pointer(p)))
	e.setRegex.Call(boolArg(regex))
	runtime.KeepAlive(p)
}

func (e *Engine) SetMatchCase(enabled bool)      { e.setMatchCase.Call(boolArg(enabled)) }
func (e *Engine) SetMatchPath(enabled bool)      { e.setMatchPath.Call(boolArg(enabled)) }
func (e *Engine) SetMatchWholeWord(enabled bool) { e.setMatchWholeWord.Call(boolArg(enabled)) }

func (e *Engine) SetSort(sort engine.SortType) {
	e.setSort.Call(uintptr(sort))
}

func (e *Engine) SetRequestFlags(flags engine.RequestFlags) {
	e.setRequestFlags.Call(uintptr(flags))
}

func (e *Engine) SetRange(offset, max uint32) {
	e.setOffset.Call(uintptr(offset))
	e.setMax.Call(uintptr(max))
}

func (e *Engine) Execute() error {
	if e.pendingErr != nil {
		return e.pendingErr
	}
	ok, _, _ := e.query.Call(1)
	if ok != 0 {
		return nil
	}
	return e.lastError("query")
}

func (e *Engine) lastError(op string) error {
	code, _, _ := e.getLastError.Call()
	return &engine.Error{Op: op, Code: engine.ErrorCode(code)}
}

func (e *Engine) ResultCount() uint32 {
	n, _, _ := e.getNumResults.Call()
	return uint32(n)
}

func (e *Engine) ResultType(i uint32) engine.Classification {
	var c engine.Classification
	if r, _, _ := e.isFileResult.Call(uintptr(i)); r != 0 {
		c |= engine.ClassFile
	}
	if r, _, _ := e.isFolderResult.Call(uintptr(i)); r != 0 {
		c |= engine.ClassFolder
	}
	if r, _, _ := e.isVolumeResult.Call(uintptr(i)); r != 0 {
		c |= engine.ClassVolume
	}
	return c
}

func (e *Engine) ResultPath(i uint32) (string, error) {
	// A nil buffer asks for the length without the terminator.
	n, _, _ := e.getFullPathName.Call(uintptr(i), 0, 0)
	if n == 0 {
		return "", e.lastError("full path")
	}
	buf := make([]uint16, n+1)
	copied, _, _ := e.getFullPathName.Call(uintptr(i), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if copied == 0 {
		return "", e.lastError("full path")
	}
	return windows.UTF16ToString(buf[:copied]), nil
}

func (e *Engine) ResultSize(i uint32) (int64, error) {
	var size int64
	ok, _, _ := e.getSize.Call(uintptr(i), uintptr(unsafe.Pointer(&size)))
	if ok == 0 {
		return 0, e.lastError("size")
	}
	return size, nil
}

func (e *Engine) ResultDateCreated(i uint32) (uint64, error) {
	return e.filetime(e.getDateCreated, "date created", i)
}

func (e *Engine) ResultDateModified(i uint32) (uint64, error) {
	return e.filetime(e.getDateModified, "date modified", i)
}

func (e *Engine) ResultDateAccessed(i uint32) (uint64, error) {
	return e.filetime(e.getDateAccessed, "date accessed", i)
}

func (e *Engine) filetime(proc *windows.LazyProc, op string, i uint32) (uint64, error) {
	var ft windows.Filetime
	ok, _, _ := proc.Call(uintptr(i), uintptr(unsafe.Pointer(&ft)))
	if ok == 0 {
		return 0, e.lastError(op)
	}
	return uint64(ft.HighDateTime)<<32 | uint64(ft.LowDateTime), nil
}

func (e *Engine) ResultAttributes(i uint32) (uint32, error) {
	attrs, _, _ := e.getAttributes.Call(uintptr(i))
	if uint32(attrs) == invalidFileAttributes {
		return 0, e.lastError("attributes")
	}
	return uint32(attrs), nil
}
