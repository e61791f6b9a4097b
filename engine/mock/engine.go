package mock

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/poiesic/seek/engine"
)

// Result is one scripted search result. A non-nil error field makes the
// corresponding lookup fail with that error.
type Result struct {
	Path       string
	Class      engine.Classification
	Size       int64
	Created    uint64
	Modified   uint64
	Accessed   uint64
	Attributes uint32

	PathErr       error
	SizeErr       error
	CreatedErr    error
	ModifiedErr   error
	AccessedErr   error
	AttributesErr error
}

// File returns a file result.
func File(path string) Result {
	return Result{Path: path, Class: engine.ClassFile}
}

// Folder returns a folder result.
func Folder(path string) Result {
	return Result{Path: path, Class: engine.ClassFolder, Attributes: engine.AttributeDirectory}
}

// Volume returns a volume result.
func Volume(path string) Result {
	return Result{Path: path, Class: engine.ClassVolume, Attributes: engine.AttributeDirectory}
}

func (r Result) WithSize(size int64) Result { r.Size = size; return r }

func (r Result) WithTimes(created, modified, accessed uint64) Result {
	r.Created, r.Modified, r.Accessed = created, modified, accessed
	return r
}

func (r Result) WithAttributes(attrs uint32) Result { r.Attributes = attrs; return r }

func (r Result) WithClass(c engine.Classification) Result { r.Class = c; return r }

// WithPathErr makes the path lookup fail.
func (r Result) WithPathErr(err error) Result { r.PathErr = err; return r }

// Config is the engine configuration staged when Execute was called.
type Config struct {
	Pattern        string
	Regex          bool
	MatchCase      bool
	MatchPath      bool
	MatchWholeWord bool
	Sort           engine.SortType
	Flags          engine.RequestFlags
	Offset         uint32
	Max            uint32
}

// Engine is a test double for engine.Engine.
type Engine struct {
	// Results is the full result set served when ResultsFunc is nil.
	Results []Result

	// ResultsFunc computes the full result set from the staged configuration.
	ResultsFunc func(cfg Config) []Result

	// ExecuteErr, when set, is returned by every Execute call.
	ExecuteErr error

	// ExecuteDelay is slept inside Execute.
	ExecuteDelay time.Duration

	// PanicOnExecute, when non-nil, is raised by Execute.
	PanicOnExecute any

	mu       sync.Mutex
	staged   Config
	window   []Result
	executed []Config
	calls    int

	active   atomic.Int32
	overlaps atomic.Int32
}

var _ engine.Engine = (*Engine)(nil)

// NewEngine creates an engine serving results.
func NewEngine(results ...Result) *Engine {
	return &Engine{Results: results}
}

// enter records a call and returns the function that ends it.
func (e *Engine) enter() func() {
	if e.active.Add(1) > 1 {
		e.overlaps.Add(1)
	}
	e.mu.Lock()
	e.calls++
	return func() {
		e.mu.Unlock()
		e.active.Add(-1)
	}
}

// Calls returns the number of engine method calls so far.
func (e *Engine) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// Overlaps returns how many calls started while another was in progress.
func (e *Engine) Overlaps() int {
	return int(e.overlaps.Load())
}

// Executed returns the configurations seen by each Execute call, in order.
func (e *Engine) Executed() []Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Config, len(e.executed))
	copy(out, e.executed)
	return out
}

// LastExecuted returns the configuration of the latest Execute call.
func (e *Engine) LastExecuted() (Config, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.executed) == 0 {
		return Config{}, false
	}
	return e.executed[len(e.executed)-1], true
}

func (e *Engine) SetSearch(pattern string, regex bool) {
	defer e.enter()()
	e.staged.Pattern = pattern
	e.staged.Regex = regex
}

func (e *Engine) SetMatchCase(enabled bool) {
	defer e.enter()()
	e.staged.MatchCase = enabled
}

func (e *Engine) SetMatchPath(enabled bool) {
	defer e.enter()()
	e.staged.MatchPath = enabled
}

func (e *Engine) SetMatchWholeWord(enabled bool) {
	defer e.enter()()
	e.staged.MatchWholeWord = enabled
}

func (e *Engine) SetSort(sort engine.SortType) {
	defer e.enter()()
	e.staged.Sort = sort
}

func (e *Engine) SetRequestFlags(flags engine.RequestFlags) {
	defer e.enter()()
	e.staged.Flags = flags
}

func (e *Engine) SetRange(offset, max uint32) {
	defer e.enter()()
	e.staged.Offset = offset
	e.staged.Max = max
}

func (e *Engine) Execute() error {
	defer e.enter()()
	cfg := e.staged
	e.executed = append(e.executed, cfg)
	e.window = nil

	if e.ExecuteDelay > 0 {
		time.Sleep(e.ExecuteDelay)
	}
	if e.PanicOnExecute != nil {
		panic(e.PanicOnExecute)
	}
	if e.ExecuteErr != nil {
		return e.ExecuteErr
	}

	all := e.Results
	if e.ResultsFunc != nil {
		all = e.ResultsFunc(cfg)
	}
	start := min(uint64(cfg.Offset), uint64(len(all)))
	end := min(start+uint64(cfg.Max), uint64(len(all)))
	e.window = all[start:end]
	return nil
}

func (e *Engine) ResultCount() uint32 {
	defer e.enter()()
	return uint32(len(e.window))
}

// result returns the result at i. Must be called with mu held.
func (e *Engine) result(i uint32) (Result, bool) {
	if int(i) >= len(e.window) {
		return Result{}, false
	}
	return e.window[i], true
}

func (e *Engine) ResultType(i uint32) engine.Classification {
	defer e.enter()()
	r, ok := e.result(i)
	if !ok {
		return 0
	}
	return r.Class
}

func (e *Engine) ResultPath(i uint32) (string, error) {
	defer e.enter()()
	r, ok := e.result(i)
	if !ok {
		return "", invalidIndex("full path")
	}
	if r.PathErr != nil {
		return "", r.PathErr
	}
	return r.Path, nil
}

func (e *Engine) ResultSize(i uint32) (int64, error) {
	defer e.enter()()
	r, ok := e.result(i)
	if !ok {
		return 0, invalidIndex("size")
	}
	return r.Size, r.SizeErr
}

func (e *Engine) ResultDateCreated(i uint32) (uint64, error) {
	defer e.enter()()
	r, ok := e.result(i)
	if !ok {
		return 0, invalidIndex("date created")
	}
	return r.Created, r.CreatedErr
}

func (e *Engine) ResultDateModified(i uint32) (uint64, error) {
	defer e.enter()()
	r, ok := e.result(i)
	if !ok {
		return 0, invalidIndex("date modified")
	}
	return r.Modified, r.ModifiedErr
}

func (e *Engine) ResultDateAccessed(i uint32) (uint64, error) {
	defer e.enter()()
	r, ok := e.result(i)
	if !ok {
		return 0, invalidIndex("date accessed")
	}
	return r.Accessed, r.AccessedErr
}

func (e *Engine) ResultAttributes(i uint32) (uint32, error) {
	defer e.enter()()
	r, ok := e.result(i)
	if !ok {
		return 0, invalidIndex("attributes")
	}
	return r.Attributes, r.AttributesErr
}

func invalidIndex(op string) error {
	return &engine.Error{Op: op, Code: engine.ErrorInvalidIndex}
}
