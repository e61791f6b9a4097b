package local

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/poiesic/seek/engine"
)

// Engine answers searches from an Index. Like the engines it stands in for,
// it keeps one staged configuration and one result window, so it must not be
// used from several goroutines at once; wrap it in a seek.Executor.
type Engine struct {
	index  *Index
	logger *slog.Logger

	query    query
	sort     engine.SortType
	flags    engine.RequestFlags
	offset   uint32
	max      uint32
	results  []Entry
	executed bool
}

var _ engine.Engine = (*Engine)(nil)

// NewEngine creates an engine over index.
func NewEngine(index *Index, opts ...Option) (*Engine, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Engine{
		index:  index,
		logger: o.logger,
		sort:   engine.SortNameAscending,
		flags:  engine.RequestFileName | engine.RequestPath,
		max:    math.MaxUint32,
	}, nil
}

func (e *Engine) SetSearch(pattern string, regex bool) {
	e.query.pattern = pattern
	e.query.regex = regex
}

func (e *Engine) SetMatchCase(enabled bool)      { e.query.matchCase = enabled }
func (e *Engine) SetMatchPath(enabled bool)      { e.query.matchPath = enabled }
func (e *Engine) SetMatchWholeWord(enabled bool) { e.query.matchWholeWord = enabled }

func (e *Engine) SetSort(sort engine.SortType) {
	e.sort = sort
}

func (e *Engine) SetRequestFlags(flags engine.RequestFlags) {
	e.flags = flags
}

func (e *Engine) SetRange(offset, max uint32) {
	e.offset = offset
	e.max = max
}

// Execute runs the staged search over the whole index, sorts the matches,
// and keeps the configured window.
func (e *Engine) Execute() error {
	e.results = nil
	e.executed = false

	m, err := compile(e.query)
	if err != nil {
		return err
	}

	var matches []Entry
	err = e.index.ForEach(context.Background(), func(entry Entry) error {
		ok, err := m.match(entry)
		if err != nil {
			e.logger.Warn("regex match failed", "path", entry.Path, "err", err)
			return nil
		}
		if ok {
			matches = append(matches, entry)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("engine query: %w", err)
	}

	sortEntries(matches, e.sort)

	start := min(uint64(e.offset), uint64(len(matches)))
	end := min(start+uint64(e.max), uint64(len(matches)))
	e.results = matches[start:end]
	e.executed = true
	return nil
}

func (e *Engine) ResultCount() uint32 {
	return uint32(len(e.results))
}

func (e *Engine) ResultType(i uint32) engine.Classification {
	if int(i) >= len(e.results) {
		return 0
	}
	return e.results[i].Class
}

// result returns the entry at i after checking that results exist and that
// the caller requested the field behind flag.
func (e *Engine) result(op string, i uint32, flag engine.RequestFlags) (Entry, error) {
	if !e.executed {
		return Entry{}, &engine.Error{Op: op, Code: engine.ErrorInvalidCall}
	}
	if int(i) >= len(e.results) {
		return Entry{}, &engine.Error{Op: op, Code: engine.ErrorInvalidIndex}
	}
	if !e.flags.Has(flag) {
		return Entry{}, &engine.Error{Op: op, Code: engine.ErrorInvalidRequest}
	}
	return e.results[i], nil
}

func (e *Engine) ResultPath(i uint32) (string, error) {
	r, err := e.result("full path", i, engine.RequestFullPathAndFileName)
	if err != nil {
		return "", err
	}
	return r.Path, nil
}

func (e *Engine) ResultSize(i uint32) (int64, error) {
	r, err := e.result("size", i, engine.RequestSize)
	if err != nil {
		return 0, err
	}
	if !r.Known.Has(FieldSize) {
		return 0, fmt.Errorf("%w: size of %s", engine.ErrUnavailable, r.Path)
	}
	return r.Size, nil
}

func (e *Engine) ResultDateCreated(i uint32) (uint64, error) {
	return e.resultTime("date created", i, engine.RequestDateCreated, FieldCreated, func(r Entry) uint64 { return r.Created })
}

func (e *Engine) ResultDateModified(i uint32) (uint64, error) {
	return e.resultTime("date modified", i, engine.RequestDateModified, FieldModified, func(r Entry) uint64 { return r.Modified })
}

func (e *Engine) ResultDateAccessed(i uint32) (uint64, error) {
	return e.resultTime("date accessed", i, engine.RequestDateAccessed, FieldAccessed, func(r Entry) uint64 { return r.Accessed })
}

func (e *Engine) resultTime(op string, i uint32, flag engine.RequestFlags, field Field, get func(Entry) uint64) (uint64, error) {
	r, err := e.result(op, i, flag)
	if err != nil {
		return 0, err
	}
	if !r.Known.Has(field) {
		return 0, fmt.Errorf("%w: %s of %s", engine.ErrUnavailable, op, r.Path)
	}
	return get(r), nil
}

func (e *Engine) ResultAttributes(i uint32) (uint32, error) {
	r, err := e.result("attributes", i, engine.RequestAttributes)
	if err != nil {
		return 0, err
	}
	if !r.Known.Has(FieldAttributes) {
		return 0, fmt.Errorf("%w: attributes of %s", engine.ErrUnavailable, r.Path)
	}
	return r.Attributes, nil
}
