package seek

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BoundKind describes one end of a Range.
type BoundKind uint8

const (
	Unbounded BoundKind = iota
	Included
	Excluded
)

// Bound is one end of a Range.
type Bound struct {
	Kind  BoundKind
	Value int
}

// IncludedBound returns a bound that includes v.
func IncludedBound(v int) Bound { return Bound{Kind: Included, Value: v} }

// ExcludedBound returns a bound that excludes v.
func ExcludedBound(v int) Bound { return Bound{Kind: Excluded, Value: v} }

// UnboundedBound returns an open bound.
func UnboundedBound() Bound { return Bound{} }

// Range selects result indices. The zero value selects everything.
type Range struct {
	Start Bound
	End   Bound
}

// NewRange returns the range between start and end.
func NewRange(start, end Bound) Range {
	return Range{Start: start, End: end}
}

// All selects every result.
func All() Range { return Range{} }

// Span selects start..end, end excluded.
func Span(start, end int) Range {
	return Range{Start: IncludedBound(start), End: ExcludedBound(end)}
}

// SpanInclusive selects start..=end, end included.
func SpanInclusive(start, end int) Range {
	return Range{Start: IncludedBound(start), End: IncludedBound(end)}
}

// From selects every result from start on.
func From(start int) Range {
	return Range{Start: IncludedBound(start)}
}

// To selects results before end.
func To(end int) Range {
	return Range{End: ExcludedBound(end)}
}

// ToInclusive selects results up to and including end.
func ToInclusive(end int) Range {
	return Range{End: IncludedBound(end)}
}

// First selects the first n results.
func First(n int) Range {
	return To(n)
}

// Normalize converts the range into an engine offset and result count. It
// never panics: negative values clamp to zero, every adjustment saturates,
// values beyond the engine's 32-bit index width saturate to its maximum, and
// an end before the start yields a count of zero.
func (r Range) Normalize() (offset, count uint32) {
	var start uint64
	switch r.Start.Kind {
	case Included:
		start = nonNegative(r.Start.Value)
	case Excluded:
		start = saturatingInc(nonNegative(r.Start.Value))
	}

	end := uint64(math.MaxUint64)
	switch r.End.Kind {
	case Included:
		end = saturatingInc(nonNegative(r.End.Value))
	case Excluded:
		end = nonNegative(r.End.Value)
	}

	offset = saturate32(start)
	stop := saturate32(end)
	if stop <= offset {
		return offset, 0
	}
	return offset, stop - offset
}

// IsEmpty reports whether the range selects nothing.
func (r Range) IsEmpty() bool {
	_, count := r.Normalize()
	return count == 0
}

func (r Range) String() string {
	var b strings.Builder
	if r.Start.Kind != Unbounded {
		start := r.Start.Value
		if r.Start.Kind == Excluded {
			// a..b syntax has no excluded start; show the equivalent included one
			if start < math.MaxInt {
				start++
			}
		}
		b.WriteString(strconv.Itoa(start))
	}
	b.WriteString("..")
	switch r.End.Kind {
	case Included:
		b.WriteString("=")
		b.WriteString(strconv.Itoa(r.End.Value))
	case Excluded:
		b.WriteString(strconv.Itoa(r.End.Value))
	}
	return b.String()
}

// ParseRange parses range expressions of the forms "..", "a..", "..b",
// "a..b", "..=b", and "a..=b". An empty string selects everything.
func ParseRange(expr string) (Range, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return All(), nil
	}
	lo, hi, ok := strings.Cut(expr, "..")
	if !ok {
		return Range{}, fmt.Errorf("%w: %q has no \"..\"", ErrInvalidRange, expr)
	}

	var r Range
	if lo = strings.TrimSpace(lo); lo != "" {
		v, err := strconv.Atoi(lo)
		if err != nil || v < 0 {
			return Range{}, fmt.Errorf("%w: bad start %q", ErrInvalidRange, lo)
		}
		r.Start = IncludedBound(v)
	}

	inclusive := strings.HasPrefix(hi, "=")
	hi = strings.TrimSpace(strings.TrimPrefix(hi, "="))
	if hi == "" {
		if inclusive {
			return Range{}, fmt.Errorf("%w: %q has no end after \"..=\"", ErrInvalidRange, expr)
		}
		return r, nil
	}
	v, err := strconv.Atoi(hi)
	if err != nil || v < 0 {
		return Range{}, fmt.Errorf("%w: bad end %q", ErrInvalidRange, hi)
	}
	if inclusive {
		r.End = IncludedBound(v)
	} else {
		r.End = ExcludedBound(v)
	}
	return r, nil
}

func nonNegative(v int) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}

func saturatingInc(v uint64) uint64 {
	if v == math.MaxUint64 {
		return v
	}
	return v + 1
}

func saturate32(v uint64) uint32 {
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
