package rtcollections

import (
	"fmt"
	"sort"
	"strings"
)

// Interval is an inclusive range [Start, Stop] of integers.
type Interval struct {
	Start, Stop int
}

func (iv Interval) String() string {
	if iv.Start == iv.Stop {
		return fmt.Sprintf("%d", iv.Start)
	}
	return fmt.Sprintf("%d..%d", iv.Start, iv.Stop)
}

// IntervalSet is a sorted, coalesced set of disjoint Intervals. It is the
// runtime's representation of FOLLOW sets, expected-token sets, and lexer
// character ranges: anywhere the source spec calls for "a set of int
// symbols" this is the concrete type.
type IntervalSet struct {
	intervals []Interval
	readOnly  bool
}

// NewIntervalSet returns an empty, mutable IntervalSet.
func NewIntervalSet() *IntervalSet {
	return &IntervalSet{}
}

// NewIntervalSetOf returns an IntervalSet containing exactly the given
// single-valued members.
func NewIntervalSetOf(values ...int) *IntervalSet {
	s := NewIntervalSet()
	for _, v := range values {
		s.AddOne(v)
	}
	return s
}

// SetReadOnly marks the set as read-only; further mutation attempts panic.
func (s *IntervalSet) SetReadOnly(ro bool) {
	s.readOnly = ro
}

func (s *IntervalSet) checkMutable() {
	if s.readOnly {
		panic("rtcollections: attempt to mutate a read-only IntervalSet")
	}
}

// AddOne adds the single value v.
func (s *IntervalSet) AddOne(v int) {
	s.AddRange(v, v)
}

// AddRange adds the inclusive range [start, stop], merging with any
// overlapping or adjacent existing intervals.
func (s *IntervalSet) AddRange(start, stop int) {
	s.checkMutable()
	if stop < start {
		return
	}

	var merged []Interval
	inserted := false
	for _, iv := range s.intervals {
		if inserted || iv.Stop+1 < start {
			merged = append(merged, iv)
			continue
		}
		if iv.Start > stop+1 {
			merged = append(merged, Interval{start, stop})
			merged = append(merged, iv)
			inserted = true
			continue
		}
		// overlapping or adjacent: fold into the pending range
		if iv.Start < start {
			start = iv.Start
		}
		if iv.Stop > stop {
			stop = iv.Stop
		}
	}
	if !inserted {
		merged = append(merged, Interval{start, stop})
	}
	s.intervals = merged
}

// AddSet adds every interval of o into s.
func (s *IntervalSet) AddSet(o *IntervalSet) {
	if o == nil {
		return
	}
	for _, iv := range o.intervals {
		s.AddRange(iv.Start, iv.Stop)
	}
}

// Contains reports whether v falls in some interval of the set.
func (s *IntervalSet) Contains(v int) bool {
	lo, hi := 0, len(s.intervals)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		iv := s.intervals[mid]
		switch {
		case v < iv.Start:
			hi = mid - 1
		case v > iv.Stop:
			lo = mid + 1
		default:
			return true
		}
	}
	return false
}

// IsEmpty reports whether the set has no members.
func (s *IntervalSet) IsEmpty() bool {
	return len(s.intervals) == 0
}

// Len returns the total number of individual integers represented.
func (s *IntervalSet) Len() int {
	n := 0
	for _, iv := range s.intervals {
		n += iv.Stop - iv.Start + 1
	}
	return n
}

// Remove removes the single value v from the set, splitting an interval if
// necessary.
func (s *IntervalSet) Remove(v int) {
	s.checkMutable()
	var out []Interval
	for _, iv := range s.intervals {
		if v < iv.Start || v > iv.Stop {
			out = append(out, iv)
			continue
		}
		if iv.Start == iv.Stop {
			continue
		}
		if v == iv.Start {
			out = append(out, Interval{iv.Start + 1, iv.Stop})
		} else if v == iv.Stop {
			out = append(out, Interval{iv.Start, iv.Stop - 1})
		} else {
			out = append(out, Interval{iv.Start, v - 1}, Interval{v + 1, iv.Stop})
		}
	}
	s.intervals = out
}

// Or returns a new set containing the union of s and o.
func (s *IntervalSet) Or(o *IntervalSet) *IntervalSet {
	n := NewIntervalSet()
	n.AddSet(s)
	n.AddSet(o)
	return n
}

// And returns a new set containing the intersection of s and o.
func (s *IntervalSet) And(o *IntervalSet) *IntervalSet {
	n := NewIntervalSet()
	if o == nil {
		return n
	}
	for _, a := range s.intervals {
		for _, b := range o.intervals {
			lo := a.Start
			if b.Start > lo {
				lo = b.Start
			}
			hi := a.Stop
			if b.Stop < hi {
				hi = b.Stop
			}
			if lo <= hi {
				n.AddRange(lo, hi)
			}
		}
	}
	return n
}

// Subtract returns a new set containing the members of s that are not in o.
func (s *IntervalSet) Subtract(o *IntervalSet) *IntervalSet {
	n := NewIntervalSet()
	n.AddSet(s)
	if o == nil {
		return n
	}
	for _, iv := range o.intervals {
		for v := iv.Start; v <= iv.Stop; v++ {
			n.Remove(v)
		}
	}
	return n
}

// Values returns every individual member in ascending order.
func (s *IntervalSet) Values() []int {
	var out []int
	for _, iv := range s.intervals {
		for v := iv.Start; v <= iv.Stop; v++ {
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

// Intervals returns the underlying sorted, disjoint intervals. Callers must
// not mutate the returned slice.
func (s *IntervalSet) Intervals() []Interval {
	return s.intervals
}

// String renders the set using the given symbol-name function to label
// members (e.g. "{ID, INT, ';'}"); if toName is nil, raw integers are used.
func (s *IntervalSet) String(toName func(int) string) string {
	if len(s.intervals) == 0 {
		return "{}"
	}
	var parts []string
	for _, iv := range s.intervals {
		if iv.Start == iv.Stop {
			parts = append(parts, nameOf(iv.Start, toName))
		} else if toName == nil {
			parts = append(parts, iv.String())
		} else {
			for v := iv.Start; v <= iv.Stop; v++ {
				parts = append(parts, nameOf(v, toName))
			}
		}
	}
	if s.Len() == 1 {
		return parts[0]
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func nameOf(v int, toName func(int) string) string {
	if toName == nil {
		return fmt.Sprintf("%d", v)
	}
	return toName(v)
}
