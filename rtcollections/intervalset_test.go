package rtcollections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_IntervalSet_AddRange_merges(t *testing.T) {
	testCases := []struct {
		name   string
		ranges [][2]int
		expect string
	}{
		{
			name:   "disjoint ranges stay separate",
			ranges: [][2]int{{1, 2}, {5, 6}},
			expect: "{1..2, 5..6}",
		},
		{
			name:   "adjacent ranges coalesce",
			ranges: [][2]int{{1, 2}, {3, 4}},
			expect: "{1..4}",
		},
		{
			name:   "overlapping ranges coalesce",
			ranges: [][2]int{{1, 5}, {3, 8}},
			expect: "{1..8}",
		},
		{
			name:   "out of order insertion still sorts",
			ranges: [][2]int{{10, 12}, {1, 2}, {5, 6}},
			expect: "{1..2, 5..6, 10..12}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewIntervalSet()
			for _, r := range tc.ranges {
				s.AddRange(r[0], r[1])
			}
			assert.Equal(t, tc.expect, s.String(nil))
		})
	}
}

func Test_IntervalSet_Contains(t *testing.T) {
	s := NewIntervalSetOf(1, 2, 3, 10)
	assert.True(t, s.Contains(2))
	assert.True(t, s.Contains(10))
	assert.False(t, s.Contains(4))
	assert.False(t, s.Contains(-1))
}

func Test_IntervalSet_And_Subtract(t *testing.T) {
	a := NewIntervalSet()
	a.AddRange(1, 10)
	b := NewIntervalSetOf(5, 6, 20)

	and := a.And(b)
	assert.Equal(t, []int{5, 6}, and.Values())

	sub := a.Subtract(b)
	assert.False(t, sub.Contains(5))
	assert.False(t, sub.Contains(6))
	assert.True(t, sub.Contains(1))
	assert.True(t, sub.Contains(10))
}

func Test_IntervalSet_ReadOnly_panics(t *testing.T) {
	s := NewIntervalSetOf(1)
	s.SetReadOnly(true)
	assert.Panics(t, func() {
		s.AddOne(2)
	})
}

func Test_BitSet_basic(t *testing.T) {
	b := NewBitSet()
	b.Add(3)
	b.Add(130)
	assert.True(t, b.Contains(3))
	assert.True(t, b.Contains(130))
	assert.False(t, b.Contains(4))
	assert.Equal(t, 2, b.Len())

	b.Remove(3)
	assert.False(t, b.Contains(3))
	assert.Equal(t, 1, b.Len())
}

func Test_BitSet_Or(t *testing.T) {
	a := NewBitSet()
	a.Add(1)
	b := NewBitSet()
	b.Add(64)
	a.Or(b)
	assert.True(t, a.Contains(1))
	assert.True(t, a.Contains(64))
}

func Test_BitSet_HashCode_stableAndOrderIndependent(t *testing.T) {
	a := NewBitSet()
	a.Add(1)
	a.Add(9)
	a.Add(64)

	b := NewBitSet()
	b.Add(64)
	b.Add(1)
	b.Add(9)

	assert.Equal(t, a.HashCode(), b.HashCode(), "hash must depend only on set bits, not insertion order")

	c := NewBitSet()
	c.Add(1)
	c.Add(9)
	assert.NotEqual(t, a.HashCode(), c.HashCode())
}

func Test_Murmur3_deterministicAndSeedSensitive(t *testing.T) {
	h1 := Murmur3(0, 1, 2, 3)
	h2 := Murmur3(0, 1, 2, 3)
	assert.Equal(t, h1, h2, "same seed and inputs must hash identically")

	h3 := Murmur3(1, 1, 2, 3)
	assert.NotEqual(t, h1, h3, "different seeds must (in practice) diverge")
}
