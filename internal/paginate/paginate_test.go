package paginate

import (
	"math"
	"testing"

	"gotest.tools/v3/assert"
)

func seq(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = n - i
	}
	return s
}

func TestNumPages(t *testing.T) {
	cases := []struct {
		count, want int
	}{
		{0, 1},
		{1, 1},
		{10, 1},
		{11, 2},
		{14, 2},
		{20, 2},
		{21, 3},
	}
	for _, c := range cases {
		assert.Equal(t, New(c.count, PerPage).NumPages(), c.want, "count=%d", c.count)
	}
}

func TestClamp(t *testing.T) {
	p := New(14, 10)
	assert.Equal(t, p.Clamp(-3), 1)
	assert.Equal(t, p.Clamp(0), 1)
	assert.Equal(t, p.Clamp(1), 1)
	assert.Equal(t, p.Clamp(2), 2)
	assert.Equal(t, p.Clamp(99), 2)
}

func TestBounds(t *testing.T) {
	p := New(14, 10)
	off, lim := p.Bounds(2)
	assert.Equal(t, off, 10)
	assert.Equal(t, lim, 10)

	off, _ = p.Bounds(50)
	assert.Equal(t, off, 10)
}

func TestNewUsesDefaultPageSize(t *testing.T) {
	p := New(-5, 0)
	assert.Equal(t, p.PerPage, PerPage)
	assert.Equal(t, p.Count, 0)
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, ParseNumber(""), 1)
	assert.Equal(t, ParseNumber("abc"), 1)
	assert.Equal(t, ParseNumber("2"), 2)
	assert.Equal(t, ParseNumber("-1"), -1)
	assert.Equal(t, ParseNumber("99999999999999999999"), math.MaxInt)
	assert.Equal(t, ParseNumber("-99999999999999999999"), 1)
	assert.Equal(t, ParseNumber("1e3"), 1)

	p := New(14, 10)
	assert.Equal(t, p.Clamp(ParseNumber("99999999999999999999")), 2)
}

func TestSliceFourteenItems(t *testing.T) {
	items := seq(14)

	first := Slice(items, 10, 1)
	assert.Equal(t, first.Len(), 10)
	assert.Equal(t, first.Items[0], 14)
	assert.Assert(t, first.HasNext())
	assert.Assert(t, !first.HasPrevious())
	assert.Equal(t, first.NextPageNumber(), 2)

	last := Slice(items, 10, 2)
	assert.Equal(t, last.Len(), 4)
	assert.Equal(t, last.Items[3], 1)
	assert.Assert(t, !last.HasNext())
	assert.Assert(t, last.HasPrevious())
	assert.Equal(t, last.PreviousPageNumber(), 1)
	assert.Equal(t, last.StartIndex(), 11)
}

func TestSliceClampsOutOfRange(t *testing.T) {
	items := seq(13)

	high := Slice(items, 10, 7)
	assert.Equal(t, high.Number, 2)
	assert.Equal(t, high.Len(), 3)

	low := Slice(items, 10, 0)
	assert.Equal(t, low.Number, 1)
	assert.Equal(t, low.Len(), 10)
}

func TestSliceDivisible(t *testing.T) {
	last := Slice(seq(20), 10, 2)
	assert.Equal(t, last.Len(), 10)
	assert.Assert(t, !last.HasNext())
}

func TestSliceEmpty(t *testing.T) {
	page := Slice([]string{}, 10, 3)
	assert.Equal(t, page.Number, 1)
	assert.Equal(t, page.NumPages, 1)
	assert.Equal(t, page.Len(), 0)
	assert.Equal(t, page.StartIndex(), 0)
	assert.Assert(t, !page.HasOtherPages())
	assert.DeepEqual(t, page.PageRange(), []int{1})
}

func TestPageRange(t *testing.T) {
	page := Slice(seq(25), 10, 1)
	assert.DeepEqual(t, page.PageRange(), []int{1, 2, 3})
	assert.Equal(t, page.NextPageNumber(), 2)
	assert.Equal(t, page.PreviousPageNumber(), 1)
}
