// Package paginate splits ordered listings into fixed-size, 1-based pages.
//
// Requests for a page outside the valid range are clamped to the nearest
// valid page instead of failing. An empty listing still has one empty page.
package paginate

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// PerPage is the page size used by every post listing.
const PerPage = 10

// Paginator holds the arithmetic for a listing of Count items.
type Paginator struct {
	Count   int
	PerPage int
}

func New(count, perPage int) Paginator {
	if perPage < 1 {
		perPage = PerPage
	}
	if count < 0 {
		count = 0
	}
	return Paginator{Count: count, PerPage: perPage}
}

func (p Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}
	return (p.Count + p.PerPage - 1) / p.PerPage
}

// Clamp maps any requested page number onto [1, NumPages].
func (p Paginator) Clamp(n int) int {
	if n < 1 {
		return 1
	}
	if last := p.NumPages(); n > last {
		return last
	}
	return n
}

// Bounds returns the offset and limit of page n after clamping.
func (p Paginator) Bounds(n int) (offset, limit int) {
	n = p.Clamp(n)
	return (n - 1) * p.PerPage, p.PerPage
}

// ParseNumber reads a page query value. Anything that is not an integer
// selects the first page. Integers too large for int saturate so that Clamp
// still picks the first or last page.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(raw, "-") {
			return 1
		}
		return math.MaxInt
	}
	if err != nil {
		return 1
	}
	return n
}

// Page is one page of a listing.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Count    int
	PerPage  int
}

// NewPage wraps items already fetched for page n.
func NewPage[T any](items []T, n int, p Paginator) Page[T] {
	return Page[T]{
		Items:    items,
		Number:   p.Clamp(n),
		NumPages: p.NumPages(),
		Count:    p.Count,
		PerPage:  p.PerPage,
	}
}

// Slice cuts page n out of an in-memory ordered sequence.
func Slice[T any](items []T, perPage, n int) Page[T] {
	p := New(len(items), perPage)
	offset, limit := p.Bounds(n)
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return NewPage(items[offset:end], n, p)
}

func (p Page[T]) Len() int { return len(p.Items) }

func (p Page[T]) HasNext() bool { return p.Number < p.NumPages }

func (p Page[T]) HasPrevious() bool { return p.Number > 1 }

func (p Page[T]) HasOtherPages() bool { return p.HasNext() || p.HasPrevious() }

func (p Page[T]) NextPageNumber() int {
	if !p.HasNext() {
		return p.Number
	}
	return p.Number + 1
}

func (p Page[T]) PreviousPageNumber() int {
	if !p.HasPrevious() {
		return p.Number
	}
	return p.Number - 1
}

// StartIndex is the 1-based position of the first item on the page, 0 when
// the listing is empty.
func (p Page[T]) StartIndex() int {
	if p.Count == 0 {
		return 0
	}
	return (p.Number-1)*p.PerPage + 1
}

func (p Page[T]) PageRange() []int {
	r := make([]int, p.NumPages)
	for i := range r {
		r[i] = i + 1
	}
	return r
}
