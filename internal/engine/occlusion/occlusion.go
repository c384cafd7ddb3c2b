// Package occlusion records, per screen column, how far up and down the
// terrain has already been drawn at each depth, so that sprites can be
// clipped against nearer geometry.
package occlusion

import "github.com/Faultbox/heightcast/pkg/fixed"

// Side selects which end of a column a record limits.
type Side uint8

// Record sides.
const (
	SideFloor   Side = iota // limit is the top row of a floor-side span
	SideCeiling             // limit is the bottom row of a ceiling-side span
)

const none = -1

type record struct {
	depth fixed.Scalar
	limit int
	next  int32
}

// Buffer holds depth records chained per column and side, in draw order.
// It is rebuilt every frame.
type Buffer struct {
	columns int
	records []record
	heads   [2][]int32
	tails   [2][]int32
}

// New creates a buffer for the given number of columns.
func New(columns int) *Buffer {
	b := &Buffer{}
	b.Reset(columns)
	return b
}

// Columns returns the column count.
func (b *Buffer) Columns() int {
	return b.columns
}

// Reset discards all records and resizes the buffer to columns.
func (b *Buffer) Reset(columns int) {
	if columns < 0 {
		columns = 0
	}
	b.columns = columns
	b.records = b.records[:0]
	for side := range b.heads {
		if cap(b.heads[side]) < columns {
			b.heads[side] = make([]int32, columns)
			b.tails[side] = make([]int32, columns)
		}
		b.heads[side] = b.heads[side][:columns]
		b.tails[side] = b.tails[side][:columns]
		for i := range b.heads[side] {
			b.heads[side][i] = none
			b.tails[side][i] = none
		}
	}
}

// Append adds a record at the tail of a column chain. Out-of-range columns
// are ignored.
func (b *Buffer) Append(side Side, column int, depth fixed.Scalar, limit int) {
	if column < 0 || column >= b.columns || side > SideCeiling {
		return
	}
	idx := int32(len(b.records))
	b.records = append(b.records, record{depth: depth, limit: limit, next: none})

	if tail := b.tails[side][column]; tail != none {
		b.records[tail].next = idx
	} else {
		b.heads[side][column] = idx
	}
	b.tails[side][column] = idx
}

// Clip narrows the row span [top, bottom) of an object at depth in column to
// the part not covered by nearer terrain. visible is false when nothing
// remains.
func (b *Buffer) Clip(column int, depth fixed.Scalar, top, bottom int) (int, int, bool) {
	if column < 0 || column >= b.columns {
		return top, bottom, false
	}
	for i := b.heads[SideFloor][column]; i != none; i = b.records[i].next {
		r := &b.records[i]
		if r.depth < depth && r.limit < bottom {
			bottom = r.limit
		}
	}
	for i := b.heads[SideCeiling][column]; i != none; i = b.records[i].next {
		r := &b.records[i]
		if r.depth < depth && r.limit > top {
			top = r.limit
		}
	}
	return top, bottom, top < bottom
}

// Covers reports whether row of column is visible for an object spanning
// [top, bottom) at depth.
func (b *Buffer) Covers(column, row int, depth fixed.Scalar, top, bottom int) bool {
	t, bt, ok := b.Clip(column, depth, top, bottom)
	return ok && row >= t && row < bt
}

// Len returns the number of records in a column chain.
func (b *Buffer) Len(side Side, column int) int {
	if column < 0 || column >= b.columns || side > SideCeiling {
		return 0
	}
	n := 0
	for i := b.heads[side][column]; i != none; i = b.records[i].next {
		n++
	}
	return n
}

// Records returns the total number of records this frame.
func (b *Buffer) Records() int {
	return len(b.records)
}
