package repulse

import (
	"cmp"
	"container/heap"
	"slices"

	"github.com/matzehuels/patchlayout/pkg/core/geom"
	"github.com/matzehuels/patchlayout/pkg/core/patch"
)

// candidate is a box waiting to be pushed away from its repulser.
type candidate struct {
	key  patch.BoxKey
	rect geom.Rect   // rectangle when it was queued
	by   *obstacle   // repulser that found it
	path []Direction // directions inherited from the boxes pushed before
}

// compare orders candidates by direction path, then by how far they stand
// along the last direction, then by key.
func (c *candidate) compare(o *candidate) int {
	if d := slices.Compare(c.path, o.path); d != 0 {
		return d
	}
	if len(c.path) > 0 {
		var d int
		switch c.path[len(c.path)-1] {
		case DirectionLeft:
			d = cmp.Compare(o.rect.Right(), c.rect.Right())
		case DirectionUp:
			d = cmp.Compare(o.rect.Bottom(), c.rect.Bottom())
		case DirectionRight:
			d = cmp.Compare(c.rect.Left(), o.rect.Left())
		case DirectionDown:
			d = cmp.Compare(c.rect.Top(), o.rect.Top())
		}
		if d != 0 {
			return d
		}
	}
	return c.key.Compare(o.key)
}

// queue is a min-heap of candidates. It implements heap.Interface.
type queue []*candidate

func (q queue) Len() int           { return len(q) }
func (q queue) Less(i, j int) bool { return q[i].compare(q[j]) < 0 }
func (q queue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any)        { *q = append(*q, x.(*candidate)) }

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return c
}

func (q *queue) push(c *candidate) { heap.Push(q, c) }
func (q *queue) pop() *candidate   { return heap.Pop(q).(*candidate) }
