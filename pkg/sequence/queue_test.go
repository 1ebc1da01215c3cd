package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueue_OrdersByLess(t *testing.T) {
	pq := NewPriorityQueue(func(a, b int) bool { return a < b })
	for _, v := range []int{5, 1, 4, 2, 3} {
		pq.Enqueue(v)
	}

	head, ok := pq.Peek()
	require.True(t, ok)
	assert.Equal(t, 1, head)

	var out []int
	for !pq.IsEmpty() {
		v, _ := pq.Dequeue()
		out = append(out, v)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, out)

	_, ok = pq.Dequeue()
	assert.False(t, ok)
}

func TestPriorityQueue_Remove(t *testing.T) {
	pq := NewPriorityQueue(func(a, b int) bool { return a < b })
	pq.Enqueue(3)
	two := pq.Enqueue(2)
	pq.Enqueue(1)

	assert.True(t, pq.Remove(two))
	assert.False(t, two.Queued())
	assert.False(t, pq.Remove(two), "second remove is a no-op")
	assert.Equal(t, 2, pq.Len())

	first, _ := pq.Dequeue()
	second, _ := pq.Dequeue()
	assert.Equal(t, []int{1, 3}, []int{first, second})
}

func TestPriorityQueue_Fix(t *testing.T) {
	type entry struct{ key int }
	pq := NewPriorityQueue(func(a, b *entry) bool { return a.key < b.key })
	a := pq.Enqueue(&entry{key: 1})
	pq.Enqueue(&entry{key: 2})

	a.Value.key = 10
	pq.Fix(a)

	head, _ := pq.Peek()
	assert.Equal(t, 2, head.key)
}
