package pq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func drain(p *PriorityQueue[int]) (res []int) {
	for !p.IsEmpty() {
		res = append(res, p.GetNext())
	}
	return
}

func TestOrder(t *testing.T) {
	p := Empty(func(a, b int) bool { return a < b })
	for _, x := range []int{5, 1, 4, 2, 3} {
		p.Add(x)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, drain(&p))
}

func TestNoDuplicates(t *testing.T) {
	p := Empty(func(a, b int) bool { return a < b })
	p.Add(2)
	p.Add(1)
	p.Add(2)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, 1, p.GetNext())

	// Popped elements may be queued again.
	p.Add(1)
	assert.Equal(t, []int{1, 2}, drain(&p))
}

func TestRebuild(t *testing.T) {
	prio := map[int]int{1: 1, 2: 2, 3: 3}
	p := Empty(func(a, b int) bool { return prio[a] < prio[b] })
	p.Add(1)
	p.Add(2)
	p.Add(3)

	prio[3] = 0
	p.Rebuild()
	assert.Equal(t, []int{3, 1, 2}, drain(&p))
}
