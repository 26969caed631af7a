package dispatch

import (
	"sort"
	"strings"
)

// Queue is an ordered sequence of stops in visit order
type Queue []int

// Len returns the number of stops
func (q Queue) Len() int {
	return len(q)
}

// Last returns the final stop, or -1 for an empty queue
func (q Queue) Last() int {
	if len(q) == 0 {
		return -1
	}
	return q[len(q)-1]
}

// Contains reports whether floor is one of the stops
func (q Queue) Contains(floor int) bool {
	for _, f := range q {
		if f == floor {
			return true
		}
	}
	return false
}

// Ints returns a copy of the stops
func (q Queue) Ints() []int {
	out := make([]int, len(q))
	copy(out, q)
	return out
}

func (q Queue) String() string {
	labels := make([]string, len(q))
	for i, f := range q {
		labels[i] = FloorLabel(f)
	}
	return strings.Join(labels, " → ")
}

// BaselineQueue builds the traditional visit order. Going down, the
// requested floors are visited from the top and the car always returns to
// ground. Going up, they are visited from the bottom and the car finishes at
// the top floor.
func BaselineQueue(sel *Selection) Queue {
	requested := sel.Requested()
	if len(requested) == 0 {
		return Queue{}
	}

	queue := make(Queue, 0, len(requested)+1)
	if sel.Direction() == DirectionDown {
		sort.Sort(sort.Reverse(sort.IntSlice(requested)))
		queue = append(queue, requested...)
		queue = append(queue, Ground)
		return queue
	}

	sort.Ints(requested)
	queue = append(queue, requested...)
	if queue.Last() != sel.TopFloor() {
		queue = append(queue, sel.TopFloor())
	}
	return queue
}

// PriorityQueue builds the ElevAid visit order: straight to the priority
// floor and back to ground. Without a priority floor there is nothing to
// prioritise and the baseline order is used.
func PriorityQueue(sel *Selection) Queue {
	if p, ok := sel.Priority(); ok {
		return Queue{p, Ground}
	}
	return BaselineQueue(sel)
}
