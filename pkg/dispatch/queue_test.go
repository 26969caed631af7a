package dispatch

import (
	"reflect"
	"testing"
)

func TestBaselineQueue(t *testing.T) {
	tests := []struct {
		name      string
		direction Direction
		floors    []int
		want      Queue
	}{
		{"down sorted descending then ground", DirectionDown, []int{3, 10, 7}, Queue{10, 7, 3, 0}},
		{"down single floor", DirectionDown, []int{5}, Queue{5, 0}},
		{"down ground requested still ends at ground", DirectionDown, []int{0, 4}, Queue{4, 0, 0}},
		{"up sorted ascending then top", DirectionUp, []int{7, 3, 10}, Queue{3, 7, 10, 14}},
		{"up top requested once", DirectionUp, []int{14, 2}, Queue{2, 14}},
		{"empty down", DirectionDown, nil, Queue{}},
		{"empty up", DirectionUp, nil, Queue{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewSelection(DefaultFloorCount, tt.direction)
			for _, f := range tt.floors {
				sel.Add(f)
			}
			got := BaselineQueue(sel)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBaselineQueueEndings(t *testing.T) {
	for mask := 1; mask < 1<<DefaultFloorCount; mask += 97 {
		for _, dir := range []Direction{DirectionDown, DirectionUp} {
			sel := NewSelection(DefaultFloorCount, dir)
			for f := 0; f < DefaultFloorCount; f++ {
				if mask&(1<<f) != 0 {
					sel.Add(f)
				}
			}
			q := BaselineQueue(sel)
			if dir == DirectionDown && q.Last() != Ground {
				t.Fatalf("down queue %v does not end at ground", q)
			}
			if dir == DirectionUp {
				top := 0
				for _, f := range q {
					if f == sel.TopFloor() {
						top++
					}
				}
				if q.Last() != sel.TopFloor() || top != 1 {
					t.Fatalf("up queue %v should end at the top floor exactly once", q)
				}
			}
		}
	}
}

func TestPriorityQueue(t *testing.T) {
	sel := NewSelection(DefaultFloorCount, DirectionDown)
	sel.Add(3)
	sel.Add(7)
	sel.Add(10)

	if got := PriorityQueue(sel); !reflect.DeepEqual(got, BaselineQueue(sel)) {
		t.Errorf("without priority expected the baseline queue, got %v", got)
	}

	sel.SetPriority(7)
	if got := PriorityQueue(sel); !reflect.DeepEqual(got, Queue{7, 0}) {
		t.Errorf("Expected [7 0], got %v", got)
	}

	sel.SetDirection(DirectionUp)
	if got := PriorityQueue(sel); !reflect.DeepEqual(got, Queue{7, 0}) {
		t.Errorf("direction must not change the priority queue, got %v", got)
	}
}

func TestQueuesAreFresh(t *testing.T) {
	sel := NewSelection(DefaultFloorCount, DirectionDown)
	sel.Add(4)
	first := BaselineQueue(sel)
	first[0] = 9

	if got := BaselineQueue(sel); got[0] != 4 {
		t.Errorf("mutating a returned queue leaked into the next build: %v", got)
	}
}

func TestQueueString(t *testing.T) {
	q := Queue{10, 7, 3, 0}
	if got := q.String(); got != "10 → 7 → 3 → G" {
		t.Errorf("Expected \"10 → 7 → 3 → G\", got %q", got)
	}
}
