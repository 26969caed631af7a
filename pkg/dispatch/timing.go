package dispatch

import (
	"errors"
	"math"
	"time"
)

var ErrNoPriorityFloor = errors.New("no OKU floor specified")

// Timing holds the per-floor travel duration and per-stop dwell duration
type Timing struct {
	TravelPerFloor time.Duration `yaml:"travelTimePerFloor"`
	Stoppage       time.Duration `yaml:"stoppageTime"`
}

// Travel returns the time needed to cover the distance between two floors
func (t Timing) Travel(from, to int) time.Duration {
	return time.Duration(abs(to-from)) * t.TravelPerFloor
}

// Pause is the extra wait inserted between consecutive queue entries
func (t Timing) Pause() time.Duration {
	return t.Stoppage / 2
}

// TimingResult is the priority passenger's journey under one system
type TimingResult struct {
	WaitingTime time.Duration
	TravelTime  time.Duration
	TotalTime   time.Duration
}

func newTimingResult(wait, travel time.Duration) TimingResult {
	return TimingResult{
		WaitingTime: wait,
		TravelTime:  travel,
		TotalTime:   wait + travel,
	}
}

// BaselineTimes walks the baseline queue from ground until the priority
// floor has been served, then adds the ride back down to ground.
func BaselineTimes(queue Queue, priority int, t Timing) TimingResult {
	var wait time.Duration
	prev := Ground
	for _, floor := range queue {
		wait += t.Travel(prev, floor) + t.Stoppage
		prev = floor
		if floor == priority {
			break
		}
	}
	return newTimingResult(wait, t.Travel(priority, Ground))
}

// PriorityTimes is the direct trip: ground to the priority floor, one dwell,
// then back to ground.
func PriorityTimes(priority int, t Timing) TimingResult {
	return newTimingResult(t.Travel(Ground, priority)+t.Stoppage, t.Travel(priority, Ground))
}

// Comparison holds both journeys and the time the priority system saves
type Comparison struct {
	PriorityFloor int
	Baseline      TimingResult
	Priority      TimingResult
	Saved         time.Duration
	Percent       float64
}

// ShowSavings reports whether the priority system is strictly faster
func (c Comparison) ShowSavings() bool {
	return c.Baseline.TotalTime > c.Priority.TotalTime
}

// Compare computes both journeys for the selection's priority floor
func Compare(sel *Selection, t Timing) (Comparison, error) {
	priority, ok := sel.Priority()
	if !ok {
		return Comparison{}, ErrNoPriorityFloor
	}

	c := Comparison{
		PriorityFloor: priority,
		Baseline:      BaselineTimes(BaselineQueue(sel), priority, t),
		Priority:      PriorityTimes(priority, t),
	}
	c.Saved = c.Baseline.TotalTime - c.Priority.TotalTime
	if c.Baseline.TotalTime > 0 {
		c.Percent = roundTenth(float64(c.Saved) / float64(c.Baseline.TotalTime) * 100)
	}
	return c, nil
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
