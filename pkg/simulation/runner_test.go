package simulation

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/sherine-k/elevaid/pkg/dispatch"
)

var demoTiming = dispatch.Timing{TravelPerFloor: time.Second, Stoppage: 2 * time.Second}

// recordingSleeper returns immediately and remembers what it was asked to sleep
type recordingSleeper struct {
	mu    sync.Mutex
	slept []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.slept = append(s.slept, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *recordingSleeper) total() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum time.Duration
	for _, d := range s.slept {
		sum += d
	}
	return sum
}

func newTestRunner(t *testing.T, system System, queue dispatch.Queue, requested []int, sleeper Sleeper, obs Observer) *Runner {
	t.Helper()
	r, err := NewRunner(RunnerOptions{
		RunID:      "test",
		System:     system,
		Queue:      queue,
		Requested:  requested,
		Prioritise: system == SystemElevAid,
		Timing:     demoTiming,
		Sleeper:    sleeper,
		Observer:   obs,
	})
	if err != nil {
		t.Fatalf("NewRunner returned %v", err)
	}
	return r
}

func types(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func TestNewRunnerEmptyQueue(t *testing.T) {
	_, err := NewRunner(RunnerOptions{System: SystemTraditional, Queue: dispatch.Queue{}})
	if !errors.Is(err, ErrEmptyQueue) {
		t.Errorf("Expected ErrEmptyQueue, got %v", err)
	}
}

func TestRunnerInitialState(t *testing.T) {
	r := newTestRunner(t, SystemTraditional, dispatch.Queue{5, 0}, []int{5}, Instant{}, nil)
	st := r.State()
	if st.StepIndex != -1 || st.Phase != PhaseIdle || st.CurrentFloor != 0 {
		t.Errorf("unexpected initial state %+v", st)
	}
	if r.Status() != "Ready to start" {
		t.Errorf("Expected ready status, got %q", r.Status())
	}
}

func TestRunnerPriorityEventSequence(t *testing.T) {
	rec := NewRecorder()
	r := newTestRunner(t, SystemElevAid, dispatch.Queue{3, 0}, []int{3, 7}, Instant{}, rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := []EventType{
		EventTypeRunStarted,
		EventTypeStepStarted, EventTypeFloorPassed, EventTypeFloorPassed, EventTypeArrived,
		EventTypeDwellStarted, EventTypeFloorServed,
		EventTypeStepPaused,
		EventTypeStepStarted, EventTypeFloorPassed, EventTypeFloorPassed, EventTypeArrived,
		EventTypeDwellStarted,
		EventTypeRunComplete,
	}
	if got := types(rec.Events()); !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}

	passed := []int{}
	for _, e := range rec.Events() {
		if e.Type == EventTypeFloorPassed {
			passed = append(passed, e.Floor)
		}
	}
	if !reflect.DeepEqual(passed, []int{1, 2, 2, 1}) {
		t.Errorf("Expected intermediate floors [1 2 2 1], got %v", passed)
	}

	st := r.State()
	if st.Phase != PhaseComplete || st.StepIndex != 1 || st.CurrentFloor != 0 {
		t.Errorf("unexpected final state %+v", st)
	}
	if got := r.Pending(); !reflect.DeepEqual(got, []int{7}) {
		t.Errorf("the priority system should leave floor 7 pending, got %v", got)
	}
	if r.Status() != "ElevAid: OKU person served first!" {
		t.Errorf("unexpected completion text %q", r.Status())
	}
}

func TestRunnerDurations(t *testing.T) {
	tests := []struct {
		name  string
		queue dispatch.Queue
		start int
		want  time.Duration
	}{
		// 20 floors of travel, 4 dwells, 3 pauses
		{"traditional worked example", dispatch.Queue{10, 7, 3, 0}, 0, 20*time.Second + 8*time.Second + 3*time.Second},
		// 14 floors of travel, 2 dwells, 1 pause
		{"elevaid worked example", dispatch.Queue{7, 0}, 0, 14*time.Second + 4*time.Second + 1*time.Second},
		// Already at the first stop: no travel
		{"zero distance", dispatch.Queue{14}, 14, 2 * time.Second},
		{"starting above", dispatch.Queue{3, 14}, 14, 22*time.Second + 4*time.Second + 1*time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sleeper := &recordingSleeper{}
			r, err := NewRunner(RunnerOptions{
				System:     SystemTraditional,
				Queue:      tt.queue,
				StartFloor: tt.start,
				Timing:     demoTiming,
				Sleeper:    sleeper,
			})
			if err != nil {
				t.Fatal(err)
			}
			if err := r.Run(context.Background()); err != nil {
				t.Fatal(err)
			}
			if got := sleeper.total(); got != tt.want {
				t.Errorf("Expected %v slept, got %v", tt.want, got)
			}
			if r.Elapsed() != tt.want {
				t.Errorf("Expected elapsed %v, got %v", tt.want, r.Elapsed())
			}
		})
	}
}

func TestRunnerServesInQueueOrder(t *testing.T) {
	rec := NewRecorder()
	r := newTestRunner(t, SystemTraditional, dispatch.Queue{10, 7, 3, 0}, []int{3, 7, 10}, Instant{}, rec)
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	served := rec.Served(SystemTraditional)
	floors := []int{}
	for _, e := range served {
		floors = append(floors, e.Floor)
	}
	if !reflect.DeepEqual(floors, []int{10, 7, 3}) {
		t.Errorf("Expected served order [10 7 3], got %v", floors)
	}

	// Floor 7 is served after 10 floors + dwell, a pause, 3 floors + dwell.
	if served[1].Elapsed != 18*time.Second {
		t.Errorf("Expected floor 7 served at 18s, got %v", served[1].Elapsed)
	}

	for i, e := range served {
		if e.Step != i {
			t.Errorf("served event %d carries step %d", i, e.Step)
		}
	}
	if len(r.Pending()) != 0 {
		t.Errorf("Expected nothing pending, got %v", r.Pending())
	}
	if r.Status() != "Traditional simulation complete" {
		t.Errorf("unexpected completion text %q", r.Status())
	}
}

func TestRunnerRunsOnce(t *testing.T) {
	r := newTestRunner(t, SystemTraditional, dispatch.Queue{1, 0}, nil, Instant{}, nil)
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := r.Run(context.Background()); err == nil {
		t.Errorf("a completed runner must not run again")
	}
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newTestRunner(t, SystemTraditional, dispatch.Queue{5, 0}, nil, Instant{}, nil)
	if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestElevAidWithoutPriorityText(t *testing.T) {
	r, _ := NewRunner(RunnerOptions{
		System:  SystemElevAid,
		Queue:   dispatch.Queue{4, 0},
		Timing:  demoTiming,
		Sleeper: Instant{},
	})
	r.Run(context.Background())
	if r.Status() != "ElevAid: Simulation complete" {
		t.Errorf("unexpected completion text %q", r.Status())
	}
}

func TestRunPair(t *testing.T) {
	rec := NewRecorder()
	trad := newTestRunner(t, SystemTraditional, dispatch.Queue{10, 7, 3, 0}, []int{3, 7, 10}, Instant{}, rec)
	aid := newTestRunner(t, SystemElevAid, dispatch.Queue{7, 0}, []int{3, 7, 10}, Instant{}, rec)

	if err := RunPair(context.Background(), trad, aid); err != nil {
		t.Fatal(err)
	}
	for _, r := range []*Runner{trad, aid} {
		if r.State().Phase != PhaseComplete {
			t.Errorf("%s did not complete", r.System())
		}
	}

	aidServed := rec.Served(SystemElevAid)
	tradServed := rec.Served(SystemTraditional)
	if len(aidServed) != 1 || aidServed[0].Floor != 7 || aidServed[0].Elapsed != 9*time.Second {
		t.Errorf("Expected elevaid to serve floor 7 at 9s, got %+v", aidServed)
	}
	if len(tradServed) != 3 {
		t.Errorf("Expected 3 traditional stops served, got %d", len(tradServed))
	}
}
