package simulation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sherine-k/elevaid/pkg/dispatch"
)

var ErrEmptyQueue = errors.New("dispatch queue is empty")

// Phase is the runner's position in its state machine
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseMoving   Phase = "moving"
	PhaseDwelling Phase = "dwelling"
	PhaseComplete Phase = "complete"
)

// ElevatorRunState is the simulated car of one system. StepIndex is -1
// until the first queue entry is started.
type ElevatorRunState struct {
	CurrentFloor int
	Queue        dispatch.Queue
	StepIndex    int
	Phase        Phase
}

// RunnerOptions configures a Runner
type RunnerOptions struct {
	RunID      string
	System     System
	Queue      dispatch.Queue
	Requested  []int
	Prioritise bool
	StartFloor int
	Timing     dispatch.Timing
	Sleeper    Sleeper
	Observer   Observer
	Now        func() time.Time
}

// Runner drives one elevator through its queue, one stop at a time
type Runner struct {
	runID      string
	system     System
	timing     dispatch.Timing
	sleeper    Sleeper
	observer   Observer
	now        func() time.Time
	prioritise bool

	mu      sync.Mutex
	state   ElevatorRunState
	pending map[int]bool
	elapsed time.Duration
	status  string
}

// NewRunner creates a runner resting at opts.StartFloor
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if len(opts.Queue) == 0 {
		return nil, ErrEmptyQueue
	}
	if opts.Sleeper == nil {
		opts.Sleeper = RealTime{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	pending := make(map[int]bool, len(opts.Requested))
	for _, f := range opts.Requested {
		pending[f] = true
	}

	return &Runner{
		runID:      opts.RunID,
		system:     opts.System,
		timing:     opts.Timing,
		sleeper:    opts.Sleeper,
		observer:   opts.Observer,
		now:        opts.Now,
		prioritise: opts.Prioritise,
		pending:    pending,
		status:     "Ready to start",
		state: ElevatorRunState{
			CurrentFloor: opts.StartFloor,
			Queue:        opts.Queue.Ints(),
			StepIndex:    -1,
			Phase:        PhaseIdle,
		},
	}, nil
}

// System returns the dispatch strategy the runner follows
func (r *Runner) System() System {
	return r.system
}

// State returns a copy of the current run state
func (r *Runner) State() ElevatorRunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.state
	s.Queue = r.state.Queue.Ints()
	return s
}

// Status returns the human readable status line
func (r *Runner) Status() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Elapsed returns the simulated time spent so far
func (r *Runner) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}

// Pending returns the requested floors this run has not served, ascending
func (r *Runner) Pending() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, 0, len(r.pending))
	for f := range r.pending {
		out = append(out, f)
	}
	sort.Ints(out)
	return out
}

// Run walks the whole queue. Within a run every step happens strictly in
// queue order; Run returns once the final dwell is over.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.state.Phase != PhaseIdle {
		r.mu.Unlock()
		return fmt.Errorf("%s runner already %s", r.system, r.state.Phase)
	}
	queue := r.state.Queue
	r.mu.Unlock()

	r.emit(EventTypeRunStarted, r.State().CurrentFloor, r.startMessage())

	for i, target := range queue {
		if i > 0 {
			r.emit(EventTypeStepPaused, r.State().CurrentFloor, "Preparing next stop...")
			if err := r.sleep(ctx, r.timing.Pause()); err != nil {
				return err
			}
		}

		r.mu.Lock()
		r.state.StepIndex = i
		r.state.Phase = PhaseMoving
		r.mu.Unlock()
		r.emit(EventTypeStepStarted, target, fmt.Sprintf("Step %d of %d: floor %s", i+1, len(queue), dispatch.FloorLabel(target)))

		if err := r.move(ctx, target); err != nil {
			return err
		}
		if err := r.dwell(ctx, target); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.state.Phase = PhaseComplete
	r.mu.Unlock()
	r.emit(EventTypeRunComplete, r.State().CurrentFloor, r.completeMessage())
	return nil
}

// move travels one floor at a time towards target
func (r *Runner) move(ctx context.Context, target int) error {
	from := r.State().CurrentFloor
	if from != target {
		r.setStatus(fmt.Sprintf("Moving from floor %s to floor %s...", dispatch.FloorLabel(from), dispatch.FloorLabel(target)))
	}

	step := 1
	if target < from {
		step = -1
	}
	for floor := from; floor != target; {
		if err := r.sleep(ctx, r.timing.TravelPerFloor); err != nil {
			return err
		}
		floor += step

		r.mu.Lock()
		r.state.CurrentFloor = floor
		r.mu.Unlock()

		if floor != target {
			r.emit(EventTypeFloorPassed, floor, fmt.Sprintf("Passing floor %s", dispatch.FloorLabel(floor)))
		}
	}

	msg := fmt.Sprintf("Arrived at floor %s - Opening doors...", dispatch.FloorLabel(target))
	r.setStatus(msg)
	r.emit(EventTypeArrived, target, msg)
	return nil
}

// dwell holds the doors open and serves the floor's hall call at the end
func (r *Runner) dwell(ctx context.Context, floor int) error {
	r.mu.Lock()
	r.state.Phase = PhaseDwelling
	r.mu.Unlock()
	r.emit(EventTypeDwellStarted, floor, fmt.Sprintf("Doors open at floor %s", dispatch.FloorLabel(floor)))

	if err := r.sleep(ctx, r.timing.Stoppage); err != nil {
		return err
	}

	r.mu.Lock()
	served := r.pending[floor]
	delete(r.pending, floor)
	r.mu.Unlock()

	if served {
		msg := fmt.Sprintf("Served floor %s - Doors closing...", dispatch.FloorLabel(floor))
		r.setStatus(msg)
		r.emit(EventTypeFloorServed, floor, msg)
	}
	return nil
}

func (r *Runner) sleep(ctx context.Context, d time.Duration) error {
	if err := r.sleeper.Sleep(ctx, d); err != nil {
		return fmt.Errorf("%s run interrupted: %w", r.system, err)
	}
	r.mu.Lock()
	r.elapsed += d
	r.mu.Unlock()
	return nil
}

func (r *Runner) setStatus(s string) {
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
}

func (r *Runner) emit(t EventType, floor int, msg string) {
	if t == EventTypeRunStarted || t == EventTypeRunComplete {
		r.setStatus(msg)
	}
	if r.observer == nil {
		return
	}

	r.mu.Lock()
	e := Event{
		RunID:   r.runID,
		System:  r.system,
		Type:    t,
		Time:    r.now(),
		Elapsed: r.elapsed,
		Floor:   floor,
		Step:    r.state.StepIndex,
		Message: msg,
	}
	r.mu.Unlock()
	r.observer.Notify(e)
}

func (r *Runner) startMessage() string {
	if r.system == SystemTraditional {
		return "Running traditional algorithm..."
	}
	if r.prioritise {
		return "ElevAid: Prioritizing OKU person..."
	}
	return "ElevAid: No OKU person detected, using standard algorithm..."
}

func (r *Runner) completeMessage() string {
	if r.system == SystemTraditional {
		return "Traditional simulation complete"
	}
	if r.prioritise {
		return "ElevAid: OKU person served first!"
	}
	return "ElevAid: Simulation complete"
}
