package simulation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sherine-k/elevaid/pkg/dispatch"
	"github.com/sherine-k/elevaid/pkg/logger"
)

var (
	ErrRunning  = errors.New("a simulation is already running")
	ErrNoFloors = errors.New("no floors selected")
)

const readyStatus = "Ready to start"

// Run is one started pair of simulations
type Run struct {
	ID          string
	Selection   *dispatch.Selection
	Timing      dispatch.Timing
	Baseline    dispatch.Queue
	Priority    dispatch.Queue
	Comparison  *dispatch.Comparison
	Traditional *Runner
	ElevAid     *Runner
	Recorder    *Recorder

	done chan struct{}
	err  error
}

// Done is closed once both runs are complete
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until both runs are complete
func (r *Run) Wait() error {
	<-r.done
	return r.err
}

// Runners returns the traditional and ElevAid runners in that order
func (r *Run) Runners() []*Runner {
	return []*Runner{r.Traditional, r.ElevAid}
}

// SessionOptions configures a Session
type SessionOptions struct {
	FloorCount int
	Direction  dispatch.Direction
	Timing     dispatch.Timing
	Sleeper    Sleeper
	Logger     *zerolog.Logger
}

// Session is the in-memory state of one demo: the selection, the timing
// configuration and the two resting elevators. While a run is in progress
// every mutation is ignored.
type Session struct {
	mu        sync.Mutex
	selection *dispatch.Selection
	timing    dispatch.Timing
	positions map[System]int
	notice    string
	running   *Run
	last      *Run

	sleeper Sleeper
	logger  *zerolog.Logger
	hub     *Hub
}

// NewSession creates an idle session with both elevators at ground
func NewSession(opts SessionOptions) *Session {
	if opts.Sleeper == nil {
		opts.Sleeper = RealTime{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}
	if opts.Direction == "" {
		opts.Direction = dispatch.DirectionDown
	}
	return &Session{
		selection: dispatch.NewSelection(opts.FloorCount, opts.Direction),
		timing:    opts.Timing,
		positions: groundPositions(),
		sleeper:   opts.Sleeper,
		logger:    opts.Logger,
		hub:       NewHub(0),
	}
}

func groundPositions() map[System]int {
	return map[System]int{SystemTraditional: dispatch.Ground, SystemElevAid: dispatch.Ground}
}

// Running reports whether a run is in progress
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running != nil
}

// ToggleFloor adds or removes a hall call. Ignored while running.
func (s *Session) ToggleFloor(floor int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running != nil {
		return false, nil
	}

	_, hadPrio := s.selection.Priority()
	if _, err := s.selection.Toggle(floor); err != nil {
		return false, err
	}
	if _, ok := s.selection.Priority(); hadPrio && !ok {
		s.notice = ""
	}
	return true, nil
}

// SetDirection changes the hall call direction. Ignored while running.
func (s *Session) SetDirection(d dispatch.Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running != nil {
		return false
	}
	s.selection.SetDirection(d)
	return true
}

// TogglePriority assigns or clears the priority floor. Ignored while
// running; rejected with dispatch.ErrFloorNotRequested for unselected floors.
func (s *Session) TogglePriority(floor int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running != nil {
		return false, nil
	}

	assigned, err := s.selection.TogglePriority(floor)
	if err != nil {
		return false, err
	}
	if assigned {
		s.notice = fmt.Sprintf("OKU person assigned to floor %d - Upload video for AI verification", floor)
	} else {
		s.notice = ""
	}
	return true, nil
}

// SetTiming replaces the timing configuration for subsequent runs. Ignored while running.
func (s *Session) SetTiming(t dispatch.Timing) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running != nil {
		return false, nil
	}
	if t.TravelPerFloor <= 0 || t.Stoppage <= 0 {
		return false, fmt.Errorf("travel and stoppage times must be greater than 0")
	}
	s.timing = t
	return true, nil
}

// Load replaces the whole selection, e.g. with a configured scenario. Ignored while running.
func (s *Session) Load(sel *dispatch.Selection) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running != nil {
		return false, nil
	}
	if sel.FloorCount() != s.selection.FloorCount() {
		return false, fmt.Errorf("selection has %d floors, building has %d", sel.FloorCount(), s.selection.FloorCount())
	}

	s.selection = sel.Clone()
	s.notice = ""
	if p, ok := s.selection.Priority(); ok {
		s.notice = fmt.Sprintf("OKU person assigned to floor %d - Upload video for AI verification", p)
	}
	return true, nil
}

// NoteDetection records a positive wheelchair detection. It only changes
// the priority notice, never the priority assignment.
func (s *Session) NoteDetection(confidence float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.selection.Priority(); ok {
		s.notice = fmt.Sprintf("AI Detection: Wheelchair detected at floor %d (%.1f%% confidence)", p, confidence*100)
		return
	}
	s.notice = fmt.Sprintf("AI Detection: Wheelchair detected (%.1f%% confidence)", confidence*100)
}

// Reset clears the selection and returns both elevators to ground. Ignored while running.
func (s *Session) Reset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running != nil {
		return false
	}
	s.selection = dispatch.NewSelection(s.selection.FloorCount(), s.selection.Direction())
	s.positions = groundPositions()
	s.notice = ""
	s.last = nil
	return true
}

// Subscribe streams the events of every subsequent run
func (s *Session) Subscribe() (<-chan Event, func()) {
	return s.hub.Subscribe()
}

// Start freezes the selection and timing and launches both simulations.
// ctx bounds the runs themselves and should outlive the caller's request.
func (s *Session) Start(ctx context.Context, observers ...Observer) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running != nil {
		return nil, ErrRunning
	}
	if s.selection.Empty() {
		return nil, ErrNoFloors
	}

	sel := s.selection.Clone()
	run := &Run{
		ID:        uuid.New().String(),
		Selection: sel,
		Timing:    s.timing,
		Baseline:  dispatch.BaselineQueue(sel),
		Priority:  dispatch.PriorityQueue(sel),
		Recorder:  NewRecorder(),
		done:      make(chan struct{}),
	}
	if c, err := dispatch.Compare(sel, s.timing); err == nil {
		run.Comparison = &c
	}

	_, prioritise := sel.Priority()
	obs := append(Observers{run.Recorder, s.hub}, observers...)
	for _, entry := range []struct {
		system System
		queue  dispatch.Queue
		dst    **Runner
	}{
		{SystemTraditional, run.Baseline, &run.Traditional},
		{SystemElevAid, run.Priority, &run.ElevAid},
	} {
		r, err := NewRunner(RunnerOptions{
			RunID:      run.ID,
			System:     entry.system,
			Queue:      entry.queue,
			Requested:  sel.Requested(),
			Prioritise: prioritise,
			StartFloor: s.positions[entry.system],
			Timing:     s.timing,
			Sleeper:    s.sleeper,
			Observer:   obs,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.system, err)
		}
		*entry.dst = r
	}

	s.running = run
	s.logger.Info().
		Str("run", run.ID).
		Str("traditional", run.Baseline.String()).
		Str("elevaid", run.Priority.String()).
		Dur("travelTimePerFloor", s.timing.TravelPerFloor).
		Dur("stoppageTime", s.timing.Stoppage).
		Msg("simulation started")

	go s.execute(ctx, run)
	return run, nil
}

func (s *Session) execute(ctx context.Context, run *Run) {
	err := RunPair(ctx, run.Runners()...)

	s.mu.Lock()
	for _, r := range run.Runners() {
		s.positions[r.System()] = r.State().CurrentFloor
	}
	s.running = nil
	s.last = run
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn().Str("run", run.ID).Err(err).Msg("simulation interrupted")
	} else {
		s.logger.Info().
			Str("run", run.ID).
			Dur("traditionalElapsed", run.Traditional.Elapsed()).
			Dur("elevaidElapsed", run.ElevAid.Elapsed()).
			Msg("simulation complete")
	}

	run.err = err
	close(run.done)
}
