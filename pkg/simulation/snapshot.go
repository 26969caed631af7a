package simulation

import (
	"github.com/sherine-k/elevaid/pkg/dispatch"
)

// SystemView is the state of one elevator as shown to a renderer
type SystemView struct {
	Floor     int    `json:"floor"`
	Status    string `json:"status"`
	Phase     Phase  `json:"phase"`
	StepIndex int    `json:"stepIndex"`
	Pending   []int  `json:"pending"`
}

// Snapshot is an immutable view of a session
type Snapshot struct {
	Requested   []int                 `json:"selectedFloors"`
	Direction   dispatch.Direction    `json:"direction"`
	Priority    *int                  `json:"okuFloor"`
	CallsText   string                `json:"selectedCalls"`
	Notice      string                `json:"okuMessage,omitempty"`
	Traditional dispatch.Queue        `json:"traditionalQueue"`
	ElevAid     dispatch.Queue        `json:"elevaidQueue"`
	Timing      dispatch.Timing       `json:"-"`
	Comparison  *dispatch.Comparison  `json:"-"`
	Running     bool                  `json:"running"`
	RunID       string                `json:"runId,omitempty"`
	Systems     map[System]SystemView `json:"systems"`
}

// Snapshot captures the current session state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.selection
	snap := Snapshot{
		Requested:   sel.Requested(),
		Direction:   sel.Direction(),
		CallsText:   sel.Describe(),
		Notice:      s.notice,
		Traditional: dispatch.BaselineQueue(sel),
		ElevAid:     dispatch.PriorityQueue(sel),
		Timing:      s.timing,
		Running:     s.running != nil,
		Systems:     map[System]SystemView{},
	}
	if p, ok := sel.Priority(); ok {
		snap.Priority = &p
	}
	if c, err := dispatch.Compare(sel, s.timing); err == nil {
		snap.Comparison = &c
	}

	run := s.running
	if run == nil {
		run = s.last
	}
	if run != nil {
		snap.RunID = run.ID
	}

	for _, system := range []System{SystemTraditional, SystemElevAid} {
		view := SystemView{
			Floor:     s.positions[system],
			Status:    readyStatus,
			Phase:     PhaseIdle,
			StepIndex: -1,
			Pending:   []int{},
		}
		if run != nil {
			r := run.Traditional
			if system == SystemElevAid {
				r = run.ElevAid
			}
			st := r.State()
			view.Floor = st.CurrentFloor
			view.Status = r.Status()
			view.Phase = st.Phase
			view.StepIndex = st.StepIndex
			view.Pending = r.Pending()
		}
		snap.Systems[system] = view
	}
	return snap
}
