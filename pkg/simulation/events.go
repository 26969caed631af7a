package simulation

import (
	"sync"
	"time"
)

// System identifies which dispatch strategy a run follows
type System string

const (
	SystemTraditional System = "traditional"
	SystemElevAid     System = "elevaid"
)

// EventType defines the type of event in the simulation
type EventType string

const (
	EventTypeRunStarted   EventType = "run-started"
	EventTypeStepStarted  EventType = "step-started"
	EventTypeFloorPassed  EventType = "floor-passed"
	EventTypeArrived      EventType = "arrived"
	EventTypeDwellStarted EventType = "dwell-started"
	EventTypeFloorServed  EventType = "floor-served"
	EventTypeStepPaused   EventType = "step-paused"
	EventTypeRunComplete  EventType = "run-complete"
)

// Event represents a point-in-time event of one run
type Event struct {
	RunID   string        `json:"runId"`
	System  System        `json:"system"`
	Type    EventType     `json:"type"`
	Time    time.Time     `json:"time"`
	Elapsed time.Duration `json:"elapsed"`
	Floor   int           `json:"floor"`
	Step    int           `json:"step"`
	Message string        `json:"message"`
}

// Observer receives runner events. Notify is called from the run's goroutine.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to an Observer
type ObserverFunc func(Event)

func (f ObserverFunc) Notify(e Event) { f(e) }

// Observers fans an event out to several observers in order
type Observers []Observer

func (o Observers) Notify(e Event) {
	for _, obs := range o {
		if obs != nil {
			obs.Notify(e)
		}
	}
}

// Recorder collects the events of concurrent runs
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{events: []Event{}}
}

func (r *Recorder) Notify(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns all recorded events in arrival order
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// For returns the events of one system in emission order
func (r *Recorder) For(system System) []Event {
	return Filter(r.Events(), func(e Event) bool { return e.System == system })
}

// Served returns the floor-served events of one system
func (r *Recorder) Served(system System) []Event {
	return Filter(r.For(system), func(e Event) bool { return e.Type == EventTypeFloorServed })
}

// Filter returns the events matching keep
func Filter(events []Event, keep func(Event) bool) []Event {
	out := []Event{}
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
