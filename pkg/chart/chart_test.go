package chart

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sherine-k/elevaid/pkg/dispatch"
	"github.com/sherine-k/elevaid/pkg/simulation"
)

var demoTiming = dispatch.Timing{TravelPerFloor: time.Second, Stoppage: 2 * time.Second}

func workedExample(t *testing.T) *dispatch.Selection {
	t.Helper()
	sel := dispatch.NewSelection(dispatch.DefaultFloorCount, dispatch.DirectionDown)
	for _, f := range []int{3, 7, 10} {
		sel.Add(f)
	}
	if err := sel.SetPriority(7); err != nil {
		t.Fatal(err)
	}
	return sel
}

func runEvents(t *testing.T, sel *dispatch.Selection) []simulation.Event {
	t.Helper()
	rec := simulation.NewRecorder()
	var runners []*simulation.Runner
	for system, queue := range map[simulation.System]dispatch.Queue{
		simulation.SystemTraditional: dispatch.BaselineQueue(sel),
		simulation.SystemElevAid:     dispatch.PriorityQueue(sel),
	} {
		r, err := simulation.NewRunner(simulation.RunnerOptions{
			System:     system,
			Queue:      queue,
			Requested:  sel.Requested(),
			Prioritise: true,
			Timing:     demoTiming,
			Sleeper:    simulation.Instant{},
			Observer:   rec,
		})
		if err != nil {
			t.Fatal(err)
		}
		runners = append(runners, r)
	}
	if err := simulation.RunPair(context.Background(), runners...); err != nil {
		t.Fatal(err)
	}
	return rec.Events()
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0.0s"},
		{12 * time.Second, "12.0s"},
		{1500 * time.Millisecond, "1.5s"},
		{64 * time.Second, "1m 4.0s"},
		{90*time.Second + 500*time.Millisecond, "1m 30.5s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateTimingReport(t *testing.T) {
	g := NewGenerator()
	c, err := dispatch.Compare(workedExample(t), demoTiming)
	if err != nil {
		t.Fatal(err)
	}

	out := g.GenerateTimingReport(&c)
	for _, want := range []string{"24.0s", "16.0s", "17.0s", "9.0s", "Time Saved: 8.0s (33.3% faster)"} {
		if !strings.Contains(out, want) {
			t.Errorf("report is missing %q:\n%s", want, out)
		}
	}

	// No savings block when the priority floor is already served first.
	sel := dispatch.NewSelection(dispatch.DefaultFloorCount, dispatch.DirectionDown)
	sel.Add(10)
	sel.SetPriority(10)
	c, _ = dispatch.Compare(sel, demoTiming)
	if out := g.GenerateTimingReport(&c); strings.Contains(out, "Time Saved") {
		t.Errorf("savings shown without a saving:\n%s", out)
	}

	if out := g.GenerateTimingReport(nil); !strings.Contains(out, "not computed") {
		t.Errorf("unexpected report without priority:\n%s", out)
	}
}

func TestGenerateQueues(t *testing.T) {
	g := NewGenerator()
	sel := workedExample(t)
	out := g.GenerateQueues(dispatch.BaselineQueue(sel), dispatch.PriorityQueue(sel), sel)

	if !strings.Contains(out, "Traditional: [10] [7] [3] [G]") {
		t.Errorf("missing traditional queue:\n%s", out)
	}
	if !strings.Contains(out, "ElevAid:     [7*] [G]") {
		t.Errorf("missing elevaid queue:\n%s", out)
	}

	empty := dispatch.NewSelection(dispatch.DefaultFloorCount, dispatch.DirectionDown)
	if out := g.GenerateQueues(dispatch.BaselineQueue(empty), dispatch.PriorityQueue(empty), empty); !strings.Contains(out, "No floors selected") {
		t.Errorf("unexpected output for an empty selection:\n%s", out)
	}
}

func TestGenerateShaftChart(t *testing.T) {
	g := NewGenerator()
	sel := workedExample(t)
	events := runEvents(t, sel)

	out := g.GenerateShaftChart(events, simulation.SystemElevAid, sel)
	if !strings.Contains(out, "ElevAid System") {
		t.Errorf("missing title:\n%s", out)
	}

	rows := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, " |") {
			rows++
			if !strings.Contains(line, "█") && (strings.HasPrefix(line, "  G") || strings.HasPrefix(line, "  7")) {
				t.Errorf("car never drawn on visited floor row %q", line)
			}
		}
	}
	if rows != dispatch.DefaultFloorCount {
		t.Errorf("Expected %d floor rows, got %d", dispatch.DefaultFloorCount, rows)
	}
	if !strings.Contains(out, "Completed in 19.0s") {
		t.Errorf("Expected completion after 19s:\n%s", out)
	}

	if out := g.GenerateShaftChart(nil, simulation.SystemTraditional, sel); out != "No data to display" {
		t.Errorf("Expected no data, got %q", out)
	}
}

func TestEventSummaryAndTimeline(t *testing.T) {
	g := NewGenerator()
	events := runEvents(t, workedExample(t))

	summary := g.GenerateEventSummary(events)
	if !strings.Contains(summary, "Calls Served: 3") || !strings.Contains(summary, "Calls Served: 1") {
		t.Errorf("unexpected summary:\n%s", summary)
	}

	timeline := g.GenerateDetailedTimeline(events, 5)
	if !strings.Contains(timeline, "showing first 5 events") {
		t.Errorf("timeline limit not reported:\n%s", timeline)
	}
	if !strings.Contains(timeline, "more events") {
		t.Errorf("timeline remainder not reported:\n%s", timeline)
	}
}
