package chart

import (
	"fmt"
	"strings"
	"time"

	"github.com/sherine-k/elevaid/pkg/dispatch"
	"github.com/sherine-k/elevaid/pkg/simulation"
)

const (
	chartWidth  = 80
	chartHeight = 20
)

// Generator generates ASCII charts
type Generator struct {
	width  int
	height int
}

// NewGenerator creates a new chart generator
func NewGenerator() *Generator {
	return &Generator{
		width:  chartWidth,
		height: chartHeight,
	}
}

func systemTitle(system simulation.System) string {
	if system == simulation.SystemElevAid {
		return "ElevAid System"
	}
	return "Traditional System"
}

// positionAt returns the car's floor at elapsed time t, given the movement
// events of one run in emission order
func positionAt(moves []simulation.Event, start int, t time.Duration) int {
	floor := start
	for _, e := range moves {
		if e.Elapsed > t {
			break
		}
		floor = e.Floor
	}
	return floor
}

// GenerateShaftChart draws the car's floor over elapsed time for one system
func (g *Generator) GenerateShaftChart(events []simulation.Event, system simulation.System, sel *dispatch.Selection) string {
	runEvents := simulation.Filter(events, func(e simulation.Event) bool { return e.System == system })
	if len(runEvents) == 0 {
		return "No data to display"
	}

	var sb strings.Builder

	// Header
	sb.WriteString("\n")
	sb.WriteString(systemTitle(system) + " - Car Position Over Time\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	start := runEvents[0].Floor
	total := runEvents[len(runEvents)-1].Elapsed
	moves := simulation.Filter(runEvents, func(e simulation.Event) bool {
		return e.Type == simulation.EventTypeFloorPassed || e.Type == simulation.EventTypeArrived
	})

	// Serving times per floor, so served calls can be marked on their row
	servedAt := map[int]time.Duration{}
	for _, e := range runEvents {
		if e.Type == simulation.EventTypeFloorServed {
			servedAt[e.Floor] = e.Elapsed
		}
	}

	plotWidth := g.width - 10
	columnTime := func(x int) time.Duration {
		if plotWidth <= 1 || total <= 0 {
			return 0
		}
		return time.Duration(float64(x) / float64(plotWidth-1) * float64(total))
	}

	positions := make([]int, plotWidth)
	for x := range positions {
		positions[x] = positionAt(moves, start, columnTime(x))
	}

	prio, hasPrio := sel.Priority()
	for floor := sel.TopFloor(); floor >= 0; floor-- {
		// Y-axis label with the hall call marker
		marker := " "
		if sel.IsRequested(floor) {
			marker = sel.Direction().Arrow()
			if hasPrio && floor == prio {
				marker = "♿"
			}
		}
		sb.WriteString(fmt.Sprintf("%3s %s |", dispatch.FloorLabel(floor), marker))

		served, wasServed := servedAt[floor]
		for x := 0; x < plotWidth; x++ {
			switch {
			case positions[x] == floor:
				sb.WriteString("█")
			case wasServed && columnTime(x) >= served:
				sb.WriteString("·")
			default:
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}

	// X-axis
	sb.WriteString("      +")
	sb.WriteString(strings.Repeat("-", plotWidth))
	sb.WriteString("\n")

	// X-axis labels - marks every 5 seconds of simulated time
	labelLine := make([]rune, plotWidth)
	for i := range labelLine {
		labelLine[i] = ' '
	}
	for mark := time.Duration(0); mark <= total; mark += 5 * time.Second {
		position := 0
		if total > 0 {
			position = int(float64(mark) / float64(total) * float64(plotWidth-1))
		}
		label := fmt.Sprintf("%ds", int(mark.Seconds()))
		if position+len(label) > plotWidth {
			break
		}
		for i, ch := range label {
			labelLine[position+i] = ch
		}
	}
	sb.WriteString("       ")
	sb.WriteString(string(labelLine))
	sb.WriteString("\n")

	// Legend
	sb.WriteString("\n")
	sb.WriteString("Legend:\n")
	sb.WriteString("    █ - Elevator car\n")
	sb.WriteString("    · - Hall call served\n")
	sb.WriteString(fmt.Sprintf("    %s - Hall call, ♿ - OKU person\n", sel.Direction().Arrow()))
	sb.WriteString(fmt.Sprintf("  Completed in %s\n", FormatDuration(total)))
	sb.WriteString("\n")

	return sb.String()
}

// GenerateQueues lists both visit orders, marking the priority stop
func (g *Generator) GenerateQueues(baseline, priority dispatch.Queue, sel *dispatch.Selection) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Dispatch Queues\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")
	sb.WriteString(sel.Describe() + "\n\n")

	prio, hasPrio := sel.Priority()
	label := func(q dispatch.Queue, markPriority bool) string {
		items := make([]string, len(q))
		for i, f := range q {
			items[i] = "[" + dispatch.FloorLabel(f) + "]"
			if markPriority && hasPrio && f == prio {
				items[i] = "[" + dispatch.FloorLabel(f) + "*]"
			}
		}
		return strings.Join(items, " ")
	}

	if len(baseline) == 0 {
		sb.WriteString("No floors selected\n\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("  Traditional: %s\n", label(baseline, false)))
	sb.WriteString(fmt.Sprintf("  ElevAid:     %s\n", label(priority, true)))
	if hasPrio {
		sb.WriteString("  (* priority stop)\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// GenerateTimingReport shows the OKU passenger's journey under both systems
func (g *Generator) GenerateTimingReport(c *dispatch.Comparison) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("OKU Journey Times\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	if c == nil {
		sb.WriteString("No OKU person assigned - journey times not computed\n\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("OKU person at floor %s\n\n", dispatch.FloorLabel(c.PriorityFloor)))
	sb.WriteString(fmt.Sprintf("  %-20s %12s %12s\n", "", "Traditional", "ElevAid"))
	sb.WriteString(fmt.Sprintf("  %-20s %12s %12s\n", "Waiting Time", FormatDuration(c.Baseline.WaitingTime), FormatDuration(c.Priority.WaitingTime)))
	sb.WriteString(fmt.Sprintf("  %-20s %12s %12s\n", "Travel Time", FormatDuration(c.Baseline.TravelTime), FormatDuration(c.Priority.TravelTime)))
	sb.WriteString(fmt.Sprintf("  %-20s %12s %12s\n", "Total Time", FormatDuration(c.Baseline.TotalTime), FormatDuration(c.Priority.TotalTime)))

	if c.ShowSavings() {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Time Saved: %s (%.1f%% faster)\n", FormatDuration(c.Saved), c.Percent))
	}
	sb.WriteString("\n")

	return sb.String()
}

// GenerateEventSummary generates a summary of events
func (g *Generator) GenerateEventSummary(events []simulation.Event) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Event Summary\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Total Events: %d\n", len(events)))
	for _, system := range []simulation.System{simulation.SystemTraditional, simulation.SystemElevAid} {
		// Group events by type
		eventsByType := make(map[simulation.EventType]int)
		var finished time.Duration
		for _, event := range events {
			if event.System != system {
				continue
			}
			eventsByType[event.Type]++
			if event.Type == simulation.EventTypeRunComplete {
				finished = event.Elapsed
			}
		}

		sb.WriteString(fmt.Sprintf("  %s:\n", systemTitle(system)))
		sb.WriteString(fmt.Sprintf("    - Stops: %d\n", eventsByType[simulation.EventTypeArrived]))
		sb.WriteString(fmt.Sprintf("    - Floors Passed: %d\n", eventsByType[simulation.EventTypeFloorPassed]))
		sb.WriteString(fmt.Sprintf("    - Calls Served: %d\n", eventsByType[simulation.EventTypeFloorServed]))
		sb.WriteString(fmt.Sprintf("    - Completed In: %s\n", FormatDuration(finished)))
	}
	sb.WriteString("\n")

	return sb.String()
}

// GenerateDetailedTimeline generates a detailed timeline of events
func (g *Generator) GenerateDetailedTimeline(events []simulation.Event, limit int) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Detailed Timeline")
	if limit > 0 && limit < len(events) {
		sb.WriteString(fmt.Sprintf(" (showing first %d events)", limit))
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	displayCount := len(events)
	if limit > 0 && limit < displayCount {
		displayCount = limit
	}

	for i := 0; i < displayCount; i++ {
		event := events[i]

		typeIcon := " "
		switch event.Type {
		case simulation.EventTypeRunStarted:
			typeIcon = ">"
		case simulation.EventTypeStepStarted:
			typeIcon = "#"
		case simulation.EventTypeFloorPassed:
			typeIcon = "|"
		case simulation.EventTypeArrived:
			typeIcon = "@"
		case simulation.EventTypeDwellStarted:
			typeIcon = "D"
		case simulation.EventTypeFloorServed:
			typeIcon = "+"
		case simulation.EventTypeStepPaused:
			typeIcon = "."
		case simulation.EventTypeRunComplete:
			typeIcon = "!"
		}

		sb.WriteString(fmt.Sprintf("[%7s] %-11s %s [%s] %s\n",
			FormatDuration(event.Elapsed),
			event.System,
			typeIcon,
			dispatch.FloorLabel(event.Floor),
			event.Message))
	}

	if limit > 0 && limit < len(events) {
		sb.WriteString(fmt.Sprintf("\n... and %d more events\n", len(events)-limit))
	}

	sb.WriteString("\n")

	return sb.String()
}

// FormatDuration formats a duration the way the demo displays times:
// "12.0s" below a minute, "1m 4.0s" above
func FormatDuration(d time.Duration) string {
	seconds := d.Seconds()
	if seconds >= 60 {
		minutes := int(seconds / 60)
		return fmt.Sprintf("%dm %.1fs", minutes, seconds-float64(minutes*60))
	}
	return fmt.Sprintf("%.1fs", seconds)
}
