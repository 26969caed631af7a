package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sherine-k/elevaid/pkg/chart"
	"github.com/sherine-k/elevaid/pkg/config"
	"github.com/sherine-k/elevaid/pkg/dispatch"
	"github.com/sherine-k/elevaid/pkg/logger"
	"github.com/sherine-k/elevaid/pkg/simulation"
	"github.com/spf13/cobra"
)

var (
	configFile       string
	floorsFlag       string
	directionFlag    string
	priorityFlag     int
	scenarioFlag     string
	travelTimeFlag   time.Duration
	stoppageTimeFlag time.Duration
	instant          bool
	speed            float64
	showTimeline     bool
	timelineLimit    int
	showEventSummary bool
	verbose          bool
)

var rootCmd = &cobra.Command{
	Use:   "elevaid",
	Short: "Traditional vs ElevAid elevator dispatch simulator",
	Long: `A CLI tool that compares a traditional elevator dispatch order against
ElevAid, which serves the floor of an OKU (accessibility priority) passenger first.

Pick the hall-call floors, optionally mark one of them as the OKU floor, and both
elevators are simulated side by side. The tool prints both dispatch queues, the
OKU passenger's waiting, travel and total time under each system, and a chart of
each car's position over time.`,
	Example: `  elevaid --floors 3,7,10 --priority 7 --instant
  elevaid -c elevaid.yaml --scenario morning --speed 4 --timeline`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	RunE:              runComparison,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (defaults are used when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().StringVarP(&floorsFlag, "floors", "f", "", "Comma separated hall-call floors, e.g. 3,7,10")
	rootCmd.Flags().StringVarP(&directionFlag, "direction", "d", "down", "Hall call direction (up or down)")
	rootCmd.Flags().IntVarP(&priorityFlag, "priority", "p", -1, "OKU floor served first by ElevAid (must be one of --floors)")
	rootCmd.Flags().StringVar(&scenarioFlag, "scenario", "", "Run a scenario from the configuration file instead of --floors")
	rootCmd.Flags().DurationVar(&travelTimeFlag, "travel-time", 0, "Travel time per floor (overrides configuration)")
	rootCmd.Flags().DurationVar(&stoppageTimeFlag, "stoppage-time", 0, "Stoppage time at each floor (overrides configuration)")
	rootCmd.Flags().BoolVar(&instant, "instant", false, "Skip the real-time animation and report simulated times directly")
	rootCmd.Flags().Float64Var(&speed, "speed", 1, "Playback speed multiplier for the real-time animation")
	rootCmd.Flags().BoolVarP(&showTimeline, "timeline", "t", false, "Show detailed timeline of events")
	rootCmd.Flags().IntVarP(&timelineLimit, "timeline-limit", "l", 50, "Limit number of timeline events to display")
	rootCmd.Flags().BoolVarP(&showEventSummary, "summary", "s", true, "Show event summary")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger.GetLoggerConfigured(level)
	return nil
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// parseFloors parses a comma separated floor list
func parseFloors(s string) ([]int, error) {
	floors := []int{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.EqualFold(part, "g") {
			floors = append(floors, dispatch.Ground)
			continue
		}
		f, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid floor %q", part)
		}
		floors = append(floors, f)
	}
	return floors, nil
}

// buildSelection resolves the selection from --scenario or --floors
func buildSelection(cfg *config.Config) (*dispatch.Selection, error) {
	if scenarioFlag != "" {
		sc, ok := cfg.Scenario(scenarioFlag)
		if !ok {
			return nil, fmt.Errorf("scenario %q not found in configuration", scenarioFlag)
		}
		return sc.Selection(cfg.FloorCount)
	}

	direction, err := dispatch.ParseDirection(directionFlag)
	if err != nil {
		return nil, err
	}
	floors, err := parseFloors(floorsFlag)
	if err != nil {
		return nil, err
	}

	sel := dispatch.NewSelection(cfg.FloorCount, direction)
	for _, f := range floors {
		if err := sel.Add(f); err != nil {
			return nil, err
		}
	}
	if priorityFlag >= 0 {
		if err := sel.SetPriority(priorityFlag); err != nil {
			return nil, err
		}
	}
	return sel, nil
}

func sleeper() simulation.Sleeper {
	if instant {
		return simulation.Instant{}
	}
	if speed != 1 {
		return simulation.Scaled{Factor: speed}
	}
	return simulation.RealTime{}
}

// progress prints arrivals and served calls while the cars move
func progress(e simulation.Event) {
	switch e.Type {
	case simulation.EventTypeArrived, simulation.EventTypeFloorServed, simulation.EventTypeRunComplete:
		fmt.Printf("  [%7s] %-11s %s\n", chart.FormatDuration(e.Elapsed), e.System, e.Message)
	}
}

func runComparison(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if travelTimeFlag > 0 {
		cfg.Timing.TravelPerFloor = travelTimeFlag
	}
	if stoppageTimeFlag > 0 {
		cfg.Timing.Stoppage = stoppageTimeFlag
	}
	if err := config.ValidateTiming(cfg.Timing, logger.GetLogger()); err != nil {
		return fmt.Errorf("invalid timing: %w", err)
	}

	sel, err := buildSelection(cfg)
	if err != nil {
		return fmt.Errorf("invalid selection: %w", err)
	}
	if sel.Empty() {
		return fmt.Errorf("no floors selected: use --floors or --scenario")
	}

	fmt.Printf("Building: %d floors (G-%d)\n", cfg.FloorCount, cfg.FloorCount-1)
	fmt.Printf("  - Travel Time per Floor: %s\n", chart.FormatDuration(cfg.Timing.TravelPerFloor))
	fmt.Printf("  - Stoppage Time: %s\n", chart.FormatDuration(cfg.Timing.Stoppage))
	fmt.Printf("  - %s\n", sel.Describe())

	chartGen := chart.NewGenerator()

	// Create and run both simulations
	session := simulation.NewSession(simulation.SessionOptions{
		FloorCount: cfg.FloorCount,
		Direction:  sel.Direction(),
		Timing:     cfg.Timing,
		Sleeper:    sleeper(),
		Logger:     logger.GetLogger(),
	})
	if _, err := session.Load(sel); err != nil {
		return err
	}

	var obs []simulation.Observer
	if !instant {
		obs = append(obs, simulation.ObserverFunc(progress))
	}

	run, err := session.Start(context.Background(), obs...)
	if err != nil {
		return fmt.Errorf("failed to start simulation: %w", err)
	}
	fmt.Println(chartGen.GenerateQueues(run.Baseline, run.Priority, run.Selection))

	if err := run.Wait(); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	events := run.Recorder.Events()

	// Display timing comparison
	fmt.Println(chartGen.GenerateTimingReport(run.Comparison))

	// Display shaft charts
	for _, system := range []simulation.System{simulation.SystemTraditional, simulation.SystemElevAid} {
		fmt.Println(chartGen.GenerateShaftChart(events, system, run.Selection))
	}

	// Display event summary
	if showEventSummary {
		fmt.Println(chartGen.GenerateEventSummary(events))
	}

	// Display detailed timeline if requested
	if showTimeline {
		fmt.Println(chartGen.GenerateDetailedTimeline(events, timelineLimit))
	}

	for _, r := range run.Runners() {
		fmt.Printf("%s\n", r.Status())
		if pending := r.Pending(); len(pending) > 0 {
			fmt.Printf("  calls not visited by this system: %v\n", pending)
		}
	}

	return nil
}
