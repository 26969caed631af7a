package config

import (
	"time"

	"github.com/sherine-k/elevaid/pkg/dispatch"
)

// Recommended timing ranges. Values outside them are accepted with a warning.
const (
	MinRecommendedTravel   = 500 * time.Millisecond
	MaxRecommendedTravel   = 3 * time.Second
	MinRecommendedStoppage = 1 * time.Second
	MaxRecommendedStoppage = 5 * time.Second
)

// Config represents the entire configuration for the dispatch simulator
type Config struct {
	FloorCount int             `yaml:"floorCount"`
	Timing     dispatch.Timing `yaml:",inline"`
	Server     Server          `yaml:"server"`
	Scenarios  []Scenario      `yaml:"scenarios"`
}

// Server configures the HTTP service and its upload collaborator
type Server struct {
	Addr            string        `yaml:"addr"`
	DetectorURL     string        `yaml:"detectorURL"`
	DetectorTimeout time.Duration `yaml:"detectorTimeout"`
	MaxUploadBytes  int64         `yaml:"maxUploadBytes"`
}

// Scenario is a named set of hall calls that can be run from the CLI or
// replayed by the server on a cron schedule
type Scenario struct {
	Name          string             `yaml:"name"`
	Floors        []int              `yaml:"floors"`
	Direction     dispatch.Direction `yaml:"direction"`
	PriorityFloor *int               `yaml:"priorityFloor,omitempty"`

	// Standard 5-field cron expression, only used by the server
	Schedule string `yaml:"schedule,omitempty"`
}

// Default returns the demo building: 15 floors, 1s per floor, 2s dwell
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.FloorCount == 0 {
		cfg.FloorCount = dispatch.DefaultFloorCount
	}
	if cfg.Timing.TravelPerFloor == 0 {
		cfg.Timing.TravelPerFloor = time.Second
	}
	if cfg.Timing.Stoppage == 0 {
		cfg.Timing.Stoppage = 2 * time.Second
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}
	if cfg.Server.DetectorTimeout == 0 {
		cfg.Server.DetectorTimeout = 2 * time.Minute
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = 100 * 1024 * 1024
	}
	for i := range cfg.Scenarios {
		if cfg.Scenarios[i].Direction == "" {
			cfg.Scenarios[i].Direction = dispatch.DirectionDown
		}
	}
}

// Scenario looks up a scenario by name
func (c *Config) Scenario(name string) (*Scenario, bool) {
	for i := range c.Scenarios {
		if c.Scenarios[i].Name == name {
			return &c.Scenarios[i], true
		}
	}
	return nil, false
}

// Selection builds the hall-call selection described by the scenario
func (s *Scenario) Selection(floorCount int) (*dispatch.Selection, error) {
	sel := dispatch.NewSelection(floorCount, s.Direction)
	for _, f := range s.Floors {
		if err := sel.Add(f); err != nil {
			return nil, err
		}
	}
	if s.PriorityFloor != nil {
		if err := sel.SetPriority(*s.PriorityFloor); err != nil {
			return nil, err
		}
	}
	return sel, nil
}
