package config

import (
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/sherine-k/elevaid/pkg/dispatch"
	"github.com/sherine-k/elevaid/pkg/logger"
	"gopkg.in/yaml.v3"
)

// CronParser parses the 5-field schedules used by scenarios
var CronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// LoadConfig loads and parses the configuration file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses a YAML configuration document
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// ValidateTiming checks that both durations are usable and warns on log when
// they fall outside the recommended ranges
func ValidateTiming(t dispatch.Timing, log *zerolog.Logger) error {
	if t.TravelPerFloor <= 0 {
		return fmt.Errorf("travelTimePerFloor must be greater than 0")
	}
	if t.Stoppage <= 0 {
		return fmt.Errorf("stoppageTime must be greater than 0")
	}
	if t.TravelPerFloor < MinRecommendedTravel || t.TravelPerFloor > MaxRecommendedTravel {
		log.Warn().
			Dur("value", t.TravelPerFloor).
			Dur("min", MinRecommendedTravel).
			Dur("max", MaxRecommendedTravel).
			Msg("travel time per floor outside recommended range")
	}
	if t.Stoppage < MinRecommendedStoppage || t.Stoppage > MaxRecommendedStoppage {
		log.Warn().
			Dur("value", t.Stoppage).
			Dur("min", MinRecommendedStoppage).
			Dur("max", MaxRecommendedStoppage).
			Msg("stoppage time outside recommended range")
	}
	return nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.FloorCount < 2 {
		return fmt.Errorf("floorCount must be at least 2")
	}

	if err := ValidateTiming(config.Timing, logger.GetLogger()); err != nil {
		return err
	}

	if config.Server.DetectorTimeout < 0 {
		return fmt.Errorf("server.detectorTimeout must not be negative")
	}

	if config.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("server.maxUploadBytes must not be negative")
	}

	names := map[string]bool{}
	for i := range config.Scenarios {
		sc := &config.Scenarios[i]
		if sc.Name == "" {
			return fmt.Errorf("scenario %d: name is required", i)
		}
		if names[sc.Name] {
			return fmt.Errorf("scenario %s: duplicate name", sc.Name)
		}
		names[sc.Name] = true

		dir, err := dispatch.ParseDirection(string(sc.Direction))
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		sc.Direction = dir

		if len(sc.Floors) == 0 {
			return fmt.Errorf("scenario %s: at least one floor must be requested", sc.Name)
		}

		seen := map[int]bool{}
		for _, f := range sc.Floors {
			if seen[f] {
				return fmt.Errorf("scenario %s: floor %d requested twice", sc.Name, f)
			}
			seen[f] = true
		}

		if _, err := sc.Selection(config.FloorCount); err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}

		if sc.Schedule != "" {
			if _, err := CronParser.Parse(sc.Schedule); err != nil {
				return fmt.Errorf("scenario %s: invalid schedule %q: %w", sc.Name, sc.Schedule, err)
			}
		}
	}

	return nil
}
