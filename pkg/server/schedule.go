package server

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sherine-k/elevaid/pkg/config"
	"github.com/sherine-k/elevaid/pkg/simulation"
)

// Schedule registers a replay for every scenario that has a cron schedule.
// A tick that fires while a run is in progress is skipped.
func (s *Server) Schedule(c *cron.Cron, scenarios []config.Scenario) (int, error) {
	registered := 0
	for i := range scenarios {
		sc := scenarios[i]
		if sc.Schedule == "" {
			continue
		}
		if _, err := c.AddFunc(sc.Schedule, func() { s.replay(sc) }); err != nil {
			return registered, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		s.logger.Info().Str("scenario", sc.Name).Str("schedule", sc.Schedule).Msg("scenario scheduled")
		registered++
	}
	return registered, nil
}

// NewCron creates a scheduler that understands the scenario schedule format
func NewCron() *cron.Cron {
	return cron.New(cron.WithParser(config.CronParser))
}

func (s *Server) replay(sc config.Scenario) {
	sel, err := sc.Selection(s.cfg.FloorCount)
	if err != nil {
		s.logger.Warn().Str("scenario", sc.Name).Err(err).Msg("scenario invalid")
		return
	}

	changed, err := s.session.Load(sel)
	if err != nil {
		s.logger.Warn().Str("scenario", sc.Name).Err(err).Msg("scenario rejected")
		return
	}
	if !changed {
		s.logger.Info().Str("scenario", sc.Name).Msg("scenario skipped, simulation in progress")
		return
	}

	run, err := s.session.Start(s.runCtx)
	if errors.Is(err, simulation.ErrRunning) {
		s.logger.Info().Str("scenario", sc.Name).Msg("scenario skipped, simulation in progress")
		return
	}
	if err != nil {
		s.logger.Warn().Str("scenario", sc.Name).Err(err).Msg("scenario failed to start")
		return
	}
	s.logger.Info().Str("scenario", sc.Name).Str("run", run.ID).Msg("scenario replay started")
}
