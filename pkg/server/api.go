package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sherine-k/elevaid/pkg/dispatch"
)

// simulationRequest is the body of the stateless queue and timing endpoints.
// Durations are milliseconds.
type simulationRequest struct {
	SelectedFloors []int  `json:"selectedFloors"`
	OKUFloor       *int   `json:"okuFloor"`
	Direction      string `json:"direction"`
	TravelTime     *int64 `json:"travelTime"`
	StoppageTime   *int64 `json:"stoppageTime"`
}

type timingResponse struct {
	WaitingTime int64 `json:"waitingTime"`
	TravelTime  int64 `json:"travelTime"`
	TotalTime   int64 `json:"totalTime"`
}

func toTimingResponse(r dispatch.TimingResult) timingResponse {
	return timingResponse{
		WaitingTime: r.WaitingTime.Milliseconds(),
		TravelTime:  r.TravelTime.Milliseconds(),
		TotalTime:   r.TotalTime.Milliseconds(),
	}
}

func millis(v *int64, def time.Duration) time.Duration {
	if v == nil {
		return def
	}
	return time.Duration(*v) * time.Millisecond
}

func (s *Server) decodeSimulation(r *http.Request) (*dispatch.Selection, dispatch.Timing, error) {
	var req simulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, dispatch.Timing{}, fmt.Errorf("invalid request body: %w", err)
	}

	direction := dispatch.DirectionDown
	if req.Direction != "" {
		d, err := dispatch.ParseDirection(req.Direction)
		if err != nil {
			return nil, dispatch.Timing{}, err
		}
		direction = d
	}

	sel := dispatch.NewSelection(s.cfg.FloorCount, direction)
	for _, f := range req.SelectedFloors {
		if err := sel.Add(f); err != nil {
			return nil, dispatch.Timing{}, err
		}
	}
	if req.OKUFloor != nil {
		if err := sel.SetPriority(*req.OKUFloor); err != nil {
			return nil, dispatch.Timing{}, err
		}
	}

	timing := dispatch.Timing{
		TravelPerFloor: millis(req.TravelTime, s.cfg.Timing.TravelPerFloor),
		Stoppage:       millis(req.StoppageTime, s.cfg.Timing.Stoppage),
	}
	if timing.TravelPerFloor <= 0 || timing.Stoppage <= 0 {
		return nil, dispatch.Timing{}, errors.New("travelTime and stoppageTime must be greater than 0")
	}
	return sel, timing, nil
}

func (s *Server) handleSimulationData(w http.ResponseWriter, r *http.Request) {
	sel, _, err := s.decodeSimulation(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"traditionalQueue": dispatch.BaselineQueue(sel).Ints(),
		"elevaidQueue":     dispatch.PriorityQueue(sel).Ints(),
		"success":          true,
	})
}

func (s *Server) handleCalculateTimes(w http.ResponseWriter, r *http.Request) {
	sel, timing, err := s.decodeSimulation(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := dispatch.Compare(sel, timing)
	if errors.Is(err, dispatch.ErrNoPriorityFloor) {
		writeError(w, http.StatusBadRequest, "No OKU floor specified")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"traditional":     toTimingResponse(c.Baseline),
		"elevaid":         toTimingResponse(c.Priority),
		"timeSaved":       c.Saved.Milliseconds(),
		"savedPercentage": c.Percent,
		"showSavings":     c.ShowSavings(),
	})
}
