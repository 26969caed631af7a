package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sherine-k/elevaid/pkg/dispatch"
	"github.com/sherine-k/elevaid/pkg/simulation"
)

type comparisonResponse struct {
	Traditional     timingResponse `json:"traditional"`
	ElevAid         timingResponse `json:"elevaid"`
	TimeSaved       int64          `json:"timeSaved"`
	SavedPercentage float64        `json:"savedPercentage"`
	ShowSavings     bool           `json:"showSavings"`
}

type sessionResponse struct {
	simulation.Snapshot
	TravelTime   int64               `json:"travelTime"`
	StoppageTime int64               `json:"stoppageTime"`
	Times        *comparisonResponse `json:"times,omitempty"`
	Changed      bool                `json:"changed"`
	Error        string              `json:"error,omitempty"`
}

func (s *Server) sessionView(changed bool) sessionResponse {
	snap := s.session.Snapshot()
	resp := sessionResponse{
		Snapshot:     snap,
		TravelTime:   snap.Timing.TravelPerFloor.Milliseconds(),
		StoppageTime: snap.Timing.Stoppage.Milliseconds(),
		Changed:      changed,
	}
	if c := snap.Comparison; c != nil {
		resp.Times = &comparisonResponse{
			Traditional:     toTimingResponse(c.Baseline),
			ElevAid:         toTimingResponse(c.Priority),
			TimeSaved:       c.Saved.Milliseconds(),
			SavedPercentage: c.Percent,
			ShowSavings:     c.ShowSavings(),
		}
	}
	return resp
}

func floorParam(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("floor"))
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessionView(false))
}

func (s *Server) handleToggleFloor(w http.ResponseWriter, r *http.Request) {
	floor, err := floorParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "floor must be an integer")
		return
	}
	changed, err := s.session.ToggleFloor(floor)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView(changed))
}

func (s *Server) handleTogglePriority(w http.ResponseWriter, r *http.Request) {
	floor, err := floorParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "floor must be an integer")
		return
	}
	changed, err := s.session.TogglePriority(floor)
	switch {
	case errors.Is(err, dispatch.ErrFloorNotRequested):
		resp := s.sessionView(false)
		resp.Error = dispatch.ErrFloorNotRequested.Error()
		writeJSON(w, http.StatusConflict, resp)
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView(changed))
}

func (s *Server) handleDirection(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	d, err := dispatch.ParseDirection(body.Direction)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView(s.session.SetDirection(d)))
}

func (s *Server) handleTiming(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TravelTime   int64 `json:"travelTime"`
		StoppageTime int64 `json:"stoppageTime"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	changed, err := s.session.SetTiming(dispatch.Timing{
		TravelPerFloor: time.Duration(body.TravelTime) * time.Millisecond,
		Stoppage:       time.Duration(body.StoppageTime) * time.Millisecond,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView(changed))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	_, err := s.session.Start(s.runCtx)
	switch {
	case errors.Is(err, simulation.ErrRunning), errors.Is(err, simulation.ErrNoFloors):
		resp := s.sessionView(false)
		resp.Error = err.Error()
		writeJSON(w, http.StatusOK, resp)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, s.sessionView(true))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessionView(s.session.Reset()))
}
