package rpc

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sentium-labs/bridge-optimizer/optimizer/models"
	"github.com/sentium-labs/bridge-optimizer/optimizer/router"
)

// ScoreRequest asks for the learned score of one route.
type ScoreRequest struct {
	Route models.Route `json:"route"`
}

// ScoreResponse carries the scalar score; higher is better.
type ScoreResponse struct {
	Score float64 `json:"score"`
}

// OptimizeRequest asks for the best candidate among routes.
type OptimizeRequest struct {
	Routes []models.Route `json:"routes"`
}

// OptimizeResponse returns the selected route.
type OptimizeResponse struct {
	Route models.Route `json:"route"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	score, err := s.optimizer.Score(req.Route)
	if err != nil {
		serverLog.Debug().Err(err).Msg("Score request rejected")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ScoreResponse{Score: score})
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	best, err := s.optimizer.Optimize(req.Routes)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, router.ErrNoRoutes) {
			status = http.StatusBadRequest
		}
		serverLog.Debug().Err(err).Msg("Optimize request rejected")
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, OptimizeResponse{Route: best})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		serverLog.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
