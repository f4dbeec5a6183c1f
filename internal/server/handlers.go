package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/ppiankov/betthink/internal/model"
	"github.com/ppiankov/betthink/internal/pipeline"
	"github.com/rs/zerolog/log"
)

const maxRequestBytes = 64 << 10

// predictionRequest is the body of POST /api/v1/predictions
type predictionRequest struct {
	Sport             string `json:"sport"`
	HomeTeamName      string `json:"homeTeamName"`
	AwayTeamName      string `json:"awayTeamName"`
	AdditionalContext string `json:"additionalContext"`
}

type sportResponse struct {
	Sport      model.Sport      `json:"sport"`
	Categories []model.Category `json:"categories"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) createPrediction(w http.ResponseWriter, r *http.Request) {
	var req predictionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be a JSON match query")
		return
	}

	sport, err := model.ParseSport(req.Sport)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	report, err := s.analyzer.Analyze(r.Context(), model.MatchQuery{
		Sport:             sport,
		HomeTeamName:      req.HomeTeamName,
		AwayTeamName:      req.AwayTeamName,
		AdditionalContext: req.AdditionalContext,
	})
	switch {
	case err == nil:
		jsonResponse(w, http.StatusOK, report)
	case errors.Is(err, model.ErrInvalidQuery):
		errorResponse(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
	case errors.Is(err, pipeline.ErrAnalysisFailed):
		errorResponse(w, http.StatusBadGateway, "ANALYSIS_FAILED", pipeline.AnalysisFailedMessage)
	default:
		log.Error().Err(err).Msg("unexpected analysis error")
		errorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func (s *Server) listSports(w http.ResponseWriter, r *http.Request) {
	sports := model.AllSports()
	resp := make([]sportResponse, 0, len(sports))
	for _, sport := range sports {
		resp = append(resp, sportResponse{Sport: sport, Categories: model.Categories(sport)})
	}
	jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	if s.ready != nil && !s.ready.IsAvailable(ctx) {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	jsonResponse(w, code, map[string]string{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

func errorResponse(w http.ResponseWriter, status int, code, message string) {
	jsonResponse(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// clientIP strips the port from RemoteAddr
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
