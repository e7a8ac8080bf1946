package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapdgml/internal/engine"
	"github.com/leapstack-labs/leapdgml/internal/loader"
	"github.com/leapstack-labs/leapdgml/internal/state"
)

// API response envelope
type apiResponse[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   *apiError `json:"error,omitempty"`
}

// Error codes for API responses
const (
	ErrInvalidRequest  = "INVALID_REQUEST"
	ErrEmptyBody       = "EMPTY_BODY"
	ErrBodyTooLarge    = "BODY_TOO_LARGE"
	ErrConversion      = "CONVERSION_ERROR"
	ErrHistoryDisabled = "HISTORY_DISABLED"
	ErrHistory         = "HISTORY_ERROR"
)

type graphData struct {
	Context string      `json:"context"`
	Hash    string      `json:"input_hash"`
	Stats   state.Stats `json:"stats"`
	Nodes   []string    `json:"nodes"`
	Links   []string    `json:"links"`
}

func (s *Server) handleDGML(w http.ResponseWriter, r *http.Request) {
	res, ok := s.convertBody(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(res.Document)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	res, ok := s.convertBody(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, graphData{
		Context: res.Context,
		Hash:    res.InputHash,
		Stats:   res.Stats,
		Nodes:   res.Graph.Nodes(),
		Links:   res.Graph.Links(),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	store := s.engine.Store()
	if store == nil {
		s.respondError(w, ErrHistoryDisabled, "History is disabled", http.StatusNotFound, nil)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.respondError(w, ErrInvalidRequest, "limit must be a non-negative integer", http.StatusBadRequest, err)
			return
		}
		limit = n
	}

	runs, err := store.ListConversions(limit)
	if err != nil {
		s.respondError(w, ErrHistory, "Failed to read history", http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []*state.Conversion{}
	}
	s.respondJSON(w, runs)
}

// convertBody reads the request body and converts it.
// Returns false if the conversion failed (error response already sent).
func (s *Server) convertBody(w http.ResponseWriter, r *http.Request) (*engine.Result, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, ErrBodyTooLarge, "Request body too large", http.StatusRequestEntityTooLarge, err)
			return nil, false
		}
		s.respondError(w, ErrInvalidRequest, "Failed to read request body", http.StatusBadRequest, err)
		return nil, false
	}
	if strings.TrimSpace(string(body)) == "" {
		s.respondError(w, ErrEmptyBody, "Request body is empty", http.StatusBadRequest, nil)
		return nil, false
	}

	label := r.URL.Query().Get("context")
	if label == "" {
		label = loader.DefaultContext
	}
	res, err := s.engine.ConvertText(r.Context(), "request", label, string(body))
	if err != nil {
		s.respondError(w, ErrConversion, err.Error(), http.StatusUnprocessableEntity, err)
		return nil, false
	}
	return res, true
}

// respondJSON sends a successful JSON response
func (s *Server) respondJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	resp := apiResponse[any]{Success: true, Data: data}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// respondError logs the details server-side and sends a safe message to the client.
func (s *Server) respondError(w http.ResponseWriter, code, clientMessage string, status int, internalErr error) {
	if internalErr != nil {
		s.logger.Warn(clientMessage, "code", code, "error", internalErr)
	} else {
		s.logger.Warn(clientMessage, "code", code)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	resp := errorResponse{
		Success: false,
		Error:   &apiError{Code: code, Message: clientMessage},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode error response", "error", err)
	}
}
