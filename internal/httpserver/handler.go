// Package httpserver exposes walks over a small JSON HTTP API. Routing uses
// net/http method patterns; request logging goes through slog.
package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"phonotaxis/internal/walk"
	"phonotaxis/pkg/phonotaxis"
)

// Handler routes API requests to the phonotaxis client.
type Handler struct {
	client *phonotaxis.Client
	logger *slog.Logger
	mux    *http.ServeMux
}

func NewHandler(client *phonotaxis.Client, logger *slog.Logger) *Handler {
	h := &Handler{
		client: client,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /profiles", h.handleProfiles)
	h.mux.HandleFunc("GET /corpora", h.handleCorpora)
	h.mux.HandleFunc("POST /walks", h.handleRunWalk)
	h.mux.HandleFunc("GET /walks", h.handleListWalks)
	h.mux.HandleFunc("GET /walks/{id}", h.handleGetWalk)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleProfiles(w http.ResponseWriter, r *http.Request) {
	presets := phonotaxis.Profiles()
	items := make([]profileResponse, 0, len(presets))
	for _, p := range presets {
		items = append(items, profileResponse{
			Name:            p.Name,
			Temperature:     p.Temperature,
			FrequencyWeight: p.FrequencyWeight,
		})
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleCorpora(w http.ResponseWriter, r *http.Request) {
	names, err := h.client.Corpora(r.Context())
	if err != nil {
		h.handleClientError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, names)
}

func (h *Handler) handleRunWalk(w http.ResponseWriter, r *http.Request) {
	var req walkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := h.client.RunWalk(r.Context(), phonotaxis.WalkRequest{
		Corpus:          req.Corpus,
		Start:           req.Start,
		Profile:         req.Profile,
		Temperature:     req.Temperature,
		FrequencyWeight: req.FrequencyWeight,
		MaxCandidates:   req.MaxCandidates,
		AllowSelf:       req.AllowSelf,
		Steps:           req.Steps,
		Seed:            req.Seed,
		WalkID:          req.WalkID,
	})
	if err != nil {
		h.handleClientError(w, err)
		return
	}

	h.logger.Info("walk recorded",
		"walk_id", summary.WalkID,
		"corpus", req.Corpus,
		"terminal_state", summary.TerminalState,
		"actual_steps", summary.ActualSteps,
	)
	h.writeJSON(w, http.StatusCreated, walkSummaryResponse{
		WalkID:         summary.WalkID,
		Start:          summary.Start,
		TerminalState:  summary.TerminalState,
		RequestedSteps: summary.RequestedSteps,
		ActualSteps:    summary.ActualSteps,
		Steps:          summary.Steps,
	})
}

func (h *Handler) handleListWalks(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	walks, err := h.client.Walks(r.Context(), phonotaxis.WalksRequest{Limit: limit})
	if err != nil {
		h.handleClientError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, walks)
}

func (h *Handler) handleGetWalk(w http.ResponseWriter, r *http.Request) {
	walkID := r.PathValue("id")
	if walkID == "" {
		h.writeError(w, http.StatusBadRequest, "walk id is required")
		return
	}

	run, err := h.client.Walk(r.Context(), walkID)
	if err != nil {
		h.handleClientError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, run)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) handleClientError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, walk.ErrInvalidProfile),
		errors.Is(err, walk.ErrUnknownProfile),
		errors.Is(err, walk.ErrInvalidStepCount),
		errors.Is(err, walk.ErrUnknownStartSyllable):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case strings.Contains(err.Error(), "not found"):
		h.writeError(w, http.StatusNotFound, err.Error())
	case strings.Contains(err.Error(), "is required"),
		strings.Contains(err.Error(), "use either"):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("internal error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
