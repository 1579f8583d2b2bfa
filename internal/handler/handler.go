// Package handler exposes the tutor engine over HTTP: the JSON turn
// endpoint, a health probe, and static audio serving. All decision logic
// lives in the tutor package; this layer only translates the wire shape.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jtown42/heartsoundtutorstatic/internal/i18n"
	"github.com/jtown42/heartsoundtutorstatic/internal/model"
	"github.com/jtown42/heartsoundtutorstatic/internal/tutor"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	engine    *tutor.Engine
	soundsDir string
	live      bool // a phrasing adapter is configured
}

// New creates a new Handler. live reports whether the generative phrasing
// adapter is wired in, which the health endpoint surfaces as ai_mode.
func New(engine *tutor.Engine, soundsDir string, live bool) *Handler {
	return &Handler{engine: engine, soundsDir: soundsDir, live: live}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/case_api", h.handleTurn)
	r.Get("/health", h.handleHealth)
	r.Get("/sounds/*", h.handleSounds)
}

// turnRequest is the wire shape of one learner turn, unchanged from the
// static client: counters round-trip through the browser.
type turnRequest struct {
	State     string        `json:"state"`
	Item      model.RawCase `json:"item"`
	UserMsg   string        `json:"user_msg"`
	Attempts  int           `json:"attempts"`
	HintLevel int           `json:"hint_level"`
	ChoiceKey string        `json:"choice_key"`
}

type turnResponse struct {
	Text      string            `json:"text"`
	Audio     *string           `json:"audio"`
	Choices   []model.MCQOption `json:"choices"`
	NextState string            `json:"next_state"`
	HintLevel int               `json:"hint_level"`
	Attempts  int               `json:"attempts"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	resp, err := h.engine.HandleTurn(r.Context(), model.TurnRequest{
		State:       model.State(req.State),
		Item:        req.Item,
		UserMessage: strings.TrimSpace(req.UserMsg),
		Attempts:    req.Attempts,
		HintLevel:   req.HintLevel,
		ChoiceKey:   req.ChoiceKey,
	})
	if err != nil {
		// Never leak partial case data on a configuration fault.
		slog.Error("turn failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: i18n.T(r.Context(), "TutorUnavailable"),
		})
		return
	}

	out := turnResponse{
		Text:      resp.Text,
		Choices:   resp.Choices,
		NextState: string(resp.NextState),
		HintLevel: resp.HintLevel,
		Attempts:  resp.Attempts,
	}
	if resp.Audio != "" {
		url := "/" + strings.TrimPrefix(resp.Audio, "/")
		out.Audio = &url
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	mode := "mock"
	if h.live {
		mode = "live"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ai_mode":    mode,
		"key_loaded": h.live,
	})
}

func (h *Handler) handleSounds(w http.ResponseWriter, r *http.Request) {
	fs := http.StripPrefix("/sounds/", http.FileServer(http.Dir(h.soundsDir)))
	fs.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
