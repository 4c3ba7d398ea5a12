// internal/httpserver/routes_game.go
//
// HTTP routes for the border quiz, mounted under /api/game:
//   - GET|POST /start          → start a new game on a random target
//   - GET      /current        → sanitized state of the current game
//   - POST     /update-field   → submit (or clear) one answer slot
//   - POST     /suggestions    → autocomplete territory names
//   - GET      /hint           → clue about one unsolved slot
//   - GET      /reveal         → every correct answer
//
// The engine returns structured results; the prose shown to the player is built here.

package httpserver

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/borders/apps/go-server/internal/game"
)

const (
	defaultSuggestLimit = 10
	maxSuggestLimit     = 50
)

// GameStateResponse wraps a sanitized game view.
type GameStateResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	GameState game.View `json:"game_state"`
}

// UpdateFieldRequest is the payload of POST /api/game/update-field.
// An empty CountryName clears the slot.
type UpdateFieldRequest struct {
	FieldID     *int   `json:"field_id" required:"true"`
	CountryName string `json:"country_name"`
}

// SuggestionsRequest is the payload of POST /api/game/suggestions.
// Limit defaults to 10 when omitted.
type SuggestionsRequest struct {
	Query string `json:"query" required:"true"`
	Limit *int   `json:"limit,omitempty"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type HintResponse struct {
	Hint string `json:"hint"`
}

type RevealResponse struct {
	Success         bool        `json:"success"`
	RevealedAnswers game.Reveal `json:"revealed_answers"`
}

// mountGame registers all /api/game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Get("/start", s.handleStart)
	r.Post("/start", s.handleStart)
	r.Get("/current", s.handleCurrent)
	r.Post("/update-field", s.handleUpdateField)
	r.Post("/suggestions", s.handleSuggestions)
	r.Get("/hint", s.handleHint)
	r.Get("/reveal", s.handleReveal)
	s.mountDaily(r)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Start(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GameStateResponse{
		Success:   true,
		Message:   "Game started successfully",
		GameState: v,
	})
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Current(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GameStateResponse{
		Success:   true,
		Message:   "Current game state retrieved successfully",
		GameState: v,
	})
}

func (s *Server) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	var req UpdateFieldRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.FieldID == nil {
		writeError(w, http.StatusBadRequest, "field_id is required")
		return
	}

	v, err := s.svc.UpdateField(r.Context(), *req.FieldID, req.CountryName)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GameStateResponse{
		Success:   true,
		Message:   updateMessage(v, *req.FieldID, req.CountryName),
		GameState: v,
	})
}

// updateMessage describes the outcome of an update to field id.
func updateMessage(v game.View, id int, input string) string {
	f, ok := v.Field(id)
	switch {
	case !ok:
		return "Field updated."
	case f.IsCorrect && v.Remaining() == 0:
		return "🎉 Congratulations! You completed all countries!"
	case f.IsCorrect:
		return fmt.Sprintf("✅ Correct! %d more to go.", v.Remaining())
	case f.IsFilled:
		return fmt.Sprintf("❌ '%s' doesn't border %s.", input, v.TargetName)
	default:
		return "Field cleared."
	}
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var req SuggestionsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	limit := defaultSuggestLimit
	if req.Limit != nil {
		limit = min(*req.Limit, maxSuggestLimit)
	}
	writeJSON(w, http.StatusOK, SuggestionsResponse{Suggestions: s.svc.Suggest(req.Query, limit)})
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	hint, err := s.svc.Hint(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, HintResponse{Hint: hint})
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	rev, err := s.svc.Reveal(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RevealResponse{Success: true, RevealedAnswers: rev})
}
