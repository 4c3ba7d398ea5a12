// internal/httpserver/routes_daily.go
//
// HTTP route for the "Daily Challenge" mode.
//   - GET|POST /api/game/daily[?date=YYYY-MM-DD] → start a game on the date's target
//
// Everyone gets the same target on the same UTC day (date + salt, see internal/daily).
// The daily game replaces the current game like /start does; field order is still shuffled.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/borders/apps/go-server/internal/daily"
)

// DailyResponse is a GameStateResponse tagged with its date key.
type DailyResponse struct {
	GameStateResponse
	Date string `json:"date"`
}

// mountDaily registers the daily route on the game router.
func (s *Server) mountDaily(r chi.Router) {
	r.Get("/daily", s.handleDaily)
	r.Post("/daily", s.handleDaily)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	date := s.now().UTC()
	if q := r.URL.Query().Get("date"); q != "" {
		d, err := time.Parse(time.DateOnly, q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = d
	}

	v, err := s.svc.StartDaily(r.Context(), date)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DailyResponse{
		GameStateResponse: GameStateResponse{
			Success:   true,
			Message:   "Daily challenge started",
			GameState: v,
		},
		Date: daily.DateKey(date),
	})
}
