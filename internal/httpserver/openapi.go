package httpserver

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	OK bool `json:"ok"`
}

// CatalogStats summarizes the loaded territory catalog.
type CatalogStats struct {
	Territories int `json:"territories"`
	Eligible    int `json:"eligible"`
	Dangling    int `json:"dangling_borders"`
}

type bannerResponse struct {
	Service   string   `json:"service"`
	Endpoints []string `json:"endpoints"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Borders API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the border quiz: name every territory bordering the target.")

	// GET /health
	getHealth, _ := r.NewOperationContext(http.MethodGet, "/health")
	getHealth.SetSummary("Health check")
	getHealth.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHealth)

	// POST /api/game/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/game/start")
	postStart.SetSummary("Start game")
	postStart.SetDescription("Starts a new game on a random territory with at least three borders. Replaces any current game. Also served on GET.")
	postStart.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(postStart)

	// GET /api/game/current
	getCurrent, _ := r.NewOperationContext(http.MethodGet, "/api/game/current")
	getCurrent.SetSummary("Current game")
	getCurrent.SetDescription("Returns the current game without its answers.")
	getCurrent.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getCurrent.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getCurrent)

	// POST /api/game/update-field
	postUpdate, _ := r.NewOperationContext(http.MethodPost, "/api/game/update-field")
	postUpdate.SetSummary("Update field")
	postUpdate.SetDescription("Submits a guess for one field. Matching ignores case and surrounding whitespace; an empty name clears the field.")
	postUpdate.AddReqStructure(UpdateFieldRequest{})
	postUpdate.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postUpdate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postUpdate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postUpdate)

	// POST /api/game/suggestions
	postSuggest, _ := r.NewOperationContext(http.MethodPost, "/api/game/suggestions")
	postSuggest.SetSummary("Suggest names")
	postSuggest.SetDescription("Autocompletes territory names: prefix matches first, then substring matches. Queries shorter than two characters yield nothing.")
	postSuggest.AddReqStructure(SuggestionsRequest{})
	postSuggest.AddRespStructure(SuggestionsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSuggest.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postSuggest)

	// GET /api/game/hint
	getHint, _ := r.NewOperationContext(http.MethodGet, "/api/game/hint")
	getHint.SetSummary("Hint")
	getHint.SetDescription("Returns a clue about one field that is not yet correct.")
	getHint.AddRespStructure(HintResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHint)

	// GET /api/game/reveal
	getReveal, _ := r.NewOperationContext(http.MethodGet, "/api/game/reveal")
	getReveal.SetSummary("Reveal answers")
	getReveal.SetDescription("Returns every field with its correct answer. The game itself is unchanged.")
	getReveal.AddRespStructure(RevealResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getReveal.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getReveal)

	// POST /api/game/daily
	postDaily, _ := r.NewOperationContext(http.MethodPost, "/api/game/daily")
	postDaily.SetSummary("Start daily challenge")
	postDaily.SetDescription("Starts a game on the target of the day (UTC, or ?date=YYYY-MM-DD). Also served on GET.")
	postDaily.AddRespStructure(DailyResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postDaily.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postDaily)

	// GET /debug/catalog
	getCatalog, _ := r.NewOperationContext(http.MethodGet, "/debug/catalog")
	getCatalog.SetSummary("Catalog counts")
	getCatalog.AddRespStructure(CatalogStats{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getCatalog)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
