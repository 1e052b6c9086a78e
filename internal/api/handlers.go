package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/masmgr/gamerules/internal/filter"
	"github.com/masmgr/gamerules/internal/logging"
	"github.com/masmgr/gamerules/internal/metrics"
	"github.com/masmgr/gamerules/internal/output"
	"github.com/masmgr/gamerules/internal/rules"
	"github.com/masmgr/gamerules/internal/validation"
)

// Handler serves a rule table. The table is read-only after construction so
// requests can filter it concurrently.
type Handler struct {
	table   *rules.Table
	source  string
	version string
	loaded  time.Time
}

// NewHandler creates a Handler for the given rule table.
func NewHandler(table *rules.Table, source, version string) *Handler {
	metrics.SetRuleTable(table.Len(), table.Transactions)
	return &Handler{
		table:   table,
		source:  source,
		version: version,
		loaded:  time.Now().UTC(),
	}
}

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	Source       string `json:"source"`
	Rules        int    `json:"rules"`
	Transactions int    `json:"transactions"`
	LoadedAt     string `json:"loadedAt"`
}

// RulesResponse is the body of GET /api/v1/rules.
type RulesResponse struct {
	Filter       string            `json:"filter"`
	Transactions int               `json:"transactions"`
	TotalRules   int               `json:"totalRules"`
	MatchedRules int               `json:"matchedRules"`
	Items        []output.JSONRule `json:"items"`
}

// TagsResponse is the body of GET /api/v1/tags.
type TagsResponse struct {
	Themes []string `json:"themes"`
	Genres []string `json:"genres"`
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:       "healthy",
		Version:      h.version,
		Source:       h.source,
		Rules:        h.table.Len(),
		Transactions: h.table.Transactions,
		LoadedAt:     h.loaded.Format(time.RFC3339),
	})
}

// Rules handles GET /api/v1/rules
func (h *Handler) Rules(w http.ResponseWriter, r *http.Request) {
	q, err := parseRulesQuery(r.URL.Query())
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.Struct(&q); err != nil {
		var errs validation.Errors
		if errors.As(err, &errs) {
			WriteValidationProblem(w, r, errs)
			return
		}
		WriteProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}

	predicates, err := q.Predicates()
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	key, err := q.SortKey()
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	matched := filter.Apply(h.table.Rules, predicates)
	metrics.RecordFilter(time.Since(start), len(matched))

	items := rules.Sorted(matched, key)
	if q.Top > 0 && q.Top < len(items) {
		items = items[:q.Top]
	}

	writeJSON(w, http.StatusOK, RulesResponse{
		Filter:       predicates.Describe(),
		Transactions: h.table.Transactions,
		TotalRules:   h.table.Len(),
		MatchedRules: len(matched),
		Items:        output.NewJSONRules(items),
	})
}

// Tags handles GET /api/v1/tags
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	resp := TagsResponse{Themes: []string{}, Genres: []string{}}
	for _, th := range h.table.AvailableThemes() {
		resp.Themes = append(resp.Themes, string(th))
	}
	for _, g := range h.table.AvailableGenres() {
		resp.Genres = append(resp.Genres, string(g))
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("failed to encode response")
	}
}
