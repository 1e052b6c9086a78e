package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/masmgr/gamerules/internal/rules"
	"github.com/masmgr/gamerules/internal/tags"
)

func bin(low int) tags.Item {
	return tags.BinItem(tags.ReviewBin{Low: low, High: low + tags.BinWidth})
}

func testTable() *rules.Table {
	return &rules.Table{
		Transactions: 1000,
		Rules: []rules.Rule{
			rules.Restore(tags.NewItemSet(bin(80), tags.ThemeItem("Horror")), tags.NewItemSet(tags.GenreItem("Survival")), 0.028, 0.93, 3.5, 28, 27),
			rules.Restore(tags.NewItemSet(bin(80)), tags.NewItemSet(tags.GenreItem("Roguelike")), 0.05, 0.6, 1.2, 50, 49),
			rules.Restore(tags.NewItemSet(bin(60), tags.GenreItem("Survival")), tags.NewItemSet(tags.ThemeItem("Horror")), 0.031, 0.7, 2.1, 31, 30),
			rules.Restore(tags.NewItemSet(bin(40), tags.ThemeItem("Space")), tags.NewItemSet(tags.GenreItem("Action")), 0.013, 0.55, 0.8, 13, 12),
		},
	}
}

func newTestServer(t *testing.T, cfg MiddlewareConfig) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(NewHandler(testTable(), "rules.csv", "test"), cfg))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, rawURL string, dst interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(rawURL)
	if err != nil {
		t.Fatalf("GET %s: %v", rawURL, err)
	}
	defer resp.Body.Close()
	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			t.Fatalf("decode %s: %v", rawURL, err)
		}
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, DefaultMiddlewareConfig())

	var body HealthResponse
	resp := getJSON(t, srv.URL+"/api/v1/health", &body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body.Status != "healthy" || body.Rules != 4 || body.Transactions != 1000 || body.Source != "rules.csv" {
		t.Errorf("body = %+v", body)
	}
}

func TestRules(t *testing.T) {
	srv := newTestServer(t, DefaultMiddlewareConfig())

	tests := []struct {
		name        string
		query       url.Values
		wantMatched int
		wantFirst   string
	}{
		{
			name:        "no parameters returns every rule",
			query:       url.Values{},
			wantMatched: 4,
			wantFirst:   "Horror, Review Score: 80-85",
		},
		{
			name:        "theme on either side",
			query:       url.Values{"theme": {"Horror"}},
			wantMatched: 2,
			wantFirst:   "Horror, Review Score: 80-85",
		},
		{
			name:        "theme must lead when direction is themes to genres",
			query:       url.Values{"theme": {"Horror"}, "direction": {"themes>genres"}},
			wantMatched: 1,
			wantFirst:   "Horror, Review Score: 80-85",
		},
		{
			name:        "direction without selection",
			query:       url.Values{"direction": {"genres>themes"}},
			wantMatched: 1,
			wantFirst:   "Review Score: 60-65, Survival",
		},
		{
			name:        "lift range",
			query:       url.Values{"min_lift": {"1"}, "max_lift": {"3"}},
			wantMatched: 2,
			wantFirst:   "Review Score: 80-85",
		},
		{
			name:        "review score applies to bin lower bound",
			query:       url.Values{"min_score": {"50"}},
			wantMatched: 3,
			wantFirst:   "Horror, Review Score: 80-85",
		},
		{
			name:        "sorted by occurrences and limited",
			query:       url.Values{"sort": {"occurrences"}, "top": {"1"}},
			wantMatched: 4,
			wantFirst:   "Review Score: 80-85",
		},
		{
			name:        "unknown theme matches nothing",
			query:       url.Values{"theme": {"Pirates"}},
			wantMatched: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body RulesResponse
			resp := getJSON(t, srv.URL+"/api/v1/rules?"+tt.query.Encode(), &body)

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if body.MatchedRules != tt.wantMatched {
				t.Errorf("matchedRules = %d, want %d", body.MatchedRules, tt.wantMatched)
			}
			if body.TotalRules != 4 {
				t.Errorf("totalRules = %d, want 4", body.TotalRules)
			}
			if body.Items == nil {
				t.Fatal("items is null")
			}
			if tt.wantFirst != "" && (len(body.Items) == 0 || body.Items[0].AntecedentsLabel != tt.wantFirst) {
				t.Errorf("first antecedents = %+v, want %q", body.Items, tt.wantFirst)
			}
		})
	}
}

func TestRules_TopLimitsItemsOnly(t *testing.T) {
	srv := newTestServer(t, DefaultMiddlewareConfig())

	var body RulesResponse
	getJSON(t, srv.URL+"/api/v1/rules?sort=lift&top=2", &body)

	if len(body.Items) != 2 || body.MatchedRules != 4 {
		t.Fatalf("items = %d, matched = %d", len(body.Items), body.MatchedRules)
	}
	if body.Items[0].Lift != 3.5 || body.Items[1].Lift != 2.1 {
		t.Errorf("lifts = %v, %v", body.Items[0].Lift, body.Items[1].Lift)
	}
}

func TestRules_Problems(t *testing.T) {
	srv := newTestServer(t, DefaultMiddlewareConfig())

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantField  string
	}{
		{name: "malformed number", query: "min_lift=abc", wantStatus: http.StatusBadRequest},
		{name: "malformed top", query: "top=1.5", wantStatus: http.StatusBadRequest},
		{name: "confidence above one", query: "min_confidence=2", wantStatus: http.StatusUnprocessableEntity, wantField: "min_confidence"},
		{name: "inverted lift range", query: "min_lift=3&max_lift=1", wantStatus: http.StatusUnprocessableEntity, wantField: "max_lift"},
		{name: "score above 100", query: "max_score=120", wantStatus: http.StatusUnprocessableEntity, wantField: "max_score"},
		{name: "unknown direction", query: "direction=sideways", wantStatus: http.StatusUnprocessableEntity, wantField: "direction"},
		{name: "unknown sort key", query: "sort=name", wantStatus: http.StatusUnprocessableEntity, wantField: "sort"},
		{name: "negative top", query: "top=-1", wantStatus: http.StatusUnprocessableEntity, wantField: "top"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body ProblemWithErrors
			resp := getJSON(t, srv.URL+"/api/v1/rules?"+tt.query, &body)

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if ct := resp.Header.Get("Content-Type"); ct != problemContentType {
				t.Errorf("Content-Type = %q, want %q", ct, problemContentType)
			}
			if body.Status != tt.wantStatus || body.Instance != "/api/v1/rules" {
				t.Errorf("problem = %+v", body.Problem)
			}
			if tt.wantField == "" {
				return
			}
			found := false
			for _, fe := range body.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("errors = %+v, want field %q", body.Errors, tt.wantField)
			}
		})
	}
}

func TestTags(t *testing.T) {
	srv := newTestServer(t, DefaultMiddlewareConfig())

	var body TagsResponse
	getJSON(t, srv.URL+"/api/v1/tags", &body)

	if strings.Join(body.Themes, ",") != "Horror,Space" {
		t.Errorf("themes = %v", body.Themes)
	}
	if strings.Join(body.Genres, ",") != "Action,Roguelike,Survival" {
		t.Errorf("genres = %v", body.Genres)
	}
}

func TestTags_EmptyTable(t *testing.T) {
	srv := httptest.NewServer(NewRouter(NewHandler(&rules.Table{}, "empty", "test"), DefaultMiddlewareConfig()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/tags")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["themes"]) != "[]" || string(raw["genres"]) != "[]" {
		t.Errorf("body = %s / %s, want empty arrays", raw["themes"], raw["genres"])
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, DefaultMiddlewareConfig())

	var body Problem
	resp := getJSON(t, srv.URL+"/api/v1/nothing", &body)
	if resp.StatusCode != http.StatusNotFound || body.Title != "Not Found" {
		t.Errorf("status = %d, problem = %+v", resp.StatusCode, body)
	}

	post, err := http.Post(srv.URL+"/api/v1/rules", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", post.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, DefaultMiddlewareConfig())

	getJSON(t, srv.URL+"/api/v1/rules", nil)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "gamerules_rules_loaded 4") {
		t.Error("metrics output missing gamerules_rules_loaded")
	}
}
