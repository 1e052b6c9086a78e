package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/masmgr/gamerules/internal/logging"
	"github.com/masmgr/gamerules/internal/validation"
)

const problemContentType = "application/problem+json"

// Problem represents an RFC 7807 Problem Details response.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

// ProblemWithErrors extends Problem with validation error details.
type ProblemWithErrors struct {
	Problem
	Errors validation.Errors `json:"errors,omitempty"`
}

var problemTypes = map[int]struct {
	typeURI string
	title   string
}{
	http.StatusBadRequest: {
		typeURI: "https://gamerules.dev/errors/bad-request",
		title:   "Bad Request",
	},
	http.StatusNotFound: {
		typeURI: "https://gamerules.dev/errors/not-found",
		title:   "Not Found",
	},
	http.StatusMethodNotAllowed: {
		typeURI: "https://gamerules.dev/errors/method-not-allowed",
		title:   "Method Not Allowed",
	},
	http.StatusUnprocessableEntity: {
		typeURI: "https://gamerules.dev/errors/validation-error",
		title:   "Validation Error",
	},
	http.StatusTooManyRequests: {
		typeURI: "https://gamerules.dev/errors/rate-limit",
		title:   "Too Many Requests",
	},
	http.StatusInternalServerError: {
		typeURI: "https://gamerules.dev/errors/internal-error",
		title:   "Internal Server Error",
	},
}

func newProblem(r *http.Request, status int, detail string) Problem {
	pt, ok := problemTypes[status]
	if !ok {
		pt.typeURI = "about:blank"
		pt.title = http.StatusText(status)
	}
	return Problem{
		Type:     pt.typeURI,
		Title:    pt.title,
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
	}
}

// WriteProblem writes an RFC 7807 Problem Details response.
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	writeProblemBody(w, status, newProblem(r, status, detail))
}

// WriteValidationProblem writes a 422 Problem Details response with field errors.
func WriteValidationProblem(w http.ResponseWriter, r *http.Request, errs validation.Errors) {
	p := ProblemWithErrors{
		Problem: newProblem(r, http.StatusUnprocessableEntity, "Query contains invalid parameters"),
		Errors:  errs,
	}
	writeProblemBody(w, http.StatusUnprocessableEntity, p)
}

func writeProblemBody(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("failed to encode problem response")
	}
}
