// Package httputil centralizes JSON response writing so every handler emits
// the same success and failure shapes.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"clearusers/pkg/problem"
)

// ProblemDetails is the RFC 7807 payload returned for every failed request,
// extended with the per-cause problemDetails list. Empty members are omitted
// entirely; no explicit nulls are emitted.
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Problems []problem.Problem `json:"problemDetails,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError translates any error into the uniform problem payload. Taxonomy
// errors map via their own status and category label; anything else is an
// unexpected fault and surfaces as a bare 500 with no internal detail.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	pd := ProblemDetails{
		Type:     "about:blank",
		Status:   http.StatusInternalServerError,
		Title:    http.StatusText(http.StatusInternalServerError),
		Instance: r.URL.Path,
	}

	var pErr *problem.Error
	if errors.As(err, &pErr) {
		pd.Status = pErr.Status
		pd.Title = http.StatusText(pErr.Status)
		pd.Detail = pErr.Detail
		pd.Problems = pErr.Problems
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(pd.Status)
	_ = json.NewEncoder(w).Encode(pd)
}
