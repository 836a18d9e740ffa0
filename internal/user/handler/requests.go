package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"clearusers/internal/user/models"
	"clearusers/pkg/problem"
)

// decodeBody unmarshals the request body into dst. A body that is not valid
// JSON for the target shape is a validation failure of the request as a
// whole, reported as a single request-global problem.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return problem.FailedValidation(problem.Problem{
			Message: "Malformed request body.",
		})
	}
	return nil
}

// userIDParam parses the {userId} path parameter.
func userIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "userId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, problem.WrongParameter("userId", "positive integer", raw)
	}
	return id, nil
}

// dateParam parses a required YYYY-MM-DD query parameter.
func dateParam(r *http.Request, name string) (models.Date, error) {
	raw := r.URL.Query().Get(name)
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, problem.WrongParameter(name, "date in format YYYY-MM-DD", raw)
	}
	return d, nil
}
