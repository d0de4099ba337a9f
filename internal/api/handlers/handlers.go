package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/taskforge/taskforge/internal/apperr"
)

// decodeBody reads a JSON object body into a raw map for the validation
// layer. Numbers are kept as json.Number so nothing is silently coerced.
func decodeBody(r *http.Request) (map[string]any, error) {
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	raw := make(map[string]any)
	if err := decoder.Decode(&raw); err != nil {
		return nil, apperr.Validation([]apperr.FieldError{
			{Field: "body", Message: "Request body must be a JSON object"},
		})
	}
	return raw, nil
}

// queryMap flattens the query string into the raw shape the validation layer
// expects, keeping the first value of each key.
func queryMap(r *http.Request) map[string]any {
	values := r.URL.Query()
	raw := make(map[string]any, len(values))
	for key := range values {
		raw[key] = values.Get(key)
	}
	return raw
}
