package utils

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// IDParam returns the {id} path parameter in canonical form. ok is false
// when it is not a UUID, so no record can match it.
func IDParam(r *http.Request) (id string, ok bool) {
	parsed, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
