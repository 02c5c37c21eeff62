package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/asandov/tripmarket/internal/domain"
	"github.com/asandov/tripmarket/internal/middleware"
)

// uuidParam extracts and parses a UUID path parameter.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a valid UUID", name)
	}
	return id, nil
}

// decodeBody decodes the JSON request body into v, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// currentUser returns the authenticated user id placed in the request context
// by the auth middleware.
func currentUser(r *http.Request) (uuid.UUID, bool) {
	return middleware.UserID(r.Context())
}

// paginationFrom builds PaginationParams from ?page= and ?limit= query values.
// Unparseable values are ignored and fall back to the defaults.
func paginationFrom(r *http.Request) domain.PaginationParams {
	return domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
}

func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
