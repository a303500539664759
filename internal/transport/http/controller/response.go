package controller

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/arclight-news/newsline-core/internal/domain"
)

// listEnvelope is the {data, pagination} shape returned by every
// paginated list endpoint.
type listEnvelope struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func writeJSON(r *http.Request, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		domain.LoggerFromContext(r.Context()).ErrorContext(r.Context(), "failed to encode response body", "error", err)
	}
}

func writeList(r *http.Request, w http.ResponseWriter, data any, pagination Pagination) {
	writeJSON(r, w, http.StatusOK, listEnvelope{Data: data, Pagination: pagination})
}

// writeError maps a domain sentinel error to an HTTP status code and
// writes a {"error": "..."} body, logging server-side failures.
func writeError(r *http.Request, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrBadInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNuclearConfirmationRequired):
		status = http.StatusPreconditionFailed
	case errors.Is(err, domain.ErrIndexUnavailable), errors.Is(err, domain.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrVectorDimMismatch):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		domain.LoggerFromContext(r.Context()).ErrorContext(r.Context(), "request failed",
			"error", err, "requestId", domain.RequestIDFromContext(r.Context()))
	}

	writeJSON(r, w, status, map[string]string{"error": err.Error()})
}
