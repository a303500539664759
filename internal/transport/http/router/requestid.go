package router

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/arclight-news/newsline-core/internal/domain"
)

const requestIDHeader = "x-request-id"

// requestIDMiddleware attaches a request ID to the context of every
// request — the caller's own x-request-id header if present, otherwise
// a freshly generated uuid — so LoggerFromContext calls downstream can
// be correlated back to a single request.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		ctx := domain.ContextWithRequestID(r.Context(), id)
		logger := domain.LoggerFromContext(ctx).With("requestId", id)
		ctx = domain.ContextWithLogger(ctx, logger)

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
