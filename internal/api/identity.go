package api

import (
	"context"
	"net/http"
	"strings"
)

type candidateKey struct{}

// WithCandidateID stores the authenticated candidate identifier in ctx.
func WithCandidateID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, candidateKey{}, id)
}

// CandidateID returns the identifier stored by WithCandidateID.
func CandidateID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(candidateKey{}).(string)
	return id, ok && id != ""
}

// identity rejects requests without a candidate identifier.
func identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(CandidateHeader))
		if id == "" {
			respondError(w, http.StatusUnauthorized, "missing candidate identity")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithCandidateID(r.Context(), id)))
	})
}
