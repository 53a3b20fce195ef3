package session

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/neomorfeo/orderguard/internal/domain"
)

type contextKey string

const actorContextKey contextKey = "session.actor"

// WithActor stores a verified actor in the context.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// ActorFromContext returns the verified actor for the request, if any.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(domain.Actor)
	return actor, ok
}

// Middleware attaches the actor from a valid bearer token to the request
// context. Requests without a valid token pass through anonymously; handlers
// decide whether an actor is required.
func (i *Issuer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		actor, err := i.Verify(token)
		if err != nil {
			slog.DebugContext(r.Context(), "rejected session token", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
