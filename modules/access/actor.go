package access

import (
	"context"
	"net/http"

	"github.com/lcflow/accesskit/pkg/handler"
)

var actorCtxKey = handler.NewContextKey("access.actor")

// actorHeader carries the acting user's id when no middleware has resolved
// it into the context. An authenticating reverse proxy or gateway sets it.
const actorHeader = "X-Actor-ID"

// WithActor returns a context carrying the acting user's id. Authentication
// middleware calls this after verifying the session or token.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorCtxKey, actorID)
}

// ActorID resolves the acting user for a request. Context values set by
// middleware win over the header fallback. Empty means unauthenticated.
func ActorID(r *http.Request) string {
	if id := handler.ContextValue[string](r.Context(), actorCtxKey); id != "" {
		return id
	}
	return r.Header.Get(actorHeader)
}

// ActorFromContext reports the acting user stored in the context, if any.
// Shaped to plug into extractor hooks such as audit.WithActorIDExtractor.
func ActorFromContext(ctx context.Context) (string, bool) {
	id := handler.ContextValue[string](ctx, actorCtxKey)
	return id, id != ""
}

// actorMiddleware lifts the actor header into the request context so context
// consumers outside the handlers, audit extractors included, see the same
// identity. Values set by earlier authentication middleware win.
func actorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFromContext(r.Context()); !ok {
			if id := r.Header.Get(actorHeader); id != "" {
				r = r.WithContext(WithActor(r.Context(), id))
			}
		}
		next.ServeHTTP(w, r)
	})
}
