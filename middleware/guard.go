package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/contactbook/authcore"
)

type principalContextKey struct{}

// PrincipalFromContext returns the principal injected by Guard.
func PrincipalFromContext(ctx context.Context) (*authcore.Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*authcore.Principal)
	return p, ok
}

// Guard rejects requests without a valid session bearer token and passes
// the resolved principal to the next handler via the request context.
// Every rejection is a uniform 401; a transient store failure is a 503.
func Guard(engine *authcore.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			bearer, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			p, err := engine.ResolveBearer(r.Context(), bearer)
			if err != nil {
				if errors.Is(err, authcore.ErrStoreUnavailable) {
					http.Error(w, "service unavailable", http.StatusServiceUnavailable)
					return
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), principalContextKey{}, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireVerified layers the verified-account gate on top of Guard. An
// authenticated but unverified principal gets a 403 with a distinct
// body, so clients can prompt for re-verification instead of re-login.
func RequireVerified(engine *authcore.Engine) func(http.Handler) http.Handler {
	guard := Guard(engine)
	return func(next http.Handler) http.Handler {
		return guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if _, err := engine.RequireVerified(p); err != nil {
				http.Error(w, "email verification required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
