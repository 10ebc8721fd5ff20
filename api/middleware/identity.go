package middleware

import (
	"net/http"
	"strings"

	pkgAuth "github.com/tripmate-app/tripmate-backend/pkg/auth"
	"github.com/tripmate-app/tripmate-backend/pkg/config"
	"github.com/tripmate-app/tripmate-backend/pkg/logger"
)

// Identity decodes an optional bearer token and seeds the request context.
// A request without an Authorization header proceeds with no identity at all;
// a header that is present but cannot be decoded falls back to the fixed
// anonymous identity so the guest paths keep working with stale or foreign
// tokens. Endpoints that require an identity reject its absence themselves.
func Identity(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}

			identity := pkgAuth.Anonymous
			if token != "" {
				if claims, err := pkgAuth.ParseAccessToken(cfg, token); err == nil {
					identity = claims.Identity()
				}
			}

			ctx := WithIdentity(r.Context(), identity)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    identity.ID.String(),
					"actor_role": identity.Role,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
