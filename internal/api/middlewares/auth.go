package middlewares

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/mirtitov/library-catalog/internal/api/apperr"
	jwtutil "github.com/mirtitov/library-catalog/internal/security/jwt"
)

// RequireAuth verifies the Bearer access token, loads the user's current role
// and active flag from the DB, and injects both into the request context.
// Role changes and deactivation take effect on the next request, not at the
// next token refresh.
func RequireAuth(db *sql.DB, tokens *jwtutil.Manager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		if raw == "" {
			apperr.WriteStatus(w, r, http.StatusUnauthorized, "Unauthorized", "missing Authorization header")
			return
		}
		tokenStr, err := bearer(raw)
		if err != nil {
			apperr.WriteStatus(w, r, http.StatusUnauthorized, "Unauthorized", "invalid Authorization header")
			return
		}
		claims, err := tokens.Parse(tokenStr)
		if err != nil || claims.Type != jwtutil.TypeAccess {
			apperr.WriteStatus(w, r, http.StatusUnauthorized, "Unauthorized", "invalid token")
			return
		}

		var role string
		var active bool
		err = db.QueryRowContext(r.Context(),
			`SELECT role, is_active FROM users WHERE user_id = $1`, claims.Subject).Scan(&role, &active)
		if err != nil {
			apperr.WriteStatus(w, r, http.StatusUnauthorized, "Unauthorized", "user not found")
			return
		}
		if !active {
			apperr.WriteStatus(w, r, http.StatusForbidden, "Forbidden", "account is disabled")
			return
		}

		ctx := WithUserID(r.Context(), claims.Subject)
		ctx = WithRole(ctx, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearer(h string) (string, error) {
	if !strings.HasPrefix(h, "Bearer ") && !strings.HasPrefix(h, "bearer ") {
		return "", errors.New("no bearer")
	}
	return strings.TrimSpace(h[len("Bearer "):]), nil
}
