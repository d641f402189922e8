package middlewares

import (
	"net/http"

	"github.com/mirtitov/library-catalog/internal/api/apperr"
	"github.com/mirtitov/library-catalog/internal/models"
)

// RequireAdmin gates a handler on the role RequireAuth put in the context.
// Must run inside RequireAuth; a missing role means the chain is miswired.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := RoleFrom(r.Context())
		if !ok {
			apperr.WriteStatus(w, r, http.StatusUnauthorized, "Unauthorized", "authentication required")
			return
		}
		if role != models.RoleAdmin {
			apperr.WriteStatus(w, r, http.StatusForbidden, "Forbidden", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
