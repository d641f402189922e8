package middlewares

import "net/http"

// HPP collapses duplicated query parameters (first value wins) and drops
// ones outside the whitelist. The API is JSON-only, so form bodies are
// never inspected.
func HPP(whitelist []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(whitelist))
	for _, w := range whitelist {
		allowed[w] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()
			changed := false
			for k, v := range query {
				if len(v) > 1 {
					query.Set(k, v[0])
					changed = true
				}
				if _, ok := allowed[k]; !ok {
					query.Del(k)
					changed = true
				}
			}
			if changed {
				r.URL.RawQuery = query.Encode()
			}
			next.ServeHTTP(w, r)
		})
	}
}

// QueryParams is every query parameter the /api/v1 surface reads.
func QueryParams() []string {
	return []string{
		// books
		"title", "author", "genre", "year", "yearFrom", "yearTo",
		"available", "page", "pageSize", "enrich",
		// admin
		"query", "role", "active", "size",
		"actor_id", "target_id", "action", "since", "until",
	}
}
