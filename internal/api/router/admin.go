package router

import (
	"net/http"

	admin "github.com/mirtitov/library-catalog/internal/api/handlers/admin"
	"github.com/mirtitov/library-catalog/internal/api/handlers/books"
	adminstore "github.com/mirtitov/library-catalog/internal/store/admin"
)

// mountAdmin wires all /api/v1/admin/* endpoints behind the admin gate.
func mountAdmin(mux *http.ServeMux, d Deps, bh *books.Handler, gate func(http.Handler) http.Handler) {
	adminH := admin.NewHandler(adminstore.New(d.DB), d.Cache, d.RDB)

	// Users management
	mux.Handle("GET /api/v1/admin/users", gate(http.HandlerFunc(adminH.ListUsers)))
	mux.Handle("GET /api/v1/admin/users/{id}", gate(http.HandlerFunc(adminH.GetUser)))
	mux.Handle("PATCH /api/v1/admin/users/{id}/role", gate(http.HandlerFunc(adminH.SetRole)))
	mux.Handle("POST /api/v1/admin/users/{id}/activate", gate(http.HandlerFunc(adminH.Activate)))
	mux.Handle("POST /api/v1/admin/users/{id}/deactivate", gate(http.HandlerFunc(adminH.Deactivate)))

	// Stats & audit
	mux.Handle("GET /api/v1/admin/stats", gate(http.HandlerFunc(adminH.Stats)))
	mux.Handle("GET /api/v1/admin/audit", gate(http.HandlerFunc(adminH.ListAudit)))

	// Book covers
	mux.Handle("POST /api/v1/admin/books/{id}/cover/mirror", gate(http.HandlerFunc(bh.MirrorCover)))
}
